package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

const collectionExpenses = "expenses"

type ExpenseRepository struct {
	col *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{col: db.Collection(collectionExpenses)}
}

type mongoExpense struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Date        time.Time            `bson:"date"`
	Description string               `bson:"description,omitempty"`
	CategoryID  primitive.ObjectID   `bson:"category_id"`
	OwnerID     primitive.ObjectID   `bson:"owner_id"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func toMongoExpense(e *domain.Expense) (*mongoExpense, error) {
	amount, err := primitive.ParseDecimal128(e.Amount.StringFixed(domain.AmountScale))
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}
	category, ok := objectID(e.CategoryID)
	if !ok {
		return nil, fmt.Errorf("malformed category id %q", e.CategoryID)
	}
	owner, ok := objectID(e.OwnerID)
	if !ok {
		return nil, fmt.Errorf("malformed owner id %q", e.OwnerID)
	}
	doc := &mongoExpense{
		Amount:      amount,
		Date:        e.Date.UTC(),
		Description: e.Description,
		CategoryID:  category,
		OwnerID:     owner,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.ID != "" {
		id, ok := objectID(e.ID)
		if !ok {
			return nil, fmt.Errorf("malformed expense id %q", e.ID)
		}
		doc.ID = id
	}
	return doc, nil
}

func (m *mongoExpense) toDomain() (*domain.Expense, error) {
	amount, err := decimal.NewFromString(m.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("decode amount of expense %s: %w", m.ID.Hex(), err)
	}
	return &domain.Expense{
		ID:          m.ID.Hex(),
		Amount:      amount,
		Date:        m.Date.UTC(),
		Description: m.Description,
		CategoryID:  m.CategoryID.Hex(),
		OwnerID:     m.OwnerID.Hex(),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}, nil
}

// Create inserts an expense and sets its ID.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	doc, err := toMongoExpense(e)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid.Hex()
	}
	return nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*domain.Expense, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoExpense
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return me.toDomain()
}

// ListByOwner returns the owner's expenses, newest date first.
func (r *ExpenseRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Expense, error) {
	owner, ok := objectID(ownerID)
	if !ok {
		return []*domain.Expense{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"owner_id": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoExpense
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	out := make([]*domain.Expense, 0, len(docs))
	for i := range docs {
		e, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Update replaces the mutable fields. Last writer wins.
func (r *ExpenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	doc, err := toMongoExpense(e)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if doc.ID.IsZero() {
		return domain.ErrExpenseNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": doc.ID, "owner_id": doc.OwnerID},
		bson.M{"$set": bson.M{
			"amount":      doc.Amount,
			"date":        doc.Date,
			"description": doc.Description,
			"category_id": doc.CategoryID,
			"updated_at":  doc.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrExpenseNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// DeleteByCategory removes every expense filed under categoryID.
func (r *ExpenseRepository) DeleteByCategory(ctx context.Context, categoryID string) (int64, error) {
	oid, ok := objectID(categoryID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"category_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete expenses by category: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the owner and category lookup indexes.
func (r *ExpenseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
