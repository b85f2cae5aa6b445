package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

const (
	collectionCategories = "categories"

	indexCategoryOwnerName = "uniq_category_owner_name"
)

type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection(collectionCategories)}
}

type mongoCategory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	OwnerID   primitive.ObjectID `bson:"owner_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoCategory) toDomain() *domain.Category {
	return &domain.Category{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		OwnerID:   m.OwnerID.Hex(),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// Create inserts a category and sets its ID.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, ok := objectID(c.OwnerID)
	if !ok {
		return fmt.Errorf("insert category: malformed owner id %q", c.OwnerID)
	}

	res, err := r.col.InsertOne(ctx, mongoCategory{
		Name:      c.Name,
		OwnerID:   owner,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	})
	if err != nil {
		if duplicateIndex(err, indexCategoryOwnerName) != "" {
			return domain.ErrCategoryNameTaken
		}
		return fmt.Errorf("insert category: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *CategoryRepository) FindByOwnerAndName(ctx context.Context, ownerID, name string) (*domain.Category, error) {
	owner, ok := objectID(ownerID)
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return r.findOne(ctx, bson.M{"owner_id": owner, "name": name})
}

func (r *CategoryRepository) findOne(ctx context.Context, filter bson.M) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCategory
	if err := r.col.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return mc.toDomain(), nil
}

// ListByOwner returns the owner's categories ordered by name.
func (r *CategoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	owner, ok := objectID(ownerID)
	if !ok {
		return []*domain.Category{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"owner_id": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoCategory
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	out := make([]*domain.Category, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Update writes the category's name. The owner is part of the filter so a
// write can never move a category between principals.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	oid, ok := objectID(c.ID)
	if !ok {
		return domain.ErrCategoryNotFound
	}
	owner, ok := objectID(c.OwnerID)
	if !ok {
		return domain.ErrCategoryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "owner_id": owner},
		bson.M{"$set": bson.M{"name": c.Name, "updated_at": c.UpdatedAt}},
	)
	if err != nil {
		if duplicateIndex(err, indexCategoryOwnerName) != "" {
			return domain.ErrCategoryNameTaken
		}
		return fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrCategoryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// EnsureIndexes creates the per-owner unique name index.
func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName(indexCategoryOwnerName).SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
