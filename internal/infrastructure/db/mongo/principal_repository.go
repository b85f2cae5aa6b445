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
	principalCollection = "principals"

	indexPrincipalEmail    = "uniq_principal_email"
	indexPrincipalUsername = "uniq_principal_username"
)

type PrincipalRepository struct {
	coll *mongo.Collection
}

func NewPrincipalRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{coll: db.Collection(principalCollection)}
}

type mongoPrincipal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (m *mongoPrincipal) toDomain() *domain.Principal {
	return &domain.Principal{
		ID:           m.ID.Hex(),
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// Create inserts a principal. The unique indexes on email and username are
// the authority on collisions.
func (r *PrincipalRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPrincipal{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		switch duplicateIndex(err, indexPrincipalEmail, indexPrincipalUsername) {
		case "":
			return nil, fmt.Errorf("insert principal: %w", err)
		case indexPrincipalUsername:
			return nil, &domain.ConflictError{Fields: []string{"username"}}
		default:
			return nil, &domain.ConflictError{Fields: []string{"email"}}
		}
	}

	created := *p
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *PrincipalRepository) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *PrincipalRepository) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *PrincipalRepository) findOne(ctx context.Context, filter bson.M) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPrincipal
	if err := r.coll.FindOne(ctx, filter).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}
	return mp.toDomain(), nil
}

// EnsureIndexes creates the unique indexes backing login-key uniqueness.
func (r *PrincipalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexPrincipalEmail).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(indexPrincipalUsername).SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
