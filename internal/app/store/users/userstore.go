// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/lexhub/internal/app/system/normalize"
	"github.com/dalemusser/lexhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// GetByEmail loads a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// SyncIdentity maps a verified external identity onto the internal user
// record, creating it on first sign-in. authReturnID is the identity
// provider's stable subject reference and is immutable once stored; repeat
// sign-ins only refresh the display name and email.
func (s *Store) SyncIdentity(ctx context.Context, authReturnID, email, fullName, authMethod string) (models.User, bool, error) {
	email = normalize.Email(email)
	fullName = normalize.Name(fullName)

	var existing models.User
	findErr := s.c.FindOne(ctx, bson.M{"auth_return_id": authReturnID}).Decode(&existing)
	now := time.Now().UTC()

	switch findErr {
	case mongo.ErrNoDocuments:
		u := models.User{
			ID:           primitive.NewObjectID(),
			FullName:     fullName,
			FullNameCI:   text.Fold(fullName),
			Email:        email,
			AuthReturnID: authReturnID,
			AuthMethod:   authMethod,
			Status:       "active",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := s.c.InsertOne(ctx, u); err != nil {
			// Two first sign-ins can race past the lookup; the unique
			// auth_return_id index decides, and the loser reads the winner.
			if wafflemongo.IsDup(err) {
				var winner models.User
				if ferr := s.c.FindOne(ctx, bson.M{"auth_return_id": authReturnID}).Decode(&winner); ferr == nil {
					return winner, false, nil
				}
			}
			return models.User{}, false, err
		}
		return u, true, nil

	case nil:
		if existing.FullName == fullName && existing.Email == email {
			return existing, false, nil
		}
		_, err := s.c.UpdateByID(ctx, existing.ID, bson.M{
			"$set": bson.M{
				"full_name":    fullName,
				"full_name_ci": text.Fold(fullName),
				"email":        email,
				"updated_at":   now,
			},
		})
		if err != nil {
			return models.User{}, false, err
		}
		existing.FullName = fullName
		existing.FullNameCI = text.Fold(fullName)
		existing.Email = email
		existing.UpdatedAt = now
		return existing, false, nil

	default:
		return models.User{}, false, findErr
	}
}

// CreateWithPassword inserts a password-auth user. Used by local/dev login
// and by admin seeding; Google accounts go through SyncIdentity instead.
func (s *Store) CreateWithPassword(ctx context.Context, fullName, email, password string) (models.User, error) {
	email = normalize.Email(email)
	fullName = normalize.Name(fullName)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		AuthReturnID: text.Fold(email),
		AuthMethod:   "password",
		PasswordHash: string(hash),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// VerifyPassword checks a password login attempt. It returns ErrNotFound
// for unknown emails and ErrWrongPassword (with the matched user, for
// audit logging) for a bad password, so callers can log the distinction
// without leaking it.
func (s *Store) VerifyPassword(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return u, ErrWrongPassword
	}
	return u, nil
}
