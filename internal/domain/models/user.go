// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an authenticated person in LexHub.
//
// NOTE:
//   - AuthReturnID is the immutable reference to the external identity
//     provider's subject (Google "sub" claim, or the folded email for
//     password accounts). It is set on first sign-in sync and never changes.
//   - Case access is not embedded on User. Use the case_access_grants and
//     team_memberships collections to discover what a user can reach.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	AuthReturnID string             `bson:"auth_return_id" json:"auth_return_id"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // google | password
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Status       string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
