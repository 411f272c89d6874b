// internal/domain/models/legalcase.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegalCase is the protected resource everything in LexHub hangs off of:
// documents, legal writings, client records, and AI chat all belong to a
// case and inherit its access decisions.
//
// NOTE:
//   - Access is never stored on the case document. The creator admin grant
//     and the assignee advanced grant are written to case_access_grants in
//     the same creation flow, so the resolver stays a pure read over grants.
type LegalCase struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	CreatorID      primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	AssignedUserID primitive.ObjectID `bson:"assigned_user_id" json:"assigned_user_id"`

	Status string `bson:"status" json:"status"` // active | closed

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
