// internal/domain/models/teammembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team-internal roles. These are distinct from case access levels: a team
// lead has no case access beyond the grants held by the team.
const (
	TeamRoleLead   = "lead"
	TeamRoleMember = "member"
)

// TeamMembership is the authoritative join between users and teams.
// At most one active document per (team_id, user_id); removal is a soft
// delete (Active=false) so the membership history survives.
type TeamMembership struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID primitive.ObjectID `bson:"team_id" json:"team_id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role   string             `bson:"role" json:"role"` // "lead" | "member"

	Active        bool       `bson:"active" json:"active"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	DeactivatedAt *time.Time `bson:"deactivated_at,omitempty" json:"deactivated_at,omitempty"`
}
