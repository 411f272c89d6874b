// internal/domain/models/accessgrant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grant subject kinds. Exactly one of UserID/TeamID is populated on a
// grant, matching SubjectType.
const (
	SubjectUser = "user"
	SubjectTeam = "team"
)

// AccessGrant authorizes a subject (a user or a team) at a level on a case.
//
// Rows are never hard-deleted: revoking flips Active to false so the grant
// history and its notes survive. A re-grant for the same (case, subject)
// reactivates and overwrites the row rather than stacking a duplicate —
// the case_access_grants collection carries a partial unique index on
// active (case, subject) pairs to enforce that.
type AccessGrant struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CaseID      primitive.ObjectID  `bson:"case_id" json:"case_id"`
	SubjectType string              `bson:"subject_type" json:"subject_type"` // "user" | "team"
	UserID      *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	TeamID      *primitive.ObjectID `bson:"team_id,omitempty" json:"team_id,omitempty"`

	// Level is stored as a string but only ever written from AccessLevel
	// values. Reads must go through ParseAccessLevel; a row whose level no
	// longer parses contributes no access.
	Level string `bson:"level" json:"level"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	Active    bool               `bson:"active" json:"active"`
	GrantedBy primitive.ObjectID `bson:"granted_by" json:"granted_by"`
	GrantedAt time.Time          `bson:"granted_at" json:"granted_at"`

	RevokedBy *primitive.ObjectID `bson:"revoked_by,omitempty" json:"revoked_by,omitempty"`
	RevokedAt *time.Time          `bson:"revoked_at,omitempty" json:"revoked_at,omitempty"`
}

// Subject identifies a grant target independent of any stored row.
type Subject struct {
	Type   string             // "user" | "team"
	UserID primitive.ObjectID // set when Type == "user"
	TeamID primitive.ObjectID // set when Type == "team"
}

// UserSubject builds a user-kind Subject.
func UserSubject(id primitive.ObjectID) Subject {
	return Subject{Type: SubjectUser, UserID: id}
}

// TeamSubject builds a team-kind Subject.
func TeamSubject(id primitive.ObjectID) Subject {
	return Subject{Type: SubjectTeam, TeamID: id}
}

// Valid reports whether the subject names exactly one concrete target.
func (s Subject) Valid() bool {
	switch s.Type {
	case SubjectUser:
		return !s.UserID.IsZero() && s.TeamID.IsZero()
	case SubjectTeam:
		return !s.TeamID.IsZero() && s.UserID.IsZero()
	}
	return false
}
