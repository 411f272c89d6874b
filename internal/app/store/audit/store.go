// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth   = "auth"
	CategoryAccess = "access"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventFirstSignInSync          = "first_sign_in_sync"
	EventLogout                   = "logout"
)

// Access administration event types. Grant history lives in the grant
// rows themselves; these events add the who/when/from-where context.
const (
	EventCaseCreated         = "case_created"
	EventCaseClosed          = "case_closed"
	EventAccessGranted       = "access_granted"
	EventAccessRevoked       = "access_revoked"
	EventTeamCreated         = "team_created"
	EventTeamArchived        = "team_archived"
	EventMemberAddedToTeam   = "member_added_to_team"
	EventMemberRemovedFromTeam = "member_removed_from_team"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// CorrelationID ties together the events of one multi-step flow
	// (case creation writes the case event plus its auto-grant events).
	CorrelationID string `bson:"correlation_id,omitempty"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who and what
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty"` // who performed the action
	UserID  *primitive.ObjectID `bson:"user_id,omitempty"`  // affected user (grant subject, member)
	TeamID  *primitive.ObjectID `bson:"team_id,omitempty"`
	CaseID  *primitive.ObjectID `bson:"case_id,omitempty"`

	// Context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates an audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log persists one audit event. The timestamp is set here so callers
// never have to remember it.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	CaseID    *primitive.ObjectID
	ActorID   *primitive.ObjectID
	Category  string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
}

// Query returns matching events, newest first.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	filter := bson.M{}
	if f.CaseID != nil {
		filter["case_id"] = *f.CaseID
	}
	if f.ActorID != nil {
		filter["actor_id"] = *f.ActorID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.EventType != "" {
		filter["event_type"] = f.EventType
	}
	if f.StartTime != nil || f.EndTime != nil {
		ts := bson.M{}
		if f.StartTime != nil {
			ts["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			ts["$lte"] = *f.EndTime
		}
		filter["timestamp"] = ts
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
