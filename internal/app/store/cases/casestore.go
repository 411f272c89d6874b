// internal/app/store/cases/casestore.go
package casestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/lexhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cases")}
}

var ErrNotFound = errors.New("case not found")

// NewCase builds an unsaved case document. The creation flow (feature
// handler or fixture) inserts it and writes the creator/assignee
// auto-grants in the same pass; the two always travel together.
func NewCase(title, description string, creatorID, assignedUserID primitive.ObjectID) models.LegalCase {
	now := time.Now().UTC()
	return models.LegalCase{
		ID:             primitive.NewObjectID(),
		Title:          title,
		TitleCI:        text.Fold(title),
		Description:    description,
		CreatorID:      creatorID,
		AssignedUserID: assignedUserID,
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Insert persists a case document built with NewCase.
func (s *Store) Insert(ctx context.Context, lc models.LegalCase) error {
	_, err := s.c.InsertOne(ctx, lc)
	return err
}

// GetByID loads a case. Returns ErrNotFound for missing ids so the access
// resolver can map it to its NotFound failure.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.LegalCase, error) {
	var lc models.LegalCase
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&lc)
	if err == mongo.ErrNoDocuments {
		return models.LegalCase{}, ErrNotFound
	}
	return lc, err
}

// List returns active cases, newest first. Callers filter the result per
// user with the authorization guard's Check; the store itself has no
// notion of who is asking.
func (s *Store) List(ctx context.Context, limit int64) ([]models.LegalCase, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"status": "active"}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cases []models.LegalCase
	if err := cur.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// FindPage runs an arbitrary filtered find for keyset-paginated listings.
// The caller owns the filter and options (sort, limit); see the paging
// package for how the window and cursors are built.
func (s *Store) FindPage(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.LegalCase, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cases []models.LegalCase
	if err := cur.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// Close marks a case closed. Grant rows are left untouched; a closed case
// simply stops appearing in active listings.
func (s *Store) Close(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": "closed", "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
