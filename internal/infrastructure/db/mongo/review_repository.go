package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

const collectionReviews = "reviews"

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

func (r *ReviewRepository) Create(ctx context.Context, rr *domain.ReviewRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, rr); err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.ReviewRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rr domain.ReviewRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
		}
		return nil, storeErr(err)
	}
	return &rr, nil
}

func (r *ReviewRepository) FindPendingByProject(ctx context.Context, projectID string) (*domain.ReviewRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"project_id": projectID, "status": domain.ReviewPending}
	var rr domain.ReviewRequest
	if err := r.col.FindOne(ctx, filter).Decode(&rr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("pending review for project %s: %w", projectID, domain.ErrNotFound)
		}
		return nil, storeErr(err)
	}
	return &rr, nil
}

func (r *ReviewRepository) List(ctx context.Context, filter ports.ListReviewsFilter) ([]*domain.ReviewRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.SubmittedBy != "" {
		query["submitted_by"] = filter.SubmittedBy
	}

	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var reviews []*domain.ReviewRequest
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, storeErr(err)
	}
	return reviews, nil
}

// Resolve conditionally applies a terminal decision: the update matches only
// while the request is still pending, so of two racing resolutions exactly
// one matches and the other observes ErrInvalidState. This is the engine's
// exactly-once point for review decisions.
func (r *ReviewRepository) Resolve(ctx context.Context, id string, res ports.ReviewResolution) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": domain.ReviewPending}
	update := bson.M{"$set": bson.M{
		"status":           res.Status,
		"reviewed_by":      res.ReviewedBy,
		"reviewed_by_name": res.ReviewedByName,
		"comments":         res.Comments,
		"updated_at":       res.At,
	}}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return storeErr(err)
	}
	if result.MatchedCount == 0 {
		// Distinguish an unknown id from an already-resolved request.
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return storeErr(err)
		}
		if n == 0 {
			return fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("review %s already resolved: %w", id, domain.ErrInvalidState)
	}
	return nil
}

// EnsureIndexes creates the indexes the review queries rely on. The partial
// unique index enforces at most one pending request per project at the store
// level as well.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.ReviewPending}),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "submitted_by", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
