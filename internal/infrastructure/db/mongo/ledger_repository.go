package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

const collectionLedger = "approved_projects"

type LedgerRepository struct {
	col *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{col: db.Collection(collectionLedger)}
}

func (r *LedgerRepository) Append(ctx context.Context, e *domain.ApprovedProjectEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *LedgerRepository) FindByID(ctx context.Context, id string) (*domain.ApprovedProjectEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.ApprovedProjectEntry
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("ledger entry %s: %w", id, domain.ErrNotFound)
		}
		return nil, storeErr(err)
	}
	return &e, nil
}

func (r *LedgerRepository) List(ctx context.Context, filter ports.LedgerFilter) ([]*domain.ApprovedProjectEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.TitleContains != "" {
		query["project_title"] = bson.M{
			"$regex":   regexp.QuoteMeta(filter.TitleContains),
			"$options": "i",
		}
	}
	if filter.Month != "" {
		from, err := time.Parse("2006-01", filter.Month)
		if err != nil {
			return nil, fmt.Errorf("%w: month must be formatted YYYY-MM", domain.ErrValidation)
		}
		query["approved_at"] = bson.M{"$gte": from, "$lt": from.AddDate(0, 1, 0)}
	}

	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "approved_at", Value: -1}}))
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.ApprovedProjectEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}

func (r *LedgerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr(err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("ledger entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// EnsureIndexes creates the indexes the ledger queries rely on.
func (r *LedgerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "approved_at", Value: -1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
