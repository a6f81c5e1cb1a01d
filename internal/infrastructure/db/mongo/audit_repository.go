package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

const collectionRatingEvents = "rating_events"

// ratingEventDoc is the stored shape of a rating submission.
type ratingEventDoc struct {
	UserID     string    `bson:"user_id"`
	StoreID    string    `bson:"store_id"`
	Rating     int       `bson:"rating"`
	Action     string    `bson:"action"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionRatingEvents), now: time.Now}
}

// InsertEvent appends one rating submission to the rating_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event domain.RatingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	action := "updated"
	if event.Created {
		action = "created"
	}
	_, err := r.col.InsertOne(ctx, ratingEventDoc{
		UserID:     event.UserID,
		StoreID:    event.StoreID,
		Rating:     event.Score,
		Action:     action,
		At:         event.At.UTC(),
		RecordedAt: r.now().UTC(),
	})
	return err
}

// EnsureIndexes creates the lookup indexes on the rating_events collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "store_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
