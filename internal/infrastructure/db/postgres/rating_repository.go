package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

type RatingRepository struct {
	db      DBTX
	timeout time.Duration
}

func NewRatingRepository(db DBTX) *RatingRepository {
	return &RatingRepository{db: db, timeout: defaultTimeout}
}

// Upsert inserts or overwrites the (userID, storeID) rating in one statement.
// xmax is zero only for a freshly inserted tuple, which tells the two
// branches apart without a second round trip.
func (r *RatingRepository) Upsert(ctx context.Context, userID, storeID string, score int) (domain.RatingOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO ratings (id, user_id, store_id, rating)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, store_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

	out := domain.RatingOutcome{Rating: domain.Rating{UserID: userID, StoreID: storeID, Score: score}}
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, storeID, score).
		Scan(&out.Rating.ID, &out.Rating.CreatedAt, &out.Rating.UpdatedAt, &out.Created)
	if err != nil {
		if code, constraint := pgViolation(err); code == foreignKeyViolated && constraint == "ratings_store_id_fkey" {
			return domain.RatingOutcome{}, domain.ErrStoreNotFound
		}
		return domain.RatingOutcome{}, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// ListForStore returns ratings newest first, ties broken by id.
func (r *RatingRepository) ListForStore(ctx context.Context, storeID string) ([]domain.RatingDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT r.id, r.user_id, r.store_id, r.rating, r.created_at, r.updated_at, u.name, u.email
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.store_id = $1
		ORDER BY r.created_at DESC, r.id`

	rows, err := r.db.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	details := []domain.RatingDetail{}
	for rows.Next() {
		var d domain.RatingDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.StoreID, &d.Score, &d.CreatedAt, &d.UpdatedAt,
			&d.UserName, &d.UserEmail); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return details, nil
}
