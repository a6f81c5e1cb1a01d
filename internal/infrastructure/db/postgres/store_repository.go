package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/storeratings/ratings-api/internal/core/domain"
)

// storeAggregates is joined to stores to attach the mean and count over all
// ratings. Stores without ratings get NULLs, coalesced to 0 by callers.
const storeAggregates = `LEFT JOIN (
		SELECT store_id, AVG(rating) AS avg_rating, COUNT(*) AS rating_count
		FROM ratings
		GROUP BY store_id
	) agg ON agg.store_id = s.id`

const storeViewColumns = `s.id, s.name, s.email, s.address, COALESCE(s.owner_id::text, ''), s.created_at,
		COALESCE(agg.avg_rating, 0)::float8, COALESCE(agg.rating_count, 0)`

type StoreRepository struct {
	db      DBTX
	timeout time.Duration
}

func NewStoreRepository(db DBTX) *StoreRepository {
	return &StoreRepository{db: db, timeout: defaultTimeout}
}

// Create inserts the store. One store per owner is enforced by a unique
// constraint on owner_id.
func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO stores (id, name, email, address, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	var owner sql.NullString
	if store.OwnerID != "" {
		owner = sql.NullString{String: store.OwnerID, Valid: true}
	}

	created := *store
	err := r.db.QueryRowContext(ctx, query,
		store.ID, store.Name, store.Email, store.Address, owner, store.CreatedAt).Scan(&created.CreatedAt)
	if err != nil {
		code, constraint := pgViolation(err)
		switch {
		case code == uniqueViolation && constraint == "stores_owner_id_key":
			return nil, domain.ErrOwnerHasStore
		case code == uniqueViolation:
			return nil, domain.ErrStoreEmailTaken
		case code == foreignKeyViolated:
			return nil, domain.NewValidationError("ownerId", "owner not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

// ListForViewer returns stores with their aggregates and viewerID's own
// rating. A non-empty search matches name or address, case-insensitively.
func (r *StoreRepository) ListForViewer(ctx context.Context, viewerID, search string) ([]domain.StoreView, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + storeViewColumns + `, mine.rating
		FROM stores s
		` + storeAggregates + `
		LEFT JOIN ratings mine ON mine.store_id = s.id AND mine.user_id = $1`
	args := []any{viewerID}
	if search != "" {
		query += ` WHERE s.name ILIKE $2 OR s.address ILIKE $2`
		args = append(args, containsPattern(search))
	}
	query += ` ORDER BY s.name, s.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	views := []domain.StoreView{}
	for rows.Next() {
		var (
			v     domain.StoreView
			owner string
			mine  sql.NullInt32
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Address, &owner, &v.CreatedAt,
			&v.AverageRating, &v.RatingCount, &mine); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		v.OwnerID = owner
		if mine.Valid {
			score := int(mine.Int32)
			v.ViewerRating = &score
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return views, nil
}

// SearchAdmin matches name, email or address and joins the owner's name.
func (r *StoreRepository) SearchAdmin(ctx context.Context, search string) ([]domain.AdminStoreView, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT s.id, s.name, s.email, s.address, COALESCE(s.owner_id::text, ''), s.created_at,
		COALESCE(u.name, ''), COALESCE(agg.avg_rating, 0)::float8
		FROM stores s
		LEFT JOIN users u ON u.id = s.owner_id
		` + storeAggregates
	var args []any
	if search != "" {
		query += ` WHERE s.name ILIKE $1 OR s.email ILIKE $1 OR s.address ILIKE $1`
		args = append(args, containsPattern(search))
	}
	query += ` ORDER BY s.name, s.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	views := []domain.AdminStoreView{}
	for rows.Next() {
		var v domain.AdminStoreView
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Address, &v.OwnerID, &v.CreatedAt,
			&v.OwnerName, &v.AverageRating); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return views, nil
}

// FindByOwner returns every store owned by ownerID. More than one row means
// the one-store-per-owner invariant was broken outside this service.
func (r *StoreRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.StoreView, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + storeViewColumns + `
		FROM stores s
		` + storeAggregates + `
		WHERE s.owner_id = $1
		ORDER BY s.name, s.id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	views := []domain.StoreView{}
	for rows.Next() {
		var v domain.StoreView
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Address, &v.OwnerID, &v.CreatedAt,
			&v.AverageRating, &v.RatingCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return views, nil
}
