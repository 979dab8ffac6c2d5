package repository

import (
	"context"
	"fmt"

	"trailswipe-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SwipeRepository is the Postgres-backed SwipeStore.
type SwipeRepository struct {
	db *pgxpool.Pool
}

// NewSwipeRepository creates a new swipe repository
func NewSwipeRepository(db *pgxpool.Pool) *SwipeRepository {
	return &SwipeRepository{db: db}
}

// Create inserts a swipe. The unique index on (user_id, trail_id) makes the
// duplicate check atomic under concurrent requests for the same pair;
// a conflicting insert writes nothing and reports ErrDuplicate.
func (r *SwipeRepository) Create(ctx context.Context, swipe *models.Swipe) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO swipes (id, user_id, trail_id, direction, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, trail_id) DO NOTHING
	`, swipe.ID, swipe.UserID, swipe.TrailID, string(swipe.Direction), swipe.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create swipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

// ListByUser retrieves a user's swipes in creation order
func (r *SwipeRepository) ListByUser(ctx context.Context, userID string) ([]*models.Swipe, error) {
	return r.list(ctx, `
		SELECT id, user_id, trail_id, direction, created_at
		FROM swipes
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
}

// ListByTrailAndDirection retrieves swipes on one trail in creation order.
// The ordering is the match detector's tie-break: the earliest right swipe
// among eligible friends wins.
func (r *SwipeRepository) ListByTrailAndDirection(ctx context.Context, trailID string, direction models.SwipeDirection) ([]*models.Swipe, error) {
	return r.list(ctx, `
		SELECT id, user_id, trail_id, direction, created_at
		FROM swipes
		WHERE trail_id = $1 AND direction = $2
		ORDER BY created_at, id
	`, trailID, string(direction))
}

// DeleteByUser removes all swipes of a user and reports how many
func (r *SwipeRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM swipes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete swipes: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *SwipeRepository) list(ctx context.Context, query string, args ...any) ([]*models.Swipe, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list swipes: %w", err)
	}
	defer rows.Close()

	var swipes []*models.Swipe
	for rows.Next() {
		var swipe models.Swipe
		var direction string
		if err := rows.Scan(&swipe.ID, &swipe.UserID, &swipe.TrailID, &direction, &swipe.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan swipe: %w", err)
		}
		swipe.Direction = models.SwipeDirection(direction)
		swipes = append(swipes, &swipe)
	}
	return swipes, rows.Err()
}
