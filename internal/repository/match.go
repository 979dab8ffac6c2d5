package repository

import (
	"context"
	"errors"
	"fmt"

	"trailswipe-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchRepository is the Postgres-backed MatchStore.
type MatchRepository struct {
	db *pgxpool.Pool
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts a match. Callers store the pair with UserAID < UserBID, so
// the unique index on (user_a_id, user_b_id, trail_id) keeps the triple
// unique under concurrent creates; a conflict reports ErrDuplicate.
func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO matches (id, user_a_id, user_b_id, trail_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_a_id, user_b_id, trail_id) DO NOTHING
	`, match.ID, match.UserAID, match.UserBID, match.TrailID, match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

// GetByUsersAndTrail looks up a match for the unordered user pair and trail
func (r *MatchRepository) GetByUsersAndTrail(ctx context.Context, userAID, userBID, trailID string) (*models.Match, error) {
	if userAID > userBID {
		userAID, userBID = userBID, userAID
	}
	var match models.Match
	err := r.db.QueryRow(ctx, `
		SELECT id, user_a_id, user_b_id, trail_id, created_at
		FROM matches
		WHERE user_a_id = $1 AND user_b_id = $2 AND trail_id = $3
	`, userAID, userBID, trailID).Scan(
		&match.ID, &match.UserAID, &match.UserBID, &match.TrailID, &match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &match, nil
}

// ListByUser retrieves every match involving userID in creation order
func (r *MatchRepository) ListByUser(ctx context.Context, userID string) ([]*models.Match, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_a_id, user_b_id, trail_id, created_at
		FROM matches
		WHERE user_a_id = $1 OR user_b_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		var match models.Match
		if err := rows.Scan(&match.ID, &match.UserAID, &match.UserBID, &match.TrailID, &match.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, &match)
	}
	return matches, rows.Err()
}
