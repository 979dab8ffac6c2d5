package repository

import (
	"context"
	"errors"
	"fmt"

	"trailswipe-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendshipRepository is the Postgres-backed FriendshipStore.
type FriendshipRepository struct {
	db *pgxpool.Pool
}

// NewFriendshipRepository creates a new friendship repository
func NewFriendshipRepository(db *pgxpool.Pool) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

const friendshipColumns = `id, user_id, friend_id, status, created_at`

// Create inserts a friendship edge. The expression index on
// (LEAST(user_id, friend_id), GREATEST(user_id, friend_id)) rejects a
// second edge for the pair in either direction with ErrDuplicate.
func (r *FriendshipRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO friendships (id, user_id, friend_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, friendship.ID, friendship.UserID, friendship.FriendID, friendship.Status, friendship.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// GetByID retrieves a friendship by ID
func (r *FriendshipRepository) GetByID(ctx context.Context, id string) (*models.Friendship, error) {
	row := r.db.QueryRow(ctx, `SELECT `+friendshipColumns+` FROM friendships WHERE id = $1`, id)
	return scanFriendship(row)
}

// GetByUsers retrieves the edge between two users regardless of direction
func (r *FriendshipRepository) GetByUsers(ctx context.Context, userID, friendID string) (*models.Friendship, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+friendshipColumns+`
		FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`, userID, friendID)
	return scanFriendship(row)
}

// AreFriends reports whether an accepted edge links the two users
func (r *FriendshipRepository) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	var accepted bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE status = $3
			  AND ((user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1))
		)
	`, userID, friendID, models.FriendshipAccepted).Scan(&accepted)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return accepted, nil
}

// UpdateStatus sets the status and returns the updated edge
func (r *FriendshipRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Friendship, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE friendships SET status = $2 WHERE id = $1
		RETURNING `+friendshipColumns+`
	`, id, status)
	return scanFriendship(row)
}

// Delete removes a friendship edge entirely
func (r *FriendshipRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAccepted retrieves accepted edges involving userID in either direction
func (r *FriendshipRepository) ListAccepted(ctx context.Context, userID string) ([]*models.Friendship, error) {
	return r.list(ctx, `
		SELECT `+friendshipColumns+`
		FROM friendships
		WHERE (user_id = $1 OR friend_id = $1) AND status = $2
		ORDER BY created_at, id
	`, userID, models.FriendshipAccepted)
}

// ListIncoming retrieves pending edges where userID is the recipient
func (r *FriendshipRepository) ListIncoming(ctx context.Context, userID string) ([]*models.Friendship, error) {
	return r.list(ctx, `
		SELECT `+friendshipColumns+`
		FROM friendships
		WHERE friend_id = $1 AND status = $2
		ORDER BY created_at, id
	`, userID, models.FriendshipPending)
}

func (r *FriendshipRepository) list(ctx context.Context, query string, args ...any) ([]*models.Friendship, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	defer rows.Close()

	var friendships []*models.Friendship
	for rows.Next() {
		var f models.Friendship
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, &f)
	}
	return friendships, rows.Err()
}

func scanFriendship(row pgx.Row) (*models.Friendship, error) {
	var f models.Friendship
	err := row.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return &f, nil
}
