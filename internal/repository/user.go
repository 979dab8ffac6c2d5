package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trailswipe-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository is the Postgres-backed UserStore.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and its profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if user.Profile != nil {
		p := user.Profile
		_, err = tx.Exec(ctx, `
			INSERT INTO profiles (id, user_id, name, preferences, location, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, p.UserID, p.Name, p.Preferences, p.Location, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	return nil
}

// GetByID retrieves a user and profile by user ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `WHERE u.id = $1`, id)
}

// GetByEmail retrieves a user and profile by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE u.email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.created_at, u.updated_at,
		       p.id, p.name, p.preferences, p.location, p.created_at, p.updated_at
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
	` + where

	// Profile columns are nullable because of the LEFT JOIN
	var (
		user      models.User
		profileID *string
		name      *string
		prefs     *models.Preferences
		location  *models.GeoPoint
		createdAt *time.Time
		updatedAt *time.Time
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
		&profileID, &name, &prefs, &location, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if profileID != nil {
		profile := &models.Profile{
			ID:       *profileID,
			UserID:   user.ID,
			Location: location,
		}
		if name != nil {
			profile.Name = *name
		}
		if prefs != nil {
			profile.Preferences = *prefs
		}
		if createdAt != nil {
			profile.CreatedAt = *createdAt
		}
		if updatedAt != nil {
			profile.UpdatedAt = *updatedAt
		}
		user.Profile = profile
	}
	return &user, nil
}

// UpdateProfile patches preferences and/or location and returns the user.
// Nil arguments leave the corresponding column untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, prefs *models.Preferences, location *models.GeoPoint) (*models.User, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET preferences = COALESCE($2, preferences),
		    location    = COALESCE($3, location),
		    updated_at  = NOW()
		WHERE user_id = $1
	`, userID, prefs, location)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, userID)
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
