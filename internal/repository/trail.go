package repository

import (
	"context"
	"errors"
	"fmt"

	"trailswipe-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TrailRepository is the Postgres-backed TrailStore.
type TrailRepository struct {
	db *pgxpool.Pool
}

// NewTrailRepository creates a new trail repository
func NewTrailRepository(db *pgxpool.Pool) *TrailRepository {
	return &TrailRepository{db: db}
}

const trailColumns = `t.id, t.name, t.description, t.distance, t.elevation, t.difficulty, t.tags, t.location, t.created_at, t.updated_at`

// Create inserts a trail and its photos. Used by the seed import only;
// trails are read-only afterwards.
func (r *TrailRepository) Create(ctx context.Context, trail *models.Trail) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO trails (id, name, description, distance, elevation, difficulty, tags, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, trail.ID, trail.Name, trail.Description, trail.Distance, trail.Elevation,
		trail.Difficulty, trail.Tags, trail.Location, trail.CreatedAt, trail.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trail: %w", err)
	}

	for _, photo := range trail.Photos {
		_, err = tx.Exec(ctx, `
			INSERT INTO trail_photos (id, trail_id, url, alt, is_primary, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, photo.ID, photo.TrailID, photo.URL, photo.Alt, photo.IsPrimary, photo.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create trail photo: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trail: %w", err)
	}
	return nil
}

// GetByID retrieves a trail by ID, photos included
func (r *TrailRepository) GetByID(ctx context.Context, id string) (*models.Trail, error) {
	row := r.db.QueryRow(ctx, `SELECT `+trailColumns+` FROM trails t WHERE t.id = $1`, id)
	trail, err := scanTrail(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trail: %w", err)
	}
	if err := r.attachPhotos(ctx, []*models.Trail{trail}); err != nil {
		return nil, err
	}
	return trail, nil
}

// List retrieves the whole catalog in creation order
func (r *TrailRepository) List(ctx context.Context) ([]*models.Trail, error) {
	return r.list(ctx, `SELECT `+trailColumns+` FROM trails t ORDER BY t.created_at, t.id`)
}

// ListExcludingSwiped returns trails userID has not swiped in the given direction.
func (r *TrailRepository) ListExcludingSwiped(ctx context.Context, userID string, direction models.SwipeDirection) ([]*models.Trail, error) {
	return r.list(ctx, `
		SELECT `+trailColumns+`
		FROM trails t
		WHERE NOT EXISTS (
			SELECT 1 FROM swipes s
			WHERE s.trail_id = t.id AND s.user_id = $1 AND s.direction = $2
		)
		ORDER BY t.created_at, t.id
	`, userID, string(direction))
}

// ListSwiped returns trails userID swiped in the given direction.
func (r *TrailRepository) ListSwiped(ctx context.Context, userID string, direction models.SwipeDirection) ([]*models.Trail, error) {
	return r.list(ctx, `
		SELECT `+trailColumns+`
		FROM trails t
		JOIN swipes s ON s.trail_id = t.id
		WHERE s.user_id = $1 AND s.direction = $2
		ORDER BY s.created_at, t.id
	`, userID, string(direction))
}

// Count returns the catalog size
func (r *TrailRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trails`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trails: %w", err)
	}
	return count, nil
}

func (r *TrailRepository) list(ctx context.Context, query string, args ...any) ([]*models.Trail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trails: %w", err)
	}
	defer rows.Close()

	var trails []*models.Trail
	for rows.Next() {
		trail, err := scanTrail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trail: %w", err)
		}
		trails = append(trails, trail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list trails: %w", err)
	}
	if err := r.attachPhotos(ctx, trails); err != nil {
		return nil, err
	}
	return trails, nil
}

func scanTrail(row pgx.Row) (*models.Trail, error) {
	var trail models.Trail
	err := row.Scan(
		&trail.ID, &trail.Name, &trail.Description, &trail.Distance, &trail.Elevation,
		&trail.Difficulty, &trail.Tags, &trail.Location, &trail.CreatedAt, &trail.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trail, nil
}

// attachPhotos loads photos for the given trails, primary first.
func (r *TrailRepository) attachPhotos(ctx context.Context, trails []*models.Trail) error {
	if len(trails) == 0 {
		return nil
	}
	ids := make([]string, len(trails))
	byID := make(map[string]*models.Trail, len(trails))
	for i, t := range trails {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Photos = []models.Photo{}
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, trail_id, url, alt, is_primary, created_at
		FROM trail_photos
		WHERE trail_id = ANY($1)
		ORDER BY is_primary DESC, created_at, id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to list trail photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photo models.Photo
		if err := rows.Scan(&photo.ID, &photo.TrailID, &photo.URL, &photo.Alt, &photo.IsPrimary, &photo.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan trail photo: %w", err)
		}
		if trail, ok := byID[photo.TrailID]; ok {
			trail.Photos = append(trail.Photos, photo)
		}
	}
	return rows.Err()
}
