// Package seed imports the trail catalog from a JSON file at startup.
// Trails are the system's immutable reference data; the API never writes
// them.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"trailswipe-backend/internal/models"
	"trailswipe-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type trailFile struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Distance    float64         `json:"distance"`
	Elevation   float64         `json:"elevation"`
	Difficulty  string          `json:"difficulty"`
	Tags        []string        `json:"tags"`
	Location    models.GeoPoint `json:"location"`
	Photos      []struct {
		URL       string `json:"url"`
		Alt       string `json:"alt"`
		IsPrimary bool   `json:"isPrimary"`
	} `json:"photos"`
}

// Trails loads the file into the trail store when the store is empty.
// A non-empty store means a previous run already seeded; nothing happens.
func Trails(ctx context.Context, path string, trailRepo repository.TrailStore) error {
	count, err := trailRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count trails: %w", err)
	}
	if count > 0 {
		log.Debug().Int("count", count).Msg("Trail catalog already seeded")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read trail file: %w", err)
	}

	var entries []trailFile
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse trail file: %w", err)
	}

	now := time.Now()
	for _, entry := range entries {
		trail := &models.Trail{
			ID:          uuid.New().String(),
			Name:        entry.Name,
			Description: entry.Description,
			Distance:    entry.Distance,
			Elevation:   entry.Elevation,
			Difficulty:  entry.Difficulty,
			Tags:        entry.Tags,
			Location:    entry.Location,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, photo := range entry.Photos {
			trail.Photos = append(trail.Photos, models.Photo{
				ID:        uuid.New().String(),
				TrailID:   trail.ID,
				URL:       photo.URL,
				Alt:       photo.Alt,
				IsPrimary: photo.IsPrimary,
				CreatedAt: now,
			})
		}
		if err := trailRepo.Create(ctx, trail); err != nil {
			return fmt.Errorf("failed to seed trail %q: %w", trail.Name, err)
		}
	}

	log.Info().Int("count", len(entries)).Str("path", path).Msg("Seeded trail catalog")
	return nil
}
