package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"trailswipe-backend/internal/apperrors"
	"trailswipe-backend/internal/models"
	"trailswipe-backend/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	defaultMaxDistanceKm = 50
	trailCacheTTL        = 10 * time.Minute
	trailCacheKeyPrefix  = "trail:"
)

// TrailFilters are the optional card-request criteria; zero values mean
// "no constraint".
type TrailFilters struct {
	MaxDistance float64
	Difficulty  []string
	Tags        []string
	Elevation   string
}

// Pagination is the page metadata returned with every trail-card page.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// TrailPage is one page of scored, ranked trail cards.
type TrailPage struct {
	Trails     []*models.ScoredTrail `json:"trails"`
	Pagination Pagination            `json:"pagination"`
}

// TrailService handles trail discovery business logic
type TrailService struct {
	trailRepo    repository.TrailStore
	userRepo     repository.UserStore
	photoService *PhotoService
	cache        *redis.Client
}

// NewTrailService creates a new trail service. photoService and cache may
// be nil; photo URLs then stay as stored and lookups always hit the store.
func NewTrailService(trailRepo repository.TrailStore, userRepo repository.UserStore, photoService *PhotoService, cache *redis.Client) *TrailService {
	return &TrailService{
		trailRepo:    trailRepo,
		userRepo:     userRepo,
		photoService: photoService,
		cache:        cache,
	}
}

// GetTrailCards runs the discovery pipeline for one user: load profile,
// drop left-swiped trails, filter, score, rank, paginate.
func (s *TrailService) GetTrailCards(ctx context.Context, userID string, filters TrailFilters, page, limit int) (*TrailPage, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Profile == nil {
		return nil, apperrors.Validation("User profile not found. Please set your location.")
	}
	if user.Profile.Location == nil {
		return nil, apperrors.Validation("User location not set. Please set your location to discover trails.")
	}

	trails, err := s.trailRepo.ListExcludingSwiped(ctx, userID, models.SwipeLeft)
	if err != nil {
		return nil, fmt.Errorf("failed to list trails: %w", err)
	}

	trails = FilterTrails(trails, filters, user.Profile.Location)

	scored := make([]*models.ScoredTrail, len(trails))
	for i, trail := range trails {
		scored[i] = &models.ScoredTrail{
			Trail: *trail,
			Score: ScoreTrail(trail, user.Profile.Preferences, user.Profile.Location),
		}
	}
	SortByScore(scored)

	items, pagination := Paginate(scored, page, limit)
	return &TrailPage{Trails: items, Pagination: pagination}, nil
}

// GetSavedTrails returns the trails the user right-swiped.
func (s *TrailService) GetSavedTrails(ctx context.Context, userID string) ([]*models.Trail, error) {
	trails, err := s.trailRepo.ListSwiped(ctx, userID, models.SwipeRight)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved trails: %w", err)
	}
	return trails, nil
}

// GetTrail returns one trail by ID, going through the Redis cache when one
// is configured. Trails are immutable so a stale entry can only lag the
// seed import, never user-visible state.
func (s *TrailService) GetTrail(ctx context.Context, id string) (*models.Trail, error) {
	if trail := s.cachedTrail(ctx, id); trail != nil {
		return s.resolvePhotos(ctx, trail), nil
	}

	trail, err := s.trailRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Trail not found")
		}
		return nil, fmt.Errorf("failed to get trail: %w", err)
	}

	s.cacheTrail(ctx, trail)
	return s.resolvePhotos(ctx, trail), nil
}

func (s *TrailService) cachedTrail(ctx context.Context, id string) *models.Trail {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, trailCacheKeyPrefix+id).Result()
	if err != nil {
		return nil
	}
	var trail models.Trail
	if err := json.Unmarshal([]byte(data), &trail); err != nil {
		log.Warn().Err(err).Str("trail_id", id).Msg("Failed to unmarshal cached trail")
		return nil
	}
	return &trail
}

func (s *TrailService) cacheTrail(ctx context.Context, trail *models.Trail) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(trail)
	if err != nil {
		return
	}
	// Cache failures only cost a store round-trip next time
	if err := s.cache.Set(ctx, trailCacheKeyPrefix+trail.ID, data, trailCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("trail_id", trail.ID).Msg("Failed to cache trail")
	}
}

func (s *TrailService) resolvePhotos(ctx context.Context, trail *models.Trail) *models.Trail {
	if s.photoService == nil || len(trail.Photos) == 0 {
		return trail
	}
	resolved := *trail
	resolved.Photos = s.photoService.ResolveURLs(ctx, trail.Photos)
	return &resolved
}

// FilterTrails applies the card-request criteria, preserving order.
// All active criteria are ANDed.
func FilterTrails(trails []*models.Trail, filters TrailFilters, userLocation *models.GeoPoint) []*models.Trail {
	var out []*models.Trail
	for _, trail := range trails {
		if keepTrail(trail, filters, userLocation) {
			out = append(out, trail)
		}
	}
	return out
}

func keepTrail(trail *models.Trail, filters TrailFilters, userLocation *models.GeoPoint) bool {
	// maxDistance screens two different axes on purpose: proximity of the
	// trailhead to the user, and the trail's own length. A trail failing
	// either one is excluded.
	if filters.MaxDistance > 0 && userLocation != nil {
		geo := DistanceKm(userLocation.Lat(), userLocation.Lon(), trail.Location.Lat(), trail.Location.Lon())
		if geo > filters.MaxDistance {
			return false
		}
	}
	if filters.MaxDistance > 0 && trail.Distance > 0 && trail.Distance > filters.MaxDistance {
		return false
	}

	if len(filters.Difficulty) > 0 && !contains(filters.Difficulty, trail.Difficulty) {
		return false
	}

	if len(filters.Tags) > 0 && !intersects(trail.Tags, filters.Tags) {
		return false
	}

	if filters.Elevation != "" && trail.Elevation > 0 {
		if elevationBand(trail.Elevation) != filters.Elevation {
			return false
		}
	}

	return true
}

// ScoreTrail computes the relevance score of one trail for one user.
// Additive model; the accumulation order below is fixed.
func ScoreTrail(trail *models.Trail, prefs models.Preferences, userLocation *models.GeoPoint) int {
	score := 10.0 // base

	if contains(prefs.Difficulty, trail.Difficulty) {
		score += 20
	}

	// Closer is better: linear decay from 30 at distance 0 to 0 at the
	// preferred maximum.
	if userLocation != nil && trail.Distance > 0 {
		maxDistance := prefs.MaxDistance
		if maxDistance == 0 {
			maxDistance = defaultMaxDistanceKm
		}
		if trail.Distance <= maxDistance {
			score += math.Max(0, 30-(trail.Distance/maxDistance)*30)
		}
	}

	for _, tag := range trail.Tags {
		if contains(prefs.Tags, tag) {
			score += 10
		}
	}

	if prefs.Elevation != "" && trail.Elevation > 0 && elevationBand(trail.Elevation) == prefs.Elevation {
		score += 15
	}

	score += 5 // flat popularity bonus

	return int(math.Round(score))
}

// SortByScore sorts descending by score, in place. The sort is stable so
// equal scores keep store order.
func SortByScore(trails []*models.ScoredTrail) {
	sort.SliceStable(trails, func(i, j int) bool {
		return trails[i].Score > trails[j].Score
	})
}

// Paginate slices items into 1-indexed pages. Callers validate page and
// limit at the boundary; out-of-range pages yield an empty slice with
// correct metadata. Offsets are only computed for pages within range, so
// an arbitrarily large page cannot overflow into a negative index.
func Paginate[T any](items []T, page, limit int) ([]T, Pagination) {
	total := len(items)
	totalPages := (total + limit - 1) / limit

	start, end := total, total
	if page <= totalPages {
		start = (page - 1) * limit
		end = start + limit
		if end > total {
			end = total
		}
	}

	return items[start:end], Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func elevationBand(elevation float64) string {
	switch {
	case elevation < 500:
		return models.ElevationLow
	case elevation < 1500:
		return models.ElevationMedium
	default:
		return models.ElevationHigh
	}
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}
