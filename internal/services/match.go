package services

import (
	"context"
	"fmt"
	"time"

	"trailswipe-backend/internal/repository"
)

// MatchService reads matches; creation happens in SwipeService only.
type MatchService struct {
	matchRepo repository.MatchStore
}

// NewMatchService creates a new match service
func NewMatchService(matchRepo repository.MatchStore) *MatchService {
	return &MatchService{matchRepo: matchRepo}
}

// MatchEntry is a match as presented to one of its two users.
type MatchEntry struct {
	ID          string    `json:"id"`
	TrailID     string    `json:"trailId"`
	OtherUserID string    `json:"otherUserId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// List returns the user's matches with the other participant resolved.
func (s *MatchService) List(ctx context.Context, userID string) ([]MatchEntry, error) {
	matches, err := s.matchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	entries := make([]MatchEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, MatchEntry{
			ID:          m.ID,
			TrailID:     m.TrailID,
			OtherUserID: m.OtherUser(userID),
			CreatedAt:   m.CreatedAt,
		})
	}
	return entries, nil
}
