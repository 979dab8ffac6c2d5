package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trailswipe-backend/internal/apperrors"
	"trailswipe-backend/internal/models"
	"trailswipe-backend/internal/repository"

	"github.com/google/uuid"
)

// SwipeService records swipes and detects matches among friends.
type SwipeService struct {
	swipeRepo  repository.SwipeStore
	trailRepo  repository.TrailStore
	matchRepo  repository.MatchStore
	friendRepo repository.FriendshipStore
}

// NewSwipeService creates a new swipe service
func NewSwipeService(swipeRepo repository.SwipeStore, trailRepo repository.TrailStore, matchRepo repository.MatchStore, friendRepo repository.FriendshipStore) *SwipeService {
	return &SwipeService{
		swipeRepo:  swipeRepo,
		trailRepo:  trailRepo,
		matchRepo:  matchRepo,
		friendRepo: friendRepo,
	}
}

// RecordSwipe persists a one-time swipe and, on a right swipe, looks for a
// friend who already liked the same trail. At most one match is created per
// swipe even when several friends qualify.
func (s *SwipeService) RecordSwipe(ctx context.Context, userID, trailID string, direction models.SwipeDirection) (*models.Swipe, *models.Match, error) {
	if _, err := s.trailRepo.GetByID(ctx, trailID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NotFound("Trail not found")
		}
		return nil, nil, fmt.Errorf("failed to get trail: %w", err)
	}

	swipe := &models.Swipe{
		ID:        uuid.New().String(),
		UserID:    userID,
		TrailID:   trailID,
		Direction: direction,
		CreatedAt: time.Now(),
	}
	if err := s.swipeRepo.Create(ctx, swipe); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, apperrors.Conflict("Already swiped on this trail")
		}
		return nil, nil, fmt.Errorf("failed to create swipe: %w", err)
	}

	if direction != models.SwipeRight {
		return swipe, nil, nil
	}

	match, err := s.detectMatch(ctx, userID, trailID)
	if err != nil {
		return nil, nil, err
	}
	return swipe, match, nil
}

// detectMatch scans right swipes on the trail in creation order, so the
// earliest-swiping eligible friend wins. Finding no one is not an error.
func (s *SwipeService) detectMatch(ctx context.Context, userID, trailID string) (*models.Match, error) {
	candidates, err := s.swipeRepo.ListByTrailAndDirection(ctx, trailID, models.SwipeRight)
	if err != nil {
		return nil, fmt.Errorf("failed to list right swipes: %w", err)
	}

	for _, candidate := range candidates {
		if candidate.UserID == userID {
			continue
		}

		friends, err := s.friendRepo.AreFriends(ctx, userID, candidate.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check friendship: %w", err)
		}
		if !friends {
			continue
		}

		existing, err := s.matchRepo.GetByUsersAndTrail(ctx, userID, candidate.UserID, trailID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up match: %w", err)
		}
		if existing != nil {
			continue
		}

		userAID, userBID := userID, candidate.UserID
		if userAID > userBID {
			userAID, userBID = userBID, userAID
		}
		match := &models.Match{
			ID:        uuid.New().String(),
			UserAID:   userAID,
			UserBID:   userBID,
			TrailID:   trailID,
			CreatedAt: time.Now(),
		}
		if err := s.matchRepo.Create(ctx, match); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				// Lost a race with the friend's own swipe; the match exists,
				// which is all the invariant asks for.
				continue
			}
			return nil, fmt.Errorf("failed to create match: %w", err)
		}
		return match, nil
	}

	return nil, nil
}

// ListSwipes returns the user's swipe history.
func (s *SwipeService) ListSwipes(ctx context.Context, userID string) ([]*models.Swipe, error) {
	swipes, err := s.swipeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swipes: %w", err)
	}
	return swipes, nil
}

// ClearSwipes removes every swipe of the user. Maintenance operation for
// test and reset flows; reports cleared and remaining counts.
func (s *SwipeService) ClearSwipes(ctx context.Context, userID string) (cleared, remaining int, err error) {
	cleared, err = s.swipeRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to clear swipes: %w", err)
	}
	swipes, err := s.swipeRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count remaining swipes: %w", err)
	}
	return cleared, len(swipes), nil
}
