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

// FriendService owns the friendship state machine: pending on invite,
// accepted on accept, deleted on decline.
type FriendService struct {
	friendRepo repository.FriendshipStore
	userRepo   repository.UserStore
}

// NewFriendService creates a new friend service
func NewFriendService(friendRepo repository.FriendshipStore, userRepo repository.UserStore) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// FriendEntry is a friendship as presented to one side of it.
type FriendEntry struct {
	ID        string    `json:"id"`
	FriendID  string    `json:"friendId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// RequestEntry is an incoming pending request, showing who sent it.
type RequestEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Invite creates a pending friendship from userID to the user owning
// friendEmail.
func (s *FriendService) Invite(ctx context.Context, userID, friendEmail string) (*models.Friendship, error) {
	friend, err := s.userRepo.GetByEmail(ctx, friendEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if friend.ID == userID {
		return nil, apperrors.Validation("Cannot send friend request to yourself")
	}

	existing, err := s.friendRepo.GetByUsers(ctx, userID, friend.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up friendship: %w", err)
	}
	if existing != nil {
		if existing.Status == models.FriendshipAccepted {
			return nil, apperrors.Conflict("Already friends with this user")
		}
		return nil, apperrors.Conflict("Friend request already sent")
	}

	friendship := &models.Friendship{
		ID:        uuid.New().String(),
		UserID:    userID,
		FriendID:  friend.ID,
		Status:    models.FriendshipPending,
		CreatedAt: time.Now(),
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Friend request already sent")
		}
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}
	return friendship, nil
}

// Accept transitions a pending request to accepted. Only the invited party
// may accept.
func (s *FriendService) Accept(ctx context.Context, userID, friendshipID string) (*models.Friendship, error) {
	friendship, err := s.getForAction(ctx, userID, friendshipID, "accept")
	if err != nil {
		return nil, err
	}
	if friendship.Status == models.FriendshipAccepted {
		return nil, apperrors.Conflict("Friend request already accepted")
	}

	updated, err := s.friendRepo.UpdateStatus(ctx, friendshipID, models.FriendshipAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to accept friendship: %w", err)
	}
	return updated, nil
}

// Decline removes the request entirely; no declined state is kept, so the
// same pair can be invited again later.
func (s *FriendService) Decline(ctx context.Context, userID, friendshipID string) error {
	if _, err := s.getForAction(ctx, userID, friendshipID, "decline"); err != nil {
		return err
	}
	if err := s.friendRepo.Delete(ctx, friendshipID); err != nil {
		return fmt.Errorf("failed to decline friendship: %w", err)
	}
	return nil
}

func (s *FriendService) getForAction(ctx context.Context, userID, friendshipID, action string) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Friend request not found")
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	if friendship.FriendID != userID {
		return nil, apperrors.Forbidden("Not authorized to " + action + " this request")
	}
	return friendship, nil
}

// List returns accepted friendships and incoming pending requests, both
// from the caller's point of view. Outgoing pending requests are not
// listed here; Requests exposes the incoming side only, on purpose.
func (s *FriendService) List(ctx context.Context, userID string) (friends, pending []FriendEntry, err error) {
	accepted, err := s.friendRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list friends: %w", err)
	}
	incoming, err := s.friendRepo.ListIncoming(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	friends = make([]FriendEntry, 0, len(accepted))
	for _, f := range accepted {
		friends = append(friends, toEntry(f, userID))
	}
	pending = make([]FriendEntry, 0, len(incoming))
	for _, f := range incoming {
		pending = append(pending, toEntry(f, userID))
	}
	return friends, pending, nil
}

// Requests returns incoming pending requests with the requester's ID.
func (s *FriendService) Requests(ctx context.Context, userID string) ([]RequestEntry, error) {
	incoming, err := s.friendRepo.ListIncoming(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	requests := make([]RequestEntry, 0, len(incoming))
	for _, f := range incoming {
		requests = append(requests, RequestEntry{
			ID:        f.ID,
			UserID:    f.UserID,
			Status:    f.Status,
			CreatedAt: f.CreatedAt,
		})
	}
	return requests, nil
}

func toEntry(f *models.Friendship, userID string) FriendEntry {
	return FriendEntry{
		ID:        f.ID,
		FriendID:  f.Other(userID),
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
	}
}

// AreFriends reports whether the two users share an accepted friendship.
func (s *FriendService) AreFriends(ctx context.Context, userIDA, userIDB string) (bool, error) {
	return s.friendRepo.AreFriends(ctx, userIDA, userIDB)
}
