package repository

import (
	"context"
	"errors"

	"trailswipe-backend/internal/models"
)

// Sentinel errors shared by every store implementation. Services translate
// these into API errors; nothing else inspects storage failures.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// UserStore persists users and their 1:1 profiles.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, prefs *models.Preferences, location *models.GeoPoint) (*models.User, error)
}

// TrailStore persists the immutable trail catalog.
type TrailStore interface {
	Create(ctx context.Context, trail *models.Trail) error
	GetByID(ctx context.Context, id string) (*models.Trail, error)
	List(ctx context.Context) ([]*models.Trail, error)
	// ListExcludingSwiped returns trails on which userID has no swipe in the
	// given direction.
	ListExcludingSwiped(ctx context.Context, userID string, direction models.SwipeDirection) ([]*models.Trail, error)
	// ListSwiped returns trails on which userID swiped in the given direction.
	ListSwiped(ctx context.Context, userID string, direction models.SwipeDirection) ([]*models.Trail, error)
	Count(ctx context.Context) (int, error)
}

// SwipeStore persists swipes. Create must reject a second swipe for the same
// (user, trail) pair with ErrDuplicate, atomically with respect to
// concurrent creates for that pair.
type SwipeStore interface {
	Create(ctx context.Context, swipe *models.Swipe) error
	ListByUser(ctx context.Context, userID string) ([]*models.Swipe, error)
	// ListByTrailAndDirection returns swipes ordered by creation time; the
	// match detector depends on that ordering.
	ListByTrailAndDirection(ctx context.Context, trailID string, direction models.SwipeDirection) ([]*models.Swipe, error)
	// DeleteByUser removes all of a user's swipes and reports how many.
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// MatchStore persists matches. Create must reject a second match for the
// same (user pair, trail) triple with ErrDuplicate.
type MatchStore interface {
	Create(ctx context.Context, match *models.Match) error
	GetByUsersAndTrail(ctx context.Context, userAID, userBID, trailID string) (*models.Match, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Match, error)
}

// FriendshipStore persists friendship edges. GetByUsers and AreFriends are
// direction-agnostic; the stored edge keeps requester and recipient apart.
type FriendshipStore interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id string) (*models.Friendship, error)
	GetByUsers(ctx context.Context, userID, friendID string) (*models.Friendship, error)
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Friendship, error)
	Delete(ctx context.Context, id string) error
	ListAccepted(ctx context.Context, userID string) ([]*models.Friendship, error)
	// ListIncoming returns pending requests where userID is the recipient.
	ListIncoming(ctx context.Context, userID string) ([]*models.Friendship, error)
}
