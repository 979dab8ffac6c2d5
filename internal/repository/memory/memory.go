// Package memory holds mutex-guarded in-memory stores implementing the
// repository interfaces. They back tests and the memory database driver,
// and preserve insertion order so the match detector's tie-break behaves
// the same as with the Postgres stores.
package memory

import (
	"context"
	"sync"

	"trailswipe-backend/internal/models"
	"trailswipe-backend/internal/repository"
)

// Store implements every repository interface over in-process slices.
type Store struct {
	mu          sync.RWMutex
	users       []*models.User
	trails      []*models.Trail
	swipes      []*models.Swipe
	matches     []*models.Match
	friendships []*models.Friendship
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{}
}

// Clear drops all data. Test helper.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
	s.trails = nil
	s.swipes = nil
	s.matches = nil
	s.friendships = nil
}

// --- UserStore ---

// Users returns a UserStore view of the store. Each entity gets its own
// view type so their Create methods do not collide on Store.
func (s *Store) Users() *UserStore { return &UserStore{s} }

type UserStore struct {
	s *Store
}

func (u *UserStore) Create(ctx context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, existing := range u.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	u.s.users = append(u.s.users, user)
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, user := range u.s.users {
		if user.ID == id {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, user := range u.s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *UserStore) UpdateProfile(ctx context.Context, userID string, prefs *models.Preferences, location *models.GeoPoint) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if user.ID == userID {
			if user.Profile == nil {
				return nil, repository.ErrNotFound
			}
			if prefs != nil {
				user.Profile.Preferences = *prefs
			}
			if location != nil {
				user.Profile.Location = location
			}
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrNotFound
}

// cloneUser snapshots a user so callers never hold a pointer the store
// mutates later. Preference slices and the location are replaced wholesale
// on update, never edited in place, so copying the structs is enough.
func cloneUser(user *models.User) *models.User {
	out := *user
	if user.Profile != nil {
		profile := *user.Profile
		out.Profile = &profile
	}
	return &out
}

// --- TrailStore ---

// Trails returns a TrailStore view of the store.
func (s *Store) Trails() *TrailStore { return &TrailStore{s} }

type TrailStore struct {
	s *Store
}

func (t *TrailStore) Create(ctx context.Context, trail *models.Trail) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.trails = append(t.s.trails, trail)
	return nil
}

func (t *TrailStore) GetByID(ctx context.Context, id string) (*models.Trail, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	for _, trail := range t.s.trails {
		if trail.ID == id {
			return trail, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (t *TrailStore) List(ctx context.Context) ([]*models.Trail, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]*models.Trail, len(t.s.trails))
	copy(out, t.s.trails)
	return out, nil
}

func (t *TrailStore) ListExcludingSwiped(ctx context.Context, userID string, direction models.SwipeDirection) ([]*models.Trail, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	swiped := t.s.swipedTrailIDs(userID, direction)
	var out []*models.Trail
	for _, trail := range t.s.trails {
		if !swiped[trail.ID] {
			out = append(out, trail)
		}
	}
	return out, nil
}

func (t *TrailStore) ListSwiped(ctx context.Context, userID string, direction models.SwipeDirection) ([]*models.Trail, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	swiped := t.s.swipedTrailIDs(userID, direction)
	var out []*models.Trail
	for _, trail := range t.s.trails {
		if swiped[trail.ID] {
			out = append(out, trail)
		}
	}
	return out, nil
}

func (t *TrailStore) Count(ctx context.Context) (int, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return len(t.s.trails), nil
}

// swipedTrailIDs requires the caller to hold the lock.
func (s *Store) swipedTrailIDs(userID string, direction models.SwipeDirection) map[string]bool {
	ids := make(map[string]bool)
	for _, swipe := range s.swipes {
		if swipe.UserID == userID && swipe.Direction == direction {
			ids[swipe.TrailID] = true
		}
	}
	return ids
}

// --- SwipeStore ---

// Swipes returns a SwipeStore view of the store.
func (s *Store) Swipes() *SwipeStore { return &SwipeStore{s} }

type SwipeStore struct {
	s *Store
}

// Create checks and inserts under one lock, which is what makes the
// one-swipe-per-pair invariant hold under concurrent requests.
func (w *SwipeStore) Create(ctx context.Context, swipe *models.Swipe) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	for _, existing := range w.s.swipes {
		if existing.UserID == swipe.UserID && existing.TrailID == swipe.TrailID {
			return repository.ErrDuplicate
		}
	}
	w.s.swipes = append(w.s.swipes, swipe)
	return nil
}

func (w *SwipeStore) ListByUser(ctx context.Context, userID string) ([]*models.Swipe, error) {
	w.s.mu.RLock()
	defer w.s.mu.RUnlock()
	var out []*models.Swipe
	for _, swipe := range w.s.swipes {
		if swipe.UserID == userID {
			out = append(out, swipe)
		}
	}
	return out, nil
}

func (w *SwipeStore) ListByTrailAndDirection(ctx context.Context, trailID string, direction models.SwipeDirection) ([]*models.Swipe, error) {
	w.s.mu.RLock()
	defer w.s.mu.RUnlock()
	var out []*models.Swipe
	for _, swipe := range w.s.swipes {
		if swipe.TrailID == trailID && swipe.Direction == direction {
			out = append(out, swipe)
		}
	}
	return out, nil
}

func (w *SwipeStore) DeleteByUser(ctx context.Context, userID string) (int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	kept := w.s.swipes[:0]
	deleted := 0
	for _, swipe := range w.s.swipes {
		if swipe.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, swipe)
	}
	w.s.swipes = kept
	return deleted, nil
}

// --- MatchStore ---

// Matches returns a MatchStore view of the store.
func (s *Store) Matches() *MatchStore { return &MatchStore{s} }

type MatchStore struct {
	s *Store
}

// Create checks and inserts under one lock; see SwipeStore.Create.
func (m *MatchStore) Create(ctx context.Context, match *models.Match) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.matches {
		if existing.TrailID == match.TrailID &&
			samePair(existing.UserAID, existing.UserBID, match.UserAID, match.UserBID) {
			return repository.ErrDuplicate
		}
	}
	m.s.matches = append(m.s.matches, match)
	return nil
}

func (m *MatchStore) GetByUsersAndTrail(ctx context.Context, userAID, userBID, trailID string) (*models.Match, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, match := range m.s.matches {
		if match.TrailID == trailID && samePair(match.UserAID, match.UserBID, userAID, userBID) {
			return match, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MatchStore) ListByUser(ctx context.Context, userID string) ([]*models.Match, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []*models.Match
	for _, match := range m.s.matches {
		if match.UserAID == userID || match.UserBID == userID {
			out = append(out, match)
		}
	}
	return out, nil
}

func samePair(a1, b1, a2, b2 string) bool {
	return (a1 == a2 && b1 == b2) || (a1 == b2 && b1 == a2)
}

// --- FriendshipStore ---

// Friendships returns a FriendshipStore view of the store.
func (s *Store) Friendships() *FriendshipStore { return &FriendshipStore{s} }

type FriendshipStore struct {
	s *Store
}

func (f *FriendshipStore) Create(ctx context.Context, friendship *models.Friendship) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.friendships {
		if samePair(existing.UserID, existing.FriendID, friendship.UserID, friendship.FriendID) {
			return repository.ErrDuplicate
		}
	}
	f.s.friendships = append(f.s.friendships, friendship)
	return nil
}

func (f *FriendshipStore) GetByID(ctx context.Context, id string) (*models.Friendship, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()
	for _, friendship := range f.s.friendships {
		if friendship.ID == id {
			return cloneFriendship(friendship), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FriendshipStore) GetByUsers(ctx context.Context, userID, friendID string) (*models.Friendship, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()
	for _, friendship := range f.s.friendships {
		if samePair(friendship.UserID, friendship.FriendID, userID, friendID) {
			return cloneFriendship(friendship), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FriendshipStore) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	friendship, err := f.GetByUsers(ctx, userID, friendID)
	if err != nil {
		return false, nil
	}
	return friendship.Status == models.FriendshipAccepted, nil
}

func (f *FriendshipStore) UpdateStatus(ctx context.Context, id, status string) (*models.Friendship, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, friendship := range f.s.friendships {
		if friendship.ID == id {
			friendship.Status = status
			return cloneFriendship(friendship), nil
		}
	}
	return nil, repository.ErrNotFound
}

// cloneFriendship snapshots a friendship; UpdateStatus mutates the stored
// row, so callers get a copy. See cloneUser.
func cloneFriendship(friendship *models.Friendship) *models.Friendship {
	out := *friendship
	return &out
}

func (f *FriendshipStore) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i, friendship := range f.s.friendships {
		if friendship.ID == id {
			f.s.friendships = append(f.s.friendships[:i], f.s.friendships[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *FriendshipStore) ListAccepted(ctx context.Context, userID string) ([]*models.Friendship, error) {
	return f.listByStatus(userID, models.FriendshipAccepted, false)
}

func (f *FriendshipStore) ListIncoming(ctx context.Context, userID string) ([]*models.Friendship, error) {
	return f.listByStatus(userID, models.FriendshipPending, true)
}

func (f *FriendshipStore) listByStatus(userID, status string, recipientOnly bool) ([]*models.Friendship, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()
	var out []*models.Friendship
	for _, friendship := range f.s.friendships {
		if friendship.Status != status {
			continue
		}
		if recipientOnly {
			if friendship.FriendID == userID {
				out = append(out, cloneFriendship(friendship))
			}
			continue
		}
		if friendship.UserID == userID || friendship.FriendID == userID {
			out = append(out, cloneFriendship(friendship))
		}
	}
	return out, nil
}
