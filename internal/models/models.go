package models

import "time"

// SwipeDirection is a user's one-time decision on a trail.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"  // reject
	SwipeRight SwipeDirection = "right" // like
	SwipeUp    SwipeDirection = "up"    // bucket list
)

// Trail difficulty levels.
const (
	DifficultyEasy     = "easy"
	DifficultyModerate = "moderate"
	DifficultyHard     = "hard"
)

// Elevation preference bands.
const (
	ElevationLow    = "low"    // below 500m
	ElevationMedium = "medium" // 500m to 1499m
	ElevationHigh   = "high"   // 1500m and above
)

// Friendship statuses. A declined request is deleted, not stored.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// GeoPoint is a GeoJSON point; coordinates are [longitude, latitude]
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Lat returns the latitude component of the point.
func (p *GeoPoint) Lat() float64 {
	if p == nil || len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Lon returns the longitude component of the point.
func (p *GeoPoint) Lon() float64 {
	if p == nil || len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

// Preferences holds a user's stored filter and scoring defaults.
// A zero MaxDistance means unset; the scorer falls back to 50km.
type Preferences struct {
	Difficulty  []string `json:"difficulty"`
	MaxDistance float64  `json:"maxDistance"`
	Elevation   string   `json:"elevation"`
	Tags        []string `json:"tags"`
}

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Profile      *Profile  `json:"profile,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is owned 1:1 by a user and never outlives it
type Profile struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Name        string      `json:"name"`
	Preferences Preferences `json:"preferences"`
	Location    *GeoPoint   `json:"location,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Trail is an immutable reference entity created by the seed process
type Trail struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Distance    float64   `json:"distance"`  // trail length in km
	Elevation   float64   `json:"elevation"` // meters
	Difficulty  string    `json:"difficulty"`
	Tags        []string  `json:"tags"`
	Location    GeoPoint  `json:"location"`
	Photos      []Photo   `json:"photos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ScoredTrail is a trail annotated with its relevance score for one user.
type ScoredTrail struct {
	Trail
	Score int `json:"score"`
}

// Photo belongs to a trail; at most one per trail is flagged primary
type Photo struct {
	ID        string    `json:"id"`
	TrailID   string    `json:"trailId"`
	URL       string    `json:"url"`
	Alt       string    `json:"alt,omitempty"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
}

// Swipe records a user's decision on a trail. At most one swipe may ever
// exist per (user, trail) pair; repositories enforce this at write time.
type Swipe struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	TrailID   string         `json:"trailId"`
	Direction SwipeDirection `json:"direction"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Match links two accepted friends who both right-swiped the same trail.
// UserAID sorts before UserBID so each (pair, trail) triple has a single
// canonical row.
type Match struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"userAId"`
	UserBID   string    `json:"userBId"`
	TrailID   string    `json:"trailId"`
	CreatedAt time.Time `json:"createdAt"`
}

// OtherUser returns the match participant that is not userID.
func (m *Match) OtherUser(userID string) string {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// Friendship is a directed request edge: UserID invited FriendID.
// Existence checks treat the pair as unordered; only FriendID may accept.
type Friendship struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FriendID  string    `json:"friendId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Other returns the friendship participant that is not userID.
func (f *Friendship) Other(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}
