package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trailswipe-backend/internal/middleware"
	"trailswipe-backend/internal/models"
	"trailswipe-backend/internal/repository/memory"
	"trailswipe-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *chi.Mux
	store  *memory.Store
}

// newTestEnv wires the full handler stack over the in-memory store, the
// same shape the server boots with.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()

	userService := services.NewUserService(store.Users(), "test-secret")
	trailService := services.NewTrailService(store.Trails(), store.Users(), nil, nil)
	swipeService := services.NewSwipeService(store.Swipes(), store.Trails(), store.Matches(), store.Friendships())
	friendService := services.NewFriendService(store.Friendships(), store.Users())
	matchService := services.NewMatchService(store.Matches())

	userHandler := NewUserHandler(userService)
	trailHandler := NewTrailHandler(trailService)
	swipeHandler := NewSwipeHandler(swipeService)
	friendHandler := NewFriendHandler(friendService)
	matchHandler := NewMatchHandler(matchService)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Get("/auth/me", userHandler.Me)
			r.Put("/auth/profile", userHandler.UpdateProfile)
			r.Get("/trails/cards", trailHandler.Cards)
			r.Get("/trails/saved", trailHandler.Saved)
			r.Get("/trails/{id}", trailHandler.Get)
			r.Post("/swipes", swipeHandler.Create)
			r.Get("/swipes", swipeHandler.List)
			r.Post("/swipes/clear", swipeHandler.Clear)
			r.Post("/friends/invite", friendHandler.Invite)
			r.Post("/friends/accept", friendHandler.Accept)
			r.Post("/friends/decline", friendHandler.Decline)
			r.Get("/friends", friendHandler.List)
			r.Get("/friends/requests", friendHandler.Requests)
			r.Get("/matches", matchHandler.List)
		})
	})

	return &testEnv{router: r, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, email, name string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (e *testEnv) userID(t *testing.T, token string) string {
	t.Helper()
	rec := e.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	return me.ID
}

func (e *testEnv) seedTrail(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.store.Trails().Create(context.Background(), &models.Trail{
		ID:         id,
		Name:       "Trail " + id,
		Distance:   5,
		Elevation:  100,
		Difficulty: models.DifficultyEasy,
		Tags:       []string{"scenic"},
		Location:   models.GeoPoint{Type: "Point", Coordinates: []float64{-122.4194, 37.7800}},
	}))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "password123", "name": "A"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "password123", "name": "A"}},
		{"short password", map[string]string{"email": "a@example.com", "password": "short", "name": "A"}},
		{"missing name", map[string]string{"email": "a@example.com", "password": "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, "VALIDATION_ERROR", resp.Code)
		})
	}
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "Alice")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "password123", "name": "Alice",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "CONFLICT", resp.Code)
	assert.Equal(t, "User with this email already exists", resp.Error)
}

func TestAuth_ProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MeAndProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice@example.com", "Alice")

	rec := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.User
	decodeBody(t, rec, &me)
	assert.Equal(t, "alice@example.com", me.Email)
	require.NotNil(t, me.Profile)

	rec = env.do(t, http.MethodPut, "/api/auth/profile", token, map[string]any{
		"preferences": map[string]any{
			"difficulty":  []string{"hard"},
			"maxDistance": 25,
			"elevation":   "high",
			"tags":        []string{"summit"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.User
	decodeBody(t, rec, &updated)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, []string{"hard"}, updated.Profile.Preferences.Difficulty)
	assert.Equal(t, 25.0, updated.Profile.Preferences.MaxDistance)
	// Untouched fields survive the patch
	assert.NotNil(t, updated.Profile.Location)
}

func TestTrailCards_InvalidPagination(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice@example.com", "Alice")

	for _, query := range []string{"page=0", "page=-1", "limit=0", "page=abc", "maxDistance=-5"} {
		rec := env.do(t, http.MethodGet, "/api/trails/cards?"+query, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)

		var resp ErrorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Invalid query parameters", resp.Error)
	}
}

func TestTrailCards_ReturnsScoredPage(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice@example.com", "Alice")
	for _, id := range []string{"t1", "t2", "t3"} {
		env.seedTrail(t, id)
	}

	rec := env.do(t, http.MethodGet, "/api/trails/cards?limit=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page struct {
		Trails     []models.ScoredTrail `json:"trails"`
		Pagination services.Pagination  `json:"pagination"`
	}
	decodeBody(t, rec, &page)

	assert.Len(t, page.Trails, 2)
	assert.Positive(t, page.Trails[0].Score)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
}

func TestSwipeFlow_CreateListClear(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice@example.com", "Alice")
	env.seedTrail(t, "t1")

	rec := env.do(t, http.MethodPost, "/api/swipes", token, map[string]string{
		"trailId": "t1", "direction": "right",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var swipe SwipeResponse
	decodeBody(t, rec, &swipe)
	assert.Equal(t, "t1", swipe.TrailID)
	assert.Equal(t, "right", swipe.Direction)
	assert.Nil(t, swipe.Match)

	// Second swipe on the same trail conflicts
	rec = env.do(t, http.MethodPost, "/api/swipes", token, map[string]string{
		"trailId": "t1", "direction": "left",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "Already swiped on this trail", errResp.Error)

	// Bad direction is a validation error
	rec = env.do(t, http.MethodPost, "/api/swipes", token, map[string]string{
		"trailId": "t1", "direction": "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/swipes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list SwipesResponse
	decodeBody(t, rec, &list)
	assert.Len(t, list.Swipes, 1)

	rec = env.do(t, http.MethodPost, "/api/swipes/clear", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var clear ClearResponse
	decodeBody(t, rec, &clear)
	assert.Equal(t, 1, clear.Cleared)
	assert.Zero(t, clear.Remaining)
}

func TestSwipe_MatchSurfacesInResponse(t *testing.T) {
	env := newTestEnv(t)
	aliceToken := env.register(t, "alice@example.com", "Alice")
	bobToken := env.register(t, "bob@example.com", "Bob")
	env.seedTrail(t, "t1")

	// Befriend the two via the API
	rec := env.do(t, http.MethodPost, "/api/friends/invite", aliceToken, map[string]string{
		"friendEmail": "bob@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var invite FriendshipResponse
	decodeBody(t, rec, &invite)

	rec = env.do(t, http.MethodPost, "/api/friends/accept", bobToken, map[string]string{
		"friendshipId": invite.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/swipes", aliceToken, map[string]string{
		"trailId": "t1", "direction": "right",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/swipes", bobToken, map[string]string{
		"trailId": "t1", "direction": "right",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var swipe SwipeResponse
	decodeBody(t, rec, &swipe)
	require.NotNil(t, swipe.Match)
	assert.Equal(t, "t1", swipe.Match.TrailID)

	// Both sides see the match
	for _, token := range []string{aliceToken, bobToken} {
		rec = env.do(t, http.MethodGet, "/api/matches", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var matches MatchesResponse
		decodeBody(t, rec, &matches)
		assert.Len(t, matches.Matches, 1)
	}
}

func TestFriendFlow_InviteAcceptDecline(t *testing.T) {
	env := newTestEnv(t)
	aliceToken := env.register(t, "alice@example.com", "Alice")
	bobToken := env.register(t, "bob@example.com", "Bob")
	env.register(t, "carol@example.com", "Carol")

	// Invite to an unknown email
	rec := env.do(t, http.MethodPost, "/api/friends/invite", aliceToken, map[string]string{
		"friendEmail": "nobody@example.com",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/friends/invite", aliceToken, map[string]string{
		"friendEmail": "bob@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var invite FriendshipResponse
	decodeBody(t, rec, &invite)
	assert.Equal(t, "pending", invite.Status)

	// The response carries both sides of the row: requester and recipient
	aliceID := env.userID(t, aliceToken)
	bobID := env.userID(t, bobToken)
	assert.Equal(t, aliceID, invite.UserID)
	assert.Equal(t, bobID, invite.FriendID)

	// Bob sees the incoming request
	rec = env.do(t, http.MethodGet, "/api/friends/requests", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var requests RequestsResponse
	decodeBody(t, rec, &requests)
	require.Len(t, requests.Requests, 1)

	// Alice cannot accept her own invite
	rec = env.do(t, http.MethodPost, "/api/friends/accept", aliceToken, map[string]string{
		"friendshipId": invite.ID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/friends/accept", bobToken, map[string]string{
		"friendshipId": invite.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var accepted FriendshipResponse
	decodeBody(t, rec, &accepted)
	assert.Equal(t, "accepted", accepted.Status)
	assert.Equal(t, aliceID, accepted.UserID)
	assert.Equal(t, bobID, accepted.FriendID)

	// Both sides list each other as friends
	rec = env.do(t, http.MethodGet, "/api/friends", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var aliceFriends FriendListResponse
	decodeBody(t, rec, &aliceFriends)
	require.Len(t, aliceFriends.Friends, 1)
	assert.Empty(t, aliceFriends.PendingRequests)

	// Decline flow with a second invite pair
	rec = env.do(t, http.MethodPost, "/api/friends/invite", bobToken, map[string]string{
		"friendEmail": "carol@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var toCarol FriendshipResponse
	decodeBody(t, rec, &toCarol)

	carolToken := env.login(t, "carol@example.com")
	rec = env.do(t, http.MethodPost, "/api/friends/decline", carolToken, map[string]string{
		"friendshipId": toCarol.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var declined map[string]string
	decodeBody(t, rec, &declined)
	assert.Equal(t, "Friend request declined", declined["message"])
}

func TestTrailGet(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice@example.com", "Alice")
	env.seedTrail(t, "t1")

	rec := env.do(t, http.MethodGet, "/api/trails/t1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trail models.Trail
	decodeBody(t, rec, &trail)
	assert.Equal(t, "Trail t1", trail.Name)

	rec = env.do(t, http.MethodGet, "/api/trails/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrailsSaved(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice@example.com", "Alice")
	env.seedTrail(t, "t1")
	env.seedTrail(t, "t2")

	rec := env.do(t, http.MethodPost, "/api/swipes", token, map[string]string{
		"trailId": "t2", "direction": "right",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/trails/saved", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var saved TrailsResponse
	decodeBody(t, rec, &saved)
	require.Len(t, saved.Trails, 1)
	assert.Equal(t, "t2", saved.Trails[0].ID)
}
