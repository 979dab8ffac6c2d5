package services

import (
	"context"
	"testing"

	"trailswipe-backend/internal/apperrors"
	"trailswipe-backend/internal/models"
	"trailswipe-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type friendFixture struct {
	store *memory.Store
	svc   *FriendService
	ctx   context.Context
}

func newFriendFixture(t *testing.T, userIDs ...string) *friendFixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for _, id := range userIDs {
		require.NoError(t, store.Users().Create(ctx, &models.User{
			ID:    id,
			Email: id + "@example.com",
		}))
	}
	return &friendFixture{
		store: store,
		svc:   NewFriendService(store.Friendships(), store.Users()),
		ctx:   ctx,
	}
}

func requireAPIError(t *testing.T, err error, code, message string) {
	t.Helper()
	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, code, apiErr.Code)
	assert.Equal(t, message, apiErr.Message)
}

func TestInvite_CreatesPendingRequest(t *testing.T) {
	f := newFriendFixture(t, "alice", "bob")

	friendship, err := f.svc.Invite(f.ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, "alice", friendship.UserID)
	assert.Equal(t, "bob", friendship.FriendID)
	assert.Equal(t, models.FriendshipPending, friendship.Status)
}

func TestInvite_UnknownEmail(t *testing.T) {
	f := newFriendFixture(t, "alice")

	_, err := f.svc.Invite(f.ctx, "alice", "nobody@example.com")
	requireAPIError(t, err, apperrors.CodeNotFound, "User not found")
}

func TestInvite_Self(t *testing.T) {
	f := newFriendFixture(t, "alice")

	_, err := f.svc.Invite(f.ctx, "alice", "alice@example.com")
	requireAPIError(t, err, apperrors.CodeValidation, "Cannot send friend request to yourself")
}

func TestInvite_DuplicatePending(t *testing.T) {
	f := newFriendFixture(t, "alice", "bob")

	_, err := f.svc.Invite(f.ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	_, err = f.svc.Invite(f.ctx, "alice", "bob@example.com")
	requireAPIError(t, err, apperrors.CodeConflict, "Friend request already sent")

	// The reverse direction collides with the same pending row
	_, err = f.svc.Invite(f.ctx, "bob", "alice@example.com")
	requireAPIError(t, err, apperrors.CodeConflict, "Friend request already sent")
}

func TestInvite_AlreadyFriends(t *testing.T) {
	f := newFriendFixture(t, "alice", "bob")

	friendship, err := f.svc.Invite(f.ctx, "alice", "bob@example.com")
	require.NoError(t, err)
	_, err = f.svc.Accept(f.ctx, "bob", friendship.ID)
	require.NoError(t, err)

	_, err = f.svc.Invite(f.ctx, "alice", "bob@example.com")
	requireAPIError(t, err, apperrors.CodeConflict, "Already friends with this user")
}

func TestAccept_OnlyRecipient(t *testing.T) {
	f := newFriendFixture(t, "alice", "bob", "carol")

	friendship, err := f.svc.Invite(f.ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	// The sender cannot accept their own request
	_, err = f.svc.Accept(f.ctx, "alice", friendship.ID)
	requireAPIError(t, err, apperrors.CodeForbidden, "Not authorized to accept this request")

	// Neither can a third party
	_, err = f.svc.Accept(f.ctx, "carol", friendship.ID)
	requireAPIError(t, err, apperrors.CodeForbidden, "Not authorized to accept this request")

	accepted, err := f.svc.Accept(f.ctx, "bob", friendship.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipAccepted, accepted.Status)

	ok, err := f.svc.AreFriends(f.ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccept_Twice(t *testing.T) {
	f := newFriendFixture(t, "alice", "bob")

	friendship, err := f.svc.Invite(f.ctx, "alice", "bob@example.com")
	require.NoError(t, err)
	_, err = f.svc.Accept(f.ctx, "bob", friendship.ID)
	require.NoError(t, err)

	_, err = f.svc.Accept(f.ctx, "bob", friendship.ID)
	requireAPIError(t, err, apperrors.CodeConflict, "Friend request already accepted")
}

func TestAccept_UnknownRequest(t *testing.T) {
	f := newFriendFixture(t, "alice")

	_, err := f.svc.Accept(f.ctx, "alice", "missing")
	requireAPIError(t, err, apperrors.CodeNotFound, "Friend request not found")
}

func TestDecline_RemovesRequestAndAllowsReinvite(t *testing.T) {
	f := newFriendFixture(t, "alice", "bob")

	friendship, err := f.svc.Invite(f.ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	// Only the recipient may decline
	err = f.svc.Decline(f.ctx, "alice", friendship.ID)
	requireAPIError(t, err, apperrors.CodeForbidden, "Not authorized to decline this request")

	require.NoError(t, f.svc.Decline(f.ctx, "bob", friendship.ID))

	ok, err := f.svc.AreFriends(f.ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	// No declined state survives; a fresh invite goes through
	again, err := f.svc.Invite(f.ctx, "alice", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipPending, again.Status)
}

func TestList_SplitsFriendsAndIncomingRequests(t *testing.T) {
	f := newFriendFixture(t, "alice", "bob", "carol", "dave")

	// alice <-> bob accepted
	accepted, err := f.svc.Invite(f.ctx, "bob", "alice@example.com")
	require.NoError(t, err)
	_, err = f.svc.Accept(f.ctx, "alice", accepted.ID)
	require.NoError(t, err)

	// carol -> alice pending (incoming for alice)
	incoming, err := f.svc.Invite(f.ctx, "carol", "alice@example.com")
	require.NoError(t, err)

	// alice -> dave pending (outgoing, not listed)
	_, err = f.svc.Invite(f.ctx, "alice", "dave@example.com")
	require.NoError(t, err)

	friends, pending, err := f.svc.List(f.ctx, "alice")
	require.NoError(t, err)

	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].FriendID)
	assert.Equal(t, models.FriendshipAccepted, friends[0].Status)

	require.Len(t, pending, 1)
	assert.Equal(t, incoming.ID, pending[0].ID)
	assert.Equal(t, "carol", pending[0].FriendID)
}

func TestRequests_IncomingOnly(t *testing.T) {
	f := newFriendFixture(t, "alice", "bob", "carol")

	_, err := f.svc.Invite(f.ctx, "bob", "alice@example.com")
	require.NoError(t, err)
	_, err = f.svc.Invite(f.ctx, "alice", "carol@example.com")
	require.NoError(t, err)

	requests, err := f.svc.Requests(f.ctx, "alice")
	require.NoError(t, err)

	require.Len(t, requests, 1)
	assert.Equal(t, "bob", requests[0].UserID)
	assert.Equal(t, models.FriendshipPending, requests[0].Status)
}
