package userservice

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogspot/internal/common"
)

type publishedEvent struct {
	body     []byte
	key      common.BindingKey
	exchange common.Exchange
}

type mockProducer struct {
	events []publishedEvent
	err    error
}

func (p *mockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{body: msg, key: key, exchange: exchange})
	return nil
}

type notifyCall struct {
	recipientID int
	actorID     int
	kind        string
	message     string
	referenceID *int
}

type mockNotifier struct {
	calls []notifyCall
}

func (n *mockNotifier) Notify(ctx context.Context, recipientID, actorID int, kind, message string, referenceID *int) error {
	n.calls = append(n.calls, notifyCall{recipientID, actorID, kind, message, referenceID})
	return nil
}

func setupTestService(t *testing.T) (*UserService, *mockProducer, *mockNotifier, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	producer := &mockProducer{}
	notifier := &mockNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewUserService(db, producer, notifier, logger), producer, notifier, db
}

func TestRegisterUser(t *testing.T) {
	s, producer, _, _ := setupTestService(t)
	ctx := context.Background()

	user, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice", user.DisplayName)

	require.Len(t, producer.events, 1)
	assert.Equal(t, common.UserCreatedKey, producer.events[0].key)
	assert.Equal(t, common.UserExchange, producer.events[0].exchange)
}

func TestRegisterUserDuplicates(t *testing.T) {
	s, _, _, _ := setupTestService(t)
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)

	_, err = s.RegisterUser(ctx, "alice", "other@example.com", "Password1!")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = s.RegisterUser(ctx, "bob", "alice@example.com", "Password1!")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterUserBrokerFailureDoesNotFail(t *testing.T) {
	s, producer, _, _ := setupTestService(t)
	producer.err = errors.New("broker down")
	ctx := context.Background()

	user, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestLoginUser(t *testing.T) {
	s, _, _, _ := setupTestService(t)
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)

	token, err := s.LoginUser(ctx, "alice", "Password1!")
	require.NoError(t, err)
	assert.Len(t, token.Plain, 26)

	user, err := s.GetUserByAccessToken(ctx, token.Plain)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = s.LoginUser(ctx, "alice", "WrongPassword1!")
	assert.ErrorIs(t, err, ErrAuthenticationFailure)

	_, err = s.LoginUser(ctx, "nobody", "Password1!")
	assert.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestLogoutUser(t *testing.T) {
	s, _, _, _ := setupTestService(t)
	ctx := context.Background()

	user, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)

	token, err := s.LoginUser(ctx, "alice", "Password1!")
	require.NoError(t, err)

	err = s.LogoutUser(ctx, user.ID)
	require.NoError(t, err)

	_, err = s.GetUserByAccessToken(ctx, token.Plain)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	s, _, _, _ := setupTestService(t)
	ctx := context.Background()

	user, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)

	updated, err := s.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		DisplayName: "Alice",
		Bio:         "I write things.",
		Website:     "https://alice.dev",
		Location:    "Berlin",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.DisplayName)
	assert.Equal(t, 2, updated.Version)

	profile, err := s.GetProfile(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.DisplayName)
	assert.Equal(t, "https://alice.dev", profile.Website)
}

func TestToggleFollow(t *testing.T) {
	s, _, notifier, _ := setupTestService(t)
	ctx := context.Background()

	alice, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)
	bob, err := s.RegisterUser(ctx, "bob", "bob@example.com", "Password1!")
	require.NoError(t, err)

	following, err := s.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, bob.ID, notifier.calls[0].recipientID)
	assert.Equal(t, alice.ID, notifier.calls[0].actorID)
	assert.Equal(t, "Follow", notifier.calls[0].kind)
	assert.Equal(t, "alice started following you", notifier.calls[0].message)

	profile, err := s.GetProfile(ctx, bob.ID, &alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.FollowerCount)
	assert.True(t, profile.IsFollowedByCurrentUser)

	// unfollow does not notify
	following, err = s.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Len(t, notifier.calls, 1)

	profile, err = s.GetProfile(ctx, bob.ID, &alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.FollowerCount)
	assert.False(t, profile.IsFollowedByCurrentUser)
}

func TestToggleFollowSelf(t *testing.T) {
	s, _, notifier, _ := setupTestService(t)
	ctx := context.Background()

	alice, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)

	_, err = s.ToggleFollow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.Empty(t, notifier.calls)
}

func TestFollowersAndFollowing(t *testing.T) {
	s, _, _, _ := setupTestService(t)
	ctx := context.Background()

	alice, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)
	bob, err := s.RegisterUser(ctx, "bob", "bob@example.com", "Password1!")
	require.NoError(t, err)
	carol, err := s.RegisterUser(ctx, "carol", "carol@example.com", "Password1!")
	require.NoError(t, err)

	_, err = s.ToggleFollow(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = s.ToggleFollow(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	followers, err := s.GetFollowers(ctx, carol.ID, common.PageParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, followers.TotalCount)

	following, err := s.GetFollowing(ctx, alice.ID, common.PageParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, following.Items, 1)
	assert.Equal(t, "carol", following.Items[0].Username)
}

func TestSuggestedUsers(t *testing.T) {
	s, _, _, _ := setupTestService(t)
	ctx := context.Background()

	alice, err := s.RegisterUser(ctx, "alice", "alice@example.com", "Password1!")
	require.NoError(t, err)
	bob, err := s.RegisterUser(ctx, "bob", "bob@example.com", "Password1!")
	require.NoError(t, err)
	carol, err := s.RegisterUser(ctx, "carol", "carol@example.com", "Password1!")
	require.NoError(t, err)

	// carol has a follower, bob has none, alice already follows nobody
	_, err = s.ToggleFollow(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	suggested, err := s.GetSuggestedUsers(ctx, alice.ID)
	require.NoError(t, err)

	require.Len(t, suggested, 2)
	assert.Equal(t, "carol", suggested[0].Username)
	assert.Equal(t, 1, suggested[0].FollowerCount)
	assert.Equal(t, "bob", suggested[1].Username)

	// following carol removes her from the suggestions
	_, err = s.ToggleFollow(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	suggested, err = s.GetSuggestedUsers(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, suggested, 1)
	assert.Equal(t, "bob", suggested[0].Username)
}

func TestCreatorAnalytics(t *testing.T) {
	s, _, _, db := setupTestService(t)
	ctx := context.Background()

	author, err := s.RegisterUser(ctx, "author", "author@example.com", "Password1!")
	require.NoError(t, err)
	reader, err := s.RegisterUser(ctx, "reader", "reader@example.com", "Password1!")
	require.NoError(t, err)

	var postID int
	err = db.QueryRow(`
		INSERT INTO posts (title, content, slug, author_id, view_count)
		VALUES ('t', 'c', 't', $1, 10)
		RETURNING id`, author.ID).Scan(&postID)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO reactions (user_id, post_id, type) VALUES ($1, $2, 'Fire')`, reader.ID, postID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO comments (post_id, user_id, content) VALUES ($1, $2, 'nice')`, postID, reader.ID)
	require.NoError(t, err)
	_, err = s.ToggleFollow(ctx, reader.ID, author.ID)
	require.NoError(t, err)

	a, err := s.GetCreatorAnalytics(ctx, author.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, a.TotalPosts)
	assert.Equal(t, 10, a.TotalViews)
	assert.Equal(t, 1, a.TotalReactions)
	assert.Equal(t, 1, a.TotalComments)
	assert.Equal(t, 1, a.FollowerCount)
	assert.Equal(t, 1, a.NewFollowers30Days)

	require.Len(t, a.TopPosts, 1)
	assert.Equal(t, postID, a.TopPosts[0].ID)
	assert.Equal(t, 13, a.TopPosts[0].Score)
}
