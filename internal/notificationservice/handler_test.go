package notificationservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogspot/internal/common"
)

func setupTestService(t *testing.T) (*NotificationService, *MockMessageProducer, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	producer := new(MockMessageProducer)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := NewNotificationService(db, producer, logger)
	t.Cleanup(s.Close)

	return s, producer, db
}

func createTestUser(t *testing.T, db *sql.DB, username string) int {
	var id int
	err := db.QueryRow(`
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, 'x')
		RETURNING id`, username, username+"@example.com").Scan(&id)
	require.NoError(t, err)
	return id
}

func TestNotify(t *testing.T) {
	s, producer, db := setupTestService(t)
	ctx := context.Background()

	recipient := createTestUser(t, db, "recipient")
	actor := createTestUser(t, db, "actor")

	producer.On("Publish", mock.Anything, mock.Anything, common.NotificationCreatedKey, common.NotificationExchange).Return(nil)

	postID := 42
	err := s.Notify(ctx, recipient, actor, "Comment", "actor commented on your post", &postID)
	require.NoError(t, err)

	page, err := s.GetNotifications(ctx, recipient, common.PageParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	n := page.Items[0]
	assert.Equal(t, recipient, n.UserID)
	assert.Equal(t, actor, n.ActorID)
	assert.Equal(t, TypeComment, n.Type)
	assert.Equal(t, "actor commented on your post", n.Message)
	require.NotNil(t, n.ReferenceID)
	assert.Equal(t, postID, *n.ReferenceID)
	assert.False(t, n.IsRead)

	// Close drains the publish queue so the assertion is race free.
	s.Close()
	producer.AssertCalled(t, "Publish", mock.Anything, mock.Anything, common.NotificationCreatedKey, common.NotificationExchange)

	var event pushEvent
	body := producer.Calls[0].Arguments.Get(1).([]byte)
	require.NoError(t, json.Unmarshal(body, &event))
	assert.Equal(t, n.ID, event.NotificationID)
	assert.Equal(t, recipient, event.UserID)
}

func TestNotifySelfIsNoOp(t *testing.T) {
	s, producer, db := setupTestService(t)
	ctx := context.Background()

	user := createTestUser(t, db, "user")

	err := s.Notify(ctx, user, user, "Follow", "you followed yourself", nil)
	require.NoError(t, err)

	page, err := s.GetNotifications(ctx, user, common.PageParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	s.Close()
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyInvalidType(t *testing.T) {
	s, _, db := setupTestService(t)
	ctx := context.Background()

	recipient := createTestUser(t, db, "recipient")
	actor := createTestUser(t, db, "actor")

	err := s.Notify(ctx, recipient, actor, "Mention", "not a real type", nil)
	assert.ErrorIs(t, err, ErrInvalidNotificationType)
}

func TestNotifyUnknownRecipient(t *testing.T) {
	s, _, db := setupTestService(t)
	ctx := context.Background()

	actor := createTestUser(t, db, "actor")

	err := s.Notify(ctx, 999999, actor, "Follow", "hello", nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGetNotificationsPagination(t *testing.T) {
	s, producer, db := setupTestService(t)
	ctx := context.Background()

	recipient := createTestUser(t, db, "recipient")
	actor := createTestUser(t, db, "actor")

	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	for range 3 {
		err := s.Notify(ctx, recipient, actor, "Reaction", "actor reacted Like to your post", nil)
		require.NoError(t, err)
	}

	page, err := s.GetNotifications(ctx, recipient, common.PageParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, page.Items, 2)

	// newest first
	assert.Greater(t, page.Items[0].ID, page.Items[1].ID)

	page, err = s.GetNotifications(ctx, recipient, common.PageParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestMarkRead(t *testing.T) {
	s, producer, db := setupTestService(t)
	ctx := context.Background()

	recipient := createTestUser(t, db, "recipient")
	actor := createTestUser(t, db, "actor")
	other := createTestUser(t, db, "other")

	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := s.Notify(ctx, recipient, actor, "Follow", "actor started following you", nil)
	require.NoError(t, err)

	count, err := s.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	page, err := s.GetNotifications(ctx, recipient, common.PageParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	id := page.Items[0].ID

	// another user marking it is a silent no-op and leaves the row unread
	err = s.MarkRead(ctx, other, id)
	require.NoError(t, err)

	count, err = s.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// a notification that does not exist is also a no-op
	err = s.MarkRead(ctx, recipient, 999999)
	require.NoError(t, err)

	err = s.MarkRead(ctx, recipient, id)
	require.NoError(t, err)

	// idempotent
	err = s.MarkRead(ctx, recipient, id)
	require.NoError(t, err)

	count, err = s.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkAllRead(t *testing.T) {
	s, producer, db := setupTestService(t)
	ctx := context.Background()

	recipient := createTestUser(t, db, "recipient")
	actor := createTestUser(t, db, "actor")

	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	for range 3 {
		err := s.Notify(ctx, recipient, actor, "Comment", "actor commented on your post", nil)
		require.NoError(t, err)
	}

	err := s.MarkAllRead(ctx, recipient)
	require.NoError(t, err)

	count, err := s.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
