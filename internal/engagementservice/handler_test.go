package engagementservice

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogspot/internal/common"
)

type notifyCall struct {
	RecipientID int
	ActorID     int
	Kind        string
	Message     string
	ReferenceID *int
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *mockNotifier) Notify(_ context.Context, recipientID, actorID int, kind, message string, referenceID *int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{recipientID, actorID, kind, message, referenceID})
	return nil
}

func setupTestService(t *testing.T) (*EngagementService, *mockNotifier, *sql.DB, int, int) {
	db := common.TestDB("file://../../migrations", t)
	notifier := &mockNotifier{}
	s := NewEngagementService(db, notifier)

	var authorID, postID int
	err := db.QueryRow(`
		INSERT INTO users (username, email, password)
		VALUES ('author', 'author@example.com', 'x')
		RETURNING id`).Scan(&authorID)
	require.NoError(t, err)

	err = db.QueryRow(`
		INSERT INTO posts (title, content, slug, author_id)
		VALUES ('t', 'c', 't', $1)
		RETURNING id`, authorID).Scan(&postID)
	require.NoError(t, err)

	return s, notifier, db, authorID, postID
}

func createReader(t *testing.T, db *sql.DB) int {
	var id int
	err := db.QueryRow(`
		INSERT INTO users (username, email, password)
		VALUES ('reader', 'reader@example.com', 'x')
		RETURNING id`).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestToggleLike(t *testing.T) {
	s, _, db, _, postID := setupTestService(t)
	ctx := context.Background()
	reader := createReader(t, db)

	liked, err := s.ToggleLike(ctx, reader, postID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = s.ToggleLike(ctx, reader, postID)
	require.NoError(t, err)
	assert.False(t, liked)

	var count int
	err = db.QueryRow(`SELECT count(*) FROM likes`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = s.ToggleLike(ctx, reader, 9999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestToggleBookmark(t *testing.T) {
	s, _, db, _, postID := setupTestService(t)
	ctx := context.Background()
	reader := createReader(t, db)

	saved, err := s.ToggleBookmark(ctx, reader, postID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = s.ToggleBookmark(ctx, reader, postID)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestToggleReactionStateMachine(t *testing.T) {
	s, notifier, db, authorID, postID := setupTestService(t)
	ctx := context.Background()
	reader := createReader(t, db)

	// NoReaction -> Reacted(Fire)
	summary, err := s.ToggleReaction(ctx, reader, postID, "Fire")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Fire": 1}, summary.Counts)
	assert.Equal(t, 1, summary.TotalCount)
	require.NotNil(t, summary.CurrentUserReaction)
	assert.Equal(t, "Fire", *summary.CurrentUserReaction)

	// Reacted(Fire) -> Reacted(Clap): updated in place, still one row
	summary, err = s.ToggleReaction(ctx, reader, postID, "Clap")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Clap": 1}, summary.Counts)
	assert.Equal(t, 1, summary.TotalCount)
	assert.Equal(t, "Clap", *summary.CurrentUserReaction)

	var rows int
	err = db.QueryRow(`SELECT count(*) FROM reactions WHERE user_id = $1 AND post_id = $2`, reader, postID).Scan(&rows)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	// Reacted(Clap) -> NoReaction
	summary, err = s.ToggleReaction(ctx, reader, postID, "Clap")
	require.NoError(t, err)
	assert.Empty(t, summary.Counts)
	assert.Equal(t, 0, summary.TotalCount)
	assert.Nil(t, summary.CurrentUserReaction)

	// only the first-time reaction notified the author
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, authorID, notifier.calls[0].RecipientID)
	assert.Equal(t, reader, notifier.calls[0].ActorID)
	assert.Equal(t, "Reaction", notifier.calls[0].Kind)
	assert.Equal(t, "reader reacted Fire to your post", notifier.calls[0].Message)
}

func TestToggleReactionOwnPostDoesNotNotify(t *testing.T) {
	s, notifier, _, authorID, postID := setupTestService(t)
	ctx := context.Background()

	_, err := s.ToggleReaction(ctx, authorID, postID, "Love")
	require.NoError(t, err)

	assert.Empty(t, notifier.calls)
}

func TestToggleReactionInvalidType(t *testing.T) {
	s, _, db, _, postID := setupTestService(t)
	ctx := context.Background()
	reader := createReader(t, db)

	_, err := s.ToggleReaction(ctx, reader, postID, "Wow")
	assert.ErrorIs(t, err, ErrInvalidReactionType)

	_, err = s.ToggleReaction(ctx, reader, 9999, "Fire")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGetReactionsCountsMatchRows(t *testing.T) {
	s, _, db, _, postID := setupTestService(t)
	ctx := context.Background()

	for i, reactionType := range []string{"Fire", "Fire", "Love"} {
		var userID int
		err := db.QueryRow(`
			INSERT INTO users (username, email, password)
			VALUES ('u'||$1::text, 'u'||$1::text||'@example.com', 'x')
			RETURNING id`, i).Scan(&userID)
		require.NoError(t, err)

		_, err = s.ToggleReaction(ctx, userID, postID, reactionType)
		require.NoError(t, err)
	}

	summary, err := s.GetReactions(ctx, postID, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Fire": 2, "Love": 1}, summary.Counts)
	assert.Equal(t, 3, summary.TotalCount)
	assert.Nil(t, summary.CurrentUserReaction)

	var total int
	err = db.QueryRow(`SELECT count(*) FROM reactions WHERE post_id = $1`, postID).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, summary.TotalCount, total)
}
