package engagementservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/blogspot/internal/common"
)

var ErrRecordNotFound = errors.New("record not found")

func newEngagementModel(db *sql.DB) *engagementModel {
	return &engagementModel{db: db}
}

// toggleExistence flips a (user, post) row in the given table: delete if
// present, insert if absent. A racing duplicate insert hits the table's
// unique constraint and is treated as "already present" rather than an error.
func (m *engagementModel) toggleExistence(ctx context.Context, table, postFK string, userID, postID int) (bool, error) {
	var id int
	err := m.db.QueryRowContext(ctx,
		"SELECT id FROM "+table+" WHERE user_id = $1 AND post_id = $2", userID, postID).Scan(&id)
	switch {
	case err == nil:
		_, err = m.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
		return false, err
	case errors.Is(err, sql.ErrNoRows):
		_, err = m.db.ExecContext(ctx,
			"INSERT INTO "+table+" (user_id, post_id) VALUES ($1, $2)", userID, postID)
		switch {
		case err == nil:
			return true, nil
		case common.AnyUniqueViolation(err):
			return true, nil
		case common.ForeignKeyViolation(err, postFK):
			return false, ErrRecordNotFound
		default:
			return false, err
		}
	default:
		return false, err
	}
}

func (m *engagementModel) toggleLike(ctx context.Context, userID, postID int) (bool, error) {
	return m.toggleExistence(ctx, "likes", "likes_post_id_fkey", userID, postID)
}

func (m *engagementModel) toggleBookmark(ctx context.Context, userID, postID int) (bool, error) {
	return m.toggleExistence(ctx, "bookmarks", "bookmarks_post_id_fkey", userID, postID)
}

func (m *engagementModel) getReaction(ctx context.Context, userID, postID int) (*reaction, error) {
	var r reaction
	err := m.db.QueryRowContext(ctx, `
		SELECT id, type FROM reactions WHERE user_id = $1 AND post_id = $2`, userID, postID).Scan(&r.ID, &r.Type)
	switch {
	case err == nil:
		return &r, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	default:
		return nil, err
	}
}

func (m *engagementModel) insertReaction(ctx context.Context, userID, postID int, t ReactionType) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO reactions (user_id, post_id, type)
		VALUES ($1, $2, $3)`, userID, postID, string(t))
	switch {
	case err == nil:
		return nil
	case common.AnyUniqueViolation(err):
		// a concurrent request already created equivalent state
		return nil
	case common.ForeignKeyViolation(err, "reactions_post_id_fkey"):
		return ErrRecordNotFound
	default:
		return err
	}
}

// updateReaction changes the reaction's type in place rather than
// delete-and-insert, so a type change never drops the row.
func (m *engagementModel) updateReaction(ctx context.Context, id int, t ReactionType) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE reactions SET type = $1, updated_at = now() WHERE id = $2`, string(t), id)
	return err
}

func (m *engagementModel) deleteReaction(ctx context.Context, id int) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM reactions WHERE id = $1`, id)
	return err
}

// reactionSummary recomputes counts from the full reaction set rather than
// incrementally, so the summary can never drift from the rows.
func (m *engagementModel) reactionSummary(ctx context.Context, postID int, viewerID *int) (*ReactionSummary, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT type, count(*) FROM reactions WHERE post_id = $1 GROUP BY type`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &ReactionSummary{Counts: map[string]int{}}
	for rows.Next() {
		var reactionType string
		var count int
		if err := rows.Scan(&reactionType, &count); err != nil {
			return nil, err
		}
		summary.Counts[reactionType] = count
		summary.TotalCount += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if viewerID != nil {
		current, err := m.getReaction(ctx, *viewerID, postID)
		if err != nil {
			return nil, err
		}
		if current != nil {
			t := string(current.Type)
			summary.CurrentUserReaction = &t
		}
	}

	return summary, nil
}

func (m *engagementModel) getPostAuthor(ctx context.Context, postID int) (int, error) {
	var authorID int
	err := m.db.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&authorID)
	switch {
	case err == nil:
		return authorID, nil
	case errors.Is(err, sql.ErrNoRows):
		return 0, ErrRecordNotFound
	default:
		return 0, err
	}
}

func (m *engagementModel) getUsername(ctx context.Context, userID int) (string, error) {
	var username string
	err := m.db.QueryRowContext(ctx, `SELECT username FROM users WHERE id = $1`, userID).Scan(&username)
	return username, err
}
