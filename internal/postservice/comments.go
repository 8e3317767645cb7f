package postservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sushihentaime/blogspot/internal/common"
)

func (m *PostModel) insertComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, c.PostID, c.UserID, c.ParentID, c.Content).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "comments_post_id_fkey"):
			return ErrRecordNotFound
		case common.ForeignKeyViolation(err, "comments_parent_id_fkey"):
			return ErrCommentNotFound
		default:
			return err
		}
	}
	return nil
}

func (m *PostModel) getComment(ctx context.Context, id int) (*Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, u.username, c.parent_id, c.content, c.is_edited, c.created_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1`

	var c Comment
	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.ParentID, &c.Content, &c.IsEdited, &c.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrCommentNotFound
		default:
			return nil, err
		}
	}
	return &c, nil
}

func (m *PostModel) deleteComment(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// listComments returns one page of top-level comments with their replies.
// Comments are stored flat with a parent_id; the tree is built explicitly by
// grouping reply rows under their parents.
func (m *PostModel) listComments(ctx context.Context, postID int, params common.PageParams) (common.Page[Comment], error) {
	params = params.Normalize()

	var total int
	err := m.db.QueryRowContext(ctx, `
		SELECT count(*) FROM comments WHERE post_id = $1 AND parent_id IS NULL`, postID).Scan(&total)
	if err != nil {
		return common.Page[Comment]{}, err
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.user_id, u.username, c.parent_id, c.content, c.is_edited, c.created_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.post_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`, postID, params.Limit(), params.Offset())
	if err != nil {
		return common.Page[Comment]{}, err
	}
	defer rows.Close()

	var parents []Comment
	var parentIDs []int64
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.ParentID, &c.Content, &c.IsEdited, &c.CreatedAt); err != nil {
			return common.Page[Comment]{}, err
		}
		c.Replies = []Comment{}
		parents = append(parents, c)
		parentIDs = append(parentIDs, int64(c.ID))
	}
	if err := rows.Err(); err != nil {
		return common.Page[Comment]{}, err
	}

	if len(parents) > 0 {
		replyRows, err := m.db.QueryContext(ctx, `
			SELECT c.id, c.post_id, c.user_id, u.username, c.parent_id, c.content, c.is_edited, c.created_at
			FROM comments c
			JOIN users u ON c.user_id = u.id
			WHERE c.parent_id = ANY($1)
			ORDER BY c.created_at ASC`, pq.Array(parentIDs))
		if err != nil {
			return common.Page[Comment]{}, err
		}
		defer replyRows.Close()

		byParent := make(map[int][]Comment)
		for replyRows.Next() {
			var c Comment
			if err := replyRows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.ParentID, &c.Content, &c.IsEdited, &c.CreatedAt); err != nil {
				return common.Page[Comment]{}, err
			}
			c.Replies = []Comment{}
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
		if err := replyRows.Err(); err != nil {
			return common.Page[Comment]{}, err
		}

		for i := range parents {
			if replies, ok := byParent[parents[i].ID]; ok {
				parents[i].Replies = replies
			}
		}
	}

	return common.NewPage(parents, total, params), nil
}

type AddCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int   `json:"parent_id"`
}

// AddComment attaches a comment to a post and notifies the post author,
// unless the commenter is the author.
func (s *PostService) AddComment(ctx context.Context, userID, postID int, req *AddCommentRequest) (*Comment, error) {
	v := common.NewValidator()
	v.Check(req.Content != "", "content", "must be provided")
	v.Check(v.CheckStringLength(req.Content, 1, 2000), "content", "must not be more than 2000 characters long")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	authorID, err := s.m.getPostOwner(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  req.Content,
		Replies:  []Comment{},
	}
	if err := s.m.insertComment(ctx, comment); err != nil {
		return nil, err
	}

	if authorID != userID && s.notifier != nil {
		username, err := s.m.getUsername(ctx, userID)
		if err == nil {
			_ = s.notifier.Notify(ctx, authorID, userID, "Comment", fmt.Sprintf("%s commented on your post", username), &postID)
		}
	}

	return s.m.getComment(ctx, comment.ID)
}

// DeleteComment removes a comment. Only the comment's author may delete it.
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID int) error {
	comment, err := s.m.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrNotOwner
	}

	return s.m.deleteComment(ctx, commentID)
}

func (s *PostService) GetComments(ctx context.Context, postID int, params common.PageParams) (common.Page[Comment], error) {
	return s.m.listComments(ctx, postID, params)
}

func (m *PostModel) getUsername(ctx context.Context, userID int) (string, error) {
	var username string
	err := m.db.QueryRowContext(ctx, `SELECT username FROM users WHERE id = $1`, userID).Scan(&username)
	return username, err
}
