package postservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

func (m *PostModel) insertDraft(ctx context.Context, d *Draft) error {
	query := `
		INSERT INTO drafts (author_id, post_id, title, content, summary, category, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	args := []any{d.AuthorID, d.PostID, d.Title, d.Content, d.Summary, d.Category, pq.Array(d.Tags)}
	return m.db.QueryRowContext(ctx, query, args...).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (m *PostModel) updateDraft(ctx context.Context, d *Draft) error {
	query := `
		UPDATE drafts
		SET post_id = $1, title = $2, content = $3, summary = $4, category = $5, tags = $6, updated_at = now()
		WHERE id = $7
		RETURNING created_at, updated_at`

	args := []any{d.PostID, d.Title, d.Content, d.Summary, d.Category, pq.Array(d.Tags), d.ID}
	err := m.db.QueryRowContext(ctx, query, args...).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrDraftNotFound
		default:
			return err
		}
	}
	return nil
}

func (m *PostModel) getDraft(ctx context.Context, id int) (*Draft, error) {
	query := `
		SELECT id, author_id, post_id, title, content, summary, category, tags, created_at, updated_at
		FROM drafts
		WHERE id = $1`

	var d Draft
	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.AuthorID, &d.PostID, &d.Title, &d.Content, &d.Summary, &d.Category,
		pq.Array(&d.Tags), &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrDraftNotFound
		default:
			return nil, err
		}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return &d, nil
}

func (m *PostModel) listDrafts(ctx context.Context, authorID int) ([]Draft, error) {
	query := `
		SELECT id, author_id, post_id, title, content, summary, category, tags, created_at, updated_at
		FROM drafts
		WHERE author_id = $1
		ORDER BY updated_at DESC`

	rows, err := m.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drafts := []Draft{}
	for rows.Next() {
		var d Draft
		err := rows.Scan(&d.ID, &d.AuthorID, &d.PostID, &d.Title, &d.Content, &d.Summary, &d.Category,
			pq.Array(&d.Tags), &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if d.Tags == nil {
			d.Tags = []string{}
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

func (m *PostModel) deleteDraft(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDraftNotFound
	}
	return nil
}

type SaveDraftRequest struct {
	ID       *int     `json:"id"`
	PostID   *int     `json:"post_id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Summary  *string  `json:"summary"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
}

// SaveDraft inserts a new draft or updates an existing one owned by the
// caller. Drafts have no validation beyond ownership so half-written work can
// always be saved.
func (s *PostService) SaveDraft(ctx context.Context, userID int, req *SaveDraftRequest) (*Draft, error) {
	draft := &Draft{
		AuthorID: userID,
		PostID:   req.PostID,
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		Category: req.Category,
		Tags:     req.Tags,
	}
	if draft.Tags == nil {
		draft.Tags = []string{}
	}

	if req.ID == nil {
		if err := s.m.insertDraft(ctx, draft); err != nil {
			return nil, err
		}
		return draft, nil
	}

	existing, err := s.m.getDraft(ctx, *req.ID)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != userID {
		return nil, ErrNotOwner
	}

	draft.ID = *req.ID
	if err := s.m.updateDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *PostService) GetDrafts(ctx context.Context, userID int) ([]Draft, error) {
	return s.m.listDrafts(ctx, userID)
}

func (s *PostService) GetDraftByID(ctx context.Context, userID, draftID int) (*Draft, error) {
	draft, err := s.m.getDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.AuthorID != userID {
		return nil, ErrNotOwner
	}
	return draft, nil
}

func (s *PostService) DeleteDraft(ctx context.Context, userID, draftID int) error {
	draft, err := s.m.getDraft(ctx, draftID)
	if err != nil {
		return err
	}
	if draft.AuthorID != userID {
		return ErrNotOwner
	}
	return s.m.deleteDraft(ctx, draftID)
}
