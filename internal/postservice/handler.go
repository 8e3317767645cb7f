package postservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/blogspot/internal/common"
)

const slugInsertAttempts = 3

func NewPostService(db *sql.DB, notifier Notifier) *PostService {
	return &PostService{m: NewPostModel(db), notifier: notifier}
}

// Model exposes the underlying read model so the feed service can compose
// its views over the same annotated post queries.
func (s *PostService) Model() *PostModel {
	return s.m
}

type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Summary  *string  `json:"summary"`
	Category *string  `json:"category"`
	IsDraft  bool     `json:"is_draft"`
	Tags     []string `json:"tags"`
}

// CreatePost creates a post (published or draft). The slug is derived from
// the title; on collision an 8-character random suffix is appended. A racing
// duplicate insert surfaces as a unique violation and is retried with a fresh
// suffix.
func (s *PostService) CreatePost(ctx context.Context, authorID int, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	slug := generateSlug(req.Title)
	exists, err := s.m.slugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		suffix, err := slugSuffix()
		if err != nil {
			return nil, err
		}
		slug = slug + "-" + suffix
	}

	content := sanitizeContent(req.Content)

	post := &Post{
		Title:              req.Title,
		Content:            content,
		Summary:            req.Summary,
		Category:           req.Category,
		Slug:               slug,
		IsPublished:        !req.IsDraft,
		IsDraft:            req.IsDraft,
		ReadingTimeMinutes: calculateReadingTime(content),
		AuthorID:           authorID,
	}

	for attempt := 0; ; attempt++ {
		err = s.createPostTx(ctx, post, req.Tags)
		if err == nil {
			break
		}
		if errors.Is(err, ErrDuplicateSlug) && attempt < slugInsertAttempts {
			suffix, serr := slugSuffix()
			if serr != nil {
				return nil, serr
			}
			post.Slug = generateSlug(req.Title) + "-" + suffix
			continue
		}
		return nil, err
	}

	return s.m.getPostByID(ctx, post.ID, &authorID)
}

func (s *PostService) createPostTx(ctx context.Context, post *Post, tags []string) error {
	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.m.insertPost(ctx, tx, post); err != nil {
		return err
	}
	if err := s.m.syncTags(ctx, tx, post.ID, tags); err != nil {
		return err
	}

	return tx.Commit()
}

type UpdatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Summary  *string  `json:"summary"`
	Category *string  `json:"category"`
	IsDraft  bool     `json:"is_draft"`
	Tags     []string `json:"tags"`
}

// UpdatePost edits a post in place. Only the author (or an admin) may edit.
// The slug is deliberately left untouched so published URLs stay stable.
func (s *PostService) UpdatePost(ctx context.Context, userID int, isAdmin bool, postID int, req *UpdatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	authorID, err := s.m.getPostOwner(ctx, postID)
	if err != nil {
		return nil, err
	}
	if authorID != userID && !isAdmin {
		return nil, ErrNotOwner
	}

	content := sanitizeContent(req.Content)

	post := &Post{
		ID:                 postID,
		Title:              req.Title,
		Content:            content,
		Summary:            req.Summary,
		Category:           req.Category,
		IsPublished:        !req.IsDraft,
		IsDraft:            req.IsDraft,
		ReadingTimeMinutes: calculateReadingTime(content),
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.m.updatePost(ctx, tx, post); err != nil {
		return nil, err
	}
	if err := s.m.syncTags(ctx, tx, postID, req.Tags); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.m.getPostByID(ctx, postID, &userID)
}

// DeletePost removes a post and everything it owns. Only the author (or an
// admin) may delete.
func (s *PostService) DeletePost(ctx context.Context, userID int, isAdmin bool, postID int) error {
	authorID, err := s.m.getPostOwner(ctx, postID)
	if err != nil {
		return err
	}
	if authorID != userID && !isAdmin {
		return ErrNotOwner
	}

	return s.m.deletePost(ctx, postID)
}

func (s *PostService) GetPostByID(ctx context.Context, postID int, viewerID *int) (*Post, error) {
	return s.m.getPostByID(ctx, postID, viewerID)
}

// GetPostBySlug is the page-view path: the post's view counter is incremented
// exactly once per call.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string, viewerID *int) (*Post, error) {
	return s.m.getPostBySlug(ctx, slug, viewerID)
}

func (s *PostService) GetPostsByUser(ctx context.Context, authorID int, viewerID *int, params common.PageParams) (common.Page[Post], error) {
	return s.m.ListPosts(ctx, Filter{AuthorID: &authorID, PublishedOnly: true}, viewerID, params)
}

// SearchPosts is a naive substring match over title, content, and summary.
func (s *PostService) SearchPosts(ctx context.Context, query string, viewerID *int, params common.PageParams) (common.Page[Post], error) {
	return s.m.ListPosts(ctx, Filter{Search: query, PublishedOnly: true}, viewerID, params)
}

func (s *PostService) GetBookmarkedPosts(ctx context.Context, userID int, params common.PageParams) (common.Page[Post], error) {
	return s.m.ListPosts(ctx, Filter{BookmarkedBy: &userID}, &userID, params)
}
