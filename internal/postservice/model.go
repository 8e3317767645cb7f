package postservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/sushihentaime/blogspot/internal/common"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrNotOwner        = errors.New("not the owner of the resource")
	ErrUserForeignKey  = errors.New("author_id does not exist")
	ErrDuplicateSlug   = errors.New("duplicate slug")
	ErrCommentNotFound = errors.New("comment not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrDraftNotFound   = errors.New("draft not found")
)

func NewPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// postColumns is the annotated post projection. The viewer id is always bound
// as $1 (NULL for anonymous callers), so the per-caller columns come back in
// the same query as the post row itself.
const postColumns = `
	p.id, p.title, p.content, p.summary, p.slug, p.category, p.is_published, p.is_draft,
	p.view_count, p.reading_time_minutes, p.author_id, u.username, p.created_at, p.updated_at,
	(SELECT count(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
	(SELECT count(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
	EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1) AS is_liked,
	EXISTS (SELECT 1 FROM bookmarks b WHERE b.post_id = p.id AND b.user_id = $1) AS is_bookmarked,
	(SELECT r.type FROM reactions r WHERE r.post_id = p.id AND r.user_id = $1) AS current_reaction`

const trendingScore = `(p.view_count
	+ 3 * (SELECT count(*) FROM reactions r WHERE r.post_id = p.id)
	+ 5 * (SELECT count(*) FROM comments c WHERE c.post_id = p.id))`

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func scanPost(row interface{ Scan(...any) error }) (*Post, error) {
	var p Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Summary, &p.Slug, &p.Category, &p.IsPublished, &p.IsDraft,
		&p.ViewCount, &p.ReadingTimeMinutes, &p.AuthorID, &p.AuthorUsername, &p.CreatedAt, &p.UpdatedAt,
		&p.LikeCount, &p.CommentCount,
		&p.IsLikedByCurrentUser, &p.IsBookmarkedByCurrentUser, &p.CurrentUserReaction,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func buildFilter(f Filter, args *[]any) string {
	var clauses []string

	add := func(clause string, vals ...any) {
		for _, v := range vals {
			*args = append(*args, v)
			clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(*args)), 1)
		}
		clauses = append(clauses, clause)
	}

	if f.PublishedOnly {
		clauses = append(clauses, "p.is_published = true")
	}
	if f.AuthorID != nil {
		add("p.author_id = ?", *f.AuthorID)
	}
	if f.FollowedBy != nil {
		add("p.author_id IN (SELECT following_id FROM follows WHERE follower_id = ?)", *f.FollowedBy)
	}
	if f.BookmarkedBy != nil {
		add("p.id IN (SELECT post_id FROM bookmarks WHERE user_id = ?)", *f.BookmarkedBy)
	}
	if f.CreatedAfter != nil {
		add("p.created_at >= ?", *f.CreatedAfter)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		add("(p.title ILIKE ? OR p.content ILIKE ? OR coalesce(p.summary, '') ILIKE ?)", pattern, pattern, pattern)
	}

	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

// ListPosts returns one page of annotated posts matching the filter, plus the
// total match count. Reaction counts, tags, and images are batch-loaded for
// the page, never per post.
func (m *PostModel) ListPosts(ctx context.Context, f Filter, viewerID *int, params common.PageParams) (common.Page[Post], error) {
	params = params.Normalize()

	order := " ORDER BY p.created_at DESC"
	if f.Sort == SortTrending {
		order = " ORDER BY " + trendingScore + " DESC, p.view_count DESC"
	}

	var countArgs []any
	var total int
	err := m.db.QueryRowContext(ctx, "SELECT count(*) FROM posts p"+buildFilter(f, &countArgs), countArgs...).Scan(&total)
	if err != nil {
		return common.Page[Post]{}, err
	}

	args := []any{nullInt(viewerID)}
	where := buildFilter(f, &args)

	query := "SELECT" + postColumns + " FROM posts p JOIN users u ON p.author_id = u.id" + where + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, params.Limit(), params.Offset())

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return common.Page[Post]{}, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return common.Page[Post]{}, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return common.Page[Post]{}, err
	}

	if err := m.hydratePosts(ctx, posts); err != nil {
		return common.Page[Post]{}, err
	}

	return common.NewPage(posts, total, params), nil
}

// hydratePosts batch-loads reaction counts, tags, and images for a page of
// posts using three queries keyed by post id.
func (m *PostModel) hydratePosts(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	index := make(map[int]*Post, len(posts))
	for i := range posts {
		ids[i] = int64(posts[i].ID)
		index[posts[i].ID] = &posts[i]
		posts[i].ReactionCounts = map[string]int{}
		posts[i].Tags = []string{}
		posts[i].Images = []PostImage{}
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT post_id, type, count(*)
		FROM reactions
		WHERE post_id = ANY($1)
		GROUP BY post_id, type`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var postID, count int
		var reactionType string
		if err := rows.Scan(&postID, &reactionType, &count); err != nil {
			return err
		}
		index[postID].ReactionCounts[reactionType] = count
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := m.db.QueryContext(ctx, `
		SELECT pt.post_id, t.name
		FROM post_tags pt
		JOIN tags t ON pt.tag_id = t.id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var postID int
		var name string
		if err := tagRows.Scan(&postID, &name); err != nil {
			return err
		}
		index[postID].Tags = append(index[postID].Tags, name)
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	imageRows, err := m.db.QueryContext(ctx, `
		SELECT post_id, id, image_url, alt_text, sort_order
		FROM post_images
		WHERE post_id = ANY($1)
		ORDER BY sort_order`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer imageRows.Close()
	for imageRows.Next() {
		var postID int
		var img PostImage
		if err := imageRows.Scan(&postID, &img.ID, &img.ImageURL, &img.AltText, &img.SortOrder); err != nil {
			return err
		}
		index[postID].Images = append(index[postID].Images, img)
	}
	return imageRows.Err()
}

func (m *PostModel) getPostByID(ctx context.Context, id int, viewerID *int) (*Post, error) {
	query := "SELECT" + postColumns + ` FROM posts p JOIN users u ON p.author_id = u.id WHERE p.id = $2`

	post, err := scanPost(m.db.QueryRowContext(ctx, query, nullInt(viewerID), id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	posts := []Post{*post}
	if err := m.hydratePosts(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// getPostBySlug treats the lookup as a page view: the view counter is
// incremented exactly once per call before the row is read back.
func (m *PostModel) getPostBySlug(ctx context.Context, slug string, viewerID *int) (*Post, error) {
	var id int
	err := m.db.QueryRowContext(ctx, `
		UPDATE posts
		SET view_count = view_count + 1
		WHERE slug = $1
		RETURNING id`, slug).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return m.getPostByID(ctx, id, viewerID)
}

func (m *PostModel) slugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (m *PostModel) insertPost(ctx context.Context, tx *sql.Tx, p *Post) error {
	query := `
		INSERT INTO posts (title, content, summary, slug, category, is_published, is_draft, reading_time_minutes, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	args := []any{p.Title, p.Content, p.Summary, p.Slug, p.Category, p.IsPublished, p.IsDraft, p.ReadingTimeMinutes, p.AuthorID}

	err := tx.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "posts_slug_key"):
			return ErrDuplicateSlug
		case common.ForeignKeyViolation(err, "posts_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}
	return nil
}

func (m *PostModel) updatePost(ctx context.Context, tx *sql.Tx, p *Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, summary = $3, category = $4, is_published = $5, is_draft = $6,
		    reading_time_minutes = $7, updated_at = now()
		WHERE id = $8
		RETURNING updated_at`

	args := []any{p.Title, p.Content, p.Summary, p.Category, p.IsPublished, p.IsDraft, p.ReadingTimeMinutes, p.ID}

	err := tx.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

func (m *PostModel) deletePost(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// getPostOwner returns the author id for ownership checks without loading the
// full annotated row.
func (m *PostModel) getPostOwner(ctx context.Context, id int) (int, error) {
	var authorID int
	err := m.db.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = $1`, id).Scan(&authorID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, ErrRecordNotFound
		default:
			return 0, err
		}
	}
	return authorID, nil
}
