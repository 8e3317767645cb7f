package postservice

import (
	"context"
	"database/sql"
	"time"
)

// Notifier is the slice of the notification dispatcher the post service needs.
// Post events that notify: a new comment on someone else's post.
type Notifier interface {
	Notify(ctx context.Context, recipientID, actorID int, kind, message string, referenceID *int) error
}

type Post struct {
	ID                  int       `json:"id"`
	Title               string    `json:"title"`
	Content             string    `json:"content"`
	Summary             *string   `json:"summary,omitempty"`
	Slug                string    `json:"slug"`
	Category            *string   `json:"category,omitempty"`
	IsPublished         bool      `json:"is_published"`
	IsDraft             bool      `json:"is_draft"`
	ViewCount           int       `json:"view_count"`
	ReadingTimeMinutes  int       `json:"reading_time_minutes"`
	AuthorID            int       `json:"author_id"`
	AuthorUsername      string    `json:"author_username"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	LikeCount                 int            `json:"like_count"`
	CommentCount              int            `json:"comment_count"`
	IsLikedByCurrentUser      bool           `json:"is_liked_by_current_user"`
	IsBookmarkedByCurrentUser bool           `json:"is_bookmarked_by_current_user"`
	CurrentUserReaction       *string        `json:"current_user_reaction"`
	ReactionCounts            map[string]int `json:"reaction_counts"`
	Tags                      []string       `json:"tags"`
	Images                    []PostImage    `json:"images"`
}

type PostImage struct {
	ID        int     `json:"id"`
	ImageURL  string  `json:"image_url"`
	AltText   *string `json:"alt_text,omitempty"`
	SortOrder int     `json:"sort_order"`
}

type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	ParentID  *int      `json:"parent_id,omitempty"`
	Content   string    `json:"content"`
	IsEdited  bool      `json:"is_edited"`
	CreatedAt time.Time `json:"created_at"`
	Replies   []Comment `json:"replies"`
}

type Draft struct {
	ID        int       `json:"id"`
	AuthorID  int       `json:"author_id"`
	PostID    *int      `json:"post_id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   *string   `json:"summary,omitempty"`
	Category  *string   `json:"category,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Sort int

const (
	SortRecent Sort = iota
	// SortTrending orders by view_count + 3*reactions + 5*comments,
	// tie-broken by raw view_count.
	SortTrending
)

// Filter selects a post listing. Zero values mean "no restriction".
type Filter struct {
	AuthorID      *int
	FollowedBy    *int
	BookmarkedBy  *int
	CreatedAfter  *time.Time
	Search        string
	PublishedOnly bool
	Sort          Sort
}

// PostModel is exported so that the feed service can compose its read views
// over the same annotated post queries.
type PostModel struct {
	db *sql.DB
}

type PostService struct {
	m        *PostModel
	notifier Notifier
}
