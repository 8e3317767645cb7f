package userservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/sushihentaime/blogspot/internal/common"
)

const AccessTokenTime time.Duration = 7 * 24 * time.Hour

var AnonymousUser = User{}

type UserService struct {
	m        *userModel
	mb       common.MessageProducer
	notifier Notifier
	logger   UserLogger
}

type Notifier interface {
	Notify(ctx context.Context, recipientID, actorID int, kind, message string, referenceID *int) error
}

type UserLogger interface {
	Error(msg string, args ...any)
}

type userModel struct {
	db *sql.DB
}

type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Password    Password  `json:"-"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	Website     string    `json:"website"`
	Location    string    `json:"location"`
	AvatarURL   string    `json:"avatar_url"`
	IsAdmin     bool      `json:"-"`
	IsActive    bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"-"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

type Token struct {
	Plain  string    `json:"token"`
	Hash   []byte    `json:"-"`
	UserID int       `json:"-"`
	Expiry time.Time `json:"expiry"`
}

// Profile is a user as seen by another user.
type Profile struct {
	User
	FollowerCount           int  `json:"follower_count"`
	FollowingCount          int  `json:"following_count"`
	PostCount               int  `json:"post_count"`
	IsFollowedByCurrentUser bool `json:"is_followed_by_current_user"`
}

type FollowUser struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type SuggestedUser struct {
	FollowUser
	FollowerCount int `json:"follower_count"`
}

type TopPost struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	ViewCount int    `json:"view_count"`
	Score     int    `json:"score"`
}

type CreatorAnalytics struct {
	TotalPosts         int       `json:"total_posts"`
	TotalViews         int       `json:"total_views"`
	TotalReactions     int       `json:"total_reactions"`
	TotalComments      int       `json:"total_comments"`
	FollowerCount      int       `json:"follower_count"`
	NewFollowers30Days int       `json:"new_followers_30_days"`
	TopPosts           []TopPost `json:"top_posts"`
}
