package userservice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sushihentaime/blogspot/internal/common"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrNotFound          = errors.New("user not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrSelfFollow        = errors.New("cannot follow yourself")
)

func (m *userModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		u.Username,
		u.Email,
		u.Password.hash,
		u.DisplayName,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}

const userColumns = `
	id, username, email, password, coalesce(display_name, ''), coalesce(bio, ''),
	coalesce(website, ''), coalesce(location, ''), coalesce(avatar_url, ''),
	is_admin, is_active, created_at, updated_at, version`

func scanUser(row *sql.Row, u *User) error {
	return row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Password.hash,
		&u.DisplayName,
		&u.Bio,
		&u.Website,
		&u.Location,
		&u.AvatarURL,
		&u.IsAdmin,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Version,
	)
}

func (m *userModel) getUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var u User
	err := scanUser(m.db.QueryRowContext(ctx, query, username), &u)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *userModel) getUserByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	err := scanUser(m.db.QueryRowContext(ctx, query, id), &u)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *userModel) updateProfile(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET display_name = $1, bio = $2, website = $3, location = $4, avatar_url = $5,
		    updated_at = now(), version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version`

	args := []any{
		u.DisplayName,
		u.Bio,
		u.Website,
		u.Location,
		u.AvatarURL,
		u.ID,
		u.Version,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

func (m *userModel) getProfile(ctx context.Context, userID int, viewerID *int) (*Profile, error) {
	user, err := m.getUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			(SELECT count(*) FROM follows WHERE following_id = $1),
			(SELECT count(*) FROM follows WHERE follower_id = $1),
			(SELECT count(*) FROM posts WHERE author_id = $1 AND is_published),
			EXISTS (SELECT 1 FROM follows WHERE follower_id = $2 AND following_id = $1)`

	p := Profile{User: *user}
	err = m.db.QueryRowContext(ctx, query, userID, nullInt(viewerID)).Scan(
		&p.FollowerCount,
		&p.FollowingCount,
		&p.PostCount,
		&p.IsFollowedByCurrentUser,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// toggleFollow returns true when the follow now exists and false when it was
// removed. A concurrent duplicate insert counts as already following.
func (m *userModel) toggleFollow(ctx context.Context, followerID, followingID int) (bool, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows > 0 {
		return false, nil
	}

	_, err = m.db.ExecContext(ctx, `INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)`, followerID, followingID)
	if err != nil {
		switch {
		case common.AnyUniqueViolation(err):
			return true, nil
		case common.CheckViolation(err):
			return false, ErrSelfFollow
		case common.ForeignKeyViolation(err, "follows_following_id_fkey"):
			return false, ErrNotFound
		default:
			return false, err
		}
	}

	return true, nil
}

func (m *userModel) listFollowers(ctx context.Context, userID int, params common.PageParams) (common.Page[FollowUser], error) {
	return m.listFollowUsers(ctx, `
		SELECT count(*) FROM follows WHERE following_id = $1`, `
		SELECT u.id, u.username, coalesce(u.display_name, ''), coalesce(u.avatar_url, '')
		FROM users u
		INNER JOIN follows f ON f.follower_id = u.id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC, u.id DESC
		LIMIT $2 OFFSET $3`, userID, params)
}

func (m *userModel) listFollowing(ctx context.Context, userID int, params common.PageParams) (common.Page[FollowUser], error) {
	return m.listFollowUsers(ctx, `
		SELECT count(*) FROM follows WHERE follower_id = $1`, `
		SELECT u.id, u.username, coalesce(u.display_name, ''), coalesce(u.avatar_url, '')
		FROM users u
		INNER JOIN follows f ON f.following_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC, u.id DESC
		LIMIT $2 OFFSET $3`, userID, params)
}

func (m *userModel) listFollowUsers(ctx context.Context, countQuery, query string, userID int, params common.PageParams) (common.Page[FollowUser], error) {
	params = params.Normalize()

	var total int
	err := m.db.QueryRowContext(ctx, countQuery, userID).Scan(&total)
	if err != nil {
		return common.Page[FollowUser]{}, err
	}

	rows, err := m.db.QueryContext(ctx, query, userID, params.Limit(), params.Offset())
	if err != nil {
		return common.Page[FollowUser]{}, err
	}
	defer rows.Close()

	var items []FollowUser
	for rows.Next() {
		var fu FollowUser
		err := rows.Scan(&fu.ID, &fu.Username, &fu.DisplayName, &fu.AvatarURL)
		if err != nil {
			return common.Page[FollowUser]{}, err
		}
		items = append(items, fu)
	}

	if err := rows.Err(); err != nil {
		return common.Page[FollowUser]{}, err
	}

	return common.NewPage(items, total, params), nil
}

func (m *userModel) suggestedUsers(ctx context.Context, userID, limit int) ([]SuggestedUser, error) {
	query := `
		SELECT u.id, u.username, coalesce(u.display_name, ''), coalesce(u.avatar_url, ''),
		       (SELECT count(*) FROM follows WHERE following_id = u.id) AS follower_count
		FROM users u
		WHERE u.id <> $1
		  AND u.is_active
		  AND NOT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = u.id)
		ORDER BY follower_count DESC, u.id
		LIMIT $2`

	rows, err := m.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []SuggestedUser{}
	for rows.Next() {
		var su SuggestedUser
		err := rows.Scan(&su.ID, &su.Username, &su.DisplayName, &su.AvatarURL, &su.FollowerCount)
		if err != nil {
			return nil, err
		}
		users = append(users, su)
	}

	return users, rows.Err()
}

func (m *userModel) creatorAnalytics(ctx context.Context, userID int) (*CreatorAnalytics, error) {
	var a CreatorAnalytics

	query := `
		SELECT
			(SELECT count(*) FROM posts WHERE author_id = $1 AND is_published),
			(SELECT coalesce(sum(view_count), 0) FROM posts WHERE author_id = $1 AND is_published),
			(SELECT count(*) FROM reactions r INNER JOIN posts p ON r.post_id = p.id WHERE p.author_id = $1),
			(SELECT count(*) FROM comments c INNER JOIN posts p ON c.post_id = p.id WHERE p.author_id = $1),
			(SELECT count(*) FROM follows WHERE following_id = $1),
			(SELECT count(*) FROM follows WHERE following_id = $1 AND created_at >= $2)`

	cutoff := time.Now().Add(-30 * 24 * time.Hour)
	err := m.db.QueryRowContext(ctx, query, userID, cutoff).Scan(
		&a.TotalPosts,
		&a.TotalViews,
		&a.TotalReactions,
		&a.TotalComments,
		&a.FollowerCount,
		&a.NewFollowers30Days,
	)
	if err != nil {
		return nil, err
	}

	topQuery := `
		SELECT p.id, p.title, p.slug, p.view_count,
		       p.view_count + 3 * (SELECT count(*) FROM reactions WHERE post_id = p.id) AS score
		FROM posts p
		WHERE p.author_id = $1 AND p.is_published
		ORDER BY score DESC, p.view_count DESC
		LIMIT 5`

	rows, err := m.db.QueryContext(ctx, topQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	a.TopPosts = []TopPost{}
	for rows.Next() {
		var tp TopPost
		err := rows.Scan(&tp.ID, &tp.Title, &tp.Slug, &tp.ViewCount, &tp.Score)
		if err != nil {
			return nil, err
		}
		a.TopPosts = append(a.TopPosts, tp)
	}

	return &a, rows.Err()
}
