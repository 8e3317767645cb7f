package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sushihentaime/blogspot/internal/common"
)

var ErrAuthenticationFailure = fmt.Errorf("unauthorized access")

const suggestedUserLimit = 5

func NewUserService(db *sql.DB, mb common.MessageProducer, notifier Notifier, logger UserLogger) *UserService {
	return &UserService{
		m:        &userModel{db: db},
		mb:       mb,
		notifier: notifier,
		logger:   logger,
	}
}

// RegisterUser creates a new user account and publishes a user.created event
// for the welcome email. The event is best effort: a broker failure is logged
// and the registration still succeeds.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username:    username,
		Email:       email,
		DisplayName: username,
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	data := struct {
		Email    string
		Username string
	}{
		Email:    u.Email,
		Username: u.Username,
	}

	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	err = s.mb.Publish(ctx, eventData, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		s.logger.Error("could not publish user.created event", slog.String("username", u.Username), slog.String("error", err.Error()))
	}

	return &u, nil
}

// LoginUser verifies the credentials and issues a fresh access token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*Token, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, ErrAuthenticationFailure
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	return s.m.createToken(ctx, user.ID, AccessTokenTime)
}

func (s *UserService) LogoutUser(ctx context.Context, userID int) error {
	return s.m.deleteTokensForUser(ctx, userID)
}

func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserByTokenHash(ctx, hashToken(token))
}

func (s *UserService) GetProfile(ctx context.Context, userID int, viewerID *int) (*Profile, error) {
	return s.m.getProfile(ctx, userID, viewerID)
}

func (s *UserService) GetProfileByUsername(ctx context.Context, username string, viewerID *int) (*Profile, error) {
	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.m.getProfile(ctx, user.ID, viewerID)
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	AvatarURL   string `json:"avatar_url"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	v := common.NewValidator()
	validateProfile(v, req.DisplayName, req.Bio, req.Website, req.Location)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = req.DisplayName
	user.Bio = req.Bio
	user.Website = req.Website
	user.Location = req.Location
	user.AvatarURL = req.AvatarURL

	err = s.m.updateProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ToggleFollow follows the user when no follow exists and unfollows otherwise.
// It returns true when the caller is now following. Creating the follow
// notifies the followed user; removal stays silent.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, followingID int) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	following, err := s.m.toggleFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	if following {
		follower, err := s.m.getUserByID(ctx, followerID)
		if err != nil {
			return true, err
		}

		message := fmt.Sprintf("%s started following you", follower.Username)
		err = s.notifier.Notify(ctx, followingID, followerID, "Follow", message, nil)
		if err != nil {
			return true, err
		}
	}

	return following, nil
}

func (s *UserService) GetFollowers(ctx context.Context, userID int, params common.PageParams) (common.Page[FollowUser], error) {
	return s.m.listFollowers(ctx, userID, params)
}

func (s *UserService) GetFollowing(ctx context.Context, userID int, params common.PageParams) (common.Page[FollowUser], error) {
	return s.m.listFollowing(ctx, userID, params)
}

// GetSuggestedUsers returns the most followed active users the caller does not
// already follow, excluding the caller.
func (s *UserService) GetSuggestedUsers(ctx context.Context, userID int) ([]SuggestedUser, error) {
	return s.m.suggestedUsers(ctx, userID, suggestedUserLimit)
}

func (s *UserService) GetCreatorAnalytics(ctx context.Context, userID int) (*CreatorAnalytics, error) {
	return s.m.creatorAnalytics(ctx, userID)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
