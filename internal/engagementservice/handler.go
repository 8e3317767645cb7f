package engagementservice

import (
	"context"
	"database/sql"
	"fmt"
)

func NewEngagementService(db *sql.DB, notifier Notifier) *EngagementService {
	return &EngagementService{m: newEngagementModel(db), notifier: notifier}
}

// ToggleLike flips the caller's like on a post and reports the resulting
// state: true when the like now exists.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID int) (bool, error) {
	return s.m.toggleLike(ctx, userID, postID)
}

// ToggleBookmark flips the caller's bookmark on a post.
func (s *EngagementService) ToggleBookmark(ctx context.Context, userID, postID int) (bool, error) {
	return s.m.toggleBookmark(ctx, userID, postID)
}

// ToggleReaction drives the per-(user, post) reaction state machine:
//
//	NoReaction --T--> Reacted(T)    first reaction, notifies the post author
//	Reacted(T) --T--> NoReaction    un-react, no notification
//	Reacted(T) --T'-> Reacted(T')   type change in place, no notification
//
// It returns the post's reaction summary after the transition.
func (s *EngagementService) ToggleReaction(ctx context.Context, userID, postID int, reactionType string) (*ReactionSummary, error) {
	parsed, err := ParseReactionType(reactionType)
	if err != nil {
		return nil, err
	}

	authorID, err := s.m.getPostAuthor(ctx, postID)
	if err != nil {
		return nil, err
	}

	existing, err := s.m.getReaction(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	switch {
	case existing == nil:
		if err := s.m.insertReaction(ctx, userID, postID, parsed); err != nil {
			return nil, err
		}
		if authorID != userID && s.notifier != nil {
			username, err := s.m.getUsername(ctx, userID)
			if err == nil {
				message := fmt.Sprintf("%s reacted %s to your post", username, parsed)
				_ = s.notifier.Notify(ctx, authorID, userID, "Reaction", message, &postID)
			}
		}
	case existing.Type == parsed:
		if err := s.m.deleteReaction(ctx, existing.ID); err != nil {
			return nil, err
		}
	default:
		if err := s.m.updateReaction(ctx, existing.ID, parsed); err != nil {
			return nil, err
		}
	}

	return s.m.reactionSummary(ctx, postID, &userID)
}

// GetReactions returns the post's reaction summary for the given viewer.
func (s *EngagementService) GetReactions(ctx context.Context, postID int, viewerID *int) (*ReactionSummary, error) {
	return s.m.reactionSummary(ctx, postID, viewerID)
}
