package engagementservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ReactionType is the closed set of emoji-like engagement markers. A user
// holds at most one reaction per post.
type ReactionType string

const (
	ReactionLike ReactionType = "Like"
	ReactionLove ReactionType = "Love"
	ReactionFire ReactionType = "Fire"
	ReactionClap ReactionType = "Clap"
)

var ErrInvalidReactionType = errors.New("invalid reaction type")

// ParseReactionType parses a free-text reaction type case-insensitively.
// Unknown values are an error, never a silent fallback.
func ParseReactionType(s string) (ReactionType, error) {
	switch strings.ToLower(s) {
	case "like":
		return ReactionLike, nil
	case "love":
		return ReactionLove, nil
	case "fire":
		return ReactionFire, nil
	case "clap":
		return ReactionClap, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReactionType, s)
	}
}

type ReactionSummary struct {
	Counts              map[string]int `json:"counts"`
	TotalCount          int            `json:"total_count"`
	CurrentUserReaction *string        `json:"current_user_reaction"`
}

// Notifier is the slice of the notification dispatcher the engagement service
// needs. Only first-time reactions notify.
type Notifier interface {
	Notify(ctx context.Context, recipientID, actorID int, kind, message string, referenceID *int) error
}

type reaction struct {
	ID   int
	Type ReactionType
}

type engagementModel struct {
	db *sql.DB
}

type EngagementService struct {
	m        *engagementModel
	notifier Notifier
}
