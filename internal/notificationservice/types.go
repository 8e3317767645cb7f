package notificationservice

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sushihentaime/blogspot/internal/common"
)

type NotificationType string

const (
	TypeFollow        NotificationType = "Follow"
	TypeReaction      NotificationType = "Reaction"
	TypeComment       NotificationType = "Comment"
	TypePostPublished NotificationType = "PostPublished"
)

// ParseNotificationType rejects anything outside the known set so a typo in a
// caller surfaces as an error instead of a mislabeled row.
func ParseNotificationType(s string) (NotificationType, error) {
	switch s {
	case string(TypeFollow):
		return TypeFollow, nil
	case string(TypeReaction):
		return TypeReaction, nil
	case string(TypeComment):
		return TypeComment, nil
	case string(TypePostPublished):
		return TypePostPublished, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidNotificationType, s)
	}
}

type Notification struct {
	ID          int              `json:"id"`
	UserID      int              `json:"user_id"`
	ActorID     int              `json:"actor_id"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	ReferenceID *int             `json:"reference_id,omitempty"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// pushEvent is the payload published to the notification exchange for
// real-time delivery to connected clients.
type pushEvent struct {
	NotificationID int              `json:"notification_id"`
	UserID         int              `json:"user_id"`
	ActorID        int              `json:"actor_id"`
	Type           NotificationType `json:"type"`
	Message        string           `json:"message"`
	ReferenceID    *int             `json:"reference_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

type NotificationLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type notificationModel struct {
	db *sql.DB
}

type NotificationService struct {
	m      notificationModel
	mb     common.MessageProducer
	logger NotificationLogger
	events chan pushEvent
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}
