package notificationservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/sushihentaime/blogspot/internal/common"
)

const eventBufferSize = 256

func NewNotificationService(db *sql.DB, mb common.MessageProducer, logger NotificationLogger) *NotificationService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &NotificationService{
		m:      notificationModel{db: db},
		mb:     mb,
		logger: logger,
		events: make(chan pushEvent, eventBufferSize),
		ctx:    ctx,
		cancel: cancel,
	}

	s.wg.Add(1)
	go s.publishLoop()

	return s
}

// Notify records a notification for recipientID about something actorID did
// and queues it for real-time push. Notifying yourself is a no-op.
func (s *NotificationService) Notify(ctx context.Context, recipientID, actorID int, kind, message string, referenceID *int) error {
	if recipientID == actorID {
		return nil
	}

	parsed, err := ParseNotificationType(kind)
	if err != nil {
		return err
	}

	n := Notification{
		UserID:      recipientID,
		ActorID:     actorID,
		Type:        parsed,
		Message:     message,
		ReferenceID: referenceID,
	}

	err = s.m.insert(ctx, &n)
	if err != nil {
		return err
	}

	event := pushEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		ActorID:        n.ActorID,
		Type:           n.Type,
		Message:        n.Message,
		ReferenceID:    n.ReferenceID,
		CreatedAt:      n.CreatedAt,
	}

	// The stored row is the source of truth. Push delivery is best effort,
	// so a full buffer drops the event rather than blocking the caller.
	select {
	case s.events <- event:
	default:
		s.logger.Error("push event buffer full, dropping event", slog.Int("notification_id", n.ID))
	}

	return nil
}

func (s *NotificationService) publishLoop() {
	defer s.wg.Done()

	for {
		select {
		case event, ok := <-s.events:
			if !ok {
				return
			}
			s.publish(event)

		case <-s.ctx.Done():
			// drain whatever was queued before shutdown
			for {
				select {
				case event := <-s.events:
					s.publish(event)
				default:
					return
				}
			}
		}
	}
}

func (s *NotificationService) publish(event pushEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("could not marshal push event", slog.String("error", err.Error()))
		return
	}

	// using exponential backoff with jitter
	const maxRetries = 5
	const baseDelay = 500 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.mb.Publish(context.Background(), body, common.NotificationCreatedKey, common.NotificationExchange)
		if err == nil {
			return
		}

		delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
		s.logger.Info("delaying push event", slog.Int("notification_id", event.NotificationID), slog.Int("attempt", attempt), slog.Duration("delay", delay))
		time.Sleep(delay)
	}

	s.logger.Error("could not publish push event", slog.Int("notification_id", event.NotificationID), slog.String("error", err.Error()))
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID int, params common.PageParams) (common.Page[Notification], error) {
	return s.m.list(ctx, userID, params)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID int) (int, error) {
	return s.m.unreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int) error {
	return s.m.markRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int) error {
	return s.m.markAllRead(ctx, userID)
}

// Close stops the publisher after draining queued events.
func (s *NotificationService) Close() {
	s.cancel()
	s.wg.Wait()
}
