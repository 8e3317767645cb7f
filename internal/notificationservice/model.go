package notificationservice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sushihentaime/blogspot/internal/common"
)

var (
	ErrRecordNotFound          = errors.New("record not found")
	ErrInvalidNotificationType = errors.New("invalid notification type")
)

func (m *notificationModel) insert(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (user_id, actor_id, type, message, reference_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_read, created_at`

	var refID sql.NullInt64
	if n.ReferenceID != nil {
		refID = sql.NullInt64{Int64: int64(*n.ReferenceID), Valid: true}
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, query, n.UserID, n.ActorID, n.Type, n.Message, refID).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if common.ForeignKeyViolation(err, "notifications_user_id_fkey") || common.ForeignKeyViolation(err, "notifications_actor_id_fkey") {
			return ErrRecordNotFound
		}
		return err
	}

	return nil
}

func (m *notificationModel) list(ctx context.Context, userID int, params common.PageParams) (common.Page[Notification], error) {
	params = params.Normalize()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total int
	err := m.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return common.Page[Notification]{}, err
	}

	query := `
		SELECT id, user_id, actor_id, type, message, reference_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, userID, params.Limit(), params.Offset())
	if err != nil {
		return common.Page[Notification]{}, err
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		var refID sql.NullInt64

		err := rows.Scan(&n.ID, &n.UserID, &n.ActorID, &n.Type, &n.Message, &refID, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return common.Page[Notification]{}, err
		}

		if refID.Valid {
			v := int(refID.Int64)
			n.ReferenceID = &v
		}

		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return common.Page[Notification]{}, err
	}

	return common.NewPage(items, total, params), nil
}

func (m *notificationModel) unreadCount(ctx context.Context, userID int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count int
	err := m.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// markRead is scoped to the owner so a caller cannot flip another user's rows.
// A missing, foreign, or already read notification is a silent no-op.
func (m *notificationModel) markRead(ctx context.Context, userID, notificationID int) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := m.db.ExecContext(ctx, `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, notificationID, userID)
	return err
}

func (m *notificationModel) markAllRead(ctx context.Context, userID int) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := m.db.ExecContext(ctx, `UPDATE notifications SET is_read = true WHERE user_id = $1 AND NOT is_read`, userID)
	return err
}
