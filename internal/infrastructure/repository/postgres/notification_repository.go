package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

const defaultNotificationLimit = 50

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	payloadJSON, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO notifications (
	id, user_id, document_number, notification_type, title, message, priority, payload, action_url, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		n.ID, n.UserID, n.DocumentNumber, string(n.NotificationType), n.Title,
		n.Message, string(n.Priority), payloadJSON, n.ActionURL, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, document_number, notification_type, title, message, priority, payload, action_url, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		var notificationType, priority string
		var payloadRaw []byte
		err := rows.Scan(
			&n.ID, &n.UserID, &n.DocumentNumber, &notificationType, &n.Title,
			&n.Message, &priority, &payloadRaw, &n.ActionURL, &n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if err := json.Unmarshal(payloadRaw, &n.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal notification payload: %w", err)
		}
		n.NotificationType = domain.NotificationType(notificationType)
		n.Priority = domain.NotificationPriority(priority)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}
