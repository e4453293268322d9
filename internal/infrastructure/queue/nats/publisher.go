// Package nats hands freshly created notifications to the delivery system.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

type Publisher struct {
	conn    *nats.Conn
	subject string
}

type Options struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
}

func New(url, subject string) (*Publisher, error) {
	return NewWithOptions(url, subject, Options{})
}

func NewWithOptions(url, subject string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}

	conn, err := nats.Connect(
		url,
		nats.Name("hakivo-sync"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

type notificationEvent struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	DocumentNumber string `json:"document_number"`
	Type           string `json:"notification_type"`
	Priority       string `json:"priority"`
}

// NotificationCreated publishes a minimal event for the delivery system to
// pick up. Errors here are best-effort territory; the caller logs and moves on.
func (p *Publisher) NotificationCreated(_ context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(notificationEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		DocumentNumber: n.DocumentNumber,
		Type:           string(n.NotificationType),
		Priority:       string(n.Priority),
	})
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}
