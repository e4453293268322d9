package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

func testNotification() *domain.Notification {
	return &domain.Notification{
		ID:               "notif-1",
		UserID:           "user-1",
		DocumentNumber:   "2026-00042",
		NotificationType: domain.NotificationInterestMatch,
		Title:            "New Rule: Environmental Protection Agency",
		Message:          "Air Quality Standards Revision",
		Priority:         domain.PriorityHigh,
		Payload: domain.NotificationPayload{
			DocumentNumber:  "2026-00042",
			Category:        "RULE",
			MatchedAgencies: []string{"Environmental Protection Agency"},
			RelevanceScore:  75,
		},
		ActionURL: "https://www.federalregister.gov/d/2026-00042",
		CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateNotification(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	repo := &NotificationRepository{db: db}

	n := testNotification()
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(
			n.ID, n.UserID, n.DocumentNumber, string(n.NotificationType), n.Title,
			n.Message, string(n.Priority), sqlmock.AnyArg(), n.ActionURL, n.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), n); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateNotificationSurfacesDBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	repo := &NotificationRepository{db: db}

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnError(errors.New("constraint violation"))

	if err := repo.Create(context.Background(), testNotification()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestListByUserDecodesPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	repo := &NotificationRepository{db: db}

	createdAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "document_number", "notification_type", "title",
		"message", "priority", "payload", "action_url", "created_at",
	}).AddRow(
		"notif-1", "user-1", "2026-00042", "interest_match", "New Rule: EPA",
		"Air Quality Standards Revision", "high",
		[]byte(`{"document_number":"2026-00042","category":"RULE","matched_agencies":["Environmental Protection Agency"],"relevance_score":75}`),
		"https://www.federalregister.gov/d/2026-00042", createdAt,
	)
	mock.ExpectQuery("SELECT id, user_id, document_number").
		WithArgs("user-1", 10).
		WillReturnRows(rows)

	notifications, err := repo.ListByUser(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].Payload.RelevanceScore != 75 {
		t.Fatalf("unexpected payload %+v", notifications[0].Payload)
	}
	if notifications[0].Priority != domain.PriorityHigh {
		t.Fatalf("unexpected priority %s", notifications[0].Priority)
	}
}
