package domain

import "time"

type NotificationType string

const (
	NotificationInterestMatch NotificationType = "interest_match"
	NotificationAgencyUpdate  NotificationType = "agency_update"
)

type NotificationPriority string

const (
	PriorityHigh   NotificationPriority = "high"
	PriorityNormal NotificationPriority = "normal"
)

// NotificationPayload carries the scoring context so downstream consumers can
// explain why a notification was emitted.
type NotificationPayload struct {
	DocumentNumber  string   `json:"document_number"`
	Category        string   `json:"category"`
	MatchedAgencies []string `json:"matched_agencies"`
	RelevanceScore  int      `json:"relevance_score"`
}

// Notification is one (document, user) record produced by fan-out. Delivery is
// handled by a separate system; this service only creates the record.
type Notification struct {
	ID               string               `json:"id"`
	UserID           string               `json:"user_id"`
	DocumentNumber   string               `json:"document_number"`
	NotificationType NotificationType     `json:"notification_type"`
	Title            string               `json:"title"`
	Message          string               `json:"message"`
	Priority         NotificationPriority `json:"priority"`
	Payload          NotificationPayload  `json:"payload"`
	ActionURL        string               `json:"action_url"`
	CreatedAt        time.Time            `json:"created_at"`
}
