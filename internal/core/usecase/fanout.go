package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

const (
	notifyThreshold     = 25
	interestMatchScore  = 50
	highPriorityScore   = 70
	maxMessageLength    = 150
	fallbackAgencyTitle = "Federal Agency"
)

// BuildNotification applies the threshold policy to one scored (document,
// profile) pair. It returns nil when the score does not clear the floor.
func BuildNotification(doc domain.RegulatoryDocument, profile domain.InterestProfile, result ScoreResult) *domain.Notification {
	if result.Score < notifyThreshold {
		return nil
	}

	notificationType := domain.NotificationAgencyUpdate
	if result.Score >= interestMatchScore {
		notificationType = domain.NotificationInterestMatch
	}
	priority := domain.PriorityNormal
	if result.Score >= highPriorityScore {
		priority = domain.PriorityHigh
	}

	agency := fallbackAgencyTitle
	if len(doc.AgencyNames) > 0 {
		agency = doc.AgencyNames[0]
	}

	matched := result.MatchedAgencies
	if matched == nil {
		matched = []string{}
	}

	return &domain.Notification{
		ID:               uuid.NewString(),
		UserID:           profile.UserID,
		DocumentNumber:   doc.DocumentNumber,
		NotificationType: notificationType,
		Title:            fmt.Sprintf("New %s: %s", doc.Category.Label(), agency),
		Message:          truncateMessage(doc.Title, maxMessageLength),
		Priority:         priority,
		Payload: domain.NotificationPayload{
			DocumentNumber:  doc.DocumentNumber,
			Category:        string(doc.Category),
			MatchedAgencies: matched,
			RelevanceScore:  result.Score,
		},
		ActionURL: doc.HTMLURL,
		CreatedAt: time.Now().UTC(),
	}
}

func truncateMessage(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
