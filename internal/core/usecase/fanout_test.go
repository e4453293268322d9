package usecase

import (
	"strings"
	"testing"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

func fanoutDoc() domain.RegulatoryDocument {
	return domain.RegulatoryDocument{
		DocumentNumber: "2026-00042",
		Category:       domain.CategoryRule,
		Title:          "Air Quality Standards Revision",
		AgencyNames:    []string{"Environmental Protection Agency"},
		HTMLURL:        "https://www.federalregister.gov/d/2026-00042",
	}
}

func fanoutProfile() domain.InterestProfile {
	return domain.InterestProfile{UserID: "user-1", ContactRef: "user-1@example.com"}
}

func TestBuildNotificationBelowThreshold(t *testing.T) {
	n := BuildNotification(fanoutDoc(), fanoutProfile(), ScoreResult{Score: 24})
	if n != nil {
		t.Fatalf("expected nil below threshold, got %+v", n)
	}
}

func TestBuildNotificationTypeAndPriorityBands(t *testing.T) {
	cases := []struct {
		score        int
		wantType     domain.NotificationType
		wantPriority domain.NotificationPriority
	}{
		{25, domain.NotificationAgencyUpdate, domain.PriorityNormal},
		{49, domain.NotificationAgencyUpdate, domain.PriorityNormal},
		{50, domain.NotificationInterestMatch, domain.PriorityNormal},
		{69, domain.NotificationInterestMatch, domain.PriorityNormal},
		{70, domain.NotificationInterestMatch, domain.PriorityHigh},
		{100, domain.NotificationInterestMatch, domain.PriorityHigh},
	}

	for _, tc := range cases {
		n := BuildNotification(fanoutDoc(), fanoutProfile(), ScoreResult{Score: tc.score})
		if n == nil {
			t.Fatalf("score %d: expected notification", tc.score)
		}
		if n.NotificationType != tc.wantType {
			t.Fatalf("score %d: expected type %s, got %s", tc.score, tc.wantType, n.NotificationType)
		}
		if n.Priority != tc.wantPriority {
			t.Fatalf("score %d: expected priority %s, got %s", tc.score, tc.wantPriority, n.Priority)
		}
	}
}

func TestBuildNotificationFields(t *testing.T) {
	doc := fanoutDoc()
	n := BuildNotification(doc, fanoutProfile(), ScoreResult{
		Score:           75,
		MatchedAgencies: []string{"Environmental Protection Agency"},
	})
	if n == nil {
		t.Fatalf("expected notification")
	}
	if n.ID == "" {
		t.Fatalf("expected generated id")
	}
	if n.UserID != "user-1" {
		t.Fatalf("unexpected user id %s", n.UserID)
	}
	if n.DocumentNumber != doc.DocumentNumber {
		t.Fatalf("unexpected document number %s", n.DocumentNumber)
	}
	if n.Title != "New Rule: Environmental Protection Agency" {
		t.Fatalf("unexpected title %q", n.Title)
	}
	if n.ActionURL != doc.HTMLURL {
		t.Fatalf("unexpected action url %s", n.ActionURL)
	}
	if n.Payload.RelevanceScore != 75 || n.Payload.DocumentNumber != doc.DocumentNumber {
		t.Fatalf("unexpected payload %+v", n.Payload)
	}
	if len(n.Payload.MatchedAgencies) != 1 {
		t.Fatalf("unexpected matched agencies %v", n.Payload.MatchedAgencies)
	}
	if n.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestBuildNotificationAgencyFallbackTitle(t *testing.T) {
	doc := fanoutDoc()
	doc.AgencyNames = nil
	doc.Category = domain.CategoryProposedRule

	n := BuildNotification(doc, fanoutProfile(), ScoreResult{Score: 30})
	if n == nil {
		t.Fatalf("expected notification")
	}
	if n.Title != "New Proposed Rule: Federal Agency" {
		t.Fatalf("unexpected fallback title %q", n.Title)
	}
}

func TestBuildNotificationTruncatesLongTitle(t *testing.T) {
	doc := fanoutDoc()
	doc.Title = strings.Repeat("a", 200)

	n := BuildNotification(doc, fanoutProfile(), ScoreResult{Score: 30})
	if n == nil {
		t.Fatalf("expected notification")
	}
	if len([]rune(n.Message)) != 153 {
		t.Fatalf("expected 150 runes plus ellipsis, got %d", len([]rune(n.Message)))
	}
	if !strings.HasSuffix(n.Message, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", n.Message)
	}
}

func TestBuildNotificationKeepsShortTitleIntact(t *testing.T) {
	doc := fanoutDoc()
	n := BuildNotification(doc, fanoutProfile(), ScoreResult{Score: 30})
	if n == nil {
		t.Fatalf("expected notification")
	}
	if n.Message != doc.Title {
		t.Fatalf("expected message %q, got %q", doc.Title, n.Message)
	}
}

func TestBuildNotificationEmptyMatchedAgenciesNotNil(t *testing.T) {
	n := BuildNotification(fanoutDoc(), fanoutProfile(), ScoreResult{Score: 45})
	if n == nil {
		t.Fatalf("expected notification")
	}
	if n.Payload.MatchedAgencies == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}
