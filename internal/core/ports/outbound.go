package ports

import (
	"context"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

// DocumentFeed fetches regulatory documents for the trailing date window.
// Per-category failures are absorbed inside the implementation; the returned
// slice is the concatenation of whatever categories succeeded.
type DocumentFeed interface {
	FetchWindow(ctx context.Context, daysBack int) ([]domain.RegulatoryDocument, error)
}

// DocumentStore persists documents keyed by their document number. Insert is
// atomic on the natural key and reports false when another run already stored
// the same document.
type DocumentStore interface {
	Exists(ctx context.Context, documentNumber string) (bool, error)
	Insert(ctx context.Context, doc domain.RegulatoryDocument) (bool, error)
}

// ProfileStore reads subscribed users. Only profiles with at least one policy
// interest are returned.
type ProfileStore interface {
	ListWithInterests(ctx context.Context) ([]domain.InterestProfile, error)
}

// NotificationStore persists and reads fan-out results.
type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

// SyncRunStore persists the per-run audit record.
type SyncRunStore interface {
	Record(ctx context.Context, run *domain.SyncRun) error
	ListRecent(ctx context.Context, limit int) ([]domain.SyncRun, error)
}

// NotificationEvents announces freshly created notifications to the delivery
// system. Publishing is best-effort.
type NotificationEvents interface {
	NotificationCreated(ctx context.Context, n *domain.Notification) error
}

// InterestTaxonomy maps a policy-interest label to the agency-name fragments
// considered relevant to it.
type InterestTaxonomy interface {
	AgencyFragments(interest string) []string
}
