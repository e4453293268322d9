package ports

import (
	"context"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

// SyncService is the inbound contract for one ingestion-score-notify run.
type SyncService interface {
	Run(ctx context.Context, trigger domain.SyncType, daysBack int) (*domain.SyncRun, error)
}
