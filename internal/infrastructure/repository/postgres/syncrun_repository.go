package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

const defaultRunLimit = 20

type SyncRunRepository struct {
	db *sql.DB
}

func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Record(ctx context.Context, run *domain.SyncRun) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sync_runs (
	id, sync_type, status, documents_fetched, documents_stored, notifications_created, error_count, started_at, completed_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		run.ID, string(run.SyncType), string(run.Status),
		run.DocumentsFetched, run.DocumentsStored, run.NotificationsCreated,
		run.ErrorCount, run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, sync_type, status, documents_fetched, documents_stored, notifications_created, error_count, started_at, completed_at
FROM sync_runs
ORDER BY started_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SyncRun, 0)
	for rows.Next() {
		var run domain.SyncRun
		var syncType, status string
		err := rows.Scan(
			&run.ID, &syncType, &status,
			&run.DocumentsFetched, &run.DocumentsStored, &run.NotificationsCreated,
			&run.ErrorCount, &run.StartedAt, &run.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		run.SyncType = domain.SyncType(syncType)
		run.Status = domain.SyncStatus(status)
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync runs: %w", err)
	}
	return out, nil
}
