package domain

import "time"

type SyncStatus string

const (
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

type SyncType string

const (
	SyncTypeManual    SyncType = "manual_sync"
	SyncTypeScheduled SyncType = "scheduled_sync"
)

// SyncRun is the audit record for one pipeline invocation. A run that finished
// its document loop is "completed" even when per-document errors occurred;
// "failed" is reserved for top-level aborts such as an unreachable profile
// store.
type SyncRun struct {
	ID                   string     `json:"id"`
	SyncType             SyncType   `json:"sync_type"`
	Status               SyncStatus `json:"status"`
	DocumentsFetched     int        `json:"documents_fetched"`
	DocumentsStored      int        `json:"documents_stored"`
	NotificationsCreated int        `json:"notifications_created"`
	ErrorCount           int        `json:"error_count"`
	StartedAt            time.Time  `json:"started_at"`
	CompletedAt          time.Time  `json:"completed_at"`
}
