package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
	"github.com/tmoody1973/hakivo-sync/internal/core/ports"
)

const defaultFanoutWorkers = 8

// SyncUseCase runs the ingestion-score-notify pipeline: fetch documents for
// the trailing window, store the unseen ones, fan each stored document out to
// every subscribed profile, and record one audit row.
//
// A profile-load failure aborts the run. Everything after that point is
// partial-failure-tolerant: per-document and per-user errors are accumulated
// and the loop continues, and the run is still reported as completed.
type SyncUseCase struct {
	feed          ports.DocumentFeed
	documents     ports.DocumentStore
	profiles      ports.ProfileStore
	notifications ports.NotificationStore
	runs          ports.SyncRunStore
	taxonomy      ports.InterestTaxonomy
	events        ports.NotificationEvents

	fanoutWorkers int
}

func NewSyncUseCase(
	feed ports.DocumentFeed,
	documents ports.DocumentStore,
	profiles ports.ProfileStore,
	notifications ports.NotificationStore,
	runs ports.SyncRunStore,
	taxonomy ports.InterestTaxonomy,
	events ports.NotificationEvents,
	fanoutWorkers int,
) *SyncUseCase {
	if fanoutWorkers <= 0 {
		fanoutWorkers = defaultFanoutWorkers
	}
	return &SyncUseCase{
		feed:          feed,
		documents:     documents,
		profiles:      profiles,
		notifications: notifications,
		runs:          runs,
		taxonomy:      taxonomy,
		events:        events,
		fanoutWorkers: fanoutWorkers,
	}
}

func (uc *SyncUseCase) Run(ctx context.Context, trigger domain.SyncType, daysBack int) (*domain.SyncRun, error) {
	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		SyncType:  trigger,
		StartedAt: time.Now().UTC(),
	}

	profiles, err := uc.profiles.ListWithInterests(ctx)
	if err != nil {
		uc.finishRun(ctx, run, domain.SyncStatusFailed)
		return run, domain.WrapError(domain.ErrProfilesUnavailable, "load interest profiles", err)
	}

	docs, err := uc.feed.FetchWindow(ctx, daysBack)
	if err != nil {
		uc.finishRun(ctx, run, domain.SyncStatusFailed)
		return run, fmt.Errorf("fetch document window: %w", err)
	}
	run.DocumentsFetched = len(docs)

	acc := newErrorAccumulator()
	for _, doc := range docs {
		stored, err := uc.storeIfNew(ctx, doc)
		if err != nil {
			acc.add(fmt.Errorf("store document %s: %w", doc.DocumentNumber, err))
			continue
		}
		if !stored {
			continue
		}
		run.DocumentsStored++
		run.NotificationsCreated += uc.fanout(ctx, doc, profiles, acc)
	}

	run.ErrorCount = acc.count()
	uc.finishRun(ctx, run, domain.SyncStatusCompleted)
	return run, nil
}

// storeIfNew reports whether this run persisted the document. The existence
// check is only a fast path; the insert itself is atomic on the document
// number, so a concurrent run racing on the same document loses cleanly.
func (uc *SyncUseCase) storeIfNew(ctx context.Context, doc domain.RegulatoryDocument) (bool, error) {
	exists, err := uc.documents.Exists(ctx, doc.DocumentNumber)
	if err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	if exists {
		return false, nil
	}

	inserted, err := uc.documents.Insert(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("insert: %w", err)
	}
	return inserted, nil
}

// fanout scores one stored document against every profile through a bounded
// worker pool and returns the number of notifications created. A failure for
// one user never blocks the others.
func (uc *SyncUseCase) fanout(ctx context.Context, doc domain.RegulatoryDocument, profiles []domain.InterestProfile, acc *errorAccumulator) int {
	sem := make(chan struct{}, uc.fanoutWorkers)
	var wg sync.WaitGroup
	var created atomic.Int64

	for _, profile := range profiles {
		wg.Add(1)
		sem <- struct{}{}
		go func(p domain.InterestProfile) {
			defer wg.Done()
			defer func() { <-sem }()

			ok, err := uc.notifyProfile(ctx, doc, p)
			if err != nil {
				acc.add(fmt.Errorf("notify user %s for document %s: %w", p.UserID, doc.DocumentNumber, err))
				return
			}
			if ok {
				created.Add(1)
			}
		}(profile)
	}
	wg.Wait()

	return int(created.Load())
}

// notifyProfile reports whether a notification was created. A score below the
// threshold is a normal outcome, not an error; only persistence failures
// count against the run.
func (uc *SyncUseCase) notifyProfile(ctx context.Context, doc domain.RegulatoryDocument, profile domain.InterestProfile) (bool, error) {
	result := ScoreDocument(doc, profile.PolicyInterests, uc.taxonomy)
	notification := BuildNotification(doc, profile, result)
	if notification == nil {
		return false, nil
	}

	if err := uc.notifications.Create(ctx, notification); err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}

	if uc.events != nil {
		if err := uc.events.NotificationCreated(ctx, notification); err != nil {
			slog.Warn("notification_event_publish_failed",
				"notification_id", notification.ID,
				"user_id", notification.UserID,
				"error", err,
			)
		}
	}
	return true, nil
}

func (uc *SyncUseCase) finishRun(ctx context.Context, run *domain.SyncRun, status domain.SyncStatus) {
	run.Status = status
	run.CompletedAt = time.Now().UTC()

	if err := uc.runs.Record(ctx, run); err != nil {
		slog.Error("sync_run_record_failed", "run_id", run.ID, "error", err)
	}

	slog.Info("sync_run_finished",
		"run_id", run.ID,
		"sync_type", string(run.SyncType),
		"status", string(run.Status),
		"documents_fetched", run.DocumentsFetched,
		"documents_stored", run.DocumentsStored,
		"notifications_created", run.NotificationsCreated,
		"error_count", run.ErrorCount,
	)
}

type errorAccumulator struct {
	mu   sync.Mutex
	errs []error
}

func newErrorAccumulator() *errorAccumulator {
	return &errorAccumulator{}
}

func (a *errorAccumulator) add(err error) {
	if err == nil {
		return
	}
	a.mu.Lock()
	a.errs = append(a.errs, err)
	a.mu.Unlock()
	slog.Warn("sync_step_error", "error", err)
}

func (a *errorAccumulator) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.errs)
}
