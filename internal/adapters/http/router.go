package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tmoody1973/hakivo-sync/internal/config"
	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
	"github.com/tmoody1973/hakivo-sync/internal/core/ports"
	"github.com/tmoody1973/hakivo-sync/internal/observability/metrics"
)

type Router struct {
	cfg           config.Config
	service       string
	syncService   ports.SyncService
	runs          ports.SyncRunStore
	notifications ports.NotificationStore
	metrics       *metrics.SyncMetrics
	syncSlots     chan struct{}
}

func NewRouter(
	cfg config.Config,
	service string,
	syncService ports.SyncService,
	runs ports.SyncRunStore,
	notifications ports.NotificationStore,
	syncMetrics *metrics.SyncMetrics,
) *Router {
	rt := &Router{
		cfg:           cfg,
		service:       service,
		syncService:   syncService,
		runs:          runs,
		notifications: notifications,
		metrics:       syncMetrics,
	}
	if cfg.APIMaxConcurrentSync > 0 {
		rt.syncSlots = make(chan struct{}, cfg.APIMaxConcurrentSync)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/sync", rt.triggerSync)
	mux.HandleFunc("/v1/runs", rt.listRuns)
	mux.HandleFunc("/v1/notifications", rt.listNotifications)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type syncRequest struct {
	DaysBack *int `json:"daysBack"`
}

type syncStats struct {
	DocumentsFetched     int `json:"documentsFetched"`
	DocumentsStored      int `json:"documentsStored"`
	NotificationsCreated int `json:"notificationsCreated"`
	Errors               int `json:"errors"`
}

type syncResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Stats   *syncStats `json:"stats,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func (rt *Router) triggerSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, syncResponse{Success: false, Error: "method not allowed"})
		return
	}

	// One slow feed sync at a time; a second trigger gets 503 instead of
	// queueing behind it.
	if rt.syncSlots != nil {
		select {
		case rt.syncSlots <- struct{}{}:
			defer func() { <-rt.syncSlots }()
		default:
			writeJSON(w, http.StatusServiceUnavailable, syncResponse{Success: false, Error: "a sync is already running"})
			return
		}
	}

	daysBack := rt.cfg.SyncDefaultDaysBack
	if r.Body != nil && r.ContentLength != 0 {
		var req syncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, syncResponse{Success: false, Error: "invalid json body"})
			return
		}
		if req.DaysBack != nil {
			if *req.DaysBack < 0 {
				writeJSON(w, http.StatusBadRequest, syncResponse{Success: false, Error: "daysBack must not be negative"})
				return
			}
			daysBack = *req.DaysBack
		}
	}

	started := time.Now()
	rt.metrics.StartRun()
	run, err := rt.syncService.Run(r.Context(), domain.SyncTypeManual, daysBack)
	rt.metrics.FinishRun(rt.service, run, time.Since(started), err)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), syncResponse{Success: false, Error: err.Error()})
		return
	}

	// Per-document and per-user errors do not fail the run; the caller sees
	// them only as a count.
	message := "sync completed"
	if run.ErrorCount > 0 {
		message = "sync completed with errors"
	}
	writeJSON(w, http.StatusOK, syncResponse{
		Success: true,
		Message: message,
		Stats: &syncStats{
			DocumentsFetched:     run.DocumentsFetched,
			DocumentsStored:      run.DocumentsStored,
			NotificationsCreated: run.NotificationsCreated,
			Errors:               run.ErrorCount,
		},
	})
}

func (rt *Router) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	runs, err := rt.runs.ListRecent(r.Context(), queryLimit(r))
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (rt *Router) listNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	notifications, err := rt.notifications.ListByUser(r.Context(), userID, queryLimit(r))
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
