// Package fedreg fetches documents from the Federal Register public API.
package fedreg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
	"github.com/tmoody1973/hakivo-sync/internal/infrastructure/resilience"
	"github.com/tmoody1973/hakivo-sync/internal/observability/metrics"
)

const (
	documentsPath = "/api/v1/documents.json"
	dateLayout    = "2006-01-02"
	maxPages      = 20
)

type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
	metrics    *metrics.SyncMetrics
	service    string
	now        func() time.Time
}

type Options struct {
	PageSize       int
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Executor       *resilience.Executor
	Metrics        *metrics.SyncMetrics
	Service        string
}

func New(baseURL string, options Options) *Client {
	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	timeout := options.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := options.RateLimitRPS
	if rps <= 0 {
		rps = 3
	}
	burst := options.RateLimitBurst
	if burst <= 0 {
		burst = int(rps)
	}
	executor := options.Executor
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	service := options.Service
	if service == "" {
		service = "hakivo-sync"
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		executor:   executor,
		metrics:    options.Metrics,
		service:    service,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// FetchWindow retrieves documents for every category published inside the
// inclusive window [today-daysBack, today]. A failing category contributes
// zero documents and never stops the remaining categories; only context
// cancellation aborts the whole fetch.
func (c *Client) FetchWindow(ctx context.Context, daysBack int) ([]domain.RegulatoryDocument, error) {
	if daysBack < 0 {
		daysBack = 0
	}
	today := c.now()
	from := today.AddDate(0, 0, -daysBack)

	var all []domain.RegulatoryDocument
	for _, category := range domain.AllCategories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		started := time.Now()
		docs, err := c.fetchCategory(ctx, category, from, today)
		c.metrics.ObserveFetch(c.service, string(category), time.Since(started), err)
		if err != nil {
			slog.Warn("feed_category_fetch_failed",
				"category", string(category),
				"days_back", daysBack,
				"error", err,
			)
			continue
		}
		all = append(all, docs...)
	}
	return all, nil
}

func (c *Client) fetchCategory(ctx context.Context, category domain.DocumentCategory, from, to time.Time) ([]domain.RegulatoryDocument, error) {
	var docs []domain.RegulatoryDocument

	for page := 1; page <= maxPages; page++ {
		result, err := c.fetchPage(ctx, category, from, to, page)
		if err != nil {
			return nil, err
		}

		for _, record := range result.Results {
			doc, err := record.toDomain(category)
			if err != nil {
				slog.Warn("feed_document_skipped",
					"category", string(category),
					"document_number", record.DocumentNumber,
					"error", err,
				)
				continue
			}
			docs = append(docs, doc)
		}

		if page >= result.TotalPages || len(result.Results) == 0 {
			break
		}
	}
	return docs, nil
}

func (c *Client) fetchPage(ctx context.Context, category domain.DocumentCategory, from, to time.Time, page int) (*pageResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestURL := c.pageURL(category, from, to, page)
	operation := "fedreg.fetch." + strings.ToLower(string(category))

	var result pageResponse
	err := c.executor.Execute(ctx, operation, func(callCtx context.Context) error {
		req, err := http.NewRequestWithContext(callCtx, http.MethodGet, requestURL, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		res, err := c.httpClient.Do(req)
		if err != nil {
			return retryableError{fmt.Errorf("request feed: %w", err)}
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
			err := fmt.Errorf("feed status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
			if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
				return retryableError{err}
			}
			return err
		}

		if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode feed payload: %w", err)
		}
		return nil
	}, classifyFeedError)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) pageURL(category domain.DocumentCategory, from, to time.Time, page int) string {
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(c.pageSize))
	query.Set("page", strconv.Itoa(page))
	query.Set("order", "newest")
	query.Add("conditions[type][]", string(category))
	query.Set("conditions[publication_date][gte]", from.Format(dateLayout))
	query.Set("conditions[publication_date][lte]", to.Format(dateLayout))
	for _, field := range wireFields {
		query.Add("fields[]", field)
	}
	return c.baseURL + documentsPath + "?" + query.Encode()
}

type retryableError struct {
	err error
}

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

func classifyFeedError(err error) resilience.Outcome {
	var retryable retryableError
	if errors.As(err, &retryable) {
		return resilience.Outcome{Retryable: true, RecordFailure: true}
	}
	// Malformed payloads and 4xx responses will not improve on retry and
	// should not trip the breaker for the whole category.
	return resilience.Outcome{Retryable: false, RecordFailure: false}
}
