package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"deliverycli/internal/config"
	"deliverycli/internal/errors"
	"deliverycli/internal/infrastructure"
	"deliverycli/pkg/contracts/domain"
)

// Mirror failure reasons, also used as the metrics outcome label.
const (
	ReasonTransport  = "transport"
	ReasonHTTPStatus = "http_status"
	ReasonHTMLPage   = "html_page"
	ReasonRead       = "read"
	outcomeSuccess   = "success"
)

// MirrorError describes why one mirror did not yield a report.
type MirrorError struct {
	URL        string
	Reason     string
	StatusCode int
	Summary    string
	Err        error
}

func (e *MirrorError) Error() string {
	switch e.Reason {
	case ReasonHTTPStatus:
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	case ReasonHTMLPage:
		return fmt.Sprintf("received HTML/error instead of .DAT from %s: %s", e.URL, e.Summary)
	default:
		return fmt.Sprintf("fetch failed from %s: %v", e.URL, e.Err)
	}
}

func (e *MirrorError) Unwrap() error {
	return e.Err
}

// Fetcher downloads MTO reports from the configured mirrors.
type Fetcher struct {
	cfg     config.ArchiveConfig
	client  *http.Client
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewHTTPClient returns a client that keeps the cookies set by the archive
// landing page across requests.
func NewHTTPClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Jar: jar}
}

// NewFetcher creates a Fetcher. A nil client gets a fresh cookie-aware client;
// metrics may be nil.
func NewFetcher(cfg config.ArchiveConfig, client *http.Client, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Fetcher {
	if client == nil {
		client = NewHTTPClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		cfg:     cfg,
		client:  client,
		logger:  infrastructure.WithComponent(logger, "archive"),
		metrics: metrics,
	}
}

// ReportName is the archive file name of the MTO report for date.
func ReportName(date time.Time) string {
	return config.RawReportPrefix + date.Format(domain.ArchiveDateLayout) + config.RawReportExt
}

// MirrorURLs lists the candidate report URLs for date in mirror order.
func (f *Fetcher) MirrorURLs(date time.Time) []string {
	name := ReportName(date)
	urls := make([]string, len(f.cfg.Mirrors))
	for i, m := range f.cfg.Mirrors {
		urls[i] = strings.TrimRight(m, "/") + "/" + name
	}
	return urls
}

// Fetch returns the raw text of the report for date. The mirror sequence is
// attempted up to Attempts times; when every attempt fails the result is a
// fetch error wrapping the last mirror failure.
func (f *Fetcher) Fetch(ctx context.Context, date time.Time) (string, error) {
	iso := domain.FormatISODate(date)
	ctx, span := infrastructure.StartSpan(ctx, "archive.fetch", attribute.String("date", iso))
	defer span.End()

	start := time.Now()
	attempts := f.cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			f.logger.InfoContext(ctx, "retrying archive fetch",
				slog.String("date", iso),
				slog.Int("attempt", attempt),
				slog.Duration("delay", f.cfg.RetryDelay))

			select {
			case <-ctx.Done():
				return "", f.fail(ctx, span, start, iso, attempt-1, ctx.Err())
			case <-time.After(f.cfg.RetryDelay):
			}
		}

		body, err := f.fetchOnce(ctx, date)
		f.metrics.RecordFetchAttempt(ctx, err == nil)
		if err == nil {
			f.metrics.RecordFetchDuration(ctx, time.Since(start), true)
			f.logger.InfoContext(ctx, "archive fetch succeeded",
				slog.String("date", iso),
				slog.Int("attempt", attempt),
				slog.Int("bytes", len(body)))
			return body, nil
		}

		lastErr = err
		f.logger.WarnContext(ctx, "archive fetch attempt failed",
			slog.String("date", iso),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.String("error", err.Error()))

		if ctx.Err() != nil {
			return "", f.fail(ctx, span, start, iso, attempt, ctx.Err())
		}
	}

	return "", f.fail(ctx, span, start, iso, attempts, lastErr)
}

func (f *Fetcher) fail(ctx context.Context, span trace.Span, start time.Time, iso string, attempts int, cause error) error {
	f.metrics.RecordFetchDuration(ctx, time.Since(start), false)
	err := errors.NewFetchError(fmt.Sprintf("all archive mirrors failed for %s", iso), cause).
		WithContext("date", iso).
		WithContext("attempts", attempts)
	infrastructure.RecordError(span, err)
	return err
}

// fetchOnce runs the warm-up request and then tries each mirror in order.
func (f *Fetcher) fetchOnce(ctx context.Context, date time.Time) (string, error) {
	f.warmUp(ctx)

	var lastErr error
	for _, u := range f.MirrorURLs(date) {
		f.logger.InfoContext(ctx, "fetching report", slog.String("url", u))

		body, err := f.get(ctx, u)
		if err == nil {
			f.metrics.RecordMirror(ctx, hostOf(u), outcomeSuccess)
			return body, nil
		}

		lastErr = err
		reason := ReasonTransport
		if me, ok := err.(*MirrorError); ok {
			reason = me.Reason
		}
		f.metrics.RecordMirror(ctx, hostOf(u), reason)
		f.logger.WarnContext(ctx, "mirror failed",
			slog.String("url", u),
			slog.String("reason", reason),
			slog.String("error", err.Error()))

		if ctx.Err() != nil {
			break
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no archive mirrors configured")
	}
	return "", lastErr
}

// warmUp requests the landing page so the origin can set its session
// cookies. Failures are ignored.
func (f *Fetcher) warmUp(ctx context.Context) {
	if f.cfg.LandingURL == "" {
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.WarmupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, f.cfg.LandingURL, nil)
	if err != nil {
		f.logger.DebugContext(ctx, "warm-up request not built", slog.String("error", err.Error()))
		return
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.DebugContext(ctx, "warm-up request failed", slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
}

func (f *Fetcher) get(ctx context.Context, u string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		return "", &MirrorError{URL: u, Reason: ReasonTransport, Err: err}
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &MirrorError{URL: u, Reason: ReasonTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &MirrorError{URL: u, Reason: ReasonHTTPStatus, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &MirrorError{URL: u, Reason: ReasonRead, StatusCode: resp.StatusCode, Err: err}
	}

	body := string(data)
	if LooksLikeHTML(body) {
		return "", &MirrorError{
			URL:        u,
			Reason:     ReasonHTMLPage,
			StatusCode: resp.StatusCode,
			Summary:    SummarizePage(body),
		}
	}
	return body, nil
}

func (f *Fetcher) setHeaders(req *http.Request) {
	set := func(k, v string) {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	set("User-Agent", f.cfg.UserAgent)
	set("Accept", f.cfg.Accept)
	set("Accept-Language", f.cfg.AcceptLanguage)
	set("Referer", f.cfg.Referer)
	req.Header.Set("Connection", "keep-alive")
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Host
}
