// Package fetch retrieves monthly visa bulletin documents and renders them
// to plain text for extraction.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"visatrack/internal/config"
	"visatrack/pkg/contracts/domain"
)

// ErrNotPublished indicates the bulletin for a period is not available at
// the source. Future months are published on a rolling schedule, so callers
// treat this as "no data yet", not a failure.
var ErrNotPublished = errors.New("bulletin not published")

// Client downloads bulletin PDFs over HTTP. Requests are rate limited
// per-process to stay polite to the publisher.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	maxSize    int64
	logger     *slog.Logger
}

// NewClient creates a bulletin client from configuration.
func NewClient(cfg config.FetchConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		maxSize:    cfg.MaxDocumentBytes,
		logger:     logger.With(slog.String("component", "fetch_client")),
	}
}

// BulletinURL returns the download URL for one period's bulletin, e.g.
// .../visabulletin_June2024.pdf.
func (c *Client) BulletinURL(p domain.Period) string {
	return fmt.Sprintf("%svisabulletin_%s%d.pdf", c.baseURL, p.Month, p.Year)
}

// FetchDocumentText downloads the period's bulletin PDF and returns its
// full plain-text rendering, all pages concatenated in order.
func (c *Client) FetchDocumentText(ctx context.Context, p domain.Period) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	url := c.BulletinURL(p)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch bulletin %s: %w", p.Label(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.InfoContext(ctx, "bulletin unavailable",
			slog.String("period", p.Label()),
			slog.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: %s (status %d)", ErrNotPublished, p.Label(), resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize))
	if err != nil {
		return "", fmt.Errorf("read bulletin body: %w", err)
	}

	text, err := ExtractText(data)
	if err != nil {
		return "", fmt.Errorf("extract text from %s: %w", p.Label(), err)
	}

	c.logger.InfoContext(ctx, "bulletin fetched",
		slog.String("period", p.Label()),
		slog.Int("pdf_bytes", len(data)),
		slog.Int("text_chars", len(text)),
		slog.Duration("elapsed", time.Since(start)))

	return text, nil
}
