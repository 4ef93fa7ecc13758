package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/myrjola/pfaplan/internal/errors"
	"golang.org/x/time/rate"
)

// maxResponseBytes bounds how much of a response body is decoded.
const maxResponseBytes = 4 << 20

// endpoint is the HTTP plumbing shared by the sources: a base URL, a client with timeout, and a limiter spacing
// consecutive requests to the same API.
type endpoint struct {
	name    string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func newEndpoint(name, baseURL string, client *http.Client, interval time.Duration, logger *slog.Logger) endpoint {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return endpoint{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// getJSON waits for the limiter, performs GET baseURL+path?query and decodes the body into v.
func (e endpoint) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := e.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "new request", slog.String("api", e.name))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "recipe API request failed",
			slog.String("api", e.name), slog.Duration("duration", time.Since(start)))
		return errors.Wrap(errors.Join(ErrSourceFailed, err), "get", slog.String("api", e.name))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		e.logStatus(ctx, resp.StatusCode)
		return errors.Wrap(ErrSourceFailed, "unexpected status",
			slog.String("api", e.name), slog.Int("status", resp.StatusCode))
	}
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(v); err != nil {
		return errors.Wrap(errors.Join(ErrSourceFailed, err), "decode response", slog.String("api", e.name))
	}
	e.logger.LogAttrs(ctx, slog.LevelDebug, "recipe API request",
		slog.String("api", e.name), slog.String("path", path), slog.Duration("duration", time.Since(start)))
	return nil
}

func (e endpoint) logStatus(ctx context.Context, status int) {
	level, msg := slog.LevelError, "request failed"
	switch status {
	case http.StatusBadRequest:
		level, msg = slog.LevelWarn, "found no recipes for this search"
	case http.StatusUnauthorized:
		msg = "authentication failed, check API credentials"
	case http.StatusPaymentRequired:
		level, msg = slog.LevelWarn, "requires payment, consider upgrading or disabling this API"
	case http.StatusForbidden:
		msg = "access forbidden, check API permissions"
	case http.StatusTooManyRequests:
		level, msg = slog.LevelWarn, "rate limit exceeded"
	}
	e.logger.LogAttrs(ctx, level, msg, slog.String("api", e.name), slog.Int("status", status))
}
