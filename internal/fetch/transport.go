package fetch

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport logs each retrieval at debug level. Errors pass through
// unwrapped so timeout classification still sees the net.Error.
type loggingTransport struct {
	base http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := slog.With("host", req.URL.Host, "path", req.URL.Path)

	log.Debug("fetch start", "user_agent", req.Header.Get("User-Agent"))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		log.Debug("fetch failed", "error", err, "duration", time.Since(start))

		return nil, err
	}

	log.Debug("fetch done",
		"status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"length", resp.ContentLength,
		"blocked", blocked(resp.StatusCode),
		"duration", time.Since(start),
	)

	return resp, nil
}
