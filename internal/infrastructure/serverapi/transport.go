package serverapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"brc-agent/internal/application/port/output"
)

const masked = "***"

// loggingTransport logs every exchange with the server at debug level, with
// the api key masked in both the query string and the JSON body.
type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var requestData map[string]any
	if req.Body != nil {
		bodyBytes, _ := io.ReadAll(req.Body)
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		if len(bodyBytes) > 0 && json.Unmarshal(bodyBytes, &requestData) == nil {
			if _, ok := requestData["api_key"]; ok {
				requestData["api_key"] = masked
			}
		}
	}

	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", redactURL(req.URL),
		"body", requestData,
	)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("HTTP Error", "url", redactURL(req.URL), "error", err)
		return resp, err
	}

	t.logger.Debug("HTTP Response",
		"status", resp.Status,
		"statusCode", resp.StatusCode,
		"duration", time.Since(start).String(),
	)
	return resp, nil
}

func redactURL(u *url.URL) string {
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", masked)
		c := *u
		c.RawQuery = q.Encode()
		return c.String()
	}
	return u.String()
}
