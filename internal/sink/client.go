package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/telhawk-systems/eventgen/internal/event"
	"github.com/telhawk-systems/eventgen/internal/logging"
)

// IngestPath is the event ingest endpoint on the sink, used for both the
// connectivity probe and event delivery.
const IngestPath = "/api/v2/events/ingest"

const (
	DefaultProbeTimeout = 5 * time.Second
	DefaultSendTimeout  = 10 * time.Second
)

// Status is the result of one connectivity probe. It is produced fresh on
// every request and never cached.
type Status struct {
	Reachable bool
	Detail    string
}

// Client talks to the external telemetry sink. Probe and Send never return
// errors; every failure mode is converted to a Status or a boolean so the
// caller only ever handles data.
type Client struct {
	baseURL     string
	token       string
	probeClient *http.Client
	sendClient  *http.Client
	log         *logging.Logger
}

// New creates a sink client. URL and token may be empty; Probe then reports
// the missing configuration and Send refuses delivery. Non-positive timeouts
// fall back to the defaults.
func New(baseURL, token string, probeTimeout, sendTimeout time.Duration) *Client {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		probeClient: &http.Client{Timeout: probeTimeout},
		sendClient:  &http.Client{Timeout: sendTimeout},
		log:         logging.Default(),
	}
}

// Probe checks whether the sink is reachable and the token is accepted.
// It issues a GET against the ingest path, which the sink rejects by method
// only once auth has cleared, so 405 proves both reachability and a valid
// token. This heuristic is specific to the target backend's API behavior.
func (c *Client) Probe(ctx context.Context) Status {
	if c.baseURL == "" {
		return Status{Reachable: false, Detail: "sink URL is not configured"}
	}
	if c.token == "" {
		return Status{Reachable: false, Detail: "sink API token is not configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+IngestPath, nil)
	if err != nil {
		return Status{Reachable: false, Detail: fmt.Sprintf("probe failed: %v", err)}
	}
	req.Header.Set("Authorization", "Api-Token "+c.token)

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return Status{Reachable: false, Detail: probeErrorDetail(err, c.baseURL)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusMethodNotAllowed:
		return Status{Reachable: true, Detail: "sink reachable, token accepted"}
	case http.StatusUnauthorized:
		return Status{Reachable: false, Detail: "sink rejected the API token"}
	case http.StatusForbidden:
		return Status{Reachable: false, Detail: "API token lacks the required permission"}
	case http.StatusNotFound:
		return Status{Reachable: false, Detail: fmt.Sprintf("ingest path not found at %s", c.baseURL)}
	default:
		return Status{Reachable: false, Detail: fmt.Sprintf("unexpected probe response: %d", resp.StatusCode)}
	}
}

func probeErrorDetail(err error, baseURL string) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "probe timed out"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("cannot connect to %s: %v", baseURL, opErr)
	}
	return fmt.Sprintf("probe failed: %v", err)
}

// Send delivers one payload to the sink. It reports plain success or
// failure; network errors and non-200 responses are logged and absorbed
// here, never propagated.
func (c *Client) Send(ctx context.Context, p event.Payload) bool {
	if c.baseURL == "" || c.token == "" {
		c.log.ErrorContext(ctx, "event delivery skipped: sink not configured")
		return false
	}

	body, err := json.Marshal(p)
	if err != nil {
		c.log.ErrorContext(ctx, "marshal event payload", slog.String("error", err.Error()))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+IngestPath, bytes.NewReader(body))
	if err != nil {
		c.log.ErrorContext(ctx, "build delivery request", slog.String("error", err.Error()))
		return false
	}
	req.Header.Set("Authorization", "Api-Token "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.sendClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "event delivery failed",
			slog.String("annotation_type", p.AnnotationType),
			slog.String("error", err.Error()),
		)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.ErrorContext(ctx, "sink rejected event",
			slog.String("event_type", p.EventType),
			slog.Int("status", resp.StatusCode),
		)
		return false
	}

	return true
}
