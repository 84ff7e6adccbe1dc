package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/eventgen/internal/event"
	"github.com/telhawk-systems/eventgen/internal/logging"
	"github.com/telhawk-systems/eventgen/internal/middleware"
	"github.com/telhawk-systems/eventgen/internal/render"
	"github.com/telhawk-systems/eventgen/internal/sink"
)

type fakeSink struct {
	status sink.Status
	sendOK bool

	probes int
	sends  int
	sent   []event.Payload
}

func (f *fakeSink) Probe(ctx context.Context) sink.Status {
	f.probes++
	return f.status
}

func (f *fakeSink) Send(ctx context.Context, p event.Payload) bool {
	f.sends++
	f.sent = append(f.sent, p)
	return f.sendOK
}

func reachable() sink.Status {
	return sink.Status{Reachable: true, Detail: "sink reachable, token accepted"}
}

func newTestGenerator(s EventSink) *Generator {
	g := NewGenerator(s, render.New())
	g.clock = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }
	return g
}

func TestDispatch_NoTypeSelected(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: true}
	out := newTestGenerator(fs).Dispatch(context.Background(), "")

	assert.Equal(t, http.StatusOK, out.Status)
	assert.Equal(t, SeveritySuccess, out.Severity)
	assert.Empty(t, out.Selected)
	assert.Empty(t, out.Message)
	assert.Nil(t, out.Payload)
	assert.Equal(t, 0, fs.sends)
	// Connectivity is still probed for the initial page banner.
	assert.Equal(t, 1, fs.probes)
}

func TestDispatch_DeliverySucceeds(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: true}
	out := newTestGenerator(fs).Dispatch(context.Background(), "warning")

	assert.Equal(t, http.StatusOK, out.Status)
	assert.Equal(t, SeveritySuccess, out.Severity)
	assert.Contains(t, out.Message, "sent successfully")
	require.NotNil(t, out.Payload)
	assert.Equal(t, "WARNING", out.Payload.AnnotationType)
	assert.Equal(t, 1, fs.sends)
}

func TestDispatch_SinkUnreachable(t *testing.T) {
	fs := &fakeSink{status: sink.Status{Reachable: false, Detail: "sink rejected the API token"}}
	out := newTestGenerator(fs).Dispatch(context.Background(), "resource")

	assert.Equal(t, http.StatusInternalServerError, out.Status)
	assert.Equal(t, SeverityError, out.Severity)
	assert.Contains(t, out.Message, "No connection")
	assert.Contains(t, out.Message, "rejected the API token")
	assert.Nil(t, out.Payload)
	// No payload is built or sent when blocked.
	assert.Equal(t, 0, fs.sends)
}

func TestDispatch_UnknownCode(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: true}
	out := newTestGenerator(fs).Dispatch(context.Background(), "bogus")

	assert.Equal(t, http.StatusInternalServerError, out.Status)
	assert.Equal(t, SeverityError, out.Severity)
	assert.Contains(t, out.Message, "Unknown event type")
	assert.Nil(t, out.Payload)
	assert.Equal(t, 0, fs.sends)
}

func TestDispatch_DeliveryFails(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: false}
	out := newTestGenerator(fs).Dispatch(context.Background(), "http")

	assert.Equal(t, http.StatusInternalServerError, out.Status)
	assert.Equal(t, SeverityError, out.Severity)
	assert.Contains(t, out.Message, "Failed to deliver")
	assert.Nil(t, out.Payload)
	assert.Equal(t, 1, fs.sends)
}

func TestDispatch_ProbedExactlyOncePerRequest(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: true}
	g := newTestGenerator(fs)

	g.Dispatch(context.Background(), "db")
	assert.Equal(t, 1, fs.probes)

	g.Dispatch(context.Background(), "db")
	assert.Equal(t, 2, fs.probes)
}

func TestHandleIndex_InitialPage(t *testing.T) {
	fs := &fakeSink{status: sink.Status{Reachable: false, Detail: "sink URL is not configured"}}
	g := newTestGenerator(fs)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	g.HandleIndex(rr, req)

	// Missing configuration blocks delivery but not the initial render.
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Event Generator 3000")
	assert.Contains(t, rr.Body.String(), "sink URL is not configured")
}

func TestHandleIndex_SuccessShowsPayload(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: true}
	g := newTestGenerator(fs)

	req := httptest.NewRequest(http.MethodGet, "/?type=warning", nil)
	rr := httptest.NewRecorder()
	g.HandleIndex(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sent successfully")
	assert.Contains(t, rr.Body.String(), `&#34;annotationType&#34;: &#34;WARNING&#34;`)
}

func TestHandleIndex_UnknownCodeRenders500(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: true}
	g := newTestGenerator(fs)

	req := httptest.NewRequest(http.MethodGet, "/?type=bogus", nil)
	rr := httptest.NewRecorder()
	g.HandleIndex(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unknown event type")
	assert.NotContains(t, rr.Body.String(), "Delivered payload")
}

type panickingSink struct{}

func (panickingSink) Probe(ctx context.Context) sink.Status { panic("probe exploded") }
func (panickingSink) Send(ctx context.Context, p event.Payload) bool {
	return false
}

func TestHandleIndex_RecoversPanicAsRendered500(t *testing.T) {
	g := newTestGenerator(panickingSink{})

	req := httptest.NewRequest(http.MethodGet, "/?type=warning", nil)
	rr := httptest.NewRecorder()

	assert.NotPanics(t, func() { g.HandleIndex(rr, req) })
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unexpected failure")
	assert.Contains(t, rr.Body.String(), "probe exploded")
}

func TestHandleIndex_MethodNotAllowed(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: true}
	g := newTestGenerator(fs)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()
	g.HandleIndex(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, 0, fs.probes)
}

func TestHandleIndex_UnknownPathIs404(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: true}
	g := newTestGenerator(fs)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	g.HandleIndex(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDispatch_DeliveryLogCarriesRequestID(t *testing.T) {
	fs := &fakeSink{status: reachable(), sendOK: true}
	g := newTestGenerator(fs)

	var buf bytes.Buffer
	g.log = &logging.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-gen-7")
	out := g.Dispatch(ctx, "warning")
	require.Equal(t, http.StatusOK, out.Status)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-gen-7", entry["request_id"])
	assert.Equal(t, "event delivered", entry["msg"])
	assert.Equal(t, "warning", entry["type"])
}
