package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/telhawk-systems/eventgen/internal/event"
	"github.com/telhawk-systems/eventgen/internal/logging"
	"github.com/telhawk-systems/eventgen/internal/metrics"
	"github.com/telhawk-systems/eventgen/internal/render"
	"github.com/telhawk-systems/eventgen/internal/sink"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Outcome is the result of one dispatch. It is built per request, handed to
// the renderer once, and discarded.
type Outcome struct {
	Status   int
	Message  string
	Severity Severity
	Selected string
	Payload  *event.Payload
	Conn     sink.Status
}

// EventSink is the slice of the sink client the orchestrator depends on.
type EventSink interface {
	Probe(ctx context.Context) sink.Status
	Send(ctx context.Context, p event.Payload) bool
}

// Generator orchestrates one event-generation request: probe the sink,
// build the payload, deliver it, and pick the outcome.
type Generator struct {
	sink     EventSink
	renderer *render.Renderer
	log      *logging.Logger
	clock    func() time.Time
	rng      *rand.Rand // test seam; nil means the shared math/rand source
}

func NewGenerator(s EventSink, r *render.Renderer) *Generator {
	return &Generator{
		sink:     s,
		renderer: r,
		log:      logging.Default(),
		clock:    time.Now,
	}
}

// Dispatch runs the full flow for one request. Connectivity is probed
// exactly once, before any payload work, also when no type is selected so
// the initial page can show the sink status.
func (g *Generator) Dispatch(ctx context.Context, rawCode string) Outcome {
	conn := g.sink.Probe(ctx)
	if conn.Reachable {
		metrics.ProbeTotal.WithLabelValues("ok").Inc()
	} else {
		metrics.ProbeTotal.WithLabelValues("fail").Inc()
	}

	out := Outcome{
		Status:   http.StatusOK,
		Severity: SeveritySuccess,
		Selected: rawCode,
		Conn:     conn,
	}

	if rawCode == "" {
		return out
	}

	code, known := event.Parse(rawCode)

	// Raw values stay out of metric labels; anything unparsed is "unknown".
	typeLabel := "unknown"
	if known {
		typeLabel = rawCode
	}

	if !conn.Reachable {
		out.Status = http.StatusInternalServerError
		out.Severity = SeverityError
		out.Message = "No connection to the event sink: " + conn.Detail
		metrics.EventsTotal.WithLabelValues(typeLabel, "blocked").Inc()
		return out
	}

	if !known {
		out.Status = http.StatusInternalServerError
		out.Severity = SeverityError
		out.Message = fmt.Sprintf("Unknown event type %q; nothing was sent.", rawCode)
		metrics.EventsTotal.WithLabelValues(typeLabel, "rejected").Inc()
		return out
	}

	payload, ok := event.Build(code, g.clock(), g.rng)
	if !ok {
		out.Status = http.StatusInternalServerError
		out.Severity = SeverityError
		out.Message = fmt.Sprintf("No payload defined for event type %q.", rawCode)
		metrics.EventsTotal.WithLabelValues(typeLabel, "rejected").Inc()
		return out
	}

	start := time.Now()
	delivered := g.sink.Send(ctx, payload)
	metrics.DeliveryDuration.Observe(time.Since(start).Seconds())

	if !delivered {
		out.Status = http.StatusInternalServerError
		out.Severity = SeverityError
		out.Message = "Failed to deliver event to the sink."
		metrics.EventsTotal.WithLabelValues(typeLabel, "error").Inc()
		return out
	}

	g.log.InfoContext(ctx, "event delivered",
		slog.String("type", rawCode),
		slog.String("event_type", payload.EventType),
	)
	out.Message = fmt.Sprintf("Event %q sent successfully.", event.Label(code))
	out.Payload = &payload
	metrics.EventsTotal.WithLabelValues(typeLabel, "sent").Inc()
	return out
}

// HandleIndex serves the generator page. Any panic in the request path is
// recovered here and rendered as a 500; nothing escapes the handler.
func (g *Generator) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			g.log.ErrorContext(r.Context(), "request failed",
				slog.String("panic", fmt.Sprint(rec)),
			)
			g.writePage(w, Outcome{
				Status:   http.StatusInternalServerError,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Unexpected failure: %v", rec),
				Conn:     sink.Status{Reachable: false, Detail: "unknown, request aborted"},
			})
		}
	}()

	out := g.Dispatch(r.Context(), r.URL.Query().Get("type"))
	g.writePage(w, out)
}

func (g *Generator) writePage(w http.ResponseWriter, out Outcome) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(out.Status)
	page := render.Page{
		Conn:     out.Conn,
		Selected: out.Selected,
		Message:  out.Message,
		Severity: string(out.Severity),
		Payload:  out.Payload,
	}
	if err := g.renderer.Render(w, page); err != nil {
		g.log.Error("render page", slog.String("error", err.Error()))
	}
}
