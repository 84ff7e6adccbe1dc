package event

import (
	"fmt"
	"math/rand"
	"time"
)

// Category tags accepted by the sink's event ingest API.
const (
	CategoryResource   = "RESOURCE_EVENT"
	CategoryState      = "STATE_EVENT"
	CategoryAnnotation = "CUSTOM_ANNOTATION"
)

// Source identifies this generator in every payload it builds.
const Source = "EventGenerator3000"

// Payload is one synthetic event in the shape the ingest API expects.
// Detect is always false so the backend never runs anomaly detection on
// demonstration traffic.
type Payload struct {
	EventType             string         `json:"eventType"`
	Timestamp             int64          `json:"timestamp"`
	Source                string         `json:"source"`
	Detect                bool           `json:"detect"`
	EntitySelector        string         `json:"entitySelector,omitempty"`
	Property              string         `json:"property,omitempty"`
	Value                 int            `json:"value,omitempty"`
	State                 string         `json:"state,omitempty"`
	AnnotationType        string         `json:"annotationType,omitempty"`
	AnnotationDescription string         `json:"annotationDescription,omitempty"`
	CustomProperties      map[string]any `json:"customProperties,omitempty"`
}

// Build constructs the payload for a code. The clock and random source are
// injected so the result is deterministic under test; a nil rng falls back
// to the shared math/rand source. The second return is false for codes
// outside the catalog, in which case there is nothing to send.
//
// Payload shape is fixed per code; only the randomized values vary between
// calls.
func Build(code Code, now time.Time, rng *rand.Rand) (Payload, bool) {
	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}

	p := Payload{
		Timestamp: now.UnixMilli(),
		Source:    Source,
		Detect:    false,
	}

	switch code {
	case CodeResource:
		p.EventType = CategoryResource
		p.EntitySelector = `type(HOST),entityName("host123")`
		p.Property = "CPU_USAGE"
		p.Value = intn(100) + 1
	case CodeTrace:
		p.EventType = CategoryState
		p.EntitySelector = `type(SERVICE),entityName("ServiceXYZ")`
		p.State = "TRACE_SPAN"
		p.AnnotationType = "TRACE"
		p.AnnotationDescription = "Simulated span for trace"
	case CodeHTTP:
		status := []int{200, 400, 500}[intn(3)]
		p.EventType = CategoryAnnotation
		p.AnnotationType = "HTTP_CALL"
		p.AnnotationDescription = fmt.Sprintf("HTTP %d GET https://example.com/api", status)
		p.CustomProperties = map[string]any{
			"statusCode": status,
			"method":     "GET",
			"url":        "https://example.com/api",
		}
	case CodeDB:
		status := []string{"SUCCESS", "FAILURE"}[intn(2)]
		p.EventType = CategoryAnnotation
		p.AnnotationType = "DB_CALL"
		p.AnnotationDescription = fmt.Sprintf("Simulated DB call: status %s", status)
		p.CustomProperties = map[string]any{
			"database":  "MySQL",
			"operation": "SELECT",
			"status":    status,
		}
	case CodeAzure:
		status := []string{"OK", "ERROR"}[intn(2)]
		p.EventType = CategoryAnnotation
		p.AnnotationType = "AZURE_SERVICE"
		p.AnnotationDescription = fmt.Sprintf("Simulated Azure BlobStorage call: %s", status)
		p.CustomProperties = map[string]any{
			"service":   "BlobStorage",
			"operation": "Upload",
			"status":    status,
		}
	case CodeError:
		p.EventType = CategoryAnnotation
		p.AnnotationType = "ERROR"
		p.AnnotationDescription = "Simulated exception occurred"
		p.CustomProperties = map[string]any{
			"exceptionType": "ValueError",
			"message":       "Simulated error",
		}
	case CodeWarning:
		p.EventType = CategoryAnnotation
		p.AnnotationType = "WARNING"
		p.AnnotationDescription = "Simulated warning"
		p.CustomProperties = map[string]any{
			"warningCode": "WARN001",
			"message":     "Simulated warning",
		}
	case CodeOTelTrace:
		p.EventType = CategoryAnnotation
		p.AnnotationType = "OTEL_TRACE"
		p.AnnotationDescription = "Simulated OpenTelemetry span export"
		p.CustomProperties = map[string]any{
			"telemetry.sdk.name":     "opentelemetry",
			"telemetry.sdk.language": "go",
			"spanKind":               "CLIENT",
		}
	case CodeOTelMetric:
		p.EventType = CategoryAnnotation
		p.AnnotationType = "OTEL_METRIC"
		p.AnnotationDescription = "Simulated OpenTelemetry metric export"
		p.CustomProperties = map[string]any{
			"telemetry.sdk.name": "opentelemetry",
			"metricKey":          "eventgen.demo.counter",
			"value":              intn(100) + 1,
		}
	case CodeSDKTrace:
		p.EventType = CategoryAnnotation
		p.AnnotationType = "SDK_TRACE"
		p.AnnotationDescription = "Simulated OneAgent SDK custom trace"
		p.CustomProperties = map[string]any{
			"serviceName":   "PaymentService",
			"serviceMethod": "processPayment",
		}
	default:
		return Payload{}, false
	}

	return p, true
}
