package event

// Code identifies one of the synthetic event types the generator can emit.
// The set is closed; anything outside it is rejected by Parse.
type Code string

const (
	CodeResource   Code = "resource"
	CodeTrace      Code = "trace"
	CodeHTTP       Code = "http"
	CodeDB         Code = "db"
	CodeAzure      Code = "azure"
	CodeError      Code = "error"
	CodeWarning    Code = "warning"
	CodeOTelTrace  Code = "otel_trace"
	CodeOTelMetric Code = "otel_metric"
	CodeSDKTrace   Code = "sdk_trace"
)

// Entry pairs an event-type code with the label shown in the UI dropdown.
type Entry struct {
	Code  Code
	Label string
}

// Catalog lists every supported event type in display order.
var Catalog = []Entry{
	{CodeResource, "Resource Metric"},
	{CodeTrace, "Trace + Span"},
	{CodeHTTP, "HTTP Call"},
	{CodeDB, "DB Call"},
	{CodeAzure, "Azure Service Call"},
	{CodeError, "Error / Exception"},
	{CodeWarning, "Warning"},
	{CodeOTelTrace, "OpenTelemetry Trace"},
	{CodeOTelMetric, "OpenTelemetry Metric"},
	{CodeSDKTrace, "OneAgent SDK Trace"},
}

// Parse maps a raw query-parameter value onto a catalog code.
// The second return is false for anything outside the closed set.
func Parse(raw string) (Code, bool) {
	for _, e := range Catalog {
		if string(e.Code) == raw {
			return e.Code, true
		}
	}
	return "", false
}

// Label returns the display label for a code, or the code itself if it is
// not in the catalog.
func Label(code Code) string {
	for _, e := range Catalog {
		if e.Code == code {
			return e.Label
		}
	}
	return string(code)
}
