package render

import (
	"encoding/json"
	"html/template"
	"io"

	"github.com/telhawk-systems/eventgen/internal/event"
	"github.com/telhawk-systems/eventgen/internal/sink"
)

// Page carries everything the generator page shows: the probe result, the
// selected event type, the outcome of the dispatch, and the delivered
// payload when there is one.
type Page struct {
	Conn     sink.Status
	Selected string
	Message  string
	Severity string
	Payload  *event.Payload
	Catalog  []event.Entry
}

// PayloadJSON renders the delivered payload as indented JSON for display.
func (p Page) PayloadJSON() string {
	if p.Payload == nil {
		return ""
	}
	out, err := json.MarshalIndent(p.Payload, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}

const pageTemplate = `<!DOCTYPE html>
<html>
  <head>
    <title>Event Generator 3000</title>
    <style>
      body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 640px; color: #222; }
      h1 { font-size: 1.5rem; }
      form { margin: 1rem 0; }
      select, button { font-size: 1rem; padding: 0.3rem 0.6rem; }
      .banner { padding: 0.5rem 0.8rem; border-radius: 4px; margin: 0.8rem 0; }
      .banner.ok { background: #e6f6e6; border: 1px solid #6c6; }
      .banner.down { background: #fdeaea; border: 1px solid #d66; }
      .outcome.success { color: #2a7a2a; }
      .outcome.error { color: #b02a2a; }
      pre { background: #f5f5f5; padding: 0.8rem; border-radius: 4px; overflow-x: auto; }
    </style>
  </head>
  <body>
    <h1>Event Generator 3000</h1>
    <div class="banner {{if .Conn.Reachable}}ok{{else}}down{{end}}">
      Sink connectivity: {{.Conn.Detail}}
    </div>
    <form method="get">
      <label for="type">Select the event type:</label>
      <select name="type" id="type">
        {{- range .Catalog}}
        <option value="{{.Code}}"{{if eq (printf "%s" .Code) $.Selected}} selected{{end}}>{{.Label}}</option>
        {{- end}}
      </select>
      <button type="submit">Generate event</button>
    </form>
    {{- if .Message}}
    <p class="outcome {{.Severity}}">{{.Message}}</p>
    {{- end}}
    {{- if .Payload}}
    <h2>Delivered payload</h2>
    <pre>{{.PayloadJSON}}</pre>
    {{- end}}
  </body>
</html>
`

// Renderer turns a Page into the HTML document served by the generator.
type Renderer struct {
	tmpl *template.Template
}

func New() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("page").Parse(pageTemplate)),
	}
}

func (r *Renderer) Render(w io.Writer, p Page) error {
	if p.Catalog == nil {
		p.Catalog = event.Catalog
	}
	return r.tmpl.Execute(w, p)
}
