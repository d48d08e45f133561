package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var (
	recorderOnce sync.Once
	recorder     *tracetest.SpanRecorder
)

// RecordSpans installs a global tracer provider that keeps every ended span
// in memory. Tracers are bound to the first provider set, so the recorder is
// shared by every test in the binary and callers should look for their
// own spans instead of counting all of them.
func RecordSpans() *tracetest.SpanRecorder {
	recorderOnce.Do(func() {
		recorder = tracetest.NewSpanRecorder()
		otel.SetTracerProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder)))
	})
	return recorder
}

// SpanNames lists the names of the ended spans in recorder.
func SpanNames(recorder *tracetest.SpanRecorder) []string {
	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	return names
}

// Site is a fake documentation site, the landing page is served at
// /doc/webapi and each section at /doc/webapi/<section>.
type Site struct {
	// BaseUrl is the landing page url.
	BaseUrl  string
	requests atomic.Int32
}

func NewSite(t testing.TB, index string, sections map[string]string) *Site {
	site := &Site{}

	mux := http.NewServeMux()
	mux.HandleFunc("/doc/webapi", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(index))
	})
	for section, body := range sections {
		mux.HandleFunc("/doc/webapi/"+section, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(body))
		})
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	site.BaseUrl = server.URL + "/doc/webapi"
	return site
}

// Requests is the amount of requests the site has received so far.
func (s *Site) Requests() int {
	return int(s.requests.Load())
}
