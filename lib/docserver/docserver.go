// Package docserver exposes the documentation scrapers as a read-only
// JSON api.
package docserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"steamdoc/lib/scrapers/steamworks"
	"steamdoc/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("steamdoc.lib.docserver")

// Source is what the server reads documentation from, usually
// a *steamworks.Client.
type Source interface {
	Sections(ctx context.Context) ([]string, error)
	PointNames(ctx context.Context, section string) ([]string, error)
	Points(ctx context.Context, section string) ([]steamworks.Endpoint, error)
	Point(ctx context.Context, section, name string) (steamworks.Endpoint, bool, error)
}

type Server struct {
	source Source
	mux    *http.ServeMux
}

func NewServer(source Source) *Server {
	s := &Server{
		source: source,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /sections", s.getSections)
	s.mux.HandleFunc("GET /sections/{section}/point-names", s.getPointNames)
	s.mux.HandleFunc("GET /sections/{section}/points", s.getPoints)
	s.mux.HandleFunc("GET /sections/{section}/points/{name}", s.getPoint)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJson(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(value)
	if err != nil {
		slog.Warn("failed to write response", "err", err)
	}
}

// statusOf maps scraper errors to http statuses, the documentation site
// failing is a bad gateway while markup the scraper can't read is an
// internal error.
func statusOf(err error) int {
	var fetchErr *steamworks.FetchError
	if errors.As(err, &fetchErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusOf(err)
	slog.WarnContext(ctx, "request failed", "status", status, "err", err)
	writeJson(w, status, errorBody{Error: err.Error()})
}

func (s *Server) getSections(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "getSections")
	defer span.End()

	sections, err := s.source.Sections(ctx)
	if err != nil {
		span.RecordError(err)
		writeError(ctx, w, err)
		return
	}
	writeJson(w, http.StatusOK, sections)
}

func (s *Server) getPointNames(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	ctx, span := tracer.Start(r.Context(), "getPointNames")
	defer span.End()
	span.SetAttributes(attribute.String("section", section))

	names, err := s.source.PointNames(ctx, section)
	if err != nil {
		span.RecordError(err)
		writeError(ctx, w, err)
		return
	}
	writeJson(w, http.StatusOK, names)
}

func (s *Server) getPoints(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	ctx, span := tracer.Start(r.Context(), "getPoints")
	defer span.End()
	span.SetAttributes(attribute.String("section", section))

	points, err := s.source.Points(ctx, section)
	if err != nil {
		span.RecordError(err)
		writeError(ctx, w, err)
		return
	}
	writeJson(w, http.StatusOK, points)
}

func (s *Server) getPoint(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	name := r.PathValue("name")
	ctx, span := tracer.Start(r.Context(), "getPoint")
	defer span.End()
	span.SetAttributes(
		attribute.String("section", section),
		attribute.String("name", name),
	)

	point, found, err := s.source.Point(ctx, section, name)
	if err != nil {
		span.RecordError(err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeJson(w, http.StatusNotFound, errorBody{Error: "no point named " + name + " in " + section})
		return
	}
	writeJson(w, http.StatusOK, point)
}
