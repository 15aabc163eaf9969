package server

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/relayout/pkg/buildinfo"
	"github.com/matzehuels/relayout/pkg/document"
	"github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/layout"
	"github.com/matzehuels/relayout/pkg/pipeline"
	"github.com/matzehuels/relayout/pkg/render/sink"
	"github.com/matzehuels/relayout/pkg/store"
)

// SolveResponse is the reply to a solve request.
type SolveResponse struct {
	sink.Output
	Cached bool `json:"cached"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatJSON:  "application/json",
	pipeline.FormatText:  "text/plain; charset=utf-8",
	pipeline.FormatDOT:   "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatGraph: "image/svg+xml",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.solve(w, r, doc)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	opts.Document = doc
	opts.Formats = []string{format}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// handleGraph returns the constraint graph without solving, so it also
// works for documents that do not converge.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Document = doc
	if err := opts.ValidateForSolve(); err != nil {
		writeError(w, err)
		return
	}

	var unresolved *layout.UnresolvedError
	if _, err := pipeline.Solve(r.Context(), opts); err != nil && !errors.As(err, &unresolved) {
		writeError(w, err)
		return
	}
	dot, err := pipeline.GraphDOT(doc, opts, unresolved)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatDOT])
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, dot)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]store.Record, len(recs))
	for i, rec := range recs {
		rec.Document = nil
		out[i] = rec
	}
	writeJSON(w, http.StatusOK, map[string]any{"layouts": out})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	s.putLayout(w, r, "", http.StatusCreated)
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	s.putLayout(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (s *Server) putLayout(w http.ResponseWriter, r *http.Request, id string, status int) {
	doc, err := s.readDocument(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec := &store.Record{ID: id, Name: r.URL.Query().Get("name"), Document: doc}
	if err := s.store.Put(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	if status == http.StatusCreated {
		w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	}
	writeJSON(w, status, rec)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSolveLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.solve(w, r, rec.Document)
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request, doc *document.Document) {
	opts, err := optionsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Document = doc
	resp, err := s.solveResponse(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(resp.Cached))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) solveResponse(ctx context.Context, opts pipeline.Options) (*SolveResponse, error) {
	opts.Logger = s.logger
	if err := opts.ValidateForSolve(); err != nil {
		return nil, err
	}
	sol, hit, err := s.runner.SolveWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := sink.BuildOutput(sol, opts.Width, opts.Height)
	out.Name = opts.Document.Name
	labels := opts.Document.Labels()
	for i := range out.Components {
		out.Components[i].Label = labels[out.Components[i].ID]
	}
	return &SolveResponse{Output: out, Cached: hit}, nil
}

// readDocument decodes the request body in the format named by its
// Content-Type. JSON is the default.
func (s *Server) readDocument(r *http.Request) (*document.Document, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, s.maxBody+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if int64(len(data)) > s.maxBody {
		return nil, errors.New(errors.ErrCodeInvalidInput, "body exceeds %d bytes", s.maxBody)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty body")
	}
	return pipeline.Parse(r.Context(), data, formatFromContentType(r.Header.Get("Content-Type")))
}

func formatFromContentType(ct string) document.Format {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return document.FormatJSON
	}
	switch {
	case strings.Contains(mt, "yaml"):
		return document.FormatYAML
	case strings.Contains(mt, "toml"):
		return document.FormatTOML
	default:
		return document.FormatJSON
	}
}

// optionsFromQuery reads pipeline options from query parameters.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"cell_width", &opts.CellWidth},
		{"cell_height", &opts.CellHeight},
	}
	for _, f := range floats {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", f.name)
		}
		*f.dst = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"refresh", &opts.Refresh},
		{"slots", &opts.Slots},
	}
	for _, b := range bools {
		v := q.Get(b.name)
		if v == "" {
			continue
		}
		x, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", b.name)
		}
		*b.dst = x
	}

	opts.Highlight = q.Get("highlight")
	return opts, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
