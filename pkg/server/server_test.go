package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/observability"
	"github.com/matzehuels/relayout/pkg/store"
)

const rowJSON = `{
  "name": "row",
  "components": [
    {"id": "A", "label": "A", "width": 40, "height": 10, "left": {"anchor": 0}, "right": {"component": "B"}},
    {"id": "B", "width": 50, "height": 10, "right": {"anchor": 1}},
    {"id": "C", "width": 30, "height": 10, "left": {"anchor": 0.5}, "right": {"anchor": 0.5}}
  ]
}`

const rowYAML = `name: row
components:
  - id: A
    width: 40
    height: 10
    left: {anchor: 0}
    right: {component: B}
  - id: B
    width: 50
    height: 10
    right: {anchor: 1}
`

const loopJSON = `{"components": [
  {"id": "A", "width": 10, "height": 10, "right": {"component": "B"}},
  {"id": "B", "width": 10, "height": 10, "left": {"component": "A"}}
]}`

const selfJSON = `{"components": [
  {"id": "A", "width": 10, "height": 10, "right": {"component": "A"}}
]}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{})
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v\nbody: %s", v, err, rec.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q is not a UUID", rec.Header().Get(RequestIDHeader))
	}
}

func TestRequestIDEchoed(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req.Header.Set(RequestIDHeader, "not a uuid")
	rec = httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not a uuid" {
		t.Error("invalid request id was echoed")
	}
}

func TestSolve(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/solve", "application/json", rowJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[SolveResponse](t, rec)
	if resp.MinWidth != 90 || resp.Passes.X != 2 {
		t.Errorf("min width %g after %d passes, want 90 after 2", resp.MinWidth, resp.Passes.X)
	}
	if resp.Name != "row" || len(resp.Components) != 3 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Components[0].Label != "A" {
		t.Errorf("label = %q", resp.Components[0].Label)
	}
	c := resp.Components[2].Box
	if c.Left != 30 || c.Right != 60 {
		t.Errorf("C box = %+v, want 30..60", c)
	}
}

func TestSolveWidthAndYAML(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/solve?width=200&height=20", "application/yaml", rowYAML)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[SolveResponse](t, rec)
	if resp.Width != 200 || resp.Height != 20 {
		t.Errorf("container = %gx%g, want 200x20", resp.Width, resp.Height)
	}
	b := resp.Components[1].Box
	if b.Left != 150 || b.Right != 200 {
		t.Errorf("B box = %+v, want 150..200", b)
	}
}

func TestSolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"unresolved", "/v1/solve", loopJSON, http.StatusUnprocessableEntity, errors.ErrCodeUnresolved},
		{"self reference", "/v1/solve", selfJSON, http.StatusBadRequest, errors.ErrCodeSelfReference},
		{"malformed", "/v1/solve", `{"components": [`, http.StatusBadRequest, errors.ErrCodeInvalidDocument},
		{"empty", "/v1/solve", ``, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad query", "/v1/solve?width=wide", rowJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "/v1/render?format=png", rowJSON, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown route", "/v2/solve", rowJSON, http.StatusNotFound, errors.ErrCodeNotFound},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, "application/json", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			resp := decode[ErrorResponse](t, rec)
			if resp.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestSolveUnresolvedBody(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/solve", "application/json", loopJSON)
	resp := decode[ErrorResponse](t, rec)
	if len(resp.Unresolved) != 4 {
		t.Errorf("unresolved = %v, want 4 edges", resp.Unresolved)
	}
	if resp.Passes != 4 {
		t.Errorf("passes = %d, want 4", resp.Passes)
	}
	if len(resp.Cycles) != 1 {
		t.Errorf("cycles = %v, want 1", resp.Cycles)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		want        string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"json", "application/json", `"min_width": 90`},
		{"txt", "text/plain; charset=utf-8", "+"},
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/render?format="+tt.format, "application/json", rowJSON)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body missing %q:\n%s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestGraphUnresolved(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/graph", "application/json", loopJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "color=red") {
		t.Errorf("cycle not highlighted:\n%s", rec.Body.String())
	}
}

func TestLayoutsCRUD(t *testing.T) {
	s := New(Config{Store: store.NewMemoryStore()})

	rec := do(t, s, http.MethodPost, "/v1/layouts", "application/json", rowJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[store.Record](t, rec)
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Fatalf("id %q is not a UUID", created.ID)
	}
	if loc := rec.Header().Get("Location"); loc != "/v1/layouts/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	rec = do(t, s, http.MethodGet, "/v1/layouts", "", "")
	list := decode[struct{ Layouts []store.Record }](t, rec)
	if len(list.Layouts) != 1 || list.Layouts[0].Document != nil {
		t.Errorf("list = %+v, want one entry without document", list)
	}

	rec = do(t, s, http.MethodGet, "/v1/layouts/"+created.ID, "", "")
	got := decode[store.Record](t, rec)
	if got.Document == nil || len(got.Document.Components) != 3 {
		t.Fatalf("get = %+v", got)
	}

	rec = do(t, s, http.MethodPost, "/v1/layouts/"+created.ID+"/solve", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("solve status = %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decode[SolveResponse](t, rec); resp.MinWidth != 90 {
		t.Errorf("stored solve min width = %g", resp.MinWidth)
	}

	rec = do(t, s, http.MethodPut, "/v1/layouts/"+created.ID+"?name=renamed", "application/yaml", rowYAML)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}
	if r := decode[store.Record](t, rec); r.Name != "renamed" || len(r.Document.Components) != 2 {
		t.Errorf("put = %+v", r)
	}

	rec = do(t, s, http.MethodDelete, "/v1/layouts/"+created.ID, "", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/v1/layouts/"+created.ID, "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	routes   []string
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, route)
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/layouts", "application/json", rowJSON)
	do(t, s, http.MethodGet, "/v1/layouts/"+uuid.NewString(), "", "")

	if len(hooks.routes) != 2 || !strings.HasPrefix(hooks.routes[1], "/v1/layouts/{id}") {
		t.Errorf("routes = %v, want the route pattern rather than the path", hooks.routes)
	}
	if len(hooks.statuses) != 2 || hooks.statuses[0] != http.StatusCreated || hooks.statuses[1] != http.StatusNotFound {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}

func TestLive(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/live?width=120"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for _, msg := range []string{rowJSON, loopJSON} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatal(err)
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, first, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var solved SolveResponse
	if err := json.Unmarshal(first, &solved); err != nil {
		t.Fatal(err)
	}
	if solved.Width != 120 || solved.MinWidth != 90 {
		t.Errorf("solve reply = %gx (min %g), want 120 (min 90)", solved.Width, solved.MinWidth)
	}

	_, second, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var failed ErrorResponse
	if err := json.NewDecoder(bytes.NewReader(second)).Decode(&failed); err != nil {
		t.Fatal(err)
	}
	if failed.Code != string(errors.ErrCodeUnresolved) {
		t.Errorf("error reply code = %q", failed.Code)
	}
}

func TestServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- newTestServer(t).ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
