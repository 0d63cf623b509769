package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/noahjb27/berlin-mapping-application/network"
	"github.com/noahjb27/berlin-mapping-application/preprocessing"
)

const stationsJSON = `{
  "nodes": [
    {"id": "A", "type": "u-bahn", "x": 1.5, "y": 2.5, "year": "1980, 1985"},
    {"id": "B", "type": "u-bahn", "x": 3, "y": 4, "year": "1985"},
    {"id": "C", "type": "bus", "x": 5, "y": 6, "year": "1985"}
  ],
  "links": [
    {"source": "A", "target": "B", "label": "U1", "year": 1985},
    {"source": "B", "target": "C", "label": "100", "year": 1985, "edge_type": "bus"},
    {"source": "A", "target": "Z", "label": "U1", "year": 1985}
  ]
}`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeSource struct {
	graph *network.Graph
	err   error
	calls int32
}

func (f *fakeSource) Graph() (*network.Graph, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.graph, nil
}

func (f *fakeSource) Loaded() (*network.Graph, bool) {
	return f.graph, f.graph != nil && f.err == nil
}

func stations(t *testing.T) *network.Graph {
	t.Helper()
	g, err := preprocessing.DecodeNodeLink(strings.NewReader(stationsJSON))
	if err != nil {
		t.Fatalf("DecodeNodeLink: %v", err)
	}
	return g
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGraphYearValidation(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()

	tests := []struct {
		target string
		body   string
	}{
		{"/graph", `{"error":"No year specified"}`},
		{"/graph?year=", `{"error":"No year specified"}`},
		{"/graph?year=abc", `{"error":"Invalid year format"}`},
		{"/graph?year=1985.0", `{"error":"Invalid year format"}`},
		{"/graph?year=19x5", `{"error":"Invalid year format"}`},
		{"/graph/geojson", `{"error":"No year specified"}`},
		{"/graph/chart?year=soon", `{"error":"Invalid year format"}`},
		{"/nodes?year=abc", `{"error":"Invalid year format"}`},
		{"/edges?year=abc", `{"error":"Invalid year format"}`},
	}
	for _, tt := range tests {
		w := get(t, router, tt.target)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tt.target, w.Code)
		}
		if w.Body.String() != tt.body {
			t.Errorf("%s: body %s, want %s", tt.target, w.Body.String(), tt.body)
		}
	}
}

func TestGraphByYear(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()

	tests := []struct {
		target string
		body   string
	}{
		{"/graph?year=1985&type=u-bahn", `{"nodes":[` +
			`{"id":"A","type":"u-bahn","x":1.5,"y":2.5,"year":"1980, 1985"},` +
			`{"id":"B","type":"u-bahn","x":3,"y":4,"year":"1985"}],` +
			`"edges":[{"source":"A","target":"B","label":"U1","year":1985}]}`},
		{"/graph?year=1980", `{"nodes":[` +
			`{"id":"A","type":"u-bahn","x":1.5,"y":2.5,"year":"1980, 1985"}],"edges":[]}`},
		{"/graph?year=198", `{"nodes":[],"edges":[]}`},
		{"/graph?year=2020", `{"nodes":[],"edges":[]}`},
	}
	for _, tt := range tests {
		w := get(t, router, tt.target)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d: %s", tt.target, w.Code, w.Body.String())
		}
		if w.Body.String() != tt.body {
			t.Errorf("%s:\ngot  %s\nwant %s", tt.target, w.Body.String(), tt.body)
		}
	}
}

func TestGraphAllTypes(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()

	var doc struct {
		Nodes []map[string]interface{} `json:"nodes"`
		Edges []map[string]interface{} `json:"edges"`
	}
	for _, target := range []string{"/graph?year=1985", "/graph?year=1985&type=all", "/graph?year=%201985%20"} {
		w := get(t, router, target)
		if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		// the A-Z edge has no Z station and is never served
		if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
			t.Errorf("%s: %d nodes, %d edges; want 3 and 2", target, len(doc.Nodes), len(doc.Edges))
		}
	}
}

func TestGraphFailureIsGeneric(t *testing.T) {
	src := &fakeSource{err: errors.New("open /secret/path/graph.json: permission denied")}
	router := NewServer(src, Options{}, nil).Router()

	for i := 0; i < 2; i++ {
		w := get(t, router, "/graph?year=1985")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status %d, want 500", w.Code)
		}
		if w.Body.String() != `{"error":"graph data unavailable"}` {
			t.Errorf("body %s leaks detail or has the wrong message", w.Body.String())
		}
	}
	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("source called %d times; failures must not be cached", n)
	}
}

func TestSubgraphsAreCached(t *testing.T) {
	src := &fakeSource{graph: stations(t)}
	router := NewServer(src, Options{CacheSize: 4}, nil).Router()

	get(t, router, "/graph?year=1985")
	get(t, router, "/graph?year=1985")
	get(t, router, "/nodes?year=1985")
	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("source called %d times for one query, want 1", n)
	}
	get(t, router, "/graph?year=1980")
	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("source called %d times for two queries, want 2", n)
	}
}

func TestNodesAndEdges(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()

	ids := func(target, key string) []string {
		w := get(t, router, target)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", target, w.Code)
		}
		var entries []map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		out := []string{}
		for _, e := range entries {
			out = append(out, e[key].(string))
		}
		return out
	}

	tests := []struct {
		target string
		key    string
		want   []string
	}{
		{"/nodes", "id", []string{"A", "B", "C"}},
		{"/nodes?year=1980", "id", []string{"A"}},
		{"/nodes?type=bus", "id", []string{"C"}},
		{"/nodes?year=1900", "id", []string{}},
		{"/edges", "target", []string{"B", "C"}},
		{"/edges?type=u-bahn", "target", []string{"B"}},
		{"/edges?year=1980", "target", []string{}},
	}
	for _, tt := range tests {
		if got := ids(tt.target, tt.key); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.target, got, tt.want)
		}
	}

	if body := get(t, router, "/nodes?year=1900").Body.String(); body != "[]" {
		t.Errorf("empty node list encodes as %s", body)
	}
}

func TestYears(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()
	w := get(t, router, "/years")
	if w.Code != http.StatusOK || w.Body.String() != `{"years":[1980,1985]}` {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}

	router = NewServer(&fakeSource{err: errors.New("boom")}, Options{}, nil).Router()
	if w := get(t, router, "/years"); w.Code != http.StatusInternalServerError {
		t.Errorf("failing source: status %d, want 500", w.Code)
	}
}

func TestGeoJSONEndpoint(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()
	w := get(t, router, "/graph/geojson?year=1980")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var fc struct {
		Type     string        `json:"type"`
		Features []interface{} `json:"features"`
		BBox     []float64     `json:"bbox"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 || !reflect.DeepEqual(fc.BBox, []float64{1.5, 2.5, 1.5, 2.5}) {
		t.Errorf("collection = %+v", fc)
	}
}

func TestChartEndpoint(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()
	w := get(t, router, "/graph/chart?year=1985")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "003688") {
		t.Error("chart is missing the u-bahn color")
	}
}

func TestHealth(t *testing.T) {
	router := NewServer(&fakeSource{}, Options{}, nil).Router()
	w := get(t, router, "/health")
	if w.Code != http.StatusServiceUnavailable || w.Body.String() != `{"status":"unavailable"}` {
		t.Errorf("unloaded: got %d %s", w.Code, w.Body.String())
	}

	router = NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()
	w = get(t, router, "/health")
	if w.Code != http.StatusOK || w.Body.String() != `{"edges":3,"nodes":3,"status":"healthy"}` {
		t.Errorf("loaded: got %d %s", w.Code, w.Body.String())
	}
}

func TestHealthFollowsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte(stationsJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	router := NewServer(preprocessing.NewStore(path, false, nil), Options{}, nil).Router()

	if w := get(t, router, "/health"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("before first request: status %d, want 503", w.Code)
	}
	if w := get(t, router, "/graph?year=1985"); w.Code != http.StatusOK {
		t.Fatalf("graph: status %d: %s", w.Code, w.Body.String())
	}
	if w := get(t, router, "/health"); w.Code != http.StatusOK {
		t.Errorf("after load: status %d, want 200", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()

	w := get(t, router, "/graph?year=1985", RequestIDHeader, "abc-123")
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("incoming id not reused: %q", got)
	}

	w = get(t, router, "/graph")
	if got := w.Header().Get(RequestIDHeader); len(got) != 36 {
		t.Errorf("generated id %q is not a UUID", got)
	}
}

func TestCORS(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()
	w := get(t, router, "/years", "Origin", "https://maps.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow all: Access-Control-Allow-Origin = %q", got)
	}

	router = NewServer(&fakeSource{graph: stations(t)}, Options{CORSOrigins: []string{"https://maps.example"}}, nil).Router()
	w = get(t, router, "/years", "Origin", "https://maps.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://maps.example" {
		t.Errorf("listed origin: Access-Control-Allow-Origin = %q", got)
	}
	w = get(t, router, "/years", "Origin", "https://other.example")
	if w.Code != http.StatusForbidden {
		t.Errorf("unlisted origin: status %d, want 403", w.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := NewServer(&fakeSource{graph: stations(t)}, Options{}, nil).Router()
	get(t, router, "/graph?year=1985")
	w := get(t, router, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"http_requests_total", `route="/graph"`, "graph_load_failures_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output is missing %s", want)
		}
	}
}
