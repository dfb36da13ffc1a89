package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newUpstream(t *testing.T, docs map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, baseURL string) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	return New(Config{BaseURL: baseURL}, logger)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleGraphDOT(t *testing.T) {
	upstream := newUpstream(t, map[string]string{
		"/current.list":         "EUPS distribution\nafw generic 1.0\nfoo generic 2.0\n",
		"/afw/1.0/the.manifest": ">merge pkg=foo\n>self\n",
		"/foo/2.0/the.manifest": ">self\n",
	})
	s := newTestServer(t, upstream.URL)

	rec := get(t, s, "/graphs/afw")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "\"afw\":head -> \"foo\":end") {
		t.Errorf("body missing edge:\n%s", body)
	}
}

func TestHandleGraphUnknownPackage(t *testing.T) {
	upstream := newUpstream(t, map[string]string{
		"/current.list": "EUPS distribution\nafw generic 1.0\n",
	})
	s := newTestServer(t, upstream.URL)

	rec := get(t, s, "/graphs/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "nope") {
		t.Errorf("body %q does not name the package", rec.Body.String())
	}
}

func TestHandleGraphBadFormat(t *testing.T) {
	upstream := newUpstream(t, nil)
	s := newTestServer(t, upstream.URL)

	rec := get(t, s, "/graphs/afw?format=pdf")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGraphInvalidName(t *testing.T) {
	upstream := newUpstream(t, nil)
	s := newTestServer(t, upstream.URL)

	rec := get(t, s, "/graphs/"+strings.Repeat("a", 300))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGraphUpstreamDown(t *testing.T) {
	upstream := newUpstream(t, nil)
	url := upstream.URL
	upstream.Close()
	s := newTestServer(t, url)

	rec := get(t, s, "/graphs/afw")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, "http://example.invalid")
	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
