package eups

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eupsforge/depview/pkg/deps"
	"github.com/eupsforge/depview/pkg/errors"
	"github.com/eupsforge/depview/pkg/render"
)

// newDistribution serves a fake EUPS distribution from memory. docs maps
// request paths (e.g. "/current.list", "/afw/1.0/the.manifest") to bodies.
func newDistribution(t *testing.T, docs map[string]string) *httptest.Server {
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

func TestClientFetchIndex(t *testing.T) {
	srv := newDistribution(t, map[string]string{
		"/current.list": "EUPS distribution\nafw generic 1.0\nboost linux64 1.37 external\n",
	})
	c := NewClient(srv.URL, 0)

	idx, err := c.FetchIndex(context.Background())
	if err != nil {
		t.Fatalf("FetchIndex() error: %v", err)
	}
	if len(idx) != 2 || !idx.Has("afw") || !idx.Has("boost") {
		t.Errorf("index = %v, want afw and boost", idx)
	}
}

func TestClientFetchIndexUnreachable(t *testing.T) {
	srv := newDistribution(t, nil)
	url := srv.URL
	srv.Close()

	c := NewClient(url, 0)
	if _, err := c.FetchIndex(context.Background()); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("error = %v, want NETWORK_ERROR", err)
	}
}

func TestClientDependencies(t *testing.T) {
	srv := newDistribution(t, map[string]string{
		"/afw/1.0/the.manifest": ">merge pkg=foo\n>merge pkg=bar\n>self\n",
	})
	c := NewClient(srv.URL, 0)

	pkg := &deps.Package{Name: "afw", Version: "1.0", Architecture: "generic", BaseURL: c.BaseURL()}
	got, err := c.Dependencies(context.Background(), pkg)
	if err != nil {
		t.Fatalf("Dependencies() error: %v", err)
	}
	if len(got) != 2 || got[0] != "foo" || got[1] != "bar" {
		t.Errorf("Dependencies() = %v, want [foo bar]", got)
	}
}

func TestClientDependenciesMissingManifest(t *testing.T) {
	srv := newDistribution(t, nil)
	c := NewClient(srv.URL, 0)

	pkg := &deps.Package{Name: "afw", Version: "1.0", Architecture: "generic", BaseURL: c.BaseURL()}
	_, err := c.Dependencies(context.Background(), pkg)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
	if !strings.Contains(err.Error(), "afw") {
		t.Errorf("error %q does not name the package", err)
	}
}

func TestClientDefaultBaseURL(t *testing.T) {
	c := NewClient("", 0)
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
	if c.IndexURL() != DefaultBaseURL+"/current.list" {
		t.Errorf("IndexURL() = %q", c.IndexURL())
	}
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://example.com/pkgs/", 0)
	if c.BaseURL() != "http://example.com/pkgs" {
		t.Errorf("BaseURL() = %q, want trailing slash removed", c.BaseURL())
	}
}

// End-to-end over a fake distribution: index with afw and foo, afw depending
// on foo, rendered to DOT. The output must carry exactly one edge and two
// node declarations.
func TestResolveAndRenderEndToEnd(t *testing.T) {
	srv := newDistribution(t, map[string]string{
		"/current.list":         "EUPS distribution\nafw generic 1.0 \nfoo generic 2.0 \n",
		"/afw/1.0/the.manifest": ">merge pkg=foo\n>self\n",
		"/foo/2.0/the.manifest": ">self\n",
	})
	c := NewClient(srv.URL, 0)

	idx, err := c.FetchIndex(context.Background())
	if err != nil {
		t.Fatalf("FetchIndex() error: %v", err)
	}

	resolver := deps.NewResolver(idx, c.BaseURL(), c)
	root, err := resolver.Resolve(context.Background(), "afw", deps.Options{})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if root.Pkg.Name != "afw" || len(root.Deps) != 1 || root.Deps[0].Pkg.Name != "foo" {
		t.Fatalf("tree = %s -> %v, want afw -> [foo]", root.Pkg.Name, len(root.Deps))
	}
	if len(root.Deps[0].Deps) != 0 {
		t.Errorf("foo has %d deps, want 0", len(root.Deps[0].Deps))
	}

	dot := render.ToDOT(root, "Dependencies for afw")
	if got := strings.Count(dot, "shape = \"record\""); got != 2 {
		t.Errorf("node declarations = %d, want 2\n%s", got, dot)
	}
	if got := strings.Count(dot, "->"); got != 1 {
		t.Errorf("edge declarations = %d, want 1\n%s", got, dot)
	}
	if !strings.Contains(dot, "\"afw\":head -> \"foo\":end") {
		t.Errorf("missing afw -> foo edge:\n%s", dot)
	}
}
