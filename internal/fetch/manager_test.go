package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrSnakeDoc/repofetch/internal/config"
	"github.com/MrSnakeDoc/repofetch/internal/logger"
	"github.com/MrSnakeDoc/repofetch/internal/repodata"
	"github.com/spf13/afero"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.CacheDir = "/cache"
	return cfg
}

func TestExecute_FreshThenNotModified(t *testing.T) {
	logger.UseTestMode()

	const etag = `"v1"`
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", etag)
		_, _ = w.Write([]byte(`{"info":{},"packages":{}}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	fs := afero.NewMemMapFs()
	m := New(cfg, srv.Client(), fs)

	if err := m.Execute(context.Background(), []string{srv.URL + "/conda-forge"}, []string{"linux-64"}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	subdirURL := srv.URL + "/conda-forge/linux-64"
	artifact := repodata.CachePath(cfg.CacheDir, subdirURL, cfg.RepodataFn)

	body, err := afero.ReadFile(fs, artifact)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(body) != `{"info":{},"packages":{}}` {
		t.Errorf("wrong artifact content: %s", body)
	}

	st := repodata.NewStore(fs, artifact).Load()
	if st.Etag != etag {
		t.Errorf("validators not saved: %+v", st)
	}
	if st.URL != subdirURL {
		t.Errorf("url not saved: %q", st.URL)
	}

	// unchanged remote: second run must hit the 304 path and keep the cache
	if err := m.Execute(context.Background(), []string{srv.URL + "/conda-forge"}, []string{"linux-64"}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if requests != 2 {
		t.Errorf("expected exactly 2 requests, got %d", requests)
	}
	body2, _ := afero.ReadFile(fs, artifact)
	if string(body2) != string(body) {
		t.Error("cached artifact must be untouched on 304")
	}
}

func TestExecute_EmptyNoarchIsCached(t *testing.T) {
	logger.UseTestMode()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.AllowNonChannelURLs = true
	fs := afero.NewMemMapFs()
	m := New(cfg, srv.Client(), fs)

	if err := m.Execute(context.Background(), []string{srv.URL + "/empty-ch"}, []string{"noarch"}); err != nil {
		t.Fatalf("soft empty must not fail the run: %v", err)
	}

	subdirURL := srv.URL + "/empty-ch/noarch"
	artifact := repodata.CachePath(cfg.CacheDir, subdirURL, cfg.RepodataFn)
	body, err := afero.ReadFile(fs, artifact)
	if err != nil {
		t.Fatalf("empty index not cached: %v", err)
	}
	if string(body) != "{}\n" {
		t.Errorf("expected empty index skeleton, got %q", body)
	}

	st := repodata.NewStore(fs, artifact).Load()
	if st.URL != subdirURL {
		t.Errorf("state not saved for empty channel: %+v", st)
	}
}

func TestExecute_HardFailureAborts(t *testing.T) {
	logger.UseTestMode()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig() // permissive mode off
	fs := afero.NewMemMapFs()
	m := New(cfg, srv.Client(), fs)

	err := m.Execute(context.Background(), []string{srv.URL + "/bad-ch"}, []string{"noarch"})
	if !repodata.IsCode(err, repodata.CodeInvalidChannel) {
		t.Fatalf("expected InvalidChannel, got %v", err)
	}

	artifact := repodata.CachePath(cfg.CacheDir, srv.URL+"/bad-ch/noarch", cfg.RepodataFn)
	if ok, _ := afero.Exists(fs, artifact); ok {
		t.Error("hard failures must not cache anything")
	}
}

func TestExecute_NoChannels(t *testing.T) {
	logger.UseTestMode()

	m := New(testConfig(), nil, afero.NewMemMapFs())
	if err := m.Execute(context.Background(), nil, nil); err == nil {
		t.Fatal("expected an error when no channels are given or configured")
	}
}

func TestExecute_RejectsBadChannelURL(t *testing.T) {
	logger.UseTestMode()

	m := New(testConfig(), nil, afero.NewMemMapFs())
	if err := m.Execute(context.Background(), []string{"not-a-url"}, nil); err == nil {
		t.Fatal("expected an error for a relative channel URL")
	}
}
