package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title> Greeting </title></head><body><p>Hello<br>world</p></body></html>`)
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "just text")
	})
	mux.HandleFunc("/binary", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0x00, 0x01})
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, strings.Repeat("x", 64))
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, r.UserAgent())
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticFetcher_HTML(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(StaticConfig{})

	page, err := f.Fetch(context.Background(), srv.URL+"/page")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, "Greeting", page.Title)
	assert.Equal(t, "<p>Hello<br/>world</p>", page.Body)
	assert.Contains(t, page.Raw, "<title>")
	assert.False(t, page.FetchedAt.IsZero())
}

func TestStaticFetcher_PlainText(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(StaticConfig{})

	page, err := f.Fetch(context.Background(), srv.URL+"/plain")
	require.NoError(t, err)

	assert.Equal(t, "just text", page.Body)
	assert.Empty(t, page.Title)
}

func TestStaticFetcher_UnsupportedContent(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(StaticConfig{})

	_, err := f.Fetch(context.Background(), srv.URL+"/binary")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedContent)
}

func TestStaticFetcher_TooLarge(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(StaticConfig{MaxBodySize: 16})

	_, err := f.Fetch(context.Background(), srv.URL+"/big")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestStaticFetcher_UserAgent(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(StaticConfig{UserAgent: "scour-test"})

	page, err := f.Fetch(context.Background(), srv.URL+"/ua")
	require.NoError(t, err)
	assert.Equal(t, "scour-test", page.Body)
}

func TestStaticFetcher_HTTPError(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(StaticConfig{})

	page, err := f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, page.StatusCode)
}

func TestStaticFetcher_CancelledContext(t *testing.T) {
	srv := newTestServer(t)
	f := NewStatic(StaticConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, srv.URL+"/page")
	assert.Error(t, err)
}

func TestNewStatic_Defaults(t *testing.T) {
	f := NewStatic(StaticConfig{})
	def := DefaultStaticConfig()

	assert.Equal(t, def.UserAgent, f.config.UserAgent)
	assert.Equal(t, 30*time.Second, f.config.Timeout)
	assert.Equal(t, def.MaxBodySize, f.config.MaxBodySize)
	assert.Equal(t, "static", f.Type())
}
