package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arf/areacheck/internal/app"
	"github.com/arf/areacheck/internal/domain"
)

type harness struct {
	container *app.Container
	srv       *Server
	server    *httptest.Server
	client    *http.Client
	calls     *atomic.Int32
}

func newHarness(t *testing.T, calc http.HandlerFunc, configure ...func(*Options)) *harness {
	t.Helper()
	calls := &atomic.Int32{}
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		calc(w, r)
	}))
	t.Cleanup(stub.Close)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	raw := fmt.Sprintf("service:\n  endpoint: %s/calculate\nstorage:\n  backend: memory\n", stub.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(raw), 0o600))

	container, err := app.BuildContainer(context.Background(), app.Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	opts := Options{
		NewSession: func() (*app.Session, error) { return container.NewSession("/") },
		History:    container.HistoryStore,
		Form:       container.Config.Form,
		Logger:     container.Logger,
	}
	for _, fn := range configure {
		fn(&opts)
	}
	srv, err := NewServer(opts)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{
		container: container,
		srv:       srv,
		server:    ts,
		client:    &http.Client{Jar: jar},
		calls:     calls,
	}
}

func hitService(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, `{"x":2,"y":1.5,"r":2,"hit":true,"currentTime":"12:00:00","executionTime":0.01}`)
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestSubmitEndToEnd(t *testing.T) {
	h := newHarness(t, hitService)

	resp, body := h.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="x-axis-ticks"`)

	noFollow := *h.client
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	form := url.Values{"x": {"2"}, "y": {"1.5"}, "r": {"2"}}
	resp, err := noFollow.PostForm(h.server.URL+"/submit", form)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)
	assert.Equal(t, "2", loc.Query().Get("x"))
	assert.Equal(t, "1.5", loc.Query().Get("y"))
	assert.Equal(t, "2", loc.Query().Get("r"))

	// Following the redirect must not replay the submission.
	resp, body = h.get(t, resp.Header.Get("Location"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), h.calls.Load())

	assert.Equal(t, 1, strings.Count(body, `class="hit-true"`))
	for _, cell := range []string{"<td>2.00</td>", "<td>1.50</td>", "<td>Hit</td>"} {
		assert.Contains(t, body, cell)
	}
	assert.Equal(t, 1, strings.Count(body, `id="result-dot"`))
	assert.Contains(t, body, `cx="100"`)
	assert.Contains(t, body, `cy="-75"`)

	records := h.container.HistoryStore.Load(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, 2.0, records[0].X)
	assert.True(t, records[0].Hit)
}

func TestSubmitValidationErrorRendersMessage(t *testing.T) {
	h := newHarness(t, hitService)

	resp, err := h.client.PostForm(h.server.URL+"/submit", url.Values{"x": {"2"}, "y": {"9"}, "r": {"2"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Y must be a number in the interval (-3 ... 5).")
	assert.Equal(t, int32(0), h.calls.Load())
}

func TestSubmitTransportErrorRendersMessage(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"R must be positive"}`)
	})

	resp, err := h.client.PostForm(h.server.URL+"/submit", url.Values{"x": {"1"}, "y": {"1"}, "r": {"2"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), "Error: R must be positive")
	assert.Empty(t, h.container.HistoryStore.Load(context.Background()))
}

func TestSharedLinkReplaysOnFirstVisit(t *testing.T) {
	h := newHarness(t, hitService)

	_, body := h.get(t, "/?x=2&y=1.5&r=2")
	assert.Equal(t, int32(1), h.calls.Load())
	assert.Contains(t, body, `id="result-dot"`)

	h.get(t, "/?x=2&y=1.5&r=2")
	assert.Equal(t, int32(1), h.calls.Load(), "reload must not replay")
}

func TestSharedLinkReplaysForReturningVisitor(t *testing.T) {
	h := newHarness(t, hitService)

	_, body := h.get(t, "/")
	assert.NotContains(t, body, `id="result-dot"`)

	_, body = h.get(t, "/?x=2&y=1.5&r=2")
	assert.Equal(t, int32(1), h.calls.Load())
	assert.Contains(t, body, `id="result-dot"`)
	assert.Equal(t, 1, strings.Count(body, `class="hit-true"`))

	_, body = h.get(t, "/?x=-1&y=0&r=3")
	assert.Equal(t, int32(2), h.calls.Load())
	assert.Equal(t, 2, strings.Count(body, "<tr class=\"hit-"))
	assert.Equal(t, 1, h.srv.SessionCount())
}

func TestGraphWithoutSessionCreatesNone(t *testing.T) {
	h := newHarness(t, hitService)

	anonymous := &http.Client{}
	for i := 0; i < 50; i++ {
		resp, err := anonymous.Get(h.server.URL + "/graph.svg")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	assert.Equal(t, 0, h.srv.SessionCount())

	_, body := h.get(t, "/healthz")
	assert.Contains(t, body, `"sessions":0`)
}

func TestSessionsAreBounded(t *testing.T) {
	h := newHarness(t, hitService, func(o *Options) { o.MaxSessions = 3 })

	h.get(t, "/")
	base, err := url.Parse(h.server.URL)
	require.NoError(t, err)
	cookie := func() string {
		for _, c := range h.client.Jar.Cookies(base) {
			if c.Name == SessionCookie {
				return c.Value
			}
		}
		return ""
	}
	mine := cookie()
	require.NotEmpty(t, mine)

	anonymous := &http.Client{}
	for i := 0; i < 20; i++ {
		resp, err := anonymous.Get(h.server.URL + "/")
		require.NoError(t, err)
		resp.Body.Close()
		if i%2 == 0 {
			// Keep the jar's session recently used.
			h.get(t, "/")
		}
		assert.LessOrEqual(t, h.srv.SessionCount(), 3)
	}
	assert.Equal(t, 3, h.srv.SessionCount())
	assert.Equal(t, mine, cookie(), "recently used session was evicted")
}

func TestClearAndHistoryAPI(t *testing.T) {
	h := newHarness(t, hitService)

	_, err := h.client.PostForm(h.server.URL+"/submit", url.Values{"x": {"2"}, "y": {"1.5"}, "r": {"2"}})
	require.NoError(t, err)

	resp, body := h.get(t, "/api/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []domain.ResultRecord
	require.NoError(t, json.Unmarshal([]byte(body), &records))
	require.Len(t, records, 1)

	resp, err = h.client.PostForm(h.server.URL+"/clear", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = h.get(t, "/api/history")
	assert.JSONEq(t, `[]`, body)

	_, page := h.get(t, "/")
	assert.NotContains(t, page, `id="result-dot"`)
	assert.NotContains(t, page, `class="hit-true"`)
}

func TestRadiusAndGraphDocument(t *testing.T) {
	h := newHarness(t, hitService)

	resp, err := h.client.PostForm(h.server.URL+"/radius", url.Values{"r": {"3"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := h.get(t, "/graph.svg")
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "<?xml"))
	assert.Contains(t, body, ">R<")

	resp, err = h.client.PostForm(h.server.URL+"/radius", url.Values{"r": {"zero"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, hitService)
	resp, body := h.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"ok"`)
}
