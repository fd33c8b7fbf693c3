package auth_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/movies/internal/auth"
	"github.com/joestump/movies/internal/logger"
	"github.com/joestump/movies/internal/metrics"
	"github.com/joestump/movies/internal/session"
	"github.com/joestump/movies/internal/store"
)

// countingStore records how often sessions are deleted.
type countingStore struct {
	scs.Store
	deletes atomic.Int32
}

func (s *countingStore) Delete(token string) error {
	s.deletes.Add(1)
	return s.Store.Delete(token)
}

// fakeUsers is a user directory whose answer the test controls.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*store.User
	err   error
	calls int
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type harness struct {
	srv     *httptest.Server
	client  *http.Client
	store   *countingStore
	users   *fakeUsers
	handled atomic.Int32
	seen    atomic.Pointer[store.User]
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store: &countingStore{Store: session.NewMemoryStore()},
		users: &fakeUsers{users: map[string]*store.User{
			"u1": {ID: "u1", Username: "alice"},
		}},
	}
	sm := session.New(h.store, session.Options{Lifetime: time.Hour, IdleTimeout: time.Hour})
	guards := auth.NewGuards(sm, h.users, logger.Discard())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.handled.Add(1)
		h.seen.Store(auth.UserFromContext(r.Context()))
		_, _ = io.WriteString(w, "ok")
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, sm.Login(r.Context(), r.URL.Query().Get("id"), "someone"))
	})
	mux.Handle("/optional", auth.Use(guards.LoadUser)(handler))
	mux.Handle("/protected", auth.Use(guards.RequireAuth)(handler))

	h.srv = httptest.NewServer(sm.LoadAndSave(mux))
	t.Cleanup(h.srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	h.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return h
}

func (h *harness) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := h.client.Get(h.srv.URL + path)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func guardCount(guard, result string) float64 {
	return testutil.ToFloat64(metrics.AuthGuardOutcomes.WithLabelValues(guard, result))
}

func TestRequireAuth_NoSessionRedirects(t *testing.T) {
	h := newHarness(t)
	before := guardCount("require_auth", "anonymous")

	resp := h.get(t, "/protected")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, auth.LoginPath, resp.Header.Get("Location"))
	assert.Zero(t, h.handled.Load())
	assert.Zero(t, h.users.calls)
	assert.Equal(t, before+1, guardCount("require_auth", "anonymous"))
}

func TestRequireAuth_StaleSessionDestroyedOnce(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/login?id=gone")
	before := h.store.deletes.Load()
	beforeMetric := guardCount("require_auth", "stale_session")

	resp := h.get(t, "/protected")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, auth.LoginPath, resp.Header.Get("Location"))
	assert.Zero(t, h.handled.Load())
	assert.Equal(t, int32(1), h.store.deletes.Load()-before)
	assert.Equal(t, beforeMetric+1, guardCount("require_auth", "stale_session"))

	// The destroyed session no longer carries the stale id.
	callsBefore := h.users.calls
	h.get(t, "/protected")
	assert.Equal(t, callsBefore, h.users.calls)
}

func TestRequireAuth_LiveUserAttached(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/login?id=u1")

	resp := h.get(t, "/protected")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), h.handled.Load())
	require.NotNil(t, h.seen.Load())
	assert.Equal(t, "alice", h.seen.Load().Username)
}

func TestRequireAuth_LookupErrorFailsClosed(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/login?id=u1")
	h.users.err = errors.New("connection refused")
	before := h.store.deletes.Load()
	beforeMetric := guardCount("require_auth", "lookup_error")

	resp := h.get(t, "/protected")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, auth.LoginPath, resp.Header.Get("Location"))
	assert.Zero(t, h.handled.Load())
	assert.Equal(t, before, h.store.deletes.Load(), "session must survive a transient failure")
	assert.Equal(t, beforeMetric+1, guardCount("require_auth", "lookup_error"))

	h.users.err = nil
	resp = h.get(t, "/protected")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoadUser_AlwaysContinues(t *testing.T) {
	tests := []struct {
		name     string
		login    string
		err      error
		wantUser bool
	}{
		{name: "anonymous"},
		{name: "live user", login: "u1", wantUser: true},
		{name: "stale user", login: "gone"},
		{name: "lookup error", login: "u1", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.login != "" {
				h.get(t, "/login?id="+tt.login)
			}
			h.users.err = tt.err
			deletes := h.store.deletes.Load()

			resp := h.get(t, "/optional")

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, int32(1), h.handled.Load())
			assert.Equal(t, tt.wantUser, h.seen.Load() != nil)
			assert.Equal(t, deletes, h.store.deletes.Load())
		})
	}
}

func TestChain(t *testing.T) {
	type key struct{}
	tag := func(v string) auth.Guard {
		return func(r *http.Request) auth.Outcome {
			prev, _ := r.Context().Value(key{}).(string)
			return auth.Continue(context.WithValue(r.Context(), key{}, prev+v))
		}
	}
	var ran bool
	late := func(r *http.Request) auth.Outcome {
		ran = true
		return auth.Continue(r.Context())
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)

	out := auth.Chain(tag("a"), tag("b"))(r)
	require.True(t, out.Continues())
	assert.Equal(t, "ab", out.Context().Value(key{}))

	out = auth.Chain(tag("a"), func(*http.Request) auth.Outcome { return auth.Reject(http.StatusTeapot) }, late)(r)
	assert.False(t, out.Continues())
	assert.Equal(t, http.StatusTeapot, out.Status())
	assert.False(t, ran)

	out = auth.Chain()(r)
	assert.True(t, out.Continues())
}

func TestUse_Reject(t *testing.T) {
	mw := auth.Use(func(*http.Request) auth.Outcome { return auth.Reject(http.StatusForbidden) })
	called := false
	rec := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestMustUser(t *testing.T) {
	assert.Panics(t, func() { auth.MustUser(context.Background()) })

	u := &store.User{ID: "u1"}
	assert.Same(t, u, auth.MustUser(auth.WithUser(context.Background(), u)))
}
