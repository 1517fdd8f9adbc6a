package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/medcore/clinic-console/internal/medcore"
)

// fakeBackend is a scriptable records API used by the module tests. Routes
// are matched as "METHOD /path"; unscripted routes return 404 with an
// error body.
type fakeBackend struct {
	t *testing.T

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	fb := &fakeBackend{t: t, handlers: map[string]http.HandlerFunc{}}
	ts := httptest.NewServer(fb)
	t.Cleanup(ts.Close)
	return fb, ts
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.requests = append(f.requests, key)
	h := f.handlers[key]
	f.mu.Unlock()
	if h == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "no route scripted for " + key})
		return
	}
	h(w, r)
}

func (f *fakeBackend) handle(key string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[key] = h
}

func (f *fakeBackend) handleJSON(key string, status int, body any) {
	f.handle(key, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func (f *fakeBackend) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	copy(out, f.requests)
	return out
}

// recordingNotifier collects every notification shown to the user.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func alwaysConfirm() Confirmer { return ConfirmerFunc(func(string) bool { return true }) }

func neverConfirm() Confirmer { return ConfirmerFunc(func(string) bool { return false }) }

func testClient(ts *httptest.Server) *medcore.Client {
	return medcore.New(ts.URL, nil)
}
