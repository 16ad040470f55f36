package helpscout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type capturedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

// fakeAPI is an in-process stand-in for api.helpscout.net/v2. It issues
// tokens "tok-1", "tok-2", ... and records every non-token request.
type fakeAPI struct {
	t      *testing.T
	router chi.Router
	server *httptest.Server

	mu          sync.Mutex
	tokenCalls  int
	tokenBody   []byte
	tokenStatus int
	expiresIn   int64
	tokenDelay  time.Duration
	lastAuth    tokenRequest
	requests    []capturedRequest
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{t: t, expiresIn: 7200}
	r := chi.NewRouter()
	r.Use(f.capture)
	r.Post("/oauth2/token", f.handleToken)

	f.router = r
	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeAPI) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		if r.URL.Path != "/oauth2/token" {
			f.mu.Lock()
			f.requests = append(f.requests, capturedRequest{
				Method:        r.Method,
				Path:          r.URL.RequestURI(),
				Authorization: r.Header.Get("Authorization"),
				ContentType:   r.Header.Get("Content-Type"),
				Body:          body,
			})
			f.mu.Unlock()
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_request"}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.tokenCalls++
	f.lastAuth = req
	n := f.tokenCalls
	body := f.tokenBody
	status := f.tokenStatus
	expiresIn := f.expiresIn
	delay := f.tokenDelay
	f.mu.Unlock()

	time.Sleep(delay)

	if status == 0 {
		status = http.StatusOK
	}
	if body != nil {
		writeJSON(w, status, string(body))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(map[string]any{
		"access_token": fmt.Sprintf("tok-%d", n),
		"token_type":   "bearer",
		"expires_in":   expiresIn,
	})
}

func (f *fakeAPI) bearer(r *http.Request) string {
	return r.Header.Get("Authorization")
}

func (f *fakeAPI) tokenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenCalls
}

func (f *fakeAPI) captured() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.requests...)
}

func (f *fakeAPI) newClient(opts ...Option) *Client {
	f.t.Helper()

	opts = append([]Option{WithBaseURL(f.server.URL)}, opts...)
	c, err := NewClient(context.Background(), Credentials{ClientID: "id", ClientSecret: "secret"}, opts...)
	if err != nil {
		f.t.Fatalf("NewClient: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
