package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu         sync.Mutex
	token      string
	refreshTo  string
	sourceErr  error
	gate       chan struct{}
	recoveries atomic.Int32
}

func (s *fakeSession) BearerToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sourceErr != nil {
		return "", s.sourceErr
	}
	return s.token, nil
}

func (s *fakeSession) CurrentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Recover(_ context.Context, failed string) (string, error) {
	s.recoveries.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = s.refreshTo
	if s.token == "" {
		return "", fmt.Errorf("recover %s: %w", failed, errors.ErrSessionExpired)
	}
	return s.token, nil
}

// tokenServer accepts "Bearer new" and rejects everything else with 401
func tokenServer(t *testing.T, hits chan<- string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if hits != nil {
			hits <- auth
		}
		if auth != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]string{"auth": auth, "body": string(body)})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAttachesBearerToken(t *testing.T) {
	srv := tokenServer(t, nil)
	client := New(srv.URL)
	client.Use(&fakeSession{token: "new"}, nil)

	var out map[string]string
	require.NoError(t, client.GetJSON(context.Background(), "/api/v1/users/", &out))
	require.Equal(t, "Bearer new", out["auth"])
}

func TestUnreadableCredentialSendsUnauthenticated(t *testing.T) {
	hits := make(chan string, 1)
	srv := tokenServer(t, hits)
	client := New(srv.URL)
	sess := &fakeSession{token: "new", sourceErr: errors.ErrMalformedCredential}
	client.Use(sess, sess)

	err := client.GetJSON(context.Background(), "/api/v1/users/", nil)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.Equal(t, "", <-hits)
	require.Zero(t, sess.recoveries.Load())
}

func TestConcurrentUnauthorizedSharesOneLogout(t *testing.T) {
	const n = 5
	hits := make(chan string, n)
	srv := tokenServer(t, hits)
	client := New(srv.URL)
	sess := &fakeSession{token: "old", gate: make(chan struct{})}
	client.Use(sess, sess)

	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			errs <- client.GetJSON(context.Background(), "/api/v1/users/", nil)
		}()
	}
	for i := 0; i < n; i++ {
		require.Equal(t, "Bearer old", <-hits)
	}
	close(sess.gate)

	for i := 0; i < n; i++ {
		require.ErrorIs(t, <-errs, errors.ErrSessionExpired)
	}
	require.Equal(t, int32(1), sess.recoveries.Load())
}

func TestConcurrentUnauthorizedRetriedAfterRefresh(t *testing.T) {
	const n = 5
	hits := make(chan string, 2*n)
	srv := tokenServer(t, hits)
	client := New(srv.URL)
	sess := &fakeSession{token: "old", refreshTo: "new", gate: make(chan struct{})}
	client.Use(sess, sess)

	type result struct {
		out map[string]string
		err error
	}
	results := make(chan result, n)
	for i := 0; i < n; i++ {
		go func() {
			var out map[string]string
			err := client.GetJSON(context.Background(), "/api/v1/users/", &out)
			results <- result{out: out, err: err}
		}()
	}
	for i := 0; i < n; i++ {
		require.Equal(t, "Bearer old", <-hits)
	}
	close(sess.gate)

	for i := 0; i < n; i++ {
		r := <-results
		require.NoError(t, r.err)
		require.Equal(t, "Bearer new", r.out["auth"])
	}
	require.Equal(t, int32(1), sess.recoveries.Load())
}

func TestRetryReplaysBody(t *testing.T) {
	srv := tokenServer(t, nil)
	client := New(srv.URL)
	sess := &fakeSession{token: "old", refreshTo: "new"}
	client.Use(sess, sess)

	var out map[string]string
	_, err := client.PostJSON(context.Background(), "/api/v1/users/", map[string]string{"name": "x"}, &out)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"x"}`, out["body"])
}

func TestRetriedRequestIsNotRecoveredTwice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	client := New(srv.URL)
	sess := &fakeSession{token: "old", refreshTo: "new"}
	client.Use(sess, sess)

	err := client.GetJSON(context.Background(), "/api/v1/users/", nil)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.Equal(t, int32(1), sess.recoveries.Load())
}

func TestWithoutRecoveryLeavesSessionAlone(t *testing.T) {
	srv := tokenServer(t, nil)
	client := New(srv.URL)
	sess := &fakeSession{token: "old"}
	client.Use(sess, sess)

	_, err := client.PostJSON(WithoutRecovery(context.Background()), "/api/v1/users/authenticate", map[string]string{}, nil)
	require.ErrorIs(t, err, errors.ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Could not validate credentials", apiErr.Detail)
	require.Zero(t, sess.recoveries.Load())
	require.Equal(t, "old", sess.CurrentToken())
}

func TestAnonymousUnauthorizedIsNotRecovered(t *testing.T) {
	srv := tokenServer(t, nil)
	client := New(srv.URL)
	sess := &fakeSession{}
	client.Use(sess, sess)

	err := client.GetJSON(context.Background(), "/api/v1/users/", nil)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.Zero(t, sess.recoveries.Load())
}

func TestStaleCredentialRetriesWithCurrent(t *testing.T) {
	sess := &fakeSession{token: "new"}

	var f flight
	token, err := f.do(context.Background(), sess, "old")
	require.NoError(t, err)
	require.Equal(t, "new", token)
	require.Zero(t, sess.recoveries.Load())

	sess.token = ""
	_, err = f.do(context.Background(), sess, "old")
	require.ErrorIs(t, err, errors.ErrSessionExpired)
	require.Zero(t, sess.recoveries.Load())
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "fastapi detail", status: 400, body: `{"detail":"Email already registered"}`, want: "Email already registered"},
		{name: "error field", status: 500, body: `{"error":"boom"}`, want: "boom"},
		{name: "plain text", status: 502, body: "bad gateway\n", want: "bad gateway"},
		{name: "empty", status: 404, body: "", want: "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAPIError(tt.status, []byte(tt.body))
			require.Equal(t, tt.want, e.Detail)
		})
	}

	require.ErrorIs(t, newAPIError(404, nil), errors.ErrNotFound)
	require.ErrorIs(t, newAPIError(403, nil), errors.ErrForbidden)
	require.NotErrorIs(t, newAPIError(500, nil), errors.ErrUnauthorized)
}

func TestUploadReplaysMultipartAfterRefresh(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()
		content, _ := io.ReadAll(file)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"filename": header.Filename,
			"mime":     header.Header.Get("Content-Type"),
			"content":  string(content),
		})
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL)
	sess := &fakeSession{token: "old", refreshTo: "new"}
	client.Use(sess, sess)

	var out map[string]string
	err := client.Upload(context.Background(), "/api/v1/files/upload", "notes.txt", "text/plain", strings.NewReader("hello"), &out)
	require.NoError(t, err)
	require.Equal(t, "notes.txt", out["filename"])
	require.Equal(t, "text/plain", out["mime"])
	require.Equal(t, "hello", out["content"])
	require.Equal(t, int32(2), calls.Load())
	require.Equal(t, int32(1), sess.recoveries.Load())
}

func TestDownloadReturnsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0x00, 0x01, 0xff})
	}))
	t.Cleanup(srv.Close)
	client := New(srv.URL)

	body, err := client.Download(context.Background(), "/blob")
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0xff}, body)

	_, err = client.Download(context.Background(), "/missing")
	require.ErrorIs(t, err, errors.ErrNotFound)
}
