package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// maxDrain bounds how much of a 401 body is read before the connection is
// reused
const maxDrain = 64 << 10

// recoveryTransport is the incoming-response hook. Concurrent 401s for the
// same credential share one recovery; every caller observes its outcome.
type recoveryTransport struct {
	hooks  *hooks
	next   http.RoundTripper
	flight flight
}

func (t *recoveryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	a := &attempt{}
	resp, err := t.next.RoundTrip(req.WithContext(withAttempt(req.Context(), a)))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	ctx := req.Context()
	_, recoverer := t.hooks.get()
	if recoverer == nil || skipRecovery(ctx) || isRetried(ctx) || a.token == "" {
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	_ = resp.Body.Close()

	newToken, err := t.flight.do(ctx, recoverer, a.token)
	if err != nil {
		return nil, err
	}

	retry, err := replay(req)
	if err != nil {
		return nil, err
	}
	(&oauth2.Token{AccessToken: newToken, TokenType: "Bearer"}).SetAuthHeader(retry)
	log.Debug().Str("path", req.URL.Path).Msg("retrying request with recovered credential")
	return t.RoundTrip(retry)
}

// replay clones req for a second attempt, marked so it is never recovered
// again
func replay(req *http.Request) (*http.Request, error) {
	r2 := req.Clone(withRetried(req.Context()))
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, fmt.Errorf("[httpclient replay] %s %s: %w", req.Method, req.URL.Path, errors.ErrBodyNotReplayable)
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("[httpclient replay] %w", err)
		}
		r2.Body = body
	}
	return r2, nil
}

// call is one recovery run and its outcome
type call struct {
	done  chan struct{}
	token string
	err   error
}

// flight coalesces recoveries: while one runs every other 401 waits for
// it, and a 401 for a credential the session has already replaced never
// starts another.
type flight struct {
	mu   sync.Mutex
	call *call
}

func (f *flight) do(ctx context.Context, recoverer Recoverer, failedToken string) (string, error) {
	f.mu.Lock()
	if c := f.call; c != nil {
		f.mu.Unlock()
		metrics.RecordQueuedUnauthorized()
		select {
		case <-c.done:
			return c.token, c.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if current := recoverer.CurrentToken(); current != failedToken {
		f.mu.Unlock()
		if current == "" {
			return "", fmt.Errorf("[httpclient recovery] %w", errors.ErrSessionExpired)
		}
		return current, nil
	}

	c := &call{done: make(chan struct{})}
	f.call = c
	f.mu.Unlock()

	// The first caller's cancellation must not decide the outcome for the
	// waiters
	c.token, c.err = recoverer.Recover(context.WithoutCancel(ctx), failedToken)

	f.mu.Lock()
	f.call = nil
	f.mu.Unlock()
	close(c.done)

	return c.token, c.err
}
