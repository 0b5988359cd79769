package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-session-client/httpclient"
)

// service is the shared plumbing of the resource services
type service struct {
	client  *httpclient.Client
	session Binder
}

// bound runs call with a context tied to the current session and tags any
// error with op
func (s service) bound(ctx context.Context, op string, call func(ctx context.Context) error) error {
	ctx, cancel := s.session.Bind(ctx)
	defer cancel()

	if err := call(ctx); err != nil {
		return fmt.Errorf("[api %s] %w", op, err)
	}
	return nil
}

// Message is the {"message": "..."} acknowledgement some endpoints return
type Message struct {
	Message string `json:"message"`
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// pageQuery sets skip and limit when they differ from the backend default
func pageQuery(q url.Values, skip, limit int) url.Values {
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func setBool(q url.Values, key string, v *bool) {
	if v != nil {
		q.Set(key, strconv.FormatBool(*v))
	}
}
