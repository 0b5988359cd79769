package httpclient

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// bearerTransport is the outgoing-request hook. It never fails a request
// because of the stored credential: an unreadable record is logged and
// the request goes out unauthenticated.
type bearerTransport struct {
	hooks *hooks
	next  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	source, _ := t.hooks.get()
	if source == nil || req.Header.Get("Authorization") != "" {
		return t.next.RoundTrip(req)
	}

	tok, err := source.BearerToken()
	if err != nil {
		log.Warn().Err(err).Str("path", req.URL.Path).Msg("stored credential unreadable, sending request unauthenticated")
	}
	if tok == "" {
		return t.next.RoundTrip(req)
	}

	r2 := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(r2)
	if a := attemptFrom(req.Context()); a != nil {
		a.token = tok
	}
	return t.next.RoundTrip(r2)
}
