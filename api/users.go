// Package api wraps the backend's REST resources. Every call is bound to
// the current session so it is cancelled when the session ends.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-session-client/httpclient"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/users"
)

const usersPath = "/api/v1/users/"

// Binder derives request contexts scoped to the current session
type Binder interface {
	Bind(parent context.Context) (context.Context, context.CancelFunc)
}

type UserService struct {
	client  *httpclient.Client
	session Binder
}

func NewUserService(client *httpclient.Client, session Binder) *UserService {
	return &UserService{client: client, session: session}
}

func (s *UserService) Get(ctx context.Context, id int64) (*users.Record, error) {
	ctx, cancel := s.session.Bind(ctx)
	defer cancel()

	var user users.Record
	if err := s.client.GetJSON(ctx, usersPath+strconv.FormatInt(id, 10), &user); err != nil {
		return nil, fmt.Errorf("[api UserService.Get] %w", err)
	}
	return &user, nil
}

// List returns a page of users. limit <= 0 uses the backend default.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]users.Record, error) {
	return s.list(ctx, usersPath, skip, limit)
}

func (s *UserService) ListByRole(ctx context.Context, role users.RoleType, skip, limit int) ([]users.Record, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("[api UserService.ListByRole] %q: %w", role, errors.ErrInvalidRole)
	}
	return s.list(ctx, usersPath+"role/"+url.PathEscape(role.String()), skip, limit)
}

func (s *UserService) list(ctx context.Context, path string, skip, limit int) ([]users.Record, error) {
	ctx, cancel := s.session.Bind(ctx)
	defer cancel()

	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	list := make([]users.Record, 0)
	if err := s.client.GetJSON(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("[api UserService.list] %w", err)
	}
	return list, nil
}

func (s *UserService) UpdateRole(ctx context.Context, id int64, role users.RoleType) (*users.Record, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("[api UserService.UpdateRole] %q: %w", role, errors.ErrInvalidRole)
	}
	ctx, cancel := s.session.Bind(ctx)
	defer cancel()

	var user users.Record
	path := usersPath + strconv.FormatInt(id, 10) + "/role?role=" + url.QueryEscape(role.String())
	if err := s.client.Patch(ctx, path, nil, &user); err != nil {
		return nil, fmt.Errorf("[api UserService.UpdateRole] %w", err)
	}
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.session.Bind(ctx)
	defer cancel()

	if err := s.client.Delete(ctx, usersPath+strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("[api UserService.Delete] %w", err)
	}
	return nil
}
