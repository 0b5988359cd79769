package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-session-client/httpclient"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/orders"
)

const ordersPath = "/api/v1/orders/"

type OrderService struct {
	service
}

func NewOrderService(client *httpclient.Client, session Binder) *OrderService {
	return &OrderService{service{client: client, session: session}}
}

func (s *OrderService) Create(ctx context.Context, req *orders.CreateRequest) (*orders.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("[api OrderService.Create] %w: %v", errors.ErrInvalidRequest, err)
	}
	var o orders.Order
	if err := s.bound(ctx, "OrderService.Create", func(ctx context.Context) error {
		_, err := s.client.PostJSON(ctx, ordersPath, req, &o)
		return err
	}); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*orders.Order, error) {
	var o orders.Order
	if err := s.bound(ctx, "OrderService.Get", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, ordersPath+url.PathEscape(id), &o)
	}); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) list(ctx context.Context, op, path string, q url.Values) (*orders.Page, error) {
	var page orders.Page
	if err := s.bound(ctx, op, func(ctx context.Context) error {
		return s.client.GetJSON(ctx, withQuery(path, q), &page)
	}); err != nil {
		return nil, err
	}
	return &page, nil
}

// List pages through orders, newest first. limit <= 0 uses the backend
// default of 10.
func (s *OrderService) List(ctx context.Context, filter orders.Filter, skip, limit int) (*orders.Page, error) {
	q := pageQuery(url.Values{}, skip, limit)
	if filter.CustomerID != "" {
		q.Set("customer_id", filter.CustomerID)
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	return s.list(ctx, "OrderService.List", ordersPath, q)
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID string, skip, limit int) (*orders.Page, error) {
	return s.list(ctx, "OrderService.ListByCustomer", ordersPath+"customer/"+url.PathEscape(customerID), pageQuery(url.Values{}, skip, limit))
}

func (s *OrderService) Update(ctx context.Context, id string, req *orders.UpdateRequest) (*orders.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("[api OrderService.Update] %w: %v", errors.ErrInvalidRequest, err)
	}
	var o orders.Order
	if err := s.bound(ctx, "OrderService.Update", func(ctx context.Context) error {
		return s.client.Put(ctx, ordersPath+url.PathEscape(id), req, &o)
	}); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status orders.Status) (*orders.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("[api OrderService.UpdateStatus] %q: %w", status, errors.ErrInvalidRequest)
	}
	var o orders.Order
	path := ordersPath + url.PathEscape(id) + "/status?status=" + url.QueryEscape(string(status))
	if err := s.bound(ctx, "OrderService.UpdateStatus", func(ctx context.Context) error {
		return s.client.Patch(ctx, path, nil, &o)
	}); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.bound(ctx, "OrderService.Delete", func(ctx context.Context) error {
		return s.client.DeleteJSON(ctx, ordersPath+url.PathEscape(id), nil)
	})
}
