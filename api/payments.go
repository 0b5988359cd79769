package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-session-client/httpclient"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/payments"
)

const paymentsPath = "/api/v1/payments/"

type PaymentService struct {
	service
}

func NewPaymentService(client *httpclient.Client, session Binder) *PaymentService {
	return &PaymentService{service{client: client, session: session}}
}

func (s *PaymentService) Create(ctx context.Context, req *payments.CreateRequest) (*payments.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("[api PaymentService.Create] %w: %v", errors.ErrInvalidRequest, err)
	}
	var p payments.Payment
	if err := s.bound(ctx, "PaymentService.Create", func(ctx context.Context) error {
		_, err := s.client.PostJSON(ctx, paymentsPath, req, &p)
		return err
	}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PaymentService) Get(ctx context.Context, id string) (*payments.Payment, error) {
	var p payments.Payment
	if err := s.bound(ctx, "PaymentService.Get", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, paymentsPath+url.PathEscape(id), &p)
	}); err != nil {
		return nil, err
	}
	return &p, nil
}

func filterQuery(f payments.Filter) url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("order_id", f.OrderID)
	set("customer_id", f.CustomerID)
	set("status", string(f.Status))
	set("payment_method", string(f.Method))
	set("provider", string(f.Provider))
	set("currency", f.Currency)
	return q
}

func (s *PaymentService) page(ctx context.Context, op, path string) (*payments.Page, error) {
	var page payments.Page
	if err := s.bound(ctx, op, func(ctx context.Context) error {
		return s.client.GetJSON(ctx, path, &page)
	}); err != nil {
		return nil, err
	}
	return &page, nil
}

// List pages through payments, newest first. limit <= 0 uses the backend
// default of 20.
func (s *PaymentService) List(ctx context.Context, filter payments.Filter, skip, limit int) (*payments.Page, error) {
	return s.page(ctx, "PaymentService.List", withQuery(paymentsPath, pageQuery(filterQuery(filter), skip, limit)))
}

func (s *PaymentService) ListByCustomer(ctx context.Context, customerID string, skip, limit int) (*payments.Page, error) {
	path := withQuery(paymentsPath+"customer/"+url.PathEscape(customerID), pageQuery(url.Values{}, skip, limit))
	return s.page(ctx, "PaymentService.ListByCustomer", path)
}

// ListByOrder returns every payment taken against the order
func (s *PaymentService) ListByOrder(ctx context.Context, orderID string) ([]payments.Payment, error) {
	list := make([]payments.Payment, 0)
	if err := s.bound(ctx, "PaymentService.ListByOrder", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, paymentsPath+"order/"+url.PathEscape(orderID), &list)
	}); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *PaymentService) Update(ctx context.Context, id string, req *payments.UpdateRequest) (*payments.Payment, error) {
	var p payments.Payment
	if err := s.bound(ctx, "PaymentService.Update", func(ctx context.Context) error {
		return s.client.Put(ctx, paymentsPath+url.PathEscape(id), req, &p)
	}); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStatus moves the payment to change.Status and returns the
// backend's acknowledgement
func (s *PaymentService) UpdateStatus(ctx context.Context, id string, change payments.StatusChange) (string, error) {
	if !change.Status.Valid() {
		return "", fmt.Errorf("[api PaymentService.UpdateStatus] %q: %w", change.Status, errors.ErrInvalidRequest)
	}
	q := url.Values{"status": {string(change.Status)}}
	if change.ProviderPaymentID != "" {
		q.Set("provider_payment_id", change.ProviderPaymentID)
	}
	if change.FailureReason != "" {
		q.Set("failure_reason", change.FailureReason)
	}
	if change.FailureCode != "" {
		q.Set("failure_code", change.FailureCode)
	}
	var msg Message
	if err := s.bound(ctx, "PaymentService.UpdateStatus", func(ctx context.Context) error {
		return s.client.Patch(ctx, withQuery(paymentsPath+url.PathEscape(id)+"/status", q), nil, &msg)
	}); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// Process marks the payment completed by its provider
func (s *PaymentService) Process(ctx context.Context, id string, req *payments.ProcessRequest) error {
	if req.ProviderPaymentID == "" {
		return fmt.Errorf("[api PaymentService.Process] provider_payment_id is required: %w", errors.ErrInvalidRequest)
	}
	return s.bound(ctx, "PaymentService.Process", func(ctx context.Context) error {
		_, err := s.client.PostJSON(ctx, paymentsPath+url.PathEscape(id)+"/process", req, nil)
		return err
	})
}

func (s *PaymentService) Refund(ctx context.Context, req *payments.RefundRequest) (*payments.Refund, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("[api PaymentService.Refund] %w: %v", errors.ErrInvalidRequest, err)
	}
	var r payments.Refund
	if err := s.bound(ctx, "PaymentService.Refund", func(ctx context.Context) error {
		_, err := s.client.PostJSON(ctx, paymentsPath+"refunds", req, &r)
		return err
	}); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PaymentService) GetRefund(ctx context.Context, refundID string) (*payments.Refund, error) {
	var r payments.Refund
	if err := s.bound(ctx, "PaymentService.GetRefund", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, paymentsPath+"refunds/"+url.PathEscape(refundID), &r)
	}); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PaymentService) Refunds(ctx context.Context, paymentID string) ([]payments.Refund, error) {
	list := make([]payments.Refund, 0)
	if err := s.bound(ctx, "PaymentService.Refunds", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, paymentsPath+url.PathEscape(paymentID)+"/refunds", &list)
	}); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *PaymentService) Currencies(ctx context.Context) ([]string, error) {
	list := make([]string, 0)
	if err := s.bound(ctx, "PaymentService.Currencies", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, paymentsPath+"currencies/available", &list)
	}); err != nil {
		return nil, err
	}
	return list, nil
}
