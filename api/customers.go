package api

import (
	"context"
	"net/url"

	"github.com/jrsteele09/go-session-client/customers"
	"github.com/jrsteele09/go-session-client/httpclient"
)

const customersPath = "/api/v1/customers/"

type CustomerService struct {
	service
}

func NewCustomerService(client *httpclient.Client, session Binder) *CustomerService {
	return &CustomerService{service{client: client, session: session}}
}

func (s *CustomerService) Create(ctx context.Context, req *customers.CreateRequest) (*customers.Customer, error) {
	var c customers.Customer
	err := s.bound(ctx, "CustomerService.Create", func(ctx context.Context) error {
		_, err := s.client.PostJSON(ctx, customersPath, req, &c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CustomerService) get(ctx context.Context, op, path string) (*customers.Customer, error) {
	var c customers.Customer
	if err := s.bound(ctx, op, func(ctx context.Context) error {
		return s.client.GetJSON(ctx, path, &c)
	}); err != nil {
		return nil, err
	}
	return &c, nil
}

// Get looks a customer up by its CUST_ identifier
func (s *CustomerService) Get(ctx context.Context, customerID string) (*customers.Customer, error) {
	return s.get(ctx, "CustomerService.Get", customersPath+url.PathEscape(customerID))
}

func (s *CustomerService) GetByUsername(ctx context.Context, username string) (*customers.Customer, error) {
	return s.get(ctx, "CustomerService.GetByUsername", customersPath+"username/"+url.PathEscape(username))
}

func (s *CustomerService) GetByEmail(ctx context.Context, email string) (*customers.Customer, error) {
	return s.get(ctx, "CustomerService.GetByEmail", customersPath+"email/"+url.PathEscape(email))
}

// List pages through customers, optionally only active or inactive ones.
// limit <= 0 uses the backend default.
func (s *CustomerService) List(ctx context.Context, isActive *bool, skip, limit int) (*customers.Page, error) {
	q := pageQuery(url.Values{}, skip, limit)
	setBool(q, "is_active", isActive)

	var page customers.Page
	if err := s.bound(ctx, "CustomerService.List", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, withQuery(customersPath, q), &page)
	}); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *CustomerService) Search(ctx context.Context, search *customers.Search) (*customers.Page, error) {
	var page customers.Page
	if err := s.bound(ctx, "CustomerService.Search", func(ctx context.Context) error {
		_, err := s.client.PostJSON(ctx, customersPath+"search", search, &page)
		return err
	}); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *CustomerService) Update(ctx context.Context, customerID string, req *customers.UpdateRequest) (*customers.Customer, error) {
	var c customers.Customer
	if err := s.bound(ctx, "CustomerService.Update", func(ctx context.Context) error {
		return s.client.Put(ctx, customersPath+url.PathEscape(customerID), req, &c)
	}); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete deactivates the customer. HardDelete removes the record.
func (s *CustomerService) Delete(ctx context.Context, customerID string) error {
	return s.bound(ctx, "CustomerService.Delete", func(ctx context.Context) error {
		return s.client.DeleteJSON(ctx, customersPath+url.PathEscape(customerID), nil)
	})
}

func (s *CustomerService) HardDelete(ctx context.Context, customerID string) error {
	return s.bound(ctx, "CustomerService.HardDelete", func(ctx context.Context) error {
		return s.client.DeleteJSON(ctx, customersPath+url.PathEscape(customerID)+"/hard", nil)
	})
}

func (s *CustomerService) patch(ctx context.Context, op, customerID, action string) error {
	return s.bound(ctx, op, func(ctx context.Context) error {
		return s.client.Patch(ctx, customersPath+url.PathEscape(customerID)+"/"+action, nil, nil)
	})
}

func (s *CustomerService) VerifyEmail(ctx context.Context, customerID string) error {
	return s.patch(ctx, "CustomerService.VerifyEmail", customerID, "verify-email")
}

func (s *CustomerService) VerifyPhone(ctx context.Context, customerID string) error {
	return s.patch(ctx, "CustomerService.VerifyPhone", customerID, "verify-phone")
}

// RecordLogin stamps the customer's last login with the backend's clock
func (s *CustomerService) RecordLogin(ctx context.Context, customerID string) error {
	return s.patch(ctx, "CustomerService.RecordLogin", customerID, "last-login")
}
