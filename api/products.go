package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-session-client/httpclient"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/products"
)

const productsPath = "/api/v1/products/"

type ProductService struct {
	service
}

func NewProductService(client *httpclient.Client, session Binder) *ProductService {
	return &ProductService{service{client: client, session: session}}
}

// ProductFilter narrows List. Zero fields match everything.
type ProductFilter struct {
	Category   products.Category
	Status     products.Status
	IsFeatured *bool
}

func (s *ProductService) Create(ctx context.Context, req *products.CreateRequest) (*products.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("[api ProductService.Create] %w: %v", errors.ErrInvalidRequest, err)
	}
	var p products.Product
	if err := s.bound(ctx, "ProductService.Create", func(ctx context.Context) error {
		_, err := s.client.PostJSON(ctx, productsPath, req, &p)
		return err
	}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) get(ctx context.Context, op, path string) (*products.Product, error) {
	var p products.Product
	if err := s.bound(ctx, op, func(ctx context.Context) error {
		return s.client.GetJSON(ctx, path, &p)
	}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*products.Product, error) {
	return s.get(ctx, "ProductService.Get", productsPath+url.PathEscape(id))
}

func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*products.Product, error) {
	return s.get(ctx, "ProductService.GetBySKU", productsPath+"sku/"+url.PathEscape(sku))
}

// List pages through the catalogue. limit <= 0 uses the backend default of 20.
func (s *ProductService) List(ctx context.Context, filter ProductFilter, skip, limit int) (*products.Page, error) {
	q := pageQuery(url.Values{}, skip, limit)
	if filter.Category != "" {
		q.Set("category", string(filter.Category))
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	setBool(q, "is_featured", filter.IsFeatured)
	return s.page(ctx, "ProductService.List", func(ctx context.Context, page *products.Page) error {
		return s.client.GetJSON(ctx, withQuery(productsPath, q), page)
	})
}

func (s *ProductService) Search(ctx context.Context, search *products.Search, skip, limit int) (*products.Page, error) {
	path := withQuery(productsPath+"search", pageQuery(url.Values{}, skip, limit))
	return s.page(ctx, "ProductService.Search", func(ctx context.Context, page *products.Page) error {
		_, err := s.client.PostJSON(ctx, path, search, page)
		return err
	})
}

func (s *ProductService) page(ctx context.Context, op string, fetch func(context.Context, *products.Page) error) (*products.Page, error) {
	var page products.Page
	if err := s.bound(ctx, op, func(ctx context.Context) error { return fetch(ctx, &page) }); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *ProductService) listing(ctx context.Context, op, path string) ([]products.Product, error) {
	list := make([]products.Product, 0)
	if err := s.bound(ctx, op, func(ctx context.Context) error {
		return s.client.GetJSON(ctx, path, &list)
	}); err != nil {
		return nil, err
	}
	return list, nil
}

// Featured returns active featured products. limit <= 0 uses the backend
// default of 10.
func (s *ProductService) Featured(ctx context.Context, limit int) ([]products.Product, error) {
	return s.listing(ctx, "ProductService.Featured", withQuery(productsPath+"featured/", pageQuery(url.Values{}, 0, limit)))
}

func (s *ProductService) ByCategory(ctx context.Context, category products.Category, limit int) ([]products.Product, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("[api ProductService.ByCategory] %q: %w", category, errors.ErrInvalidRequest)
	}
	path := withQuery(productsPath+"category/"+url.PathEscape(string(category)), pageQuery(url.Values{}, 0, limit))
	return s.listing(ctx, "ProductService.ByCategory", path)
}

func (s *ProductService) Categories(ctx context.Context) ([]products.Category, error) {
	list := make([]products.Category, 0)
	if err := s.bound(ctx, "ProductService.Categories", func(ctx context.Context) error {
		return s.client.GetJSON(ctx, productsPath+"categories/available", &list)
	}); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ProductService) change(ctx context.Context, op string, send func(ctx context.Context, out *products.Product) error) (*products.Product, error) {
	var p products.Product
	if err := s.bound(ctx, op, func(ctx context.Context) error { return send(ctx, &p) }); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req *products.UpdateRequest) (*products.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("[api ProductService.Update] %w: %v", errors.ErrInvalidRequest, err)
	}
	return s.change(ctx, "ProductService.Update", func(ctx context.Context, out *products.Product) error {
		return s.client.Put(ctx, productsPath+url.PathEscape(id), req, out)
	})
}

func (s *ProductService) SetStatus(ctx context.Context, id string, status products.Status) (*products.Product, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("[api ProductService.SetStatus] %q: %w", status, errors.ErrInvalidRequest)
	}
	path := productsPath + url.PathEscape(id) + "/status?status=" + url.QueryEscape(string(status))
	return s.change(ctx, "ProductService.SetStatus", func(ctx context.Context, out *products.Product) error {
		return s.client.Patch(ctx, path, nil, out)
	})
}

func (s *ProductService) SetFeatured(ctx context.Context, id string, featured bool) (*products.Product, error) {
	path := productsPath + url.PathEscape(id) + "/feature?is_featured=" + strconv.FormatBool(featured)
	return s.change(ctx, "ProductService.SetFeatured", func(ctx context.Context, out *products.Product) error {
		return s.client.Patch(ctx, path, nil, out)
	})
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.bound(ctx, "ProductService.Delete", func(ctx context.Context) error {
		return s.client.DeleteJSON(ctx, productsPath+url.PathEscape(id), nil)
	})
}
