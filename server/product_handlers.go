package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/products"
	"github.com/rs/zerolog/log"
)

const (
	productPageLimit     = 20
	featuredLimit        = 10
	featuredMaxLimit     = 50
	productCategoryLimit = 20
)

func (s *Server) CreateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in products.CreateRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := in.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		p := in.Product()
		if err := s.repos.Products.Create(p); err != nil {
			if errors.Is(err, errors.ErrConflict) {
				writeDetail(w, http.StatusBadRequest, "Product with SKU "+p.SKU+" already exists")
				return
			}
			log.Err(err).Msg("failed to create product")
			writeDetail(w, http.StatusInternalServerError, "Failed to create product")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) ListProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit, ok := pageParamsWith(r, productPageLimit, maxPageLimit)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid skip or limit")
			return
		}
		search := products.Search{
			Category: products.Category(r.URL.Query().Get("category")),
			Status:   products.Status(r.URL.Query().Get("status")),
		}
		if search.Category != "" && !search.Category.Valid() {
			writeDetail(w, http.StatusUnprocessableEntity, "unknown category")
			return
		}
		if search.Status != "" && !search.Status.Valid() {
			writeDetail(w, http.StatusUnprocessableEntity, "unknown status")
			return
		}
		if search.IsFeatured, ok = boolQuery(r, "is_featured"); !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "is_featured must be a boolean")
			return
		}
		s.writeProductPage(w, &search, skip, limit)
	}
}

func (s *Server) writeProductPage(w http.ResponseWriter, search *products.Search, skip, limit int) {
	list, total, err := s.repos.Products.List(search, skip, limit)
	if err != nil {
		log.Err(err).Msg("failed to list products")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	writeJSON(w, http.StatusOK, products.NewPage(list, total, skip, limit))
}

// SearchProductsHandler reads the search from the body and the page from
// the skip and limit query parameters
func (s *Server) SearchProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit, ok := pageParamsWith(r, productPageLimit, maxPageLimit)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid skip or limit")
			return
		}
		var search products.Search
		if err := decodeJSON(r, &search); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		s.writeProductPage(w, &search, skip, limit)
	}
}

func (s *Server) writeProducts(w http.ResponseWriter, search *products.Search, limit int) {
	list, _, err := s.repos.Products.List(search, 0, limit)
	if err != nil {
		log.Err(err).Msg("failed to list products")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	out := make([]products.Product, 0, len(list))
	for _, p := range list {
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) FeaturedProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, limit, ok := pageParamsWith(r, featuredLimit, featuredMaxLimit)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid limit")
			return
		}
		featured := true
		s.writeProducts(w, &products.Search{IsFeatured: &featured, Status: products.StatusActive}, limit)
	}
}

func (s *Server) ProductsByCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := products.Category(chi.URLParam(r, "category"))
		if !category.Valid() {
			writeDetail(w, http.StatusUnprocessableEntity, "unknown category")
			return
		}
		_, limit, ok := pageParamsWith(r, productCategoryLimit, maxPageLimit)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid limit")
			return
		}
		s.writeProducts(w, &products.Search{Category: category, Status: products.StatusActive}, limit)
	}
}

func (s *Server) ProductCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, products.Categories)
	}
}

func (s *Server) GetProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.repos.Products.GetByID(chi.URLParam(r, "product_id"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Product not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) GetProductBySKUHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.repos.Products.GetBySKU(chi.URLParam(r, "sku"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Product not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) changeProduct(w http.ResponseWriter, r *http.Request, change func(*products.Product)) {
	existing, err := s.repos.Products.GetByID(chi.URLParam(r, "product_id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	updated := *existing
	change(&updated)
	if err := s.repos.Products.Update(&updated); err != nil {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, &updated)
}

func (s *Server) UpdateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in products.UpdateRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := in.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.changeProduct(w, r, in.Apply)
	}
}

func (s *Server) UpdateProductStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := products.Status(r.URL.Query().Get("status"))
		if !status.Valid() {
			writeDetail(w, http.StatusUnprocessableEntity, "unknown status")
			return
		}
		s.changeProduct(w, r, func(p *products.Product) { p.Status = status })
	}
}

func (s *Server) FeatureProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		featured, err := strconv.ParseBool(r.URL.Query().Get("is_featured"))
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "is_featured must be a boolean")
			return
		}
		s.changeProduct(w, r, func(p *products.Product) { p.IsFeatured = featured })
	}
}

func (s *Server) DeleteProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.repos.Products.Delete(chi.URLParam(r, "product_id")); err != nil {
			writeDetail(w, http.StatusNotFound, "Product not found")
			return
		}
		writeMessage(w, "Product deleted successfully")
	}
}
