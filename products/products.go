// Package products holds the product catalogue
package products

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jrsteele09/go-session-client/timestamp"
)

type Category string

const (
	CategoryElectronics  Category = "electronics"
	CategoryClothing     Category = "clothing"
	CategoryBooks        Category = "books"
	CategoryHomeGarden   Category = "home_garden"
	CategorySports       Category = "sports"
	CategoryBeauty       Category = "beauty"
	CategoryAutomotive   Category = "automotive"
	CategoryToys         Category = "toys"
	CategoryFoodBeverage Category = "food_beverage"
	CategoryHealth       Category = "health"
	CategoryOther        Category = "other"
)

var Categories = []Category{
	CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHomeGarden, CategorySports, CategoryBeauty,
	CategoryAutomotive, CategoryToys, CategoryFoodBeverage, CategoryHealth, CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusActive       Status = "active"
	StatusInactive     Status = "inactive"
	StatusDiscontinued Status = "discontinued"
	StatusOutOfStock   Status = "out_of_stock"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDiscontinued, StatusOutOfStock:
		return true
	}
	return false
}

type Image struct {
	URL       string `json:"url"`
	AltText   string `json:"alt_text,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

type Variant struct {
	Name            string  `json:"name"`
	Value           string  `json:"value"`
	PriceAdjustment float64 `json:"price_adjustment"`
	StockQuantity   int     `json:"stock_quantity"`
}

type Specification struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

type Product struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Category        Category           `json:"category"`
	Brand           string             `json:"brand,omitempty"`
	SKU             string             `json:"sku"`
	BasePrice       float64            `json:"base_price"`
	ComparePrice    *float64           `json:"compare_price,omitempty"`
	CostPrice       *float64           `json:"cost_price,omitempty"`
	Weight          *float64           `json:"weight,omitempty"`
	Dimensions      map[string]float64 `json:"dimensions,omitempty"`
	Tags            []string           `json:"tags"`
	Images          []Image            `json:"images"`
	Variants        []Variant          `json:"variants"`
	Specifications  []Specification    `json:"specifications"`
	MetaTitle       string             `json:"meta_title,omitempty"`
	MetaDescription string             `json:"meta_description,omitempty"`
	IsFeatured      bool               `json:"is_featured"`
	IsTaxable       bool               `json:"is_taxable"`
	Status          Status             `json:"status"`
	TotalStock      int                `json:"total_stock"`
	AverageRating   *float64           `json:"average_rating"`
	ReviewCount     int                `json:"review_count"`
	CreatedBy       string             `json:"created_by"`
	CreatedAt       timestamp.Time     `json:"created_at"`
	UpdatedAt       timestamp.Time     `json:"updated_at"`
}

// Restock recomputes TotalStock from the variants
func (p *Product) Restock() {
	total := 0
	for _, v := range p.Variants {
		total += v.StockQuantity
	}
	p.TotalStock = total
}

type CreateRequest struct {
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Category        Category           `json:"category"`
	Brand           string             `json:"brand,omitempty"`
	SKU             string             `json:"sku"`
	BasePrice       float64            `json:"base_price"`
	ComparePrice    *float64           `json:"compare_price,omitempty"`
	CostPrice       *float64           `json:"cost_price,omitempty"`
	Weight          *float64           `json:"weight,omitempty"`
	Dimensions      map[string]float64 `json:"dimensions,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	Images          []Image            `json:"images,omitempty"`
	Variants        []Variant          `json:"variants,omitempty"`
	Specifications  []Specification    `json:"specifications,omitempty"`
	MetaTitle       string             `json:"meta_title,omitempty"`
	MetaDescription string             `json:"meta_description,omitempty"`
	IsFeatured      bool               `json:"is_featured"`
	IsTaxable       *bool              `json:"is_taxable,omitempty"`
	CreatedBy       string             `json:"created_by"`
}

func (r *CreateRequest) Validate() error {
	if n := len([]rune(r.Name)); n < 1 || n > 200 {
		return fmt.Errorf("name must be 1 to 200 characters")
	}
	if n := len([]rune(r.Description)); n < 10 || n > 2000 {
		return fmt.Errorf("description must be 10 to 2000 characters")
	}
	if !r.Category.Valid() {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	if n := len(r.SKU); n < 1 || n > 50 {
		return fmt.Errorf("sku must be 1 to 50 characters")
	}
	if r.BasePrice <= 0 {
		return fmt.Errorf("base_price must be greater than zero")
	}
	for _, v := range r.Variants {
		if v.StockQuantity < 0 {
			return fmt.Errorf("variant %s=%s has negative stock", v.Name, v.Value)
		}
	}
	if r.CreatedBy == "" {
		return fmt.Errorf("created_by is required")
	}
	return nil
}

// Product builds an active product from the request
func (r *CreateRequest) Product() *Product {
	p := &Product{
		Name:            r.Name,
		Description:     r.Description,
		Category:        r.Category,
		Brand:           r.Brand,
		SKU:             r.SKU,
		BasePrice:       r.BasePrice,
		ComparePrice:    r.ComparePrice,
		CostPrice:       r.CostPrice,
		Weight:          r.Weight,
		Dimensions:      r.Dimensions,
		Tags:            orEmpty(r.Tags),
		Images:          orEmpty(r.Images),
		Variants:        orEmpty(r.Variants),
		Specifications:  orEmpty(r.Specifications),
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		IsFeatured:      r.IsFeatured,
		IsTaxable:       r.IsTaxable == nil || *r.IsTaxable,
		Status:          StatusActive,
		CreatedBy:       r.CreatedBy,
	}
	p.Restock()
	return p
}

func orEmpty[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

// UpdateRequest is a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Brand       *string   `json:"brand,omitempty"`
	BasePrice   *float64  `json:"base_price,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
	IsFeatured  *bool     `json:"is_featured,omitempty"`
	IsTaxable   *bool     `json:"is_taxable,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	if r.Category != nil && !r.Category.Valid() {
		return fmt.Errorf("unknown category %q", *r.Category)
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", *r.Status)
	}
	if r.BasePrice != nil && *r.BasePrice <= 0 {
		return fmt.Errorf("base_price must be greater than zero")
	}
	return nil
}

func (r *UpdateRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Brand != nil {
		p.Brand = *r.Brand
	}
	if r.BasePrice != nil {
		p.BasePrice = *r.BasePrice
	}
	if r.Tags != nil {
		p.Tags = r.Tags
	}
	if r.Variants != nil {
		p.Variants = r.Variants
		p.Restock()
	}
	if r.IsFeatured != nil {
		p.IsFeatured = *r.IsFeatured
	}
	if r.IsTaxable != nil {
		p.IsTaxable = *r.IsTaxable
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
}

// Search filters the catalogue. Query matches name, description, brand
// and tags.
type Search struct {
	Query      string   `json:"query,omitempty"`
	Category   Category `json:"category,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Status     Status   `json:"status,omitempty"`
	IsFeatured *bool    `json:"is_featured,omitempty"`
	InStock    *bool    `json:"in_stock,omitempty"`
	SortBy     string   `json:"sort_by,omitempty"`    // created_at, name or base_price
	SortOrder  string   `json:"sort_order,omitempty"` // asc or desc, default desc
}

func has(field, want string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(want))
}

func (s *Search) Matches(p *Product) bool {
	if s.Query != "" && !has(p.Name, s.Query) && !has(p.Description, s.Query) && !has(p.Brand, s.Query) &&
		!has(strings.Join(p.Tags, " "), s.Query) {
		return false
	}
	if s.Category != "" && p.Category != s.Category {
		return false
	}
	if s.Brand != "" && !strings.EqualFold(p.Brand, s.Brand) {
		return false
	}
	if (s.MinPrice != nil && p.BasePrice < *s.MinPrice) || (s.MaxPrice != nil && p.BasePrice > *s.MaxPrice) {
		return false
	}
	for _, tag := range s.Tags {
		found := false
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if s.Status != "" && p.Status != s.Status {
		return false
	}
	if s.IsFeatured != nil && p.IsFeatured != *s.IsFeatured {
		return false
	}
	if s.InStock != nil && (p.TotalStock > 0) != *s.InStock {
		return false
	}
	return true
}

// Sort orders list in place, keeping insertion order for ties
func (s *Search) Sort(list []*Product) {
	less := func(a, b *Product) bool {
		switch s.SortBy {
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "base_price", "price":
			return a.BasePrice < b.BasePrice
		}
		return false
	}
	asc := strings.EqualFold(s.SortOrder, "asc")
	if s.SortBy == "" || s.SortBy == "created_at" {
		if !asc {
			for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
				list[i], list[j] = list[j], list[i]
			}
		}
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		if asc {
			return less(list[i], list[j])
		}
		return less(list[j], list[i])
	})
}

// Page is one page of products and the categories present in it
type Page struct {
	Products   []Product  `json:"products"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	Categories []Category `json:"categories"`
}

func NewPage(list []*Product, total, skip, limit int) *Page {
	p := &Page{Products: make([]Product, 0, len(list)), Total: total, Size: limit, Categories: []Category{}}
	seen := map[Category]bool{}
	for _, prod := range list {
		p.Products = append(p.Products, *prod)
		if !seen[prod.Category] {
			seen[prod.Category] = true
			p.Categories = append(p.Categories, prod.Category)
		}
	}
	if limit > 0 {
		p.Page = skip/limit + 1
	}
	return p
}
