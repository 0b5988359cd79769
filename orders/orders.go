// Package orders holds customer orders and the pricing rules that total them
package orders

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/go-session-client/timestamp"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

const (
	TaxRate      = 0.10
	ShippingCost = 10.0
)

type Item struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type Order struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"customer_id"`
	CustomerName    string         `json:"customer_name"`
	CustomerEmail   string         `json:"customer_email"`
	CustomerPhone   string         `json:"customer_phone,omitempty"`
	ShippingAddress string         `json:"shipping_address"`
	Items           []Item         `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	Tax             float64        `json:"tax"`
	ShippingCost    float64        `json:"shipping_cost"`
	TotalAmount     float64        `json:"total_amount"`
	Status          Status         `json:"status"`
	Notes           string         `json:"notes,omitempty"`
	PaymentID       string         `json:"payment_id,omitempty"`
	CreatedAt       timestamp.Time `json:"created_at"`
	UpdatedAt       timestamp.Time `json:"updated_at"`
}

type CreateRequest struct {
	CustomerID      string `json:"customer_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	ShippingAddress string `json:"shipping_address"`
	Items           []Item `json:"items"`
	Notes           string `json:"notes,omitempty"`
	PaymentID       string `json:"payment_id,omitempty"`
}

func (r *CreateRequest) Validate() error {
	if r.CustomerID == "" || r.CustomerName == "" || r.CustomerEmail == "" || r.ShippingAddress == "" {
		return fmt.Errorf("customer_id, customer_name, customer_email and shipping_address are required")
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("an order needs at least one item")
	}
	for i, it := range r.Items {
		if it.ProductID == "" || it.ProductName == "" {
			return fmt.Errorf("item %d: product_id and product_name are required", i)
		}
		if it.Quantity <= 0 || it.UnitPrice <= 0 || it.TotalPrice <= 0 {
			return fmt.Errorf("item %d: quantity and prices must be greater than zero", i)
		}
	}
	return nil
}

// Order builds a pending order with its totals computed
func (r *CreateRequest) Order() *Order {
	o := &Order{
		CustomerID:      r.CustomerID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		ShippingAddress: r.ShippingAddress,
		Items:           append([]Item(nil), r.Items...),
		Status:          StatusPending,
		Notes:           r.Notes,
		PaymentID:       r.PaymentID,
	}
	o.Total()
	return o
}

// Total recomputes subtotal, tax, shipping and the grand total, each
// rounded to cents
func (o *Order) Total() {
	subtotal := decimal.Zero
	for _, it := range o.Items {
		subtotal = subtotal.Add(decimal.NewFromFloat(it.TotalPrice))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(TaxRate)).Round(2)
	shipping := decimal.NewFromFloat(ShippingCost)

	o.Subtotal = subtotal.InexactFloat64()
	o.Tax = tax.InexactFloat64()
	o.ShippingCost = ShippingCost
	o.TotalAmount = subtotal.Add(tax).Add(shipping).InexactFloat64()
}

// UpdateRequest changes the mutable parts of an order
type UpdateRequest struct {
	Status          *Status `json:"status,omitempty"`
	ShippingAddress *string `json:"shipping_address,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("unknown order status %q", *r.Status)
	}
	return nil
}

func (r *UpdateRequest) Apply(o *Order) {
	if r.Status != nil {
		o.Status = *r.Status
	}
	if r.ShippingAddress != nil {
		o.ShippingAddress = *r.ShippingAddress
	}
	if r.Notes != nil {
		o.Notes = *r.Notes
	}
}

// Filter narrows an order listing. Empty fields match everything.
type Filter struct {
	CustomerID string
	Status     Status
}

func (f Filter) Matches(o *Order) bool {
	return (f.CustomerID == "" || o.CustomerID == f.CustomerID) && (f.Status == "" || o.Status == f.Status)
}

// Page is one page of orders. Size is the requested page size.
type Page struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
}

func NewPage(list []*Order, total, skip, limit int) *Page {
	p := &Page{Orders: make([]Order, 0, len(list)), Total: total, Size: limit}
	for _, o := range list {
		p.Orders = append(p.Orders, *o)
	}
	if limit > 0 {
		p.Page = skip/limit + 1
	}
	return p
}
