// Package customers holds the customer records an admin manages through
// the backend
package customers

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-session-client/timestamp"
)

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

func (g Gender) Valid() bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

type Customer struct {
	ID              int64          `json:"id"`
	CustomerID      string         `json:"customer_id"`
	Username        string         `json:"username"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone,omitempty"`
	AddressLine1    string         `json:"address_line1,omitempty"`
	AddressLine2    string         `json:"address_line2,omitempty"`
	City            string         `json:"city,omitempty"`
	State           string         `json:"state,omitempty"`
	PostalCode      string         `json:"postal_code,omitempty"`
	Country         string         `json:"country,omitempty"`
	DateOfBirth     string         `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender          Gender         `json:"gender,omitempty"`
	CompanyName     string         `json:"company_name,omitempty"`
	TaxID           string         `json:"tax_id,omitempty"`
	IsActive        bool           `json:"is_active"`
	IsVerified      bool           `json:"is_verified"`
	EmailVerified   bool           `json:"email_verified"`
	PhoneVerified   bool           `json:"phone_verified"`
	MarketingEmails bool           `json:"marketing_emails"`
	MarketingSMS    bool           `json:"marketing_sms"`
	Notes           string         `json:"notes,omitempty"`
	Tags            string         `json:"tags,omitempty"` // comma separated
	CreatedAt       timestamp.Time `json:"created_at"`
	UpdatedAt       timestamp.Time `json:"updated_at"`
	LastLoginAt     timestamp.Time `json:"last_login_at"`
	FullName        string         `json:"full_name"`
	FullAddress     string         `json:"full_address,omitempty"`
}

// Derive fills the computed name and address fields
func (c *Customer) Derive() {
	c.FullName = c.FirstName + " " + c.LastName
	parts := make([]string, 0, 6)
	for _, p := range []string{c.AddressLine1, c.AddressLine2, c.City, c.State, c.PostalCode, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	c.FullAddress = strings.Join(parts, ", ")
}

// TagList splits the comma separated tags
func (c *Customer) TagList() []string {
	return splitTags(c.Tags)
}

func splitTags(s string) []string {
	out := make([]string, 0)
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type CreateRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	AddressLine1    string `json:"address_line1,omitempty"`
	AddressLine2    string `json:"address_line2,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
	Country         string `json:"country,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	Gender          Gender `json:"gender,omitempty"`
	CompanyName     string `json:"company_name,omitempty"`
	TaxID           string `json:"tax_id,omitempty"`
	MarketingEmails *bool  `json:"marketing_emails,omitempty"`
	MarketingSMS    bool   `json:"marketing_sms,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Tags            string `json:"tags,omitempty"`
}

func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if len(r.FirstName) > 100 || len(r.LastName) > 100 {
		return fmt.Errorf("names must be at most 100 characters")
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if !r.Gender.Valid() {
		return fmt.Errorf("unknown gender %q", r.Gender)
	}
	return nil
}

// Customer builds the record a create request describes. Identifiers are
// left for the repository.
func (r *CreateRequest) Customer() *Customer {
	c := &Customer{
		FirstName:       strings.TrimSpace(r.FirstName),
		LastName:        strings.TrimSpace(r.LastName),
		Email:           strings.TrimSpace(r.Email),
		Phone:           r.Phone,
		AddressLine1:    r.AddressLine1,
		AddressLine2:    r.AddressLine2,
		City:            r.City,
		State:           r.State,
		PostalCode:      r.PostalCode,
		Country:         r.Country,
		DateOfBirth:     r.DateOfBirth,
		Gender:          r.Gender,
		CompanyName:     r.CompanyName,
		TaxID:           r.TaxID,
		IsActive:        true,
		MarketingEmails: r.MarketingEmails == nil || *r.MarketingEmails,
		MarketingSMS:    r.MarketingSMS,
		Notes:           r.Notes,
		Tags:            r.Tags,
	}
	c.Derive()
	return c
}

// UpdateRequest is a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	AddressLine1    *string `json:"address_line1,omitempty"`
	AddressLine2    *string `json:"address_line2,omitempty"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
	PostalCode      *string `json:"postal_code,omitempty"`
	Country         *string `json:"country,omitempty"`
	CompanyName     *string `json:"company_name,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Tags            *string `json:"tags,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
	IsVerified      *bool   `json:"is_verified,omitempty"`
	EmailVerified   *bool   `json:"email_verified,omitempty"`
	PhoneVerified   *bool   `json:"phone_verified,omitempty"`
	MarketingEmails *bool   `json:"marketing_emails,omitempty"`
	MarketingSMS    *bool   `json:"marketing_sms,omitempty"`
}

// Apply copies the set fields onto c
func (r *UpdateRequest) Apply(c *Customer) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&c.FirstName, r.FirstName)
	setString(&c.LastName, r.LastName)
	setString(&c.Email, r.Email)
	setString(&c.Phone, r.Phone)
	setString(&c.AddressLine1, r.AddressLine1)
	setString(&c.AddressLine2, r.AddressLine2)
	setString(&c.City, r.City)
	setString(&c.State, r.State)
	setString(&c.PostalCode, r.PostalCode)
	setString(&c.Country, r.Country)
	setString(&c.CompanyName, r.CompanyName)
	setString(&c.Notes, r.Notes)
	setString(&c.Tags, r.Tags)
	setBool(&c.IsActive, r.IsActive)
	setBool(&c.IsVerified, r.IsVerified)
	setBool(&c.EmailVerified, r.EmailVerified)
	setBool(&c.PhoneVerified, r.PhoneVerified)
	setBool(&c.MarketingEmails, r.MarketingEmails)
	setBool(&c.MarketingSMS, r.MarketingSMS)
	c.Derive()
}

// Search filters customers. Text filters match case-insensitive substrings.
type Search struct {
	Query       string `json:"query,omitempty"`
	Email       string `json:"email,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Tags        string `json:"tags,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	IsVerified  *bool  `json:"is_verified,omitempty"`
	SortBy      string `json:"sort_by,omitempty"`    // created_at, first_name, last_name or email
	SortOrder   string `json:"sort_order,omitempty"` // asc or desc, default desc
	Page        int    `json:"page,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

func contains(field, want string) bool {
	return want == "" || strings.Contains(strings.ToLower(field), strings.ToLower(want))
}

// Matches reports whether c passes every set filter
func (s *Search) Matches(c *Customer) bool {
	if s.Query != "" && !(contains(c.FirstName, s.Query) || contains(c.LastName, s.Query) ||
		contains(c.Email, s.Query) || contains(c.Username, s.Query)) {
		return false
	}
	if !contains(c.Email, s.Email) || !contains(c.City, s.City) || !contains(c.State, s.State) ||
		!contains(c.Country, s.Country) || !contains(c.CompanyName, s.CompanyName) {
		return false
	}
	for _, tag := range splitTags(s.Tags) {
		if !contains(c.Tags, tag) {
			return false
		}
	}
	if s.IsActive != nil && c.IsActive != *s.IsActive {
		return false
	}
	if s.IsVerified != nil && c.IsVerified != *s.IsVerified {
		return false
	}
	return true
}

// Sort orders list in place. The default is newest first.
func (s *Search) Sort(list []*Customer) {
	key := func(c *Customer) string {
		switch s.SortBy {
		case "first_name":
			return strings.ToLower(c.FirstName)
		case "last_name":
			return strings.ToLower(c.LastName)
		case "email":
			return strings.ToLower(c.Email)
		}
		return ""
	}
	less := func(i, j int) bool {
		if k1, k2 := key(list[i]), key(list[j]); k1 != k2 {
			return k1 < k2
		}
		return list[i].ID < list[j].ID
	}
	if strings.EqualFold(s.SortOrder, "asc") {
		sort.SliceStable(list, less)
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return less(j, i) })
}

// Page is one page of customers with its position in the full result
type Page struct {
	Customers  []Customer `json:"customers"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

// NewPage describes the slice of total starting at skip
func NewPage(list []*Customer, total, skip, limit int) *Page {
	p := &Page{Customers: make([]Customer, 0, len(list)), Total: total, Limit: limit}
	for _, c := range list {
		p.Customers = append(p.Customers, *c)
	}
	if limit > 0 {
		p.Page = skip/limit + 1
		p.TotalPages = (total + limit - 1) / limit
	}
	return p
}

// NewCustomerID returns a public identifier such as CUST_1A2B3C4D
func NewCustomerID() string {
	return "CUST_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// BaseUsername is the lowercase alphanumeric join of the names, at most
// 20 characters
func BaseUsername(first, last string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(first + last) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := []rune(b.String())
	if len(name) > 20 {
		name = name[:20]
	}
	return string(name)
}
