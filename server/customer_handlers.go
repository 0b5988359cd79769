package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-session-client/customers"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/timestamp"
	"github.com/rs/zerolog/log"
)

const (
	customerPageLimit    = 100
	customerMaxPageLimit = 1000
	customerSearchLimit  = 10
)

func (s *Server) CreateCustomerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in customers.CreateRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := in.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		c := in.Customer()
		if err := s.repos.Customers.Create(c); err != nil {
			if errors.Is(err, errors.ErrConflict) {
				writeDetail(w, http.StatusBadRequest, "Customer with this email already exists")
				return
			}
			log.Err(err).Msg("failed to create customer")
			writeDetail(w, http.StatusInternalServerError, "Could not create customer")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// lookupCustomer answers a single-customer GET using find
func (s *Server) lookupCustomer(param string, find func(string) (*customers.Customer, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := find(chi.URLParam(r, param))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Customer not found")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func (s *Server) GetCustomerHandler() http.HandlerFunc {
	return s.lookupCustomer("customer_id", s.repos.Customers.GetByCustomerID)
}

func (s *Server) GetCustomerByUsernameHandler() http.HandlerFunc {
	return s.lookupCustomer("username", s.repos.Customers.GetByUsername)
}

func (s *Server) GetCustomerByEmailHandler() http.HandlerFunc {
	return s.lookupCustomer("email", s.repos.Customers.GetByEmail)
}

func (s *Server) ListCustomersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit, ok := pageParamsWith(r, customerPageLimit, customerMaxPageLimit)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid skip or limit")
			return
		}
		isActive, ok := boolQuery(r, "is_active")
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "is_active must be a boolean")
			return
		}
		list, total, err := s.repos.Customers.List(&customers.Search{IsActive: isActive, SortOrder: "asc"}, skip, limit)
		if err != nil {
			log.Err(err).Msg("failed to list customers")
			writeDetail(w, http.StatusInternalServerError, "Could not list customers")
			return
		}
		writeJSON(w, http.StatusOK, customers.NewPage(list, total, skip, limit))
	}
}

func (s *Server) SearchCustomersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var search customers.Search
		if err := decodeJSON(r, &search); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if search.Page == 0 {
			search.Page = 1
		}
		if search.Limit == 0 {
			search.Limit = customerSearchLimit
		}
		if search.Page < 1 || search.Limit < 1 || search.Limit > maxPageLimit {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid page or limit")
			return
		}
		skip := (search.Page - 1) * search.Limit
		list, total, err := s.repos.Customers.List(&search, skip, search.Limit)
		if err != nil {
			log.Err(err).Msg("failed to search customers")
			writeDetail(w, http.StatusInternalServerError, "Could not search customers")
			return
		}
		writeJSON(w, http.StatusOK, customers.NewPage(list, total, skip, search.Limit))
	}
}

// changeCustomer loads the customer named in the path, applies change to a
// copy and stores it
func (s *Server) changeCustomer(w http.ResponseWriter, r *http.Request, change func(*customers.Customer)) (*customers.Customer, bool) {
	existing, err := s.repos.Customers.GetByCustomerID(chi.URLParam(r, "customer_id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Customer not found")
		return nil, false
	}
	updated := *existing
	change(&updated)
	if err := s.repos.Customers.Update(&updated); err != nil {
		switch {
		case errors.Is(err, errors.ErrConflict):
			writeDetail(w, http.StatusBadRequest, "Customer with this email already exists")
		case errors.Is(err, errors.ErrNotFound):
			writeDetail(w, http.StatusNotFound, "Customer not found")
		default:
			log.Err(err).Str("customer_id", updated.CustomerID).Msg("failed to update customer")
			writeDetail(w, http.StatusInternalServerError, "Could not update customer")
		}
		return nil, false
	}
	return &updated, true
}

func (s *Server) UpdateCustomerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in customers.UpdateRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if c, ok := s.changeCustomer(w, r, in.Apply); ok {
			writeJSON(w, http.StatusOK, c)
		}
	}
}

// DeleteCustomerHandler deactivates the customer; the record is kept
func (s *Server) DeleteCustomerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.changeCustomer(w, r, func(c *customers.Customer) { c.IsActive = false }); ok {
			writeMessage(w, "Customer deleted successfully")
		}
	}
}

func (s *Server) HardDeleteCustomerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.repos.Customers.Delete(chi.URLParam(r, "customer_id")); err != nil {
			writeDetail(w, http.StatusNotFound, "Customer not found")
			return
		}
		writeMessage(w, "Customer permanently deleted")
	}
}

func (s *Server) VerifyCustomerEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.changeCustomer(w, r, func(c *customers.Customer) { c.EmailVerified = true }); ok {
			writeMessage(w, "Customer email verified successfully")
		}
	}
}

func (s *Server) VerifyCustomerPhoneHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.changeCustomer(w, r, func(c *customers.Customer) { c.PhoneVerified = true }); ok {
			writeMessage(w, "Customer phone verified successfully")
		}
	}
}

func (s *Server) CustomerLastLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := timestamp.New(time.Now().UTC())
		if _, ok := s.changeCustomer(w, r, func(c *customers.Customer) { c.LastLoginAt = now }); ok {
			writeMessage(w, "Last login updated successfully")
		}
	}
}
