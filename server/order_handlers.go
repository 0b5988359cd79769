package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-session-client/orders"
	"github.com/rs/zerolog/log"
)

const orderPageLimit = 10

func (s *Server) CreateOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in orders.CreateRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := in.Validate(); err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		o := in.Order()
		if err := s.repos.Orders.Create(o); err != nil {
			log.Err(err).Msg("failed to create order")
			writeDetail(w, http.StatusInternalServerError, "Failed to create order")
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request, filter orders.Filter) {
	skip, limit, ok := pageParamsWith(r, orderPageLimit, maxPageLimit)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid skip or limit")
		return
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status, err := orders.ParseStatus(v)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		filter.Status = status
	}
	list, total, err := s.repos.Orders.List(filter, skip, limit)
	if err != nil {
		log.Err(err).Msg("failed to list orders")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	writeJSON(w, http.StatusOK, orders.NewPage(list, total, skip, limit))
}

func (s *Server) ListOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.listOrders(w, r, orders.Filter{CustomerID: r.URL.Query().Get("customer_id")})
	}
}

func (s *Server) ListCustomerOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.listOrders(w, r, orders.Filter{CustomerID: chi.URLParam(r, "customer_id")})
	}
}

func (s *Server) GetOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := s.repos.Orders.GetByID(chi.URLParam(r, "order_id"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Order not found")
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

func (s *Server) changeOrder(w http.ResponseWriter, r *http.Request, change func(*orders.Order)) {
	existing, err := s.repos.Orders.GetByID(chi.URLParam(r, "order_id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Order not found")
		return
	}
	updated := *existing
	change(&updated)
	if err := s.repos.Orders.Update(&updated); err != nil {
		writeDetail(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, &updated)
}

func (s *Server) UpdateOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in orders.UpdateRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := in.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.changeOrder(w, r, in.Apply)
	}
}

// UpdateOrderStatusHandler takes the new status from the status query parameter
func (s *Server) UpdateOrderStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := orders.ParseStatus(r.URL.Query().Get("status"))
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.changeOrder(w, r, func(o *orders.Order) { o.Status = status })
	}
}

func (s *Server) DeleteOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.repos.Orders.Delete(chi.URLParam(r, "order_id")); err != nil {
			writeDetail(w, http.StatusNotFound, "Order not found")
			return
		}
		writeMessage(w, "Order deleted successfully")
	}
}
