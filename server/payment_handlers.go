package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-session-client/payments"
	"github.com/jrsteele09/go-session-client/timestamp"
	"github.com/rs/zerolog/log"
)

const paymentPageLimit = 20

func (s *Server) CreatePaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in payments.CreateRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := in.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		p := in.Payment()
		if err := s.repos.Payments.Create(p); err != nil {
			log.Err(err).Msg("failed to create payment")
			writeDetail(w, http.StatusInternalServerError, "Failed to create payment")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func paymentFilter(r *http.Request) payments.Filter {
	q := r.URL.Query()
	return payments.Filter{
		OrderID:    q.Get("order_id"),
		CustomerID: q.Get("customer_id"),
		Status:     payments.Status(q.Get("status")),
		Method:     payments.MethodType(q.Get("payment_method")),
		Provider:   payments.Provider(q.Get("provider")),
		Currency:   q.Get("currency"),
	}
}

func (s *Server) writePaymentPage(w http.ResponseWriter, r *http.Request, filter payments.Filter) {
	skip, limit, ok := pageParamsWith(r, paymentPageLimit, maxPageLimit)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid skip or limit")
		return
	}
	list, total, err := s.repos.Payments.List(filter, skip, limit)
	if err != nil {
		log.Err(err).Msg("failed to list payments")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}
	writeJSON(w, http.StatusOK, payments.NewPage(list, total, skip, limit))
}

func (s *Server) ListPaymentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writePaymentPage(w, r, paymentFilter(r))
	}
}

func (s *Server) ListCustomerPaymentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := paymentFilter(r)
		filter.CustomerID = chi.URLParam(r, "customer_id")
		s.writePaymentPage(w, r, filter)
	}
}

// ListOrderPaymentsHandler returns every payment for the order as a plain list
func (s *Server) ListOrderPaymentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, _, err := s.repos.Payments.List(payments.Filter{OrderID: chi.URLParam(r, "order_id")}, 0, 0)
		if err != nil {
			log.Err(err).Msg("failed to list order payments")
			writeDetail(w, http.StatusInternalServerError, "Failed to retrieve payments")
			return
		}
		out := make([]payments.Payment, 0, len(list))
		for _, p := range list {
			out = append(out, *p)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) GetPaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.repos.Payments.GetByID(chi.URLParam(r, "payment_id"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Payment not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) changePayment(w http.ResponseWriter, id string, change func(*payments.Payment)) (*payments.Payment, bool) {
	existing, err := s.repos.Payments.GetByID(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Payment not found")
		return nil, false
	}
	updated := *existing
	change(&updated)
	if err := s.repos.Payments.Update(&updated); err != nil {
		writeDetail(w, http.StatusNotFound, "Payment not found")
		return nil, false
	}
	return &updated, true
}

func (s *Server) UpdatePaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in payments.UpdateRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if p, ok := s.changePayment(w, chi.URLParam(r, "payment_id"), in.Apply); ok {
			writeJSON(w, http.StatusOK, p)
		}
	}
}

func applyStatus(p *payments.Payment, change payments.StatusChange) {
	p.Status = change.Status
	if change.ProviderPaymentID != "" {
		p.ProviderPaymentID = change.ProviderPaymentID
	}
	if change.FailureReason != "" {
		p.FailureReason = change.FailureReason
	}
	if change.FailureCode != "" {
		p.FailureCode = change.FailureCode
	}
	if change.Status == payments.StatusCompleted {
		p.ProcessedAt = timestamp.Naive(time.Now())
	}
}

// UpdatePaymentStatusHandler reads the status and provider detail from the
// query string
func (s *Server) UpdatePaymentStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		change := payments.StatusChange{
			Status:            payments.Status(q.Get("status")),
			ProviderPaymentID: q.Get("provider_payment_id"),
			FailureReason:     q.Get("failure_reason"),
			FailureCode:       q.Get("failure_code"),
		}
		if !change.Status.Valid() {
			writeDetail(w, http.StatusUnprocessableEntity, "unknown payment status")
			return
		}
		apply := func(p *payments.Payment) { applyStatus(p, change) }
		if _, ok := s.changePayment(w, chi.URLParam(r, "payment_id"), apply); ok {
			writeMessage(w, "Payment status updated to "+string(change.Status))
		}
	}
}

func (s *Server) ProcessPaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in payments.ProcessRequest
		if err := decodeJSON(r, &in); err != nil || in.ProviderPaymentID == "" {
			writeDetail(w, http.StatusUnprocessableEntity, "provider_payment_id is required")
			return
		}
		process := func(p *payments.Payment) {
			applyStatus(p, payments.StatusChange{Status: payments.StatusCompleted, ProviderPaymentID: in.ProviderPaymentID})
			if in.ProviderFeeAmount != nil {
				p.ProviderFeeAmount = in.ProviderFeeAmount
			}
		}
		if _, ok := s.changePayment(w, chi.URLParam(r, "payment_id"), process); ok {
			writeMessage(w, "Payment processed successfully")
		}
	}
}

// CreateRefundHandler records a completed refund and moves the payment to
// refunded or partially refunded
func (s *Server) CreateRefundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in payments.RefundRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := in.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		p, err := s.repos.Payments.GetByID(in.PaymentID)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Payment not found")
			return
		}
		refund, status := in.Refund(p)
		if err := s.repos.Payments.CreateRefund(refund); err != nil {
			log.Err(err).Str("payment_id", p.ID).Msg("failed to create refund")
			writeDetail(w, http.StatusInternalServerError, "Failed to create refund")
			return
		}
		if _, ok := s.changePayment(w, p.ID, func(p *payments.Payment) { p.Status = status }); ok {
			writeJSON(w, http.StatusOK, refund)
		}
	}
}

func (s *Server) GetRefundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refund, err := s.repos.Payments.GetRefund(chi.URLParam(r, "refund_id"))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Refund not found")
			return
		}
		writeJSON(w, http.StatusOK, refund)
	}
}

func (s *Server) ListPaymentRefundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Payments.RefundsFor(chi.URLParam(r, "payment_id"))
		if err != nil {
			log.Err(err).Msg("failed to list refunds")
			writeDetail(w, http.StatusInternalServerError, "Failed to retrieve refunds")
			return
		}
		out := make([]payments.Refund, 0, len(list))
		for _, refund := range list {
			out = append(out, *refund)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) CurrenciesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, payments.Currencies)
	}
}
