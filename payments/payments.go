// Package payments holds payments taken against orders and their refunds
package payments

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-session-client/timestamp"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusProcessing        Status = "processing"
	StatusCompleted         Status = "completed"
	StatusFailed            Status = "failed"
	StatusCancelled         Status = "cancelled"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
	StatusDisputed          Status = "disputed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled,
		StatusRefunded, StatusPartiallyRefunded, StatusDisputed:
		return true
	}
	return false
}

type MethodType string

const (
	MethodCreditCard    MethodType = "credit_card"
	MethodDebitCard     MethodType = "debit_card"
	MethodBankTransfer  MethodType = "bank_transfer"
	MethodDigitalWallet MethodType = "digital_wallet"
	MethodCrypto        MethodType = "cryptocurrency"
	MethodCash          MethodType = "cash"
	MethodCheck         MethodType = "check"
	MethodOther         MethodType = "other"
)

func (m MethodType) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodBankTransfer, MethodDigitalWallet,
		MethodCrypto, MethodCash, MethodCheck, MethodOther:
		return true
	}
	return false
}

type Provider string

const (
	ProviderStripe    Provider = "stripe"
	ProviderPayPal    Provider = "paypal"
	ProviderSquare    Provider = "square"
	ProviderBraintree Provider = "braintree"
	ProviderAdyen     Provider = "adyen"
	ProviderRazorpay  Provider = "razorpay"
	ProviderCustom    Provider = "custom"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderStripe, ProviderPayPal, ProviderSquare, ProviderBraintree, ProviderAdyen, ProviderRazorpay, ProviderCustom:
		return true
	}
	return false
}

// Currencies lists the accepted ISO currency codes
var Currencies = []string{"USD", "EUR", "GBP", "CAD", "AUD", "JPY", "INR", "CNY", "BRL", "MXN"}

func ValidCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}

type MethodDetails struct {
	MethodType  MethodType `json:"method_type"`
	Provider    Provider   `json:"provider"`
	AccountID   string     `json:"account_id,omitempty"`
	LastFour    string     `json:"last_four,omitempty"`
	ExpiryMonth int        `json:"expiry_month,omitempty"`
	ExpiryYear  int        `json:"expiry_year,omitempty"`
	CardBrand   string     `json:"card_brand,omitempty"`
	BankName    string     `json:"bank_name,omitempty"`
	WalletType  string     `json:"wallet_type,omitempty"`
}

type Payment struct {
	ID                   string         `json:"id"`
	OrderID              string         `json:"order_id"`
	CustomerID           string         `json:"customer_id"`
	Amount               float64        `json:"amount"`
	Currency             string         `json:"currency"`
	PaymentMethod        MethodDetails  `json:"payment_method"`
	Status               Status         `json:"status"`
	Description          string         `json:"description,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	CaptureMethod        string         `json:"capture_method"`
	ReceiptEmail         string         `json:"receipt_email,omitempty"`
	ApplicationFeeAmount *float64       `json:"application_fee_amount,omitempty"`
	ProviderPaymentID    string         `json:"provider_payment_id,omitempty"`
	ProviderFeeAmount    *float64       `json:"provider_fee_amount,omitempty"`
	NetAmount            float64        `json:"net_amount"`
	FailureReason        string         `json:"failure_reason,omitempty"`
	FailureCode          string         `json:"failure_code,omitempty"`
	CreatedAt            timestamp.Time `json:"created_at"`
	UpdatedAt            timestamp.Time `json:"updated_at"`
	ProcessedAt          timestamp.Time `json:"processed_at"`
}

func (p *Payment) net() {
	net := decimal.NewFromFloat(p.Amount)
	if p.ApplicationFeeAmount != nil {
		net = net.Sub(decimal.NewFromFloat(*p.ApplicationFeeAmount))
	}
	p.NetAmount = net.Round(2).InexactFloat64()
}

type CreateRequest struct {
	OrderID              string         `json:"order_id"`
	CustomerID           string         `json:"customer_id"`
	Amount               float64        `json:"amount"`
	Currency             string         `json:"currency"`
	PaymentMethod        MethodDetails  `json:"payment_method"`
	Description          string         `json:"description,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	CaptureMethod        string         `json:"capture_method,omitempty"`
	ReceiptEmail         string         `json:"receipt_email,omitempty"`
	ApplicationFeeAmount *float64       `json:"application_fee_amount,omitempty"`
}

func (r *CreateRequest) Validate() error {
	if r.OrderID == "" || r.CustomerID == "" {
		return fmt.Errorf("order_id and customer_id are required")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	if !ValidCurrency(r.Currency) {
		return fmt.Errorf("unsupported currency %q", r.Currency)
	}
	if !r.PaymentMethod.MethodType.Valid() || !r.PaymentMethod.Provider.Valid() {
		return fmt.Errorf("payment_method needs a known method_type and provider")
	}
	if len(r.Description) > 500 {
		return fmt.Errorf("description must be at most 500 characters")
	}
	if r.ApplicationFeeAmount != nil && *r.ApplicationFeeAmount < 0 {
		return fmt.Errorf("application_fee_amount must not be negative")
	}
	return nil
}

// Payment builds a pending payment from the request
func (r *CreateRequest) Payment() *Payment {
	p := &Payment{
		OrderID:              r.OrderID,
		CustomerID:           r.CustomerID,
		Amount:               r.Amount,
		Currency:             r.Currency,
		PaymentMethod:        r.PaymentMethod,
		Status:               StatusPending,
		Description:          r.Description,
		Metadata:             r.Metadata,
		CaptureMethod:        r.CaptureMethod,
		ReceiptEmail:         r.ReceiptEmail,
		ApplicationFeeAmount: r.ApplicationFeeAmount,
	}
	if p.CaptureMethod == "" {
		p.CaptureMethod = "automatic"
	}
	p.net()
	return p
}

// UpdateRequest changes the descriptive fields of a payment
type UpdateRequest struct {
	Description          *string        `json:"description,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	ReceiptEmail         *string        `json:"receipt_email,omitempty"`
	ApplicationFeeAmount *float64       `json:"application_fee_amount,omitempty"`
}

func (r *UpdateRequest) Apply(p *Payment) {
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Metadata != nil {
		p.Metadata = r.Metadata
	}
	if r.ReceiptEmail != nil {
		p.ReceiptEmail = *r.ReceiptEmail
	}
	if r.ApplicationFeeAmount != nil {
		p.ApplicationFeeAmount = r.ApplicationFeeAmount
		p.net()
	}
}

// StatusChange moves a payment to a new status with optional provider detail
type StatusChange struct {
	Status            Status
	ProviderPaymentID string
	FailureReason     string
	FailureCode       string
}

// ProcessRequest marks a payment completed by the provider
type ProcessRequest struct {
	ProviderPaymentID string   `json:"provider_payment_id"`
	ProviderFeeAmount *float64 `json:"provider_fee_amount,omitempty"`
}

// Filter narrows a payment listing. Empty fields match everything.
type Filter struct {
	OrderID    string
	CustomerID string
	Status     Status
	Method     MethodType
	Provider   Provider
	Currency   string
}

func (f Filter) Matches(p *Payment) bool {
	return (f.OrderID == "" || p.OrderID == f.OrderID) &&
		(f.CustomerID == "" || p.CustomerID == f.CustomerID) &&
		(f.Status == "" || p.Status == f.Status) &&
		(f.Method == "" || p.PaymentMethod.MethodType == f.Method) &&
		(f.Provider == "" || p.PaymentMethod.Provider == f.Provider) &&
		(f.Currency == "" || p.Currency == f.Currency)
}

type Page struct {
	Payments []Payment `json:"payments"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
}

func NewPage(list []*Payment, total, skip, limit int) *Page {
	p := &Page{Payments: make([]Payment, 0, len(list)), Total: total, Size: limit}
	for _, pay := range list {
		p.Payments = append(p.Payments, *pay)
	}
	if limit > 0 {
		p.Page = skip/limit + 1
	}
	return p
}

type Refund struct {
	ID               string         `json:"id"`
	PaymentID        string         `json:"payment_id"`
	Amount           float64        `json:"amount"`
	Currency         string         `json:"currency"`
	Status           Status         `json:"status"`
	Reason           string         `json:"reason,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	ProviderRefundID string         `json:"provider_refund_id,omitempty"`
	CreatedAt        timestamp.Time `json:"created_at"`
	UpdatedAt        timestamp.Time `json:"updated_at"`
	ProcessedAt      timestamp.Time `json:"processed_at"`
}

// RefundRequest refunds part or, when Amount is nil, all of a payment
type RefundRequest struct {
	PaymentID string         `json:"payment_id"`
	Amount    *float64       `json:"amount,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (r *RefundRequest) Validate() error {
	if r.PaymentID == "" {
		return fmt.Errorf("payment_id is required")
	}
	if r.Amount != nil && *r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

// Refund builds a completed refund against p. The payment becomes
// refunded or partially refunded depending on the amount.
func (r *RefundRequest) Refund(p *Payment) (*Refund, Status) {
	amount := p.Amount
	if r.Amount != nil {
		amount = *r.Amount
	}
	status := StatusPartiallyRefunded
	if decimal.NewFromFloat(amount).GreaterThanOrEqual(decimal.NewFromFloat(p.Amount)) {
		status = StatusRefunded
	}
	return &Refund{
		PaymentID: p.ID,
		Amount:    amount,
		Currency:  p.Currency,
		Status:    StatusCompleted,
		Reason:    r.Reason,
		Metadata:  r.Metadata,
	}, status
}

func newID(prefix string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// NewPaymentID returns an identifier such as PAY_1A2B3C4D
func NewPaymentID() string { return newID("PAY_") }

// NewRefundID returns an identifier such as REF_1A2B3C4D
func NewRefundID() string { return newID("REF_") }
