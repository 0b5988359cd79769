package payments

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validPayment() *CreateRequest {
	fee := 1.25
	return &CreateRequest{
		OrderID:              "order-1",
		CustomerID:           "CUST_1",
		Amount:               50,
		Currency:             "GBP",
		PaymentMethod:        MethodDetails{MethodType: MethodCreditCard, Provider: ProviderStripe, LastFour: "4242"},
		ApplicationFeeAmount: &fee,
	}
}

func TestCreateRequest_Payment(t *testing.T) {
	req := validPayment()
	require.NoError(t, req.Validate())

	p := req.Payment()
	require.Equal(t, StatusPending, p.Status)
	require.Equal(t, "automatic", p.CaptureMethod)
	require.Equal(t, 48.75, p.NetAmount)

	req.ApplicationFeeAmount = nil
	req.CaptureMethod = "manual"
	p = req.Payment()
	require.Equal(t, 50.0, p.NetAmount)
	require.Equal(t, "manual", p.CaptureMethod)
}

func TestCreateRequest_Validate(t *testing.T) {
	negative := -1.0
	tests := []struct {
		name   string
		modify func(*CreateRequest)
	}{
		{"missing order", func(r *CreateRequest) { r.OrderID = "" }},
		{"zero amount", func(r *CreateRequest) { r.Amount = 0 }},
		{"unknown currency", func(r *CreateRequest) { r.Currency = "XYZ" }},
		{"unknown method", func(r *CreateRequest) { r.PaymentMethod.MethodType = "barter" }},
		{"unknown provider", func(r *CreateRequest) { r.PaymentMethod.Provider = "acme" }},
		{"negative fee", func(r *CreateRequest) { r.ApplicationFeeAmount = &negative }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validPayment()
			tt.modify(req)
			require.Error(t, req.Validate())
		})
	}
}

func TestUpdateRequest_RecomputesNet(t *testing.T) {
	p := validPayment().Payment()
	fee := 5.0
	desc := "gift"
	(&UpdateRequest{ApplicationFeeAmount: &fee, Description: &desc}).Apply(p)
	require.Equal(t, 45.0, p.NetAmount)
	require.Equal(t, "gift", p.Description)
}

func TestRefundRequest(t *testing.T) {
	p := validPayment().Payment()
	p.ID = "PAY_1"

	require.Error(t, (&RefundRequest{}).Validate())
	zero := 0.0
	require.Error(t, (&RefundRequest{PaymentID: "PAY_1", Amount: &zero}).Validate())

	part := 20.0
	refund, status := (&RefundRequest{PaymentID: "PAY_1", Amount: &part, Reason: "damaged"}).Refund(p)
	require.Equal(t, StatusPartiallyRefunded, status)
	require.Equal(t, 20.0, refund.Amount)
	require.Equal(t, "GBP", refund.Currency)
	require.Equal(t, StatusCompleted, refund.Status)
	require.Equal(t, "PAY_1", refund.PaymentID)

	refund, status = (&RefundRequest{PaymentID: "PAY_1"}).Refund(p)
	require.Equal(t, StatusRefunded, status)
	require.Equal(t, 50.0, refund.Amount)
}

func TestFilter(t *testing.T) {
	p := validPayment().Payment()
	require.True(t, Filter{}.Matches(p))
	require.True(t, Filter{Provider: ProviderStripe, Currency: "GBP", Method: MethodCreditCard}.Matches(p))
	require.False(t, Filter{Status: StatusCompleted}.Matches(p))
	require.False(t, Filter{OrderID: "order-2"}.Matches(p))
}

func TestIDs(t *testing.T) {
	require.Regexp(t, `^PAY_[0-9A-F]{8}$`, NewPaymentID())
	require.Regexp(t, `^REF_[0-9A-F]{8}$`, NewRefundID())
	require.True(t, ValidCurrency("JPY"))
	require.False(t, ValidCurrency("jpy"))
}
