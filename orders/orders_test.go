package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validRequest() *CreateRequest {
	return &CreateRequest{
		CustomerID:      "CUST_1",
		CustomerName:    "Ada Lovelace",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "1 Analytical Way",
		Items: []Item{
			{ProductID: "p1", ProductName: "Gear", Quantity: 3, UnitPrice: 3.33, TotalPrice: 9.99},
			{ProductID: "p2", ProductName: "Lever", Quantity: 1, UnitPrice: 0.02, TotalPrice: 0.02},
		},
	}
}

func TestCreateRequest_Order(t *testing.T) {
	req := validRequest()
	require.NoError(t, req.Validate())

	o := req.Order()
	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, 10.01, o.Subtotal)
	require.Equal(t, 1.0, o.Tax)
	require.Equal(t, ShippingCost, o.ShippingCost)
	require.Equal(t, 21.01, o.TotalAmount)

	o.Items[0].TotalPrice = 0
	require.Equal(t, 9.99, req.Items[0].TotalPrice, "order items are copied")
}

func TestTotal_SumsInCents(t *testing.T) {
	o := &Order{Items: []Item{{TotalPrice: 0.1}, {TotalPrice: 0.2}}}
	o.Total()
	require.Equal(t, 0.3, o.Subtotal)
	require.Equal(t, 0.03, o.Tax)
	require.Equal(t, 10.33, o.TotalAmount)

	o = &Order{Items: []Item{{TotalPrice: 99.99}}}
	o.Total()
	require.Equal(t, 10.0, o.Tax)
	require.Equal(t, 119.99, o.TotalAmount)
}

func TestCreateRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CreateRequest)
	}{
		{"missing customer", func(r *CreateRequest) { r.CustomerID = "" }},
		{"missing address", func(r *CreateRequest) { r.ShippingAddress = "" }},
		{"no items", func(r *CreateRequest) { r.Items = nil }},
		{"unnamed item", func(r *CreateRequest) { r.Items[1].ProductName = "" }},
		{"zero quantity", func(r *CreateRequest) { r.Items[0].Quantity = 0 }},
		{"negative price", func(r *CreateRequest) { r.Items[0].UnitPrice = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(req)
			require.Error(t, req.Validate())
		})
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Shipped ")
	require.NoError(t, err)
	require.Equal(t, StatusShipped, st)

	_, err = ParseStatus("lost")
	require.Error(t, err)
}

func TestUpdateRequest(t *testing.T) {
	bad := Status("lost")
	require.Error(t, (&UpdateRequest{Status: &bad}).Validate())

	o := validRequest().Order()
	st := StatusConfirmed
	notes := "leave at door"
	r := &UpdateRequest{Status: &st, Notes: &notes}
	require.NoError(t, r.Validate())
	r.Apply(o)
	require.Equal(t, StatusConfirmed, o.Status)
	require.Equal(t, "leave at door", o.Notes)
	require.Equal(t, "1 Analytical Way", o.ShippingAddress)
}

func TestFilterAndPage(t *testing.T) {
	o := &Order{CustomerID: "CUST_1", Status: StatusShipped}
	require.True(t, Filter{}.Matches(o))
	require.True(t, Filter{CustomerID: "CUST_1", Status: StatusShipped}.Matches(o))
	require.False(t, Filter{Status: StatusPending}.Matches(o))

	p := NewPage([]*Order{o}, 11, 10, 10)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 10, p.Size)
	require.Len(t, p.Orders, 1)
}
