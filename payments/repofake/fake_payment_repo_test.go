package fakepaymentrepo_test

import (
	"testing"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/payments"
	fakepaymentrepo "github.com/jrsteele09/go-session-client/payments/repofake"
	"github.com/stretchr/testify/require"
)

func newPayment(orderID string) *payments.Payment {
	return &payments.Payment{OrderID: orderID, CustomerID: "CUST_1", Amount: 10, Currency: "USD", Status: payments.StatusPending}
}

func TestFakePaymentRepo_Payments(t *testing.T) {
	repo := fakepaymentrepo.NewFakePaymentRepo()
	first, second := newPayment("order-1"), newPayment("order-2")
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	require.Regexp(t, `^PAY_`, first.ID)
	require.True(t, first.CreatedAt.IsNaive())

	list, total, err := repo.List(payments.Filter{CustomerID: "CUST_1"}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, second.ID, list[0].ID, "newest first")

	updated := *first
	updated.Status = payments.StatusCompleted
	require.NoError(t, repo.Update(&updated))
	list, total, err = repo.List(payments.Filter{Status: payments.StatusCompleted}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, first.ID, list[0].ID)

	_, err = repo.GetByID("PAY_MISSING")
	require.ErrorIs(t, err, errors.ErrNotFound)
	missing := newPayment("order-3")
	missing.ID = "PAY_MISSING"
	require.ErrorIs(t, repo.Update(missing), errors.ErrNotFound)
}

func TestFakePaymentRepo_Refunds(t *testing.T) {
	repo := fakepaymentrepo.NewFakePaymentRepo()
	p := newPayment("order-1")
	require.NoError(t, repo.Create(p))

	a := &payments.Refund{PaymentID: p.ID, Amount: 4}
	b := &payments.Refund{PaymentID: p.ID, Amount: 6}
	require.NoError(t, repo.CreateRefund(a))
	require.NoError(t, repo.CreateRefund(b))
	require.NoError(t, repo.CreateRefund(&payments.Refund{PaymentID: "PAY_OTHER", Amount: 1}))
	require.Regexp(t, `^REF_`, a.ID)
	require.False(t, a.ProcessedAt.IsZero())

	got, err := repo.GetRefund(b.ID)
	require.NoError(t, err)
	require.Equal(t, 6.0, got.Amount)

	refunds, err := repo.RefundsFor(p.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 2)
	require.Equal(t, a.ID, refunds[0].ID)

	_, err = repo.GetRefund("REF_MISSING")
	require.ErrorIs(t, err, errors.ErrNotFound)
}
