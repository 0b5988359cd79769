package fakeorderrepo_test

import (
	"testing"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/orders"
	fakeorderrepo "github.com/jrsteele09/go-session-client/orders/repofake"
	"github.com/stretchr/testify/require"
)

func newOrder(customerID string) *orders.Order {
	return &orders.Order{CustomerID: customerID, Status: orders.StatusPending}
}

func TestFakeOrderRepo_CreateAndGet(t *testing.T) {
	repo := fakeorderrepo.NewFakeOrderRepo()
	o := newOrder("CUST_1")
	require.NoError(t, repo.Create(o))
	require.Regexp(t, `^[0-9a-f]{24}$`, o.ID)
	require.True(t, o.CreatedAt.IsNaive(), "order timestamps carry no zone")

	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	require.Equal(t, "CUST_1", got.CustomerID)

	_, err = repo.GetByID("missing")
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestFakeOrderRepo_ListNewestFirst(t *testing.T) {
	repo := fakeorderrepo.NewFakeOrderRepo()
	first, second, third := newOrder("CUST_1"), newOrder("CUST_2"), newOrder("CUST_1")
	for _, o := range []*orders.Order{first, second, third} {
		require.NoError(t, repo.Create(o))
	}

	list, total, err := repo.List(orders.Filter{CustomerID: "CUST_1"}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, third.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	list, total, err = repo.List(orders.Filter{}, 2, 10)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, list, 1)
	require.Equal(t, first.ID, list[0].ID)
}

func TestFakeOrderRepo_UpdateDelete(t *testing.T) {
	repo := fakeorderrepo.NewFakeOrderRepo()
	o := newOrder("CUST_1")
	require.NoError(t, repo.Create(o))

	updated := *o
	updated.Status = orders.StatusShipped
	require.NoError(t, repo.Update(&updated))
	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	require.Equal(t, orders.StatusShipped, got.Status)

	require.NoError(t, repo.Delete(o.ID))
	require.ErrorIs(t, repo.Delete(o.ID), errors.ErrNotFound)
	require.ErrorIs(t, repo.Update(&updated), errors.ErrNotFound)
}
