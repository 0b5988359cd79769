package server

import (
	"github.com/jrsteele09/go-session-client/customers"
	fakecustomerrepo "github.com/jrsteele09/go-session-client/customers/repofake"
	"github.com/jrsteele09/go-session-client/files"
	fakefilerepo "github.com/jrsteele09/go-session-client/files/repofake"
	"github.com/jrsteele09/go-session-client/orders"
	fakeorderrepo "github.com/jrsteele09/go-session-client/orders/repofake"
	"github.com/jrsteele09/go-session-client/payments"
	fakepaymentrepo "github.com/jrsteele09/go-session-client/payments/repofake"
	"github.com/jrsteele09/go-session-client/products"
	fakeproductrepo "github.com/jrsteele09/go-session-client/products/repofake"
	"github.com/jrsteele09/go-session-client/storage/memstore"
	"github.com/jrsteele09/go-session-client/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-session-client/token/refresh/repofake"
	"github.com/jrsteele09/go-session-client/users"
	fakeuserrepo "github.com/jrsteele09/go-session-client/users/repofake"
)

// Repos holds the storage the backend runs on. Users and RefreshTokens are
// required; a resource API is only mounted when its repo is set.
type Repos struct {
	Users         users.Repo
	RefreshTokens refresh.Repo
	Customers     customers.Repo
	Orders        orders.Repo
	Products      products.Repo
	Payments      payments.Repo
	Files         files.Repo
}

// InMemoryRepos returns every repo backed by process memory
func InMemoryRepos() Repos {
	return Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
		Customers:     fakecustomerrepo.NewFakeCustomerRepo(),
		Orders:        fakeorderrepo.NewFakeOrderRepo(),
		Products:      fakeproductrepo.NewFakeProductRepo(),
		Payments:      fakepaymentrepo.NewFakePaymentRepo(),
		Files:         fakefilerepo.NewFakeFileRepo(memstore.New()),
	}
}
