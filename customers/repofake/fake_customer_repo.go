package fakecustomerrepo

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-session-client/customers"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/internal/memtable"
	"github.com/jrsteele09/go-session-client/timestamp"
)

var _ customers.Repo = (*FakeCustomerRepo)(nil)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type FakeCustomerRepo struct {
	table  *memtable.Table[string, *customers.Customer] // keyed by customer_id
	nextID int64
	lock   sync.Mutex // serialises uniqueness checks with writes
}

func NewFakeCustomerRepo() customers.Repo {
	return &FakeCustomerRepo{table: memtable.New[string, *customers.Customer]()}
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (r *FakeCustomerRepo) emailTaken(email, exceptID string) bool {
	_, ok := r.table.Find(func(c *customers.Customer) bool {
		return c.CustomerID != exceptID && sameEmail(c.Email, email)
	})
	return ok
}

func (r *FakeCustomerRepo) usernameTaken(username string) bool {
	_, ok := r.table.Find(func(c *customers.Customer) bool { return c.Username == username })
	return ok
}

// uniqueUsername appends 01..99 to the base until it is free, then falls
// back to a random suffix
func (r *FakeCustomerRepo) uniqueUsername(first, last string) string {
	base := customers.BaseUsername(first, last)
	if !r.usernameTaken(base) {
		return base
	}
	for n := 1; n <= 99; n++ {
		candidate := fmt.Sprintf("%s%02d", base, n)
		if !r.usernameTaken(candidate) {
			return candidate
		}
	}
	return base + strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}

func (r *FakeCustomerRepo) Create(c *customers.Customer) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.emailTaken(c.Email, "") {
		return errors.ErrConflict
	}
	r.nextID++
	now := timestamp.New(NowTimeFunc().UTC())
	c.ID = r.nextID
	c.CustomerID = customers.NewCustomerID()
	c.Username = r.uniqueUsername(c.FirstName, c.LastName)
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Derive()
	if !r.table.Insert(c.CustomerID, c) {
		return errors.ErrConflict
	}
	return nil
}

func (r *FakeCustomerRepo) Update(c *customers.Customer) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.emailTaken(c.Email, c.CustomerID) {
		return errors.ErrConflict
	}
	c.UpdatedAt = timestamp.New(NowTimeFunc().UTC())
	c.Derive()
	if !r.table.Put(c.CustomerID, c) {
		return errors.ErrNotFound
	}
	return nil
}

func (r *FakeCustomerRepo) Delete(customerID string) error {
	if !r.table.Delete(customerID) {
		return errors.ErrNotFound
	}
	return nil
}

func (r *FakeCustomerRepo) GetByCustomerID(customerID string) (*customers.Customer, error) {
	c, ok := r.table.Get(customerID)
	if !ok {
		return nil, errors.ErrNotFound
	}
	return c, nil
}

func (r *FakeCustomerRepo) GetByUsername(username string) (*customers.Customer, error) {
	return r.find(func(c *customers.Customer) bool { return c.Username == username })
}

func (r *FakeCustomerRepo) GetByEmail(email string) (*customers.Customer, error) {
	return r.find(func(c *customers.Customer) bool { return sameEmail(c.Email, email) })
}

func (r *FakeCustomerRepo) find(keep func(*customers.Customer) bool) (*customers.Customer, error) {
	c, ok := r.table.Find(keep)
	if !ok {
		return nil, errors.ErrNotFound
	}
	return c, nil
}

func (r *FakeCustomerRepo) List(search *customers.Search, offset, limit int) ([]*customers.Customer, int, error) {
	if search == nil {
		search = &customers.Search{SortOrder: "asc"}
	}
	list := r.table.Filter(search.Matches)
	search.Sort(list)
	return memtable.Page(list, offset, limit), len(list), nil
}
