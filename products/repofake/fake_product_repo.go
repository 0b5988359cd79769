package fakeproductrepo

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/internal/memtable"
	"github.com/jrsteele09/go-session-client/products"
	"github.com/jrsteele09/go-session-client/timestamp"
)

var _ products.Repo = (*FakeProductRepo)(nil)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type FakeProductRepo struct {
	table *memtable.Table[string, *products.Product]
	lock  sync.Mutex // serialises the SKU check with inserts
}

func NewFakeProductRepo() products.Repo {
	return &FakeProductRepo{table: memtable.New[string, *products.Product]()}
}

func (r *FakeProductRepo) Create(p *products.Product) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, err := r.GetBySKU(p.SKU); err == nil {
		return errors.ErrConflict
	}
	now := timestamp.Naive(NowTimeFunc())
	p.ID = memtable.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if !r.table.Insert(p.ID, p) {
		return errors.ErrConflict
	}
	return nil
}

func (r *FakeProductRepo) Update(p *products.Product) error {
	p.UpdatedAt = timestamp.Naive(NowTimeFunc())
	if !r.table.Put(p.ID, p) {
		return errors.ErrNotFound
	}
	return nil
}

func (r *FakeProductRepo) Delete(id string) error {
	if !r.table.Delete(id) {
		return errors.ErrNotFound
	}
	return nil
}

func (r *FakeProductRepo) GetByID(id string) (*products.Product, error) {
	p, ok := r.table.Get(id)
	if !ok {
		return nil, errors.ErrNotFound
	}
	return p, nil
}

func (r *FakeProductRepo) GetBySKU(sku string) (*products.Product, error) {
	p, ok := r.table.Find(func(p *products.Product) bool { return p.SKU == sku })
	if !ok {
		return nil, errors.ErrNotFound
	}
	return p, nil
}

func (r *FakeProductRepo) List(search *products.Search, offset, limit int) ([]*products.Product, int, error) {
	if search == nil {
		search = &products.Search{}
	}
	list := r.table.Filter(search.Matches)
	search.Sort(list)
	return memtable.Page(list, offset, limit), len(list), nil
}
