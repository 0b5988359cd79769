package fakeorderrepo

import (
	"time"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/internal/memtable"
	"github.com/jrsteele09/go-session-client/orders"
	"github.com/jrsteele09/go-session-client/timestamp"
)

var _ orders.Repo = (*FakeOrderRepo)(nil)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type FakeOrderRepo struct {
	table *memtable.Table[string, *orders.Order]
}

func NewFakeOrderRepo() orders.Repo {
	return &FakeOrderRepo{table: memtable.New[string, *orders.Order]()}
}

func (r *FakeOrderRepo) Create(o *orders.Order) error {
	now := timestamp.Naive(NowTimeFunc())
	o.ID = memtable.NewObjectID()
	o.CreatedAt = now
	o.UpdatedAt = now
	if !r.table.Insert(o.ID, o) {
		return errors.ErrConflict
	}
	return nil
}

func (r *FakeOrderRepo) Update(o *orders.Order) error {
	o.UpdatedAt = timestamp.Naive(NowTimeFunc())
	if !r.table.Put(o.ID, o) {
		return errors.ErrNotFound
	}
	return nil
}

func (r *FakeOrderRepo) Delete(id string) error {
	if !r.table.Delete(id) {
		return errors.ErrNotFound
	}
	return nil
}

func (r *FakeOrderRepo) GetByID(id string) (*orders.Order, error) {
	o, ok := r.table.Get(id)
	if !ok {
		return nil, errors.ErrNotFound
	}
	return o, nil
}

func (r *FakeOrderRepo) List(filter orders.Filter, offset, limit int) ([]*orders.Order, int, error) {
	list := r.table.Filter(filter.Matches)
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return memtable.Page(list, offset, limit), len(list), nil
}
