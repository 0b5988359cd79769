package fakepaymentrepo

import (
	"time"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/internal/memtable"
	"github.com/jrsteele09/go-session-client/payments"
	"github.com/jrsteele09/go-session-client/timestamp"
)

var _ payments.Repo = (*FakePaymentRepo)(nil)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type FakePaymentRepo struct {
	payments *memtable.Table[string, *payments.Payment]
	refunds  *memtable.Table[string, *payments.Refund]
}

func NewFakePaymentRepo() payments.Repo {
	return &FakePaymentRepo{
		payments: memtable.New[string, *payments.Payment](),
		refunds:  memtable.New[string, *payments.Refund](),
	}
}

func (r *FakePaymentRepo) Create(p *payments.Payment) error {
	now := timestamp.Naive(NowTimeFunc())
	p.ID = payments.NewPaymentID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if !r.payments.Insert(p.ID, p) {
		return errors.ErrConflict
	}
	return nil
}

func (r *FakePaymentRepo) Update(p *payments.Payment) error {
	p.UpdatedAt = timestamp.Naive(NowTimeFunc())
	if !r.payments.Put(p.ID, p) {
		return errors.ErrNotFound
	}
	return nil
}

func (r *FakePaymentRepo) GetByID(id string) (*payments.Payment, error) {
	p, ok := r.payments.Get(id)
	if !ok {
		return nil, errors.ErrNotFound
	}
	return p, nil
}

func (r *FakePaymentRepo) List(filter payments.Filter, offset, limit int) ([]*payments.Payment, int, error) {
	list := r.payments.Filter(filter.Matches)
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return memtable.Page(list, offset, limit), len(list), nil
}

func (r *FakePaymentRepo) CreateRefund(refund *payments.Refund) error {
	now := timestamp.Naive(NowTimeFunc())
	refund.ID = payments.NewRefundID()
	refund.CreatedAt = now
	refund.UpdatedAt = now
	refund.ProcessedAt = now
	if !r.refunds.Insert(refund.ID, refund) {
		return errors.ErrConflict
	}
	return nil
}

func (r *FakePaymentRepo) GetRefund(id string) (*payments.Refund, error) {
	refund, ok := r.refunds.Get(id)
	if !ok {
		return nil, errors.ErrNotFound
	}
	return refund, nil
}

func (r *FakePaymentRepo) RefundsFor(paymentID string) ([]*payments.Refund, error) {
	return r.refunds.Filter(func(refund *payments.Refund) bool { return refund.PaymentID == paymentID }), nil
}
