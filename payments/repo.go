package payments

// Repo stores payments and refunds. Unknown ids return errors.ErrNotFound.
type Repo interface {
	Create(p *Payment) error
	Update(p *Payment) error
	GetByID(id string) (*Payment, error)
	// List returns the matching page, newest first, and the total number
	// of matches
	List(filter Filter, offset, limit int) ([]*Payment, int, error)

	CreateRefund(r *Refund) error
	GetRefund(id string) (*Refund, error)
	RefundsFor(paymentID string) ([]*Refund, error)
}
