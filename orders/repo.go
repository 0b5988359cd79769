package orders

// Repo stores orders. Unknown ids return errors.ErrNotFound.
type Repo interface {
	Create(o *Order) error
	Update(o *Order) error
	Delete(id string) error
	GetByID(id string) (*Order, error)
	// List returns the matching page, newest first, and the total number
	// of matches
	List(filter Filter, offset, limit int) ([]*Order, int, error)
}
