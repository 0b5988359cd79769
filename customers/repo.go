package customers

// Repo stores customers. Lookups return errors.ErrNotFound for unknown
// customers; Create and Update return errors.ErrConflict for a taken email.
type Repo interface {
	Create(c *Customer) error
	Update(c *Customer) error
	Delete(customerID string) error
	GetByCustomerID(customerID string) (*Customer, error)
	GetByUsername(username string) (*Customer, error)
	GetByEmail(email string) (*Customer, error)
	// List returns the matching page and the total number of matches
	List(search *Search, offset, limit int) ([]*Customer, int, error)
}
