package products

// Repo stores products. Unknown ids and SKUs return errors.ErrNotFound;
// a taken SKU returns errors.ErrConflict.
type Repo interface {
	Create(p *Product) error
	Update(p *Product) error
	Delete(id string) error
	GetByID(id string) (*Product, error)
	GetBySKU(sku string) (*Product, error)
	// List returns the matching page and the total number of matches
	List(search *Search, offset, limit int) ([]*Product, int, error)
}
