package users

// Repo stores backend accounts. IDs are assigned by the repo on first insert.
type Repo interface {
	Create(user *User) error
	Update(user *User) error
	Delete(id int64) error
	GetByEmail(email string) (*User, error)
	GetByID(id int64) (*User, error)
	List(offset, limit int) ([]*User, error)
	ListByRole(role RoleType, offset, limit int) ([]*User, error)
}
