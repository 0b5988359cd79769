package files

// Repo stores file metadata and contents. Every lookup is scoped to the
// owning user; another user's file is reported as errors.ErrNotFound.
type Repo interface {
	Create(f *File, content []byte) error
	Get(id, userID int64) (*File, error)
	Content(id, userID int64) ([]byte, error)
	Delete(id, userID int64) error
	// List returns the user's files, optionally of one type
	List(userID int64, fileType Type) ([]*File, error)
}
