package refresh

import (
	"time"
)

// StoredRefreshToken is the backend-side record of an issued refresh token.
// The client only ever sees Token.
type StoredRefreshToken struct {
	Token  string    // random hex string sent to the client
	UserID int64     // owner
	Iat    time.Time // issued at
}

// Repo manages backend storage of refresh tokens keyed by the token string
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID int64) (*StoredRefreshToken, error)
}
