package fakeuserrepo

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/timestamp"
	"github.com/jrsteele09/go-session-client/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type FakeUserRepo struct {
	users    map[int64]*users.User
	emailIds map[string]int64 // email to user id
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeUserRepo() users.Repo {
	return &FakeUserRepo{
		users:    make(map[int64]*users.User),
		emailIds: make(map[string]int64),
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (ur *FakeUserRepo) Create(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := normaliseEmail(user.Email)
	if _, ok := ur.emailIds[email]; ok {
		return errors.ErrUserExists
	}

	ur.nextID++
	// Stored the way the backend's database does, without a zone
	now := timestamp.Naive(NowTimeFunc())
	user.ID = ur.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	ur.users[user.ID] = user
	ur.emailIds[email] = user.ID
	return nil
}

func (ur *FakeUserRepo) Update(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return errors.ErrUserNotFound
	}
	oldEmail := normaliseEmail(existing.Email)
	newEmail := normaliseEmail(user.Email)
	if oldEmail != newEmail {
		if _, taken := ur.emailIds[newEmail]; taken {
			return errors.ErrUserExists
		}
		delete(ur.emailIds, oldEmail)
		ur.emailIds[newEmail] = user.ID
	}
	user.UpdatedAt = timestamp.Naive(NowTimeFunc())
	ur.users[user.ID] = user
	return nil
}

func (ur *FakeUserRepo) Delete(id int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return errors.ErrUserNotFound
	}
	delete(ur.emailIds, normaliseEmail(user.Email))
	delete(ur.users, id)
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[normaliseEmail(email)]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return ur.users[id], nil
}

func (ur *FakeUserRepo) GetByID(id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

func (ur *FakeUserRepo) List(offset, limit int) ([]*users.User, error) {
	return ur.list(func(*users.User) bool { return true }, offset, limit), nil
}

func (ur *FakeUserRepo) ListByRole(role users.RoleType, offset, limit int) ([]*users.User, error) {
	return ur.list(func(u *users.User) bool { return u.Role == role }, offset, limit), nil
}

func (ur *FakeUserRepo) list(keep func(*users.User) bool, offset, limit int) []*users.User {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0)
	for _, v := range ur.users {
		if keep(v) {
			userList = append(userList, v)
		}
	}

	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(userList) {
		return []*users.User{}
	}
	end := len(userList)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return userList[offset:end]
}
