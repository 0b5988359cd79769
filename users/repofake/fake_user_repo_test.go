package fakeuserrepo_test

import (
	"testing"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/users"
	fakeuserrepo "github.com/jrsteele09/go-session-client/users/repofake"
	"github.com/stretchr/testify/require"
)

func newUser(email string, role users.RoleType) *users.User {
	return &users.User{Record: users.Record{Name: email, Email: email, Role: role, IsActive: true}}
}

func TestFakeUserRepo_CreateAssignsIDs(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	a := newUser("a@b.com", users.RoleAdmin)
	b := newUser("b@b.com", users.RoleUser)
	require.NoError(t, repo.Create(a))
	require.NoError(t, repo.Create(b))
	require.Equal(t, int64(1), a.ID)
	require.Equal(t, int64(2), b.ID)
	require.False(t, a.CreatedAt.IsZero())
	require.True(t, a.CreatedAt.IsNaive(), "stored timestamps carry no zone")

	err := repo.Create(newUser("A@B.com", users.RoleUser))
	require.ErrorIs(t, err, errors.ErrUserExists)
}

func TestFakeUserRepo_Lookup(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	u := newUser("a@b.com", users.RoleTenant)
	require.NoError(t, repo.Create(u))

	got, err := repo.GetByEmail(" A@b.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	got, err = repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", got.Email)

	_, err = repo.GetByID(99)
	require.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestFakeUserRepo_ListPaging(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	for _, e := range []string{"1@x.com", "2@x.com", "3@x.com", "4@x.com"} {
		require.NoError(t, repo.Create(newUser(e, users.RoleUser)))
	}
	require.NoError(t, repo.Create(newUser("admin@x.com", users.RoleAdmin)))

	all, err := repo.List(0, 100)
	require.NoError(t, err)
	require.Len(t, all, 5)

	page, err := repo.List(1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, int64(2), page[0].ID)

	empty, err := repo.List(10, 2)
	require.NoError(t, err)
	require.Empty(t, empty)

	admins, err := repo.ListByRole(users.RoleAdmin, 0, 100)
	require.NoError(t, err)
	require.Len(t, admins, 1)
}

func TestFakeUserRepo_UpdateAndDelete(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	u := newUser("a@b.com", users.RoleUser)
	require.NoError(t, repo.Create(u))

	u.Role = users.RoleAdmin
	require.NoError(t, repo.Update(u))
	got, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.True(t, got.IsAdmin())

	require.NoError(t, repo.Delete(u.ID))
	require.ErrorIs(t, repo.Delete(u.ID), errors.ErrUserNotFound)
	_, err = repo.GetByEmail("a@b.com")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
}
