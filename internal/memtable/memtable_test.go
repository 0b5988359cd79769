package memtable_test

import (
	"fmt"
	"testing"

	"github.com/jrsteele09/go-session-client/internal/memtable"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertionOrder(t *testing.T) {
	tbl := memtable.New[string, int]()
	for i, k := range []string{"c", "a", "b"} {
		require.True(t, tbl.Insert(k, i))
	}
	require.False(t, tbl.Insert("a", 9))
	require.Equal(t, []int{0, 1, 2}, tbl.Filter(nil))

	require.True(t, tbl.Put("c", 10))
	require.False(t, tbl.Put("z", 1))
	require.Equal(t, []int{10, 1, 2}, tbl.Filter(nil))

	v, ok := tbl.Find(func(v int) bool { return v < 5 })
	require.True(t, ok)
	require.Equal(t, 1, v)

	require.True(t, tbl.Delete("a"))
	require.False(t, tbl.Delete("a"))
	require.Equal(t, 2, tbl.Len())
}

func TestTable_Update(t *testing.T) {
	tbl := memtable.New[int, string]()
	tbl.Insert(1, "one")

	v, found, err := tbl.Update(1, func(s string) (string, error) { return s + "!", nil })
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "one!", v)

	_, found, err = tbl.Update(1, func(string) (string, error) { return "", fmt.Errorf("nope") })
	require.True(t, found)
	require.Error(t, err)
	got, _ := tbl.Get(1)
	require.Equal(t, "one!", got)

	_, found, _ = tbl.Update(2, func(s string) (string, error) { return s, nil })
	require.False(t, found)
}

func TestPage(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}
	require.Equal(t, []int{2, 3}, memtable.Page(list, 1, 2))
	require.Equal(t, []int{4, 5}, memtable.Page(list, 3, 10))
	require.Equal(t, list, memtable.Page(list, -1, 0))
	require.Empty(t, memtable.Page(list, 5, 1))
}

func TestNewObjectID(t *testing.T) {
	a, b := memtable.NewObjectID(), memtable.NewObjectID()
	require.Len(t, a, 24)
	require.NotEqual(t, a, b)
}
