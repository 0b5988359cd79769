// Package memtable is the keyed, insertion-ordered store behind the
// in-memory repositories
package memtable

import (
	"encoding/hex"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type row[V any] struct {
	seq   int64
	value V
}

// Table holds values by key and lists them in insertion order
type Table[K comparable, V any] struct {
	rows map[K]*row[V]
	seq  int64
	lock sync.RWMutex
}

func New[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{rows: make(map[K]*row[V])}
}

// Insert adds v under k and reports false when k is already taken
func (t *Table[K, V]) Insert(k K, v V) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if _, ok := t.rows[k]; ok {
		return false
	}
	t.seq++
	t.rows[k] = &row[V]{seq: t.seq, value: v}
	return true
}

// Put replaces the value under an existing key, keeping its position
func (t *Table[K, V]) Put(k K, v V) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	r, ok := t.rows[k]
	if !ok {
		return false
	}
	r.value = v
	return true
}

// Update applies fn to the value under k while holding the write lock
func (t *Table[K, V]) Update(k K, fn func(V) (V, error)) (V, bool, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	var zero V
	r, ok := t.rows[k]
	if !ok {
		return zero, false, nil
	}
	v, err := fn(r.value)
	if err != nil {
		return zero, true, err
	}
	r.value = v
	return v, true, nil
}

func (t *Table[K, V]) Get(k K) (V, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	r, ok := t.rows[k]
	if !ok {
		var zero V
		return zero, false
	}
	return r.value, true
}

func (t *Table[K, V]) Delete(k K) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if _, ok := t.rows[k]; !ok {
		return false
	}
	delete(t.rows, k)
	return true
}

func (t *Table[K, V]) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.rows)
}

// Find returns the first value, in insertion order, that keep accepts
func (t *Table[K, V]) Find(keep func(V) bool) (V, bool) {
	for _, v := range t.Filter(keep) {
		return v, true
	}
	var zero V
	return zero, false
}

// Filter returns every value keep accepts, in insertion order. A nil keep
// accepts everything.
func (t *Table[K, V]) Filter(keep func(V) bool) []V {
	t.lock.RLock()
	rows := make([]*row[V], 0, len(t.rows))
	for _, r := range t.rows {
		if keep == nil || keep(r.value) {
			rows = append(rows, r)
		}
	}
	t.lock.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]V, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.value)
	}
	return out
}

// Page slices list by offset and limit. limit <= 0 means no limit.
func Page[V any](list []V, offset, limit int) []V {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []V{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

// NewObjectID returns a 24 character hex identifier in the shape of a
// document store id
func NewObjectID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:12])
}
