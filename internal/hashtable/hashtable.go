// Package hashtable implements an open-addressing hash table keyed by
// strview slices, with linear probing and tombstone deletion.
package hashtable

import (
	"github.com/fwessels/c-lex/internal/strview"
)

const (
	// DefaultCapacity is the capacity of a table created with capacity <= 0.
	DefaultCapacity = 16

	// The table grows once filled/capacity would exceed maxLoadNum/maxLoadDen.
	maxLoadNum = 3
	maxLoadDen = 4
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotTombstone
	slotLive
)

type entry[V any] struct {
	key   strview.Slice
	value V
	state slotState
}

// Table maps strview slices to values of type V. Keys are borrowed: the
// table never copies the key bytes, so they must outlive the entry.
type Table[V any] struct {
	entries []entry[V]
	filled  int // live + tombstone slots
	live    int

	copyValue    func(V) V
	releaseValue func(*V)
}

// Option configures a Table.
type Option[V any] func(*Table[V])

// WithCopy makes Set store copy(v) instead of v.
func WithCopy[V any](copy func(V) V) Option[V] {
	return func(t *Table[V]) { t.copyValue = copy }
}

// WithRelease registers a hook run on a stored value when it is
// overwritten, deleted or the table is destroyed.
func WithRelease[V any](release func(*V)) Option[V] {
	return func(t *Table[V]) { t.releaseValue = release }
}

// New creates a table whose capacity is capacity rounded up to a power of two.
func New[V any](capacity int, opts ...Option[V]) *Table[V] {
	t := &Table[V]{}
	for _, opt := range opts {
		opt(t)
	}
	t.entries = make([]entry[V], roundPow2(capacity))
	return t
}

func roundPow2(n int) int {
	if n <= 0 {
		return DefaultCapacity
	}
	c := 1
	for c < n {
		c <<= 1
	}
	return c
}

// Cap returns the number of slots.
func (t *Table[V]) Cap() int { return len(t.entries) }

// Len returns the number of live keys.
func (t *Table[V]) Len() int { return t.live }

// Filled returns the number of live plus tombstone slots.
func (t *Table[V]) Filled() int { return t.filled }

// find returns the slot holding key, or the slot an insert of key should
// use: the first tombstone on the probe chain if any, else the empty slot
// that ended the search.
func (t *Table[V]) find(entries []entry[V], key strview.Slice) *entry[V] {
	mask := uint64(len(entries) - 1)
	index := strview.Hash(key) & mask
	var tombstone *entry[V]
	for {
		e := &entries[index]
		switch e.state {
		case slotEmpty:
			if tombstone != nil {
				return tombstone
			}
			return e
		case slotTombstone:
			if tombstone == nil {
				tombstone = e
			}
		case slotLive:
			if strview.Equal(e.key, key) {
				return e
			}
		}
		index = (index + 1) & mask
	}
}

// Get returns the value stored for key.
func (t *Table[V]) Get(key strview.Slice) (V, bool) {
	var zero V
	if t.filled == 0 {
		return zero, false
	}
	e := t.find(t.entries, key)
	if e.state != slotLive {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key and reports whether key was not present before.
func (t *Table[V]) Set(key strview.Slice, value V) bool {
	if (t.filled+1)*maxLoadDen > len(t.entries)*maxLoadNum {
		t.grow(2 * len(t.entries))
	}

	e := t.find(t.entries, key)
	isNew := e.state != slotLive
	switch e.state {
	case slotEmpty:
		t.filled++
		t.live++
	case slotTombstone:
		t.live++
	case slotLive:
		t.release(&e.value)
	}

	if t.copyValue != nil {
		value = t.copyValue(value)
	}
	e.key = key
	e.value = value
	e.state = slotLive
	return isNew
}

// Delete removes key, leaving a tombstone in its slot, and reports whether
// it was present. Capacity and the filled count are unchanged.
func (t *Table[V]) Delete(key strview.Slice) bool {
	if t.filled == 0 {
		return false
	}
	e := t.find(t.entries, key)
	if e.state != slotLive {
		return false
	}
	t.release(&e.value)
	var zero V
	e.key = nil
	e.value = zero
	e.state = slotTombstone
	t.live--
	return true
}

// Range calls fn for every live entry until fn returns false.
func (t *Table[V]) Range(fn func(key strview.Slice, value V) bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.state != slotLive {
			continue
		}
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Destroy releases every stored value and empties the table.
func (t *Table[V]) Destroy() {
	for i := range t.entries {
		if t.entries[i].state == slotLive {
			t.release(&t.entries[i].value)
		}
	}
	t.entries = make([]entry[V], DefaultCapacity)
	t.filled = 0
	t.live = 0
}

// grow rehashes the live entries into a fresh array of the given capacity.
// Tombstones are dropped, so filled becomes the live count.
func (t *Table[V]) grow(capacity int) {
	entries := make([]entry[V], capacity)
	for i := range t.entries {
		old := &t.entries[i]
		if old.state != slotLive {
			continue
		}
		dst := t.find(entries, old.key)
		*dst = *old
	}
	t.entries = entries
	t.filled = t.live
}

func (t *Table[V]) release(v *V) {
	if t.releaseValue != nil {
		t.releaseValue(v)
	}
}
