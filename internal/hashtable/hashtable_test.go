package hashtable

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwessels/c-lex/internal/strview"
)

func key(s string) strview.Slice { return strview.Of(s) }

func TestSetGetDelete(t *testing.T) {
	tbl := New[strview.Slice](0)
	require.Equal(t, DefaultCapacity, tbl.Cap())

	_, ok := tbl.Get(key("FOO"))
	assert.False(t, ok)

	assert.True(t, tbl.Set(key("FOO"), key("1")))
	assert.False(t, tbl.Set(key("FOO"), key("2")))
	v, ok := tbl.Get(key("FOO"))
	require.True(t, ok)
	assert.Equal(t, "2", v.String())
	assert.Equal(t, 1, tbl.Len())

	assert.True(t, tbl.Delete(key("FOO")))
	assert.False(t, tbl.Delete(key("FOO")))
	_, ok = tbl.Get(key("FOO"))
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, 1, tbl.Filled(), "delete must leave a tombstone")
}

func TestCapacityRoundsToPowerOfTwo(t *testing.T) {
	for _, tt := range []struct{ in, want int }{{1, 1}, {3, 4}, {16, 16}, {17, 32}, {100, 128}} {
		assert.Equal(t, tt.want, New[int](tt.in).Cap(), "New(%d)", tt.in)
	}
}

func TestGrowKeepsLoadFactor(t *testing.T) {
	tbl := New[int](4)
	for i := 0; i < 1000; i++ {
		tbl.Set(key(fmt.Sprintf("k%d", i)), i)
		c := tbl.Cap()
		require.Zero(t, c&(c-1), "capacity %d is not a power of two", c)
		require.LessOrEqual(t, tbl.Filled()*4, c*3, "load factor exceeded after %d inserts", i+1)
	}
	for i := 0; i < 1000; i++ {
		v, ok := tbl.Get(key(fmt.Sprintf("k%d", i)))
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestDeleteNeverShrinks(t *testing.T) {
	tbl := New[int](0)
	for i := 0; i < 40; i++ {
		tbl.Set(key(fmt.Sprintf("k%d", i)), i)
	}
	c := tbl.Cap()
	for i := 0; i < 40; i++ {
		tbl.Delete(key(fmt.Sprintf("k%d", i)))
	}
	assert.Equal(t, c, tbl.Cap())
	assert.Equal(t, 0, tbl.Len())
}

// collidingKeys returns n distinct keys that all hash to the same home slot
// of a table with the given capacity.
func collidingKeys(n, capacity int) []string {
	var keys []string
	want := strview.Hash(key("c0")) & uint64(capacity-1)
	for i := 0; len(keys) < n; i++ {
		k := fmt.Sprintf("c%d", i)
		if strview.Hash(key(k))&uint64(capacity-1) == want {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestReinsertAcrossTombstones(t *testing.T) {
	tbl := New[int](64)
	keys := collidingKeys(4, 64)
	for i, k := range keys {
		tbl.Set(key(k), i)
	}
	// Punch holes into the probe chain in front of the last key.
	require.True(t, tbl.Delete(key(keys[0])))
	require.True(t, tbl.Delete(key(keys[1])))

	v, ok := tbl.Get(key(keys[3]))
	require.True(t, ok, "lookup must probe past tombstones")
	assert.Equal(t, 3, v)

	// Re-insert a deleted key: it takes the first tombstone.
	filled := tbl.Filled()
	assert.True(t, tbl.Set(key(keys[1]), 11))
	assert.Equal(t, filled, tbl.Filled(), "reusing a tombstone must not grow filled")
	v, ok = tbl.Get(key(keys[1]))
	require.True(t, ok)
	assert.Equal(t, 11, v)

	// An existing key further down the chain must be updated in place, not
	// duplicated into the remaining tombstone.
	assert.False(t, tbl.Set(key(keys[3]), 33))
	assert.Equal(t, 3, tbl.Len())
	v, _ = tbl.Get(key(keys[3]))
	assert.Equal(t, 33, v)
}

func TestModel(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tbl := New[int](0)
	model := map[string]int{}

	for step := 0; step < 20000; step++ {
		k := fmt.Sprintf("key%d", rng.Intn(300))
		switch rng.Intn(3) {
		case 0, 1:
			_, existed := model[k]
			isNew := tbl.Set(key(k), step)
			require.Equal(t, !existed, isNew, "step %d: Set(%s)", step, k)
			model[k] = step
		case 2:
			_, existed := model[k]
			require.Equal(t, existed, tbl.Delete(key(k)), "step %d: Delete(%s)", step, k)
			delete(model, k)
		}
		require.LessOrEqual(t, tbl.Filled()*4, tbl.Cap()*3)
	}

	require.Equal(t, len(model), tbl.Len())
	for i := 0; i < 300; i++ {
		k := fmt.Sprintf("key%d", i)
		want, inModel := model[k]
		got, ok := tbl.Get(key(k))
		require.Equal(t, inModel, ok, k)
		if ok {
			require.Equal(t, want, got, k)
		}
	}
}

func TestCopyAndReleaseHooks(t *testing.T) {
	var released []string
	tbl := New[[]string](0,
		WithCopy(func(v []string) []string { return append([]string(nil), v...) }),
		WithRelease(func(v *[]string) {
			released = append(released, (*v)...)
			*v = nil
		}),
	)

	params := []string{"a", "b"}
	tbl.Set(key("F"), params)
	params[0] = "changed"
	got, _ := tbl.Get(key("F"))
	assert.Equal(t, []string{"a", "b"}, got, "stored value must be a copy")

	tbl.Set(key("F"), []string{"c"})
	assert.Equal(t, []string{"a", "b"}, released)

	tbl.Delete(key("F"))
	assert.Equal(t, []string{"a", "b", "c"}, released)

	tbl.Set(key("G"), []string{"d"})
	tbl.Destroy()
	assert.Equal(t, []string{"a", "b", "c", "d"}, released)
	assert.Equal(t, 0, tbl.Len())
}

func TestRange(t *testing.T) {
	tbl := New[int](0)
	for i := 0; i < 5; i++ {
		tbl.Set(key(fmt.Sprintf("k%d", i)), i)
	}
	tbl.Delete(key("k2"))
	sum := 0
	tbl.Range(func(_ strview.Slice, v int) bool {
		sum += v
		return true
	})
	assert.Equal(t, 0+1+3+4, sum)
}
