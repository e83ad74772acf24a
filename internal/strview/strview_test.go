package strview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	// Reference values for 64-bit FNV-1a.
	assert.Equal(t, uint64(0xcbf29ce484222325), Hash(nil))
	assert.Equal(t, uint64(0xaf63dc4c8601ec8c), Hash(Of("a")))
	assert.Equal(t, uint64(0x85944171f73967e8), Hash(Of("foobar")))
}

func TestHashIgnoresBuffer(t *testing.T) {
	buf := []byte("#define FOO 1\nFOO")
	a := Slice(buf[8:11])
	b := Slice(buf[14:17])
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, a.Equal(b))
	assert.Equal(t, Hash(Of("FOO")), a.Hash())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		sign int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", -1},
		{"abd", "abc", 1},
		{"ab", "abc", -1},
		{"abc", "ab", 1},
		{"", "a", -1},
	}
	for _, tt := range tests {
		got := Compare(Of(tt.a), Of(tt.b))
		assert.Equal(t, tt.sign, sign(got), "Compare(%q, %q)", tt.a, tt.b)
		got = CompareString(Of(tt.a), tt.b)
		assert.Equal(t, tt.sign, sign(got), "CompareString(%q, %q)", tt.a, tt.b)
		assert.Equal(t, tt.sign == 0, Equal(Of(tt.a), Of(tt.b)))
	}
}

func TestCloneOwnsBytes(t *testing.T) {
	buf := []byte("value")
	v := Slice(buf[:3])
	c := v.Clone()
	buf[0] = 'X'
	assert.Equal(t, "Xal", v.String())
	assert.Equal(t, "val", c.String())
	assert.Nil(t, Slice(nil).Clone())
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
