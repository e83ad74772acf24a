// Package strview provides borrowed byte views into source buffers.
package strview

// Slice is a view into a buffer owned by somebody else: a frame's source,
// an expansion buffer or a table entry. It is never copied on construction.
type Slice []byte

const (
	fnvOffsetBasis64 = 0xcbf29ce484222325
	fnvPrime64       = 0x100000001B3
)

// Of returns a view of s. The bytes are copied once since Go strings are
// immutable; callers use it for text that does not come from a frame.
func Of(s string) Slice {
	return Slice(s)
}

// Hash returns the 64-bit FNV-1a hash of the view's content.
func Hash(s Slice) uint64 {
	h := uint64(fnvOffsetBasis64)
	for _, b := range s {
		h ^= uint64(b)
		h *= fnvPrime64
	}
	return h
}

func (s Slice) Hash() uint64 { return Hash(s) }

// Equal reports whether a and b have the same length and content.
func Equal(a, b Slice) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s Slice) Equal(o Slice) bool { return Equal(s, o) }

// Compare orders a and b lexicographically by byte value. A proper prefix
// sorts first.
func Compare(a, b Slice) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

// CompareString compares s against text with the same ordering as Compare.
func CompareString(s Slice, text string) int {
	for i := 0; i < len(s) && i < len(text); i++ {
		if s[i] != text[i] {
			return int(s[i]) - int(text[i])
		}
	}
	return len(s) - len(text)
}

// String materializes the view into an owned Go string.
func (s Slice) String() string {
	return string(s)
}

// Clone returns an owned copy of the viewed bytes.
func (s Slice) Clone() Slice {
	if s == nil {
		return nil
	}
	c := make(Slice, len(s))
	copy(c, s)
	return c
}
