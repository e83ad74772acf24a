package preprocessor

import (
	"github.com/fwessels/c-lex/internal/strview"
)

// Macro is a function-like macro. Body and the parameter names borrow from
// the buffer the definition was read from; the Params sequence itself is
// owned by the macro.
type Macro struct {
	Body   strview.Slice
	Params []strview.Slice
}

// Clone returns m with its own copy of the parameter sequence.
func (m Macro) Clone() Macro {
	params := make([]strview.Slice, len(m.Params))
	copy(params, m.Params)
	return Macro{Body: m.Body, Params: params}
}

// Arity is the number of parameters.
func (m Macro) Arity() int { return len(m.Params) }

// ParamIndex returns the position of the first parameter equal to name,
// or -1.
func (m Macro) ParamIndex(name strview.Slice) int {
	for i, param := range m.Params {
		if strview.Equal(param, name) {
			return i
		}
	}
	return -1
}

// Expand substitutes args into the body of m. The body is scanned byte by
// byte: every maximal identifier run that names a parameter is replaced by
// the matching argument text and all other bytes are copied verbatim. A run
// only starts at a letter or '_', so the digits of a number are never part
// of one, while a letter right after a digit starts a new run. Runs inside
// quoted literals are substituted too. args must hold at least m.Arity()
// entries.
func Expand(m Macro, args []strview.Slice) []byte {
	size := len(m.Body)
	for _, arg := range args {
		size += len(arg)
	}
	out := expansionBuffer{b: make([]byte, 0, size)}

	body := m.Body
	for i := 0; i < len(body); {
		if !isIdentStart(body[i]) {
			out.writeByte(body[i])
			i++
			continue
		}
		j := i + 1
		for j < len(body) && isIdentPart(body[j]) {
			j++
		}
		name := body[i:j]
		if idx := m.ParamIndex(name); idx >= 0 {
			out.write(args[idx])
		} else {
			out.write(name)
		}
		i = j
	}
	return out.b
}

// expansionBuffer grows by half its capacity when full.
type expansionBuffer struct {
	b []byte
}

func (e *expansionBuffer) reserve(n int) {
	if len(e.b)+n <= cap(e.b) {
		return
	}
	c := cap(e.b) * 3 / 2
	if c < len(e.b)+n {
		c = len(e.b) + n
	}
	b := make([]byte, len(e.b), c)
	copy(b, e.b)
	e.b = b
}

func (e *expansionBuffer) write(p []byte) {
	e.reserve(len(p))
	e.b = append(e.b, p...)
}

func (e *expansionBuffer) writeByte(c byte) {
	e.reserve(1)
	e.b = append(e.b, c)
}
