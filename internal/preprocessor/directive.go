package preprocessor

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/fwessels/c-lex/internal/strview"
)

// ---------------- Directive parsing helpers ----------------

// DirectiveKind classifies a preprocessor directive.
type DirectiveKind int

const (
	// DirectiveNull is a '#' with nothing after it on the line.
	DirectiveNull DirectiveKind = iota
	DirectiveDefine
	DirectiveUndef
	DirectiveError
	DirectiveWarning
	DirectivePragma
	// DirectiveReserved names a known directive that is accepted and ignored.
	DirectiveReserved
	// DirectiveUnknown names anything else. It is silently ignored.
	DirectiveUnknown
)

var directiveNames = map[string]DirectiveKind{
	"define":   DirectiveDefine,
	"undef":    DirectiveUndef,
	"error":    DirectiveError,
	"warning":  DirectiveWarning,
	"pragma":   DirectivePragma,
	"include":  DirectiveReserved,
	"if":       DirectiveReserved,
	"ifdef":    DirectiveReserved,
	"ifndef":   DirectiveReserved,
	"else":     DirectiveReserved,
	"elif":     DirectiveReserved,
	"elifdef":  DirectiveReserved,
	"elifndef": DirectiveReserved,
	"endif":    DirectiveReserved,
	"line":     DirectiveReserved,
	"embed":    DirectiveReserved,
}

// Directive is a parsed directive line. All slices borrow from the line.
type Directive struct {
	Kind DirectiveKind
	Name strview.Slice

	// Macro is the name operated on by define and undef.
	Macro        strview.Slice
	FunctionLike bool
	Params       []strview.Slice

	// Body is the replacement text of a define, or the message of an
	// error, warning or pragma.
	Body strview.Slice
}

// ParseDirective parses the text that follows a line-initial '#', up to but
// not including the terminating newline.
func ParseDirective(line []byte) (Directive, error) {
	rest := trimLeftSpace(line)
	i := 0
	for i < len(rest) && isAlpha(rest[i]) {
		i++
	}
	d := Directive{Name: strview.Slice(rest[:i])}
	if i == 0 {
		if len(trimSpace(rest)) == 0 {
			d.Kind = DirectiveNull
		} else {
			d.Kind = DirectiveUnknown
		}
		return d, nil
	}
	kind, ok := directiveNames[string(rest[:i])]
	if !ok {
		d.Kind = DirectiveUnknown
		return d, nil
	}
	d.Kind = kind
	arg := trimSpace(rest[i:])

	switch kind {
	case DirectiveDefine:
		if len(arg) == 0 {
			return d, errors.New("Preprocessor error: define with no term to define")
		}
		if err := parseDefineDirective(arg, &d); err != nil {
			return d, err
		}
	case DirectiveUndef:
		if len(arg) == 0 {
			return d, errors.New("Preprocessor error: undef with no term to undef")
		}
		name, _, ok := splitIdentPrefix(arg)
		if !ok {
			return d, errors.New("Preprocessor error: macro names must be identifiers")
		}
		d.Macro = name
	case DirectiveError, DirectiveWarning, DirectivePragma:
		d.Body = strview.Slice(arg)
	}
	return d, nil
}

func parseDefineDirective(arg []byte, d *Directive) error {
	name, rest, ok := splitIdentPrefix(arg)
	if !ok {
		return errors.New("Preprocessor error: macro names must be identifiers")
	}
	d.Macro = name

	// function-like only if '(' immediately follows name
	if len(rest) == 0 || rest[0] != '(' {
		d.Body = strview.Slice(trimSpace(rest))
		return nil
	}
	d.FunctionLike = true
	params, body, err := parseParams(rest[1:])
	if err != nil {
		return err
	}
	d.Params = params
	d.Body = strview.Slice(trimSpace(body))
	return nil
}

// parseParams reads a comma separated parameter list terminated by ')'
// and returns the parameter names and the text after the ')'.
func parseParams(s []byte) ([]strview.Slice, []byte, error) {
	end := bytes.IndexByte(s, ')')
	if end < 0 {
		return nil, nil, errors.New("Expected ')' in macro")
	}
	list, body := s[:end], s[end+1:]
	params := make([]strview.Slice, 0, 4)
	if len(trimSpace(list)) == 0 {
		return params, body, nil
	}
	for _, raw := range bytes.Split(list, []byte{','}) {
		param := trimSpace(raw)
		name, rest, ok := splitIdentPrefix(param)
		if !ok || len(rest) != 0 {
			return nil, nil, errors.Errorf("malformed parameter list: invalid parameter name %q", param)
		}
		for _, prev := range params {
			if strview.Equal(prev, name) {
				return nil, nil, errors.Errorf("malformed parameter list: duplicate parameter %q", name)
			}
		}
		params = append(params, name)
	}
	return params, body, nil
}

func splitIdentPrefix(s []byte) (name strview.Slice, rest []byte, ok bool) {
	if len(s) == 0 || !isIdentStart(s[0]) {
		return nil, nil, false
	}
	i := 1
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return strview.Slice(s[:i]), s[i:], true
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func trimLeftSpace(s []byte) []byte {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return s[i:]
}

func trimSpace(s []byte) []byte {
	s = trimLeftSpace(s)
	j := len(s)
	for j > 0 && isSpace(s[j-1]) {
		j--
	}
	return s[:j]
}

// ---------------- Line continuations ----------------

// SpliceContinuations removes every backslash-newline pair from line. It
// returns line itself when there is none, so the result keeps borrowing
// from the source buffer in the common case.
func SpliceContinuations(line []byte) []byte {
	if !hasContinuation(line) {
		return line
	}
	out := make([]byte, 0, len(line))
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' {
			if n := newlineAfter(line, i+1); n > 0 {
				i += n
				continue
			}
		}
		out = append(out, line[i])
	}
	return out
}

func hasContinuation(line []byte) bool {
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' && newlineAfter(line, i+1) > 0 {
			return true
		}
	}
	return false
}

// newlineAfter returns the length of the newline sequence at s[i], if any.
func newlineAfter(s []byte, i int) int {
	if i < len(s) && s[i] == '\n' {
		return 1
	}
	if i+1 < len(s) && s[i] == '\r' && s[i+1] == '\n' {
		return 2
	}
	return 0
}
