// Package lexer turns C source into tokens, running object-like and
// function-like macros through the preprocessor as it goes.
package lexer

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/fwessels/c-lex/internal/diagnostics"
	"github.com/fwessels/c-lex/internal/preprocessor"
	"github.com/fwessels/c-lex/internal/strview"
)

// DefaultMaxExpansionDepth bounds the number of nested macro expansions.
const DefaultMaxExpansionDepth = 256

// Options configures a Tokenizer. The zero value is ready to use.
type Options struct {
	// MaxExpansionDepth bounds nested macro expansions. Zero selects
	// DefaultMaxExpansionDepth.
	MaxExpansionDepth int

	// ExpansionCacheSize sizes the function-like expansion cache. Zero
	// selects the preprocessor default, a negative value disables it.
	ExpansionCacheSize int

	// Defines are object-like macros defined before the first token.
	Defines map[string]string

	// Warn is called for every non-fatal diagnostic as it is produced.
	Warn func(*diagnostics.Diagnostic)

	Logger logrus.FieldLogger
}

// step tells Next what to do after one scan attempt.
type step int

const (
	stepToken   step = iota // a token was produced
	stepRestart             // state changed, scan again
	stepPop                 // top frame is exhausted
)

// Tokenizer produces tokens from a stack of input frames. The bottom frame
// is the source file; every frame above it holds the text of one macro
// expansion in progress.
type Tokenizer struct {
	pp     *preprocessor.Preprocessor
	frames []*frame
	opts   Options

	warnings []*diagnostics.Diagnostic
	err      error
	done     bool
}

// Open reads path and returns a Tokenizer over its contents.
func Open(path string, opts Options) (*Tokenizer, error) {
	buf, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return New(path, buf, opts), nil
}

// New returns a Tokenizer over src. file is only used for positions.
func New(file string, src []byte, opts Options) *Tokenizer {
	if opts.MaxExpansionDepth <= 0 {
		opts.MaxExpansionDepth = DefaultMaxExpansionDepth
	}
	t := &Tokenizer{
		pp:     preprocessor.NewPreprocessor(opts.ExpansionCacheSize),
		frames: []*frame{newFileFrame(file, src)},
		opts:   opts,
	}
	if opts.Logger != nil {
		t.pp.Log = opts.Logger
	}
	for name, value := range opts.Defines {
		t.pp.DefineObject(strview.Of(name), strview.Of(value))
	}
	return t
}

// Next returns the next token. The last token of the input has kind EOF;
// after it Next returns io.EOF. A fatal diagnostic stops the tokenizer and
// is returned again by every later call.
func (t *Tokenizer) Next() (Token, error) {
	if t.err != nil {
		return Token{}, t.err
	}
	if t.done {
		return Token{}, io.EOF
	}
	for {
		tok, s, err := t.scan()
		if err != nil {
			t.err = err
			return Token{}, err
		}
		switch s {
		case stepToken:
			if tok.Kind == EOF {
				t.done = true
			}
			return tok, nil
		case stepPop:
			t.pop()
		}
	}
}

// All drains the tokenizer. The returned tokens end with the EOF token
// unless an error stopped tokenization early.
func (t *Tokenizer) All() ([]Token, error) {
	var toks []Token
	for {
		tok, err := t.Next()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
}

// Warnings returns the non-fatal diagnostics produced so far.
func (t *Tokenizer) Warnings() []*diagnostics.Diagnostic {
	return t.warnings
}

// Close drops every frame and macro definition.
func (t *Tokenizer) Close() {
	t.frames = nil
	t.pp.Close()
	t.done = true
}

func (t *Tokenizer) top() *frame { return t.frames[len(t.frames)-1] }

func (t *Tokenizer) push(f *frame) { t.frames = append(t.frames, f) }

func (t *Tokenizer) pop() {
	t.frames[len(t.frames)-1] = nil
	t.frames = t.frames[:len(t.frames)-1]
}

func (t *Tokenizer) warn(d *diagnostics.Diagnostic) {
	t.warnings = append(t.warnings, d)
	if t.opts.Warn != nil {
		t.opts.Warn(d)
	}
}

// scan makes one attempt at producing a token from the top frame.
func (t *Tokenizer) scan() (Token, step, error) {
	f := t.top()
	if err := skipTrivia(f); err != nil {
		return Token{}, stepRestart, err
	}
	if f.atEnd() {
		if len(t.frames) > 1 {
			return Token{}, stepPop, nil
		}
		at := f.position()
		return Token{File: at.File, Line: at.Line, Column: at.Column, Kind: EOF}, stepToken, nil
	}
	if f.atLineStart && f.macro == nil && f.peek() == '#' {
		return Token{}, stepRestart, t.directive(f)
	}

	at := f.position()
	start := f.pos
	c := f.peek()
	var (
		kind Kind
		err  error
	)
	switch {
	case isDigit(c) || (c == '.' && isDigit(f.peekAt(1))):
		kind, err = lexNumber(f, at)
	case c == '\'' || c == '"':
		kind, err = lexQuoted(f, at, 0)
	case isIdentStart(c):
		if n := literalPrefix(f); n > 0 {
			kind, err = lexQuoted(f, at, n)
			break
		}
		return t.identifier(f, at)
	default:
		kind, err = lexOperator(f, at)
	}
	if err != nil {
		return Token{}, stepRestart, err
	}
	f.atLineStart = false
	return Token{File: at.File, Line: at.Line, Column: at.Column, Kind: kind, Text: f.buf[start:f.pos]}, stepToken, nil
}

// skipTrivia skips whitespace, comments and line continuations.
func skipTrivia(f *frame) error {
	for !f.atEnd() {
		c := f.peek()
		switch {
		case isSpace(c):
			f.advance()
		case c == '\\' && continuationAt(f) > 0:
			lineStart := f.atLineStart
			f.advanceN(continuationAt(f))
			f.atLineStart = lineStart
		case c == '/' && f.peekAt(1) == '/':
			for !f.atEnd() && f.peek() != '\n' {
				f.advance()
			}
		case c == '/' && f.peekAt(1) == '*':
			at := f.position()
			f.advanceN(2)
			for {
				if f.atEnd() {
					return diagnostics.Errorf(diagnostics.LexicalError, at, "Unterminated comment.")
				}
				if f.peek() == '*' && f.peekAt(1) == '/' {
					f.advanceN(2)
					break
				}
				f.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

// continuationAt returns the length of the backslash-newline at the cursor,
// or 0.
func continuationAt(f *frame) int {
	if f.peek() != '\\' {
		return 0
	}
	switch {
	case f.peekAt(1) == '\n':
		return 2
	case f.peekAt(1) == '\r' && f.peekAt(2) == '\n':
		return 3
	}
	return 0
}

// directive consumes a directive line, including its continuations and
// the terminating newline, and applies it.
func (t *Tokenizer) directive(f *frame) error {
	at := f.position()
	f.advance()
	start := f.pos
	for !f.atEnd() && f.peek() != '\n' {
		if n := continuationAt(f); n > 0 {
			f.advanceN(n)
			continue
		}
		f.advance()
	}
	line := preprocessor.SpliceContinuations(f.buf[start:f.pos])
	f.match('\n')

	d, err := preprocessor.ParseDirective(line)
	if err != nil {
		return diagnostics.Errorf(diagnostics.PreprocessorError, at, "%s", err)
	}
	warning, err := t.pp.Apply(d)
	if err != nil {
		return diagnostics.Errorf(diagnostics.PreprocessorError, at, "%s", err)
	}
	if warning != "" {
		t.warn(diagnostics.Warningf(at, "%s", warning))
	}
	return nil
}

// identifier scans an identifier. A name in the definition table or the
// macro table is replaced by a new expansion frame; anything else becomes
// a keyword or IDENTIFIER token.
func (t *Tokenizer) identifier(f *frame, at diagnostics.Position) (Token, step, error) {
	start := f.pos
	for !f.atEnd() && isIdentPart(f.peek()) {
		f.advance()
	}
	name := strview.Slice(f.buf[start:f.pos])

	if value, ok := t.pp.Definition(name); ok {
		if err := t.guard(name, at); err != nil {
			return Token{}, stepRestart, err
		}
		f.atLineStart = false
		t.push(newExpansionFrame(name, value, at))
		return Token{}, stepRestart, nil
	}

	if m, ok := t.pp.Macro(name); ok {
		f.atLineStart = false
		args, err := t.arguments(name, at)
		if err != nil {
			return Token{}, stepRestart, err
		}
		// a newline inside the argument list does not start a new line of
		// tokens after the closing parenthesis
		t.top().atLineStart = false
		if len(args) != m.Arity() {
			if m.Arity() != 1 || len(args) != 0 {
				return Token{}, stepRestart, diagnostics.Errorf(diagnostics.PreprocessorError, at,
					"Macro %s expects %d argument(s), got %d.", name, m.Arity(), len(args))
			}
			args = append(args, nil)
		}
		if err := t.guard(name, at); err != nil {
			return Token{}, stepRestart, err
		}
		t.push(newExpansionFrame(name, t.pp.Expand(name, m, args), at))
		return Token{}, stepRestart, nil
	}

	kind, ok := keywords[string(name)]
	if !ok {
		kind = Identifier
	}
	f.atLineStart = false
	return Token{File: at.File, Line: at.Line, Column: at.Column, Kind: kind, Text: name}, stepToken, nil
}

// arguments reads the parenthesized argument list of a function-like macro
// invocation. Expansion frames exhausted before the '(' are popped so that
// a macro expanding to a function-like macro name picks up its arguments
// from the enclosing text. Arguments are split on every ',' up to the
// first ')' and must all come from one frame.
func (t *Tokenizer) arguments(name strview.Slice, at diagnostics.Position) ([]strview.Slice, error) {
	f := t.top()
	if err := skipTrivia(f); err != nil {
		return nil, err
	}
	for f.atEnd() && f.macro != nil {
		t.pop()
		f = t.top()
		if err := skipTrivia(f); err != nil {
			return nil, err
		}
	}
	if !f.match('(') {
		return nil, diagnostics.Errorf(diagnostics.PreprocessorError, at, "Expected '(' after macro name %s.", name)
	}

	args := make([]strview.Slice, 0, 4)
	if err := skipTrivia(f); err != nil {
		return nil, err
	}
	if f.match(')') {
		return args, nil
	}
	for {
		start := f.pos
		for !f.atEnd() && f.peek() != ',' && f.peek() != ')' {
			f.advance()
		}
		if f.atEnd() {
			return nil, diagnostics.Errorf(diagnostics.PreprocessorError, at, "Unterminated argument list invoking macro %s.", name)
		}
		args = append(args, strview.Slice(f.buf[start:f.pos]))
		if f.advance() == ')' {
			return args, nil
		}
	}
}

// guard rejects an expansion of name while name is already being expanded,
// and any expansion past the depth limit.
func (t *Tokenizer) guard(name strview.Slice, at diagnostics.Position) error {
	for _, f := range t.frames {
		if f.macro != nil && strview.Equal(f.macro, name) {
			return diagnostics.Errorf(diagnostics.MacroRecursionError, at, "macro recursion: %s expands to itself.", name)
		}
	}
	if len(t.frames) > t.opts.MaxExpansionDepth {
		return diagnostics.Errorf(diagnostics.MacroRecursionError, at,
			"macro recursion: expanding %s exceeds the maximum depth of %d.", name, t.opts.MaxExpansionDepth)
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
