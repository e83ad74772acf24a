package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/fwessels/c-lex/internal/diagnostics"
)

var (
	charKinds = map[string]Kind{
		"":   CharLiteral,
		"u8": U8CharLiteral,
		"u":  U16CharLiteral,
		"U":  U32CharLiteral,
		"L":  WideCharLiteral,
	}
	stringKinds = map[string]Kind{
		"":   StrLiteral,
		"u8": U8StrLiteral,
		"u":  U16StrLiteral,
		"U":  U32StrLiteral,
		"L":  WideStrLiteral,
	}
)

const simpleEscapes = `'"?\abfnrtv`

// literalPrefix returns the length of an encoding prefix (u8, u, U or L)
// directly followed by a quote, or 0.
func literalPrefix(f *frame) int {
	isQuote := func(c byte) bool { return c == '\'' || c == '"' }
	switch f.peek() {
	case 'u':
		if f.peekAt(1) == '8' && isQuote(f.peekAt(2)) {
			return 2
		}
		if isQuote(f.peekAt(1)) {
			return 1
		}
	case 'U', 'L':
		if isQuote(f.peekAt(1)) {
			return 1
		}
	}
	return 0
}

// lexQuoted scans a character or string literal preceded by an encoding
// prefix of the given length.
func lexQuoted(f *frame, at diagnostics.Position, prefix int) (Kind, error) {
	enc := string(f.buf[f.pos : f.pos+prefix])
	f.advanceN(prefix)
	if f.peek() == '\'' {
		kind := charKinds[enc]
		return kind, lexChar(f, at)
	}
	kind := stringKinds[enc]
	return kind, lexString(f, at)
}

func lexChar(f *frame, at diagnostics.Position) error {
	fail := func(msg string) error {
		return diagnostics.Errorf(diagnostics.LexicalError, at, "%s", msg)
	}
	f.advance()
	switch {
	case f.atEnd() || f.peek() == '\n':
		return fail("Unterminated character literal.")
	case f.peek() == '\'':
		return fail("Empty character literal.")
	case f.peek() == '\\':
		if err := escape(f, at); err != nil {
			return err
		}
	case f.peek() >= utf8.RuneSelf:
		_, n := utf8.DecodeRune(f.buf[f.pos:])
		f.advanceN(n)
	default:
		f.advance()
	}
	if f.match('\'') {
		return nil
	}
	if f.atEnd() || f.peek() == '\n' {
		return fail("Unterminated character literal.")
	}
	return fail("Expected ' to close character literal.")
}

func lexString(f *frame, at diagnostics.Position) error {
	f.advance()
	for {
		if f.atEnd() {
			return diagnostics.Errorf(diagnostics.LexicalError, at, "Unterminated string literal.")
		}
		switch f.peek() {
		case '"':
			f.advance()
			return nil
		case '\\':
			if err := escape(f, at); err != nil {
				return err
			}
		default:
			f.advance()
		}
	}
}

// escape consumes one escape sequence starting at a backslash.
func escape(f *frame, at diagnostics.Position) error {
	fail := func(format string, args ...any) error {
		return diagnostics.Errorf(diagnostics.LexicalError, at, format, args...)
	}
	f.advance()
	if f.atEnd() {
		return fail("Unterminated escape sequence.")
	}
	c := f.peek()
	switch {
	case strings.IndexByte(simpleEscapes, c) >= 0:
		f.advance()
	case c == 'x':
		f.advance()
		if !isHexDigit(f.peek()) {
			return fail("Expected hexadecimal digits after '\\x'.")
		}
		for isHexDigit(f.peek()) {
			f.advance()
		}
	case isOctalDigit(c):
		for i := 0; i < 3 && isOctalDigit(f.peek()); i++ {
			f.advance()
		}
	case c == 'u' || c == 'U':
		n := 4
		if c == 'U' {
			n = 8
		}
		f.advance()
		for i := 0; i < n; i++ {
			if !isHexDigit(f.peek()) {
				return fail("Expected %d hexadecimal digits after '\\%c'.", n, c)
			}
			f.advance()
		}
	case c == '\n':
		f.advance()
	case c == '\r' && f.peekAt(1) == '\n':
		f.advanceN(2)
	default:
		return fail("Unknown escape sequence '\\%c'.", c)
	}
	return nil
}

// lexOperator scans an operator or punctuator, always taking the longest
// match.
func lexOperator(f *frame, at diagnostics.Position) (Kind, error) {
	c := f.advance()
	switch c {
	case '+':
		switch {
		case f.match('+'):
			return PlusPlus, nil
		case f.match('='):
			return PlusEqual, nil
		}
		return Plus, nil
	case '-':
		switch {
		case f.match('-'):
			return MinusMinus, nil
		case f.match('='):
			return MinusEqual, nil
		case f.match('>'):
			return Arrow, nil
		}
		return Minus, nil
	case '*':
		if f.match('=') {
			return StarEqual, nil
		}
		return Star, nil
	case '/':
		if f.match('=') {
			return SlashEqual, nil
		}
		return Slash, nil
	case '%':
		if f.match('=') {
			return ModulusEqual, nil
		}
		return Modulus, nil
	case '&':
		switch {
		case f.match('&'):
			return AndAnd, nil
		case f.match('='):
			return AndEqual, nil
		}
		return And, nil
	case '|':
		switch {
		case f.match('|'):
			return VertVert, nil
		case f.match('='):
			return VertEqual, nil
		}
		return Vert, nil
	case '!':
		if f.match('=') {
			return BangEqual, nil
		}
		return Bang, nil
	case '~':
		if f.match('=') {
			return TildeEqual, nil
		}
		return Tilde, nil
	case '^':
		if f.match('=') {
			return CaretEqual, nil
		}
		return Caret, nil
	case '=':
		if f.match('=') {
			return EqualEqual, nil
		}
		return Equal, nil
	case '<':
		switch {
		case f.match('<'):
			if f.match('=') {
				return LshiftEqual, nil
			}
			return Lshift, nil
		case f.match('='):
			return LessEqual, nil
		}
		return Less, nil
	case '>':
		switch {
		case f.match('>'):
			if f.match('=') {
				return RshiftEqual, nil
			}
			return Rshift, nil
		case f.match('='):
			return GreaterEqual, nil
		}
		return Greater, nil
	case '[':
		if f.match('[') {
			return LsquareLsquare, nil
		}
		return Lsquare, nil
	case ']':
		if f.match(']') {
			return RsquareRsquare, nil
		}
		return Rsquare, nil
	case ',':
		return Comma, nil
	case '.':
		return Period, nil
	case '?':
		return Qmark, nil
	case ':':
		return Colon, nil
	case ';':
		return Semicolon, nil
	case '(':
		return Lparen, nil
	case ')':
		return Rparen, nil
	case '{':
		return Lbrace, nil
	case '}':
		return Rbrace, nil
	}
	return Unknown, diagnostics.Errorf(diagnostics.LexicalError, at, "Unrecognized token.")
}
