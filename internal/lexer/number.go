package lexer

import (
	"unicode/utf8"

	"github.com/fwessels/c-lex/internal/diagnostics"
)

type radix int

const (
	decimal radix = iota
	hexadecimal
	octal
	binary
)

// intKinds is indexed by [unsigned][number of 'l' suffixes][radix].
var intKinds = [2][3][4]Kind{
	{
		{IntLiteral, HexLiteral, OctLiteral, BinLiteral},
		{LongLiteral, LongHexLiteral, LongOctLiteral, LongBinLiteral},
		{LongLongLiteral, LongLongHexLiteral, LongLongOctLiteral, LongLongBinLiteral},
	},
	{
		{UnsignedLiteral, UnsignedHexLiteral, UnsignedOctLiteral, UnsignedBinLiteral},
		{UnsignedLongLiteral, UnsignedLongHexLiteral, UnsignedLongOctLiteral, UnsignedLongBinLiteral},
		{UnsignedLongLongLiteral, UnsignedLongLongHexLiteral, UnsignedLongLongOctLiteral, UnsignedLongLongBinLiteral},
	},
}

// lexNumber scans an integer or floating literal starting with a digit or
// with '.' followed by a digit.
func lexNumber(f *frame, at diagnostics.Position) (Kind, error) {
	fail := func(msg string) (Kind, error) {
		return Unknown, diagnostics.Errorf(diagnostics.LexicalError, at, "%s", msg)
	}

	start := f.pos
	r := decimal
	isFloat := false

	switch {
	case f.peek() == '0' && (f.peekAt(1) == 'x' || f.peekAt(1) == 'X'):
		f.advanceN(2)
		r = hexadecimal
		if !isHexDigit(f.peek()) && !(f.peek() == '.' && isHexDigit(f.peekAt(1))) {
			return fail("Expected hexadecimal digits after '0x'.")
		}
	case f.peek() == '0' && (f.peekAt(1) == 'b' || f.peekAt(1) == 'B'):
		f.advanceN(2)
		r = binary
		if !isBinDigit(f.peek()) {
			return fail("Expected binary digits after '0b'.")
		}
	}

	switch r {
	case binary:
		digits(f, isBinDigit)
		if isDigit(f.peek()) {
			return fail("Expected only digits 0-1 in binary literal.")
		}
	case hexadecimal:
		digits(f, isHexDigit)
		if f.match('.') {
			digits(f, isHexDigit)
			isFloat = true
		}
		if f.peek() == 'p' || f.peek() == 'P' {
			if !exponent(f) {
				return fail("Exponent has no digits.")
			}
			isFloat = true
		}
	default:
		digits(f, isDigit)
		if f.match('.') {
			digits(f, isDigit)
			isFloat = true
		}
		if f.peek() == 'e' || f.peek() == 'E' {
			if !exponent(f) {
				return fail("Exponent has no digits.")
			}
			isFloat = true
		}
		// a leading zero makes an integer octal, but "0" alone is decimal
		if !isFloat && f.buf[start] == '0' && f.pos-start > 1 {
			r = octal
			for _, c := range f.buf[start+1 : f.pos] {
				if c == '8' || c == '9' {
					return fail("Expected only digits 0-7 in octal literal.")
				}
			}
		}
	}

	var u, l, fl, d int
suffixes:
	for {
		switch f.peek() {
		case 'u', 'U':
			u++
		case 'l', 'L':
			l++
		case 'f', 'F':
			fl++
		case 'd', 'D':
			d++
		default:
			break suffixes
		}
		f.advance()
	}

	if c := f.peek(); isIdentPart(c) || c >= utf8.RuneSelf {
		return fail("Unrecognized token. Expected number.")
	}

	switch {
	case u > 0:
		switch {
		case u > 1:
			return fail("Expected at most 1 unsigned suffix.")
		case isFloat:
			return fail("Unsigned suffix not valid for floating point literals.")
		case fl > 0:
			return fail("Incompatible suffixes 'u' and 'f'.")
		case d > 0:
			return fail("Incompatible suffixes 'u' and 'd'.")
		case l > 2:
			return fail("Expected at most 2 long suffixes.")
		}
		return intKinds[1][l][r], nil

	case d > 0:
		if r != decimal {
			return fail("Decimal floating suffixes are only valid on decimal literals.")
		}
		switch {
		case d == 1 && fl == 1 && l == 0:
			return Decimal32Literal, nil
		case d == 1 && l == 1 && fl == 0:
			return Decimal64Literal, nil
		case d == 2 && fl == 0 && l == 0:
			return Decimal128Literal, nil
		}
		return fail("Invalid suffix for decimal floating literal.")

	case fl > 0:
		switch {
		case fl > 1:
			return fail("Expected at most 1 'f' suffix.")
		case r == octal:
			return fail("Cannot have octal floats.")
		case r == binary:
			return fail("Cannot have binary floats.")
		case l > 0:
			return fail("Cannot have 'f' and 'l' suffix together.")
		}
		if r == hexadecimal {
			return FloatHexLiteral, nil
		}
		return FloatLiteral, nil

	case isFloat:
		switch {
		case l > 1:
			return fail("Expected at most 1 'l' suffix for floating point literal.")
		case l == 1 && r == hexadecimal:
			return LongDoubleHexLiteral, nil
		case l == 1:
			return LongDoubleLiteral, nil
		case r == hexadecimal:
			return DoubleHexLiteral, nil
		}
		return DoubleLiteral, nil
	}

	if l > 2 {
		return fail("Expected at most 2 long suffixes.")
	}
	return intKinds[0][l][r], nil
}

// digits consumes a run of digits. A ' separator is accepted between two
// valid digits.
func digits(f *frame, valid func(byte) bool) {
	for {
		c := f.peek()
		switch {
		case valid(c):
			f.advance()
		case c == '\'' && f.pos > 0 && valid(f.buf[f.pos-1]) && valid(f.peekAt(1)):
			f.advance()
		default:
			return
		}
	}
}

// exponent consumes an exponent marker, an optional sign and its decimal
// digits. It reports false if there are no digits.
func exponent(f *frame) bool {
	f.advance()
	if f.peek() == '+' || f.peek() == '-' {
		f.advance()
	}
	if !isDigit(f.peek()) {
		return false
	}
	digits(f, isDigit)
	return true
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isBinDigit(c byte) bool { return c == '0' || c == '1' }

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }
