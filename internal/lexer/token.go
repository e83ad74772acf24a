package lexer

import (
	"fmt"

	"github.com/fwessels/c-lex/internal/strview"
)

// Kind is the lexical category of a token.
type Kind int

const (
	Unknown Kind = iota

	// keywords
	KwAlignas
	KwAlignof
	KwAuto
	KwBool
	KwBreak
	KwCase
	KwChar
	KwConst
	KwConstexpr
	KwContinue
	KwDefault
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExtern
	KwFalse
	KwFloat
	KwFor
	KwGoto
	KwIf
	KwInline
	KwInt
	KwLong
	KwNullptr
	KwRegister
	KwRestrict
	KwReturn
	KwShort
	KwSigned
	KwSizeof
	KwStatic
	KwStaticAssert
	KwStruct
	KwSwitch
	KwThreadLocal
	KwTrue
	KwTypedef
	KwTypeof
	KwTypeofUnqual
	KwUnion
	KwUnsigned
	KwVoid
	KwVolatile
	KwWhile
	Kw_Alignas
	Kw_Alignof
	Kw_Atomic
	Kw_BitInt
	Kw_Bool
	Kw_Complex
	Kw_Decimal128
	Kw_Decimal32
	Kw_Decimal64
	Kw_Generic
	Kw_Imaginary
	Kw_Noreturn
	Kw_StaticAssert
	Kw_ThreadLocal

	// operators and punctuators
	Plus
	PlusPlus
	Minus
	MinusMinus
	Star
	Slash
	Modulus
	And
	AndAnd
	Vert
	VertVert
	Bang
	Tilde
	Caret
	Lshift
	Rshift
	Equal
	EqualEqual
	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	ModulusEqual
	AndEqual
	VertEqual
	BangEqual
	TildeEqual
	CaretEqual
	LshiftEqual
	RshiftEqual
	Comma
	Period
	Arrow
	Less
	LessEqual
	Greater
	GreaterEqual
	Qmark
	Colon
	Semicolon
	Lparen
	Rparen
	Lbrace
	Rbrace
	Lsquare
	LsquareLsquare
	Rsquare
	RsquareRsquare

	// character and string literals
	CharLiteral
	U8CharLiteral
	U16CharLiteral
	U32CharLiteral
	WideCharLiteral
	StrLiteral
	U8StrLiteral
	U16StrLiteral
	U32StrLiteral
	WideStrLiteral

	// integer literals: {plain, unsigned} x {int, long, long long} x radix
	IntLiteral
	HexLiteral
	OctLiteral
	BinLiteral
	UnsignedLiteral
	UnsignedHexLiteral
	UnsignedOctLiteral
	UnsignedBinLiteral
	LongLiteral
	LongHexLiteral
	LongOctLiteral
	LongBinLiteral
	UnsignedLongLiteral
	UnsignedLongHexLiteral
	UnsignedLongOctLiteral
	UnsignedLongBinLiteral
	LongLongLiteral
	LongLongHexLiteral
	LongLongOctLiteral
	LongLongBinLiteral
	UnsignedLongLongLiteral
	UnsignedLongLongHexLiteral
	UnsignedLongLongOctLiteral
	UnsignedLongLongBinLiteral

	// floating literals
	FloatLiteral
	FloatHexLiteral
	DoubleLiteral
	DoubleHexLiteral
	LongDoubleLiteral
	LongDoubleHexLiteral
	Decimal128Literal
	Decimal32Literal
	Decimal64Literal

	Identifier
	EOF

	numKinds
)

var kindNames = [numKinds]string{
	Unknown: "UNKNOWN",

	KwAlignas:       "ALIGNAS",
	KwAlignof:       "ALIGNOF",
	KwAuto:          "AUTO",
	KwBool:          "BOOL",
	KwBreak:         "BREAK",
	KwCase:          "CASE",
	KwChar:          "CHAR",
	KwConst:         "CONST",
	KwConstexpr:     "CONSTEXPR",
	KwContinue:      "CONTINUE",
	KwDefault:       "DEFAULT",
	KwDo:            "DO",
	KwDouble:        "DOUBLE",
	KwElse:          "ELSE",
	KwEnum:          "ENUM",
	KwExtern:        "EXTERN",
	KwFalse:         "FALSE",
	KwFloat:         "FLOAT",
	KwFor:           "FOR",
	KwGoto:          "GOTO",
	KwIf:            "IF",
	KwInline:        "INLINE",
	KwInt:           "INT",
	KwLong:          "LONG",
	KwNullptr:       "NULLPTR",
	KwRegister:      "REGISTER",
	KwRestrict:      "RESTRICT",
	KwReturn:        "RETURN",
	KwShort:         "SHORT",
	KwSigned:        "SIGNED",
	KwSizeof:        "SIZEOF",
	KwStatic:        "STATIC",
	KwStaticAssert:  "STATIC_ASSERT",
	KwStruct:        "STRUCT",
	KwSwitch:        "SWITCH",
	KwThreadLocal:   "THREAD_LOCAL",
	KwTrue:          "TRUE",
	KwTypedef:       "TYPEDEF",
	KwTypeof:        "TYPEOF",
	KwTypeofUnqual:  "TYPEOF_UNQUAL",
	KwUnion:         "UNION",
	KwUnsigned:      "UNSIGNED",
	KwVoid:          "VOID",
	KwVolatile:      "VOLATILE",
	KwWhile:         "WHILE",
	Kw_Alignas:      "_ALIGNAS",
	Kw_Alignof:      "_ALIGNOF",
	Kw_Atomic:       "_ATOMIC",
	Kw_BitInt:       "_BITINT",
	Kw_Bool:         "_BOOL",
	Kw_Complex:      "_COMPLEX",
	Kw_Decimal128:   "_DECIMAL128",
	Kw_Decimal32:    "_DECIMAL32",
	Kw_Decimal64:    "_DECIMAL64",
	Kw_Generic:      "_GENERIC",
	Kw_Imaginary:    "_IMAGINARY",
	Kw_Noreturn:     "_NORETURN",
	Kw_StaticAssert: "_STATIC_ASSERT",
	Kw_ThreadLocal:  "_THREAD_LOCAL",

	Plus:           "PLUS",
	PlusPlus:       "PLUS_PLUS",
	Minus:          "MINUS",
	MinusMinus:     "MINUS_MINUS",
	Star:           "STAR",
	Slash:          "SLASH",
	Modulus:        "MODULUS",
	And:            "AND",
	AndAnd:         "AND_AND",
	Vert:           "VERT",
	VertVert:       "VERT_VERT",
	Bang:           "BANG",
	Tilde:          "TILDE",
	Caret:          "CARET",
	Lshift:         "LSHIFT",
	Rshift:         "RSHIFT",
	Equal:          "EQUAL",
	EqualEqual:     "EQUAL_EQUAL",
	PlusEqual:      "PLUS_EQUAL",
	MinusEqual:     "MINUS_EQUAL",
	StarEqual:      "STAR_EQUAL",
	SlashEqual:     "SLASH_EQUAL",
	ModulusEqual:   "MODULUS_EQUAL",
	AndEqual:       "AND_EQUAL",
	VertEqual:      "VERT_EQUAL",
	BangEqual:      "BANG_EQUAL",
	TildeEqual:     "TILDE_EQUAL",
	CaretEqual:     "CARET_EQUAL",
	LshiftEqual:    "LSHIFT_EQUAL",
	RshiftEqual:    "RSHIFT_EQUAL",
	Comma:          "COMMA",
	Period:         "PERIOD",
	Arrow:          "ARROW",
	Less:           "LESS",
	LessEqual:      "LESS_EQUAL",
	Greater:        "GREATER",
	GreaterEqual:   "GREATER_EQUAL",
	Qmark:          "QMARK",
	Colon:          "COLON",
	Semicolon:      "SEMICOLON",
	Lparen:         "LPAREN",
	Rparen:         "RPAREN",
	Lbrace:         "LBRACE",
	Rbrace:         "RBRACE",
	Lsquare:        "LSQUARE",
	LsquareLsquare: "LSQUARE_LSQUARE",
	Rsquare:        "RSQUARE",
	RsquareRsquare: "RSQUARE_RSQUARE",

	CharLiteral:     "CHAR_LITERAL",
	U8CharLiteral:   "U8_CHAR_LITERAL",
	U16CharLiteral:  "U16_CHAR_LITERAL",
	U32CharLiteral:  "U32_CHAR_LITERAL",
	WideCharLiteral: "WIDE_CHAR_LITERAL",
	StrLiteral:      "STR_LITERAL",
	U8StrLiteral:    "U8_STR_LITERAL",
	U16StrLiteral:   "U16_STR_LITERAL",
	U32StrLiteral:   "U32_STR_LITERAL",
	WideStrLiteral:  "WIDE_STR_LITERAL",

	IntLiteral:                 "INT_LITERAL",
	HexLiteral:                 "HEX_LITERAL",
	OctLiteral:                 "OCT_LITERAL",
	BinLiteral:                 "BIN_LITERAL",
	UnsignedLiteral:            "UNSIGNED_LITERAL",
	UnsignedHexLiteral:         "UNSIGNED_HEX_LITERAL",
	UnsignedOctLiteral:         "UNSIGNED_OCT_LITERAL",
	UnsignedBinLiteral:         "UNSIGNED_BIN_LITERAL",
	LongLiteral:                "LONG_LITERAL",
	LongHexLiteral:             "LONG_HEX_LITERAL",
	LongOctLiteral:             "LONG_OCT_LITERAL",
	LongBinLiteral:             "LONG_BIN_LITERAL",
	UnsignedLongLiteral:        "UNSIGNED_LONG_LITERAL",
	UnsignedLongHexLiteral:     "UNSIGNED_LONG_HEX_LITERAL",
	UnsignedLongOctLiteral:     "UNSIGNED_LONG_OCT_LITERAL",
	UnsignedLongBinLiteral:     "UNSIGNED_LONG_BIN_LITERAL",
	LongLongLiteral:            "LONG_LONG_LITERAL",
	LongLongHexLiteral:         "LONG_LONG_HEX_LITERAL",
	LongLongOctLiteral:         "LONG_LONG_OCT_LITERAL",
	LongLongBinLiteral:         "LONG_LONG_BIN_LITERAL",
	UnsignedLongLongLiteral:    "UNSIGNED_LONG_LONG_LITERAL",
	UnsignedLongLongHexLiteral: "UNSIGNED_LONG_LONG_HEX_LITERAL",
	UnsignedLongLongOctLiteral: "UNSIGNED_LONG_LONG_OCT_LITERAL",
	UnsignedLongLongBinLiteral: "UNSIGNED_LONG_LONG_BIN_LITERAL",

	FloatLiteral:         "FLOAT_LITERAL",
	FloatHexLiteral:      "FLOAT_HEX_LITERAL",
	DoubleLiteral:        "DOUBLE_LITERAL",
	DoubleHexLiteral:     "DOUBLE_HEX_LITERAL",
	LongDoubleLiteral:    "LONG_DOUBLE_LITERAL",
	LongDoubleHexLiteral: "LONG_DOUBLE_HEX_LITERAL",
	Decimal128Literal:    "_DECIMAL128_LITERAL",
	Decimal32Literal:     "_DECIMAL32_LITERAL",
	Decimal64Literal:     "_DECIMAL64_LITERAL",

	Identifier: "IDENTIFIER",
	EOF:        "EOF",
}

func (k Kind) String() string {
	if k >= 0 && k < numKinds && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool { return k >= KwAlignas && k <= Kw_ThreadLocal }

// IsLiteral reports whether k is a character, string or numeric literal.
func (k Kind) IsLiteral() bool { return k >= CharLiteral && k <= Decimal64Literal }

var keywords = map[string]Kind{
	"alignas":        KwAlignas,
	"alignof":        KwAlignof,
	"auto":           KwAuto,
	"bool":           KwBool,
	"break":          KwBreak,
	"case":           KwCase,
	"char":           KwChar,
	"const":          KwConst,
	"constexpr":      KwConstexpr,
	"continue":       KwContinue,
	"default":        KwDefault,
	"do":             KwDo,
	"double":         KwDouble,
	"else":           KwElse,
	"enum":           KwEnum,
	"extern":         KwExtern,
	"false":          KwFalse,
	"float":          KwFloat,
	"for":            KwFor,
	"goto":           KwGoto,
	"if":             KwIf,
	"inline":         KwInline,
	"int":            KwInt,
	"long":           KwLong,
	"nullptr":        KwNullptr,
	"register":       KwRegister,
	"restrict":       KwRestrict,
	"return":         KwReturn,
	"short":          KwShort,
	"signed":         KwSigned,
	"sizeof":         KwSizeof,
	"static":         KwStatic,
	"static_assert":  KwStaticAssert,
	"struct":         KwStruct,
	"switch":         KwSwitch,
	"thread_local":   KwThreadLocal,
	"true":           KwTrue,
	"typedef":        KwTypedef,
	"typeof":         KwTypeof,
	"typeof_unqual":  KwTypeofUnqual,
	"union":          KwUnion,
	"unsigned":       KwUnsigned,
	"void":           KwVoid,
	"volatile":       KwVolatile,
	"while":          KwWhile,
	"_Alignas":       Kw_Alignas,
	"_Alignof":       Kw_Alignof,
	"_Atomic":        Kw_Atomic,
	"_BitInt":        Kw_BitInt,
	"_Bool":          Kw_Bool,
	"_Complex":       Kw_Complex,
	"_Decimal128":    Kw_Decimal128,
	"_Decimal32":     Kw_Decimal32,
	"_Decimal64":     Kw_Decimal64,
	"_Generic":       Kw_Generic,
	"_Imaginary":     Kw_Imaginary,
	"_Noreturn":      Kw_Noreturn,
	"_Static_assert": Kw_StaticAssert,
	"_Thread_local":  Kw_ThreadLocal,
}

// Token is one lexical token. Text borrows from the buffer of the input
// frame the token was scanned from.
type Token struct {
	File   string
	Line   int
	Column int
	Kind   Kind
	Text   strview.Slice
}

func (t Token) String() string {
	return fmt.Sprintf("%s:%d:%d %s '%s'", t.File, t.Line, t.Column, t.Kind, t.Text)
}
