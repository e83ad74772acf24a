package preprocessor

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwessels/c-lex/internal/strview"
)

// directiveSummary flattens a Directive for comparison.
type directiveSummary struct {
	Kind         DirectiveKind
	Name         string
	Macro        string
	FunctionLike bool
	Params       []string
	Body         string
}

func summarize(d Directive) directiveSummary {
	s := directiveSummary{
		Kind:         d.Kind,
		Name:         d.Name.String(),
		Macro:        d.Macro.String(),
		FunctionLike: d.FunctionLike,
		Body:         d.Body.String(),
	}
	for _, p := range d.Params {
		s.Params = append(s.Params, p.String())
	}
	return s
}

func TestParseDirective(t *testing.T) {
	for _, tt := range []struct {
		name  string
		input string
		want  directiveSummary
	}{
		{"null", "   ", directiveSummary{Kind: DirectiveNull}},
		{"object define", "define A 1234", directiveSummary{Kind: DirectiveDefine, Name: "define", Macro: "A", Body: "1234"}},
		{"define without value", "define A", directiveSummary{Kind: DirectiveDefine, Name: "define", Macro: "A"}},
		{"leading space", "  define  B   x + y  ", directiveSummary{Kind: DirectiveDefine, Name: "define", Macro: "B", Body: "x + y"}},
		{
			"function define",
			"define ADD(a,b) a + b",
			directiveSummary{Kind: DirectiveDefine, Name: "define", Macro: "ADD", FunctionLike: true, Params: []string{"a", "b"}, Body: "a + b"},
		},
		{
			"function define spaced params",
			"define F( x , y ) (x)*(y)",
			directiveSummary{Kind: DirectiveDefine, Name: "define", Macro: "F", FunctionLike: true, Params: []string{"x", "y"}, Body: "(x)*(y)"},
		},
		{
			"no params",
			"define A() 1234",
			directiveSummary{Kind: DirectiveDefine, Name: "define", Macro: "A", FunctionLike: true, Body: "1234"},
		},
		{
			"space before paren is object-like",
			"define A (x) x",
			directiveSummary{Kind: DirectiveDefine, Name: "define", Macro: "A", Body: "(x) x"},
		},
		{"undef", "undef A", directiveSummary{Kind: DirectiveUndef, Name: "undef", Macro: "A"}},
		{"error", "error  stop here ", directiveSummary{Kind: DirectiveError, Name: "error", Body: "stop here"}},
		{"warning", "warning", directiveSummary{Kind: DirectiveWarning, Name: "warning"}},
		{"pragma", "pragma once", directiveSummary{Kind: DirectivePragma, Name: "pragma", Body: "once"}},
		{"include", `include "x.h"`, directiveSummary{Kind: DirectiveReserved, Name: "include"}},
		{"endif", "endif", directiveSummary{Kind: DirectiveReserved, Name: "endif"}},
		{"unknown", "frobnicate all the things", directiveSummary{Kind: DirectiveUnknown, Name: "frobnicate"}},
		{"number", "42", directiveSummary{Kind: DirectiveUnknown}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDirective([]byte(tt.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, summarize(d)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBadDirective(t *testing.T) {
	for _, tt := range []struct {
		input string
		error string
	}{
		{"define", "Preprocessor error: define with no term to define"},
		{"define   ", "Preprocessor error: define with no term to define"},
		{"undef", "Preprocessor error: undef with no term to undef"},
		{"define 1A 2", "Preprocessor error: macro names must be identifiers"},
		{"undef +", "Preprocessor error: macro names must be identifiers"},
		{"define F(a, b", "Expected ')' in macro"},
		{"define F(a, 1) a", `malformed parameter list: invalid parameter name "1"`},
		{"define F(a b) a", `malformed parameter list: invalid parameter name "a b"`},
		{"define F(a,) a", `malformed parameter list: invalid parameter name ""`},
		{"define F(a, a) a", `malformed parameter list: duplicate parameter "a"`},
	} {
		t.Run(tt.error, func(t *testing.T) {
			_, err := ParseDirective([]byte(tt.input))
			require.Error(t, err)
			if diff := cmp.Diff(tt.error, err.Error()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func slices(ss ...string) []strview.Slice {
	out := make([]strview.Slice, len(ss))
	for i, s := range ss {
		out[i] = strview.Of(s)
	}
	return out
}

func TestExpand(t *testing.T) {
	for _, tt := range []struct {
		name   string
		body   string
		params []string
		args   []string
		want   string
	}{
		{"add", "a + b", []string{"a", "b"}, []string{"x", "y"}, "x + y"},
		{"repeated", "a*a", []string{"a"}, []string{"(n+1)"}, "(n+1)*(n+1)"},
		{"maximal run", "ab + a + ba", []string{"a"}, []string{"Z"}, "ab + Z + ba"},
		{"no params", "1234", nil, nil, "1234"},
		{"empty body", "", []string{"a"}, []string{"x"}, ""},
		{"inside string", `printf("a=%d", a)`, []string{"a"}, []string{"7"}, `printf("7=%d", 7)`},
		{"quoted parameter", `"x"`, []string{"x"}, []string{"hi"}, `"hi"`},
		{"inside char", `a == 'a'`, []string{"a"}, []string{"c"}, `c == 'c'`},
		{"escaped quote", `"\"a\"" a`, []string{"a"}, []string{"1"}, `"\"1\"" 1`},
		{"suffix run", "1ul + u", []string{"u", "l"}, []string{"x", "y"}, "1ul + x"},
		{"suffix parameter", "1u", []string{"u"}, []string{"LL"}, "1LL"},
		{"letter after digit", "1e", []string{"e"}, []string{"5"}, "15"},
		{"exponent", "1e+a", []string{"e", "a"}, []string{"X", "Y"}, "1X+Y"},
		{"digits continue a run", "a1 + a", []string{"a"}, []string{"Z"}, "a1 + Z"},
		{"after number", "1 + a", []string{"a"}, []string{"Y"}, "1 + Y"},
		{"empty argument", "[a]", []string{"a"}, []string{""}, "[]"},
		{"growth", strings.Repeat("a ", 100), []string{"a"}, []string{"longer_argument"}, strings.Repeat("longer_argument ", 100)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m := Macro{Body: strview.Of(tt.body), Params: slices(tt.params...)}
			got := string(Expand(m, slices(tt.args...)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMacroParamIndex(t *testing.T) {
	m := Macro{Params: slices("a", "b", "c")}
	assert.Equal(t, 3, m.Arity())
	assert.Equal(t, 1, m.ParamIndex(strview.Of("b")))
	assert.Equal(t, -1, m.ParamIndex(strview.Of("d")))

	clone := m.Clone()
	clone.Params[0] = strview.Of("z")
	assert.Equal(t, "a", m.Params[0].String())
}

func TestDefineAndUndef(t *testing.T) {
	p := NewPreprocessor(0)
	defer p.Close()

	p.DefineObject(strview.Of("A"), strview.Of("1"))
	v, ok := p.Definition(strview.Of("A"))
	require.True(t, ok)
	assert.Equal(t, "1", v.String())

	// an empty value is still a definition
	p.DefineObject(strview.Of("EMPTY"), nil)
	_, ok = p.Definition(strview.Of("EMPTY"))
	assert.True(t, ok)

	// redefining as a function moves the name to the macro table
	p.DefineFunc(strview.Of("A"), slices("x"), strview.Of("x"))
	_, ok = p.Definition(strview.Of("A"))
	assert.False(t, ok)
	m, ok := p.Macro(strview.Of("A"))
	require.True(t, ok)
	assert.Equal(t, 1, m.Arity())

	p.DefineObject(strview.Of("A"), strview.Of("2"))
	_, ok = p.Macro(strview.Of("A"))
	assert.False(t, ok)

	assert.True(t, p.Undef(strview.Of("A")))
	_, ok = p.Definition(strview.Of("A"))
	assert.False(t, ok)
	assert.False(t, p.Undef(strview.Of("A")))
}

func TestDefineFuncCopiesParams(t *testing.T) {
	p := NewPreprocessor(0)
	params := slices("a", "b")
	p.DefineFunc(strview.Of("F"), params, strview.Of("a+b"))
	params[0] = strview.Of("q")

	m, ok := p.Macro(strview.Of("F"))
	require.True(t, ok)
	if diff := cmp.Diff([]string{"a", "b"}, []string{m.Params[0].String(), m.Params[1].String()}); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestApply(t *testing.T) {
	for _, tt := range []struct {
		input   string
		warning string
		error   string
	}{
		{input: "define A 1"},
		{input: "undef NEVER_DEFINED"},
		{input: "include <stdio.h>"},
		{input: "frobnicate"},
		{input: "warning", warning: "Preprocessor warning"},
		{input: "warning look out", warning: "Preprocessor warning: look out"},
		{input: "pragma", warning: "pragma not supported."},
		{input: "pragma pack(1)", warning: "Pragma not supported at the moment. Pragma used: pack(1)"},
		{input: "error", error: "Preprocessor error"},
		{input: "error giving up", error: "Preprocessor error: giving up"},
	} {
		t.Run(tt.input, func(t *testing.T) {
			p := NewPreprocessor(0)
			d, err := ParseDirective([]byte(tt.input))
			require.NoError(t, err)
			warning, err := p.Apply(d)
			if tt.error != "" {
				require.Error(t, err)
				assert.Equal(t, tt.error, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.warning, warning)
		})
	}
}

func TestExpansionCache(t *testing.T) {
	p := NewPreprocessor(2)
	m := Macro{Body: strview.Of("a-b"), Params: slices("a", "b")}

	first := p.Expand(strview.Of("SUB"), m, slices("x", "y"))
	second := p.Expand(strview.Of("SUB"), m, slices("x", "y"))
	assert.Equal(t, "x-y", string(first))
	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0], "identical invocations share the cached buffer")

	other := p.Expand(strview.Of("SUB"), m, slices("xy", ""))
	assert.Equal(t, "xy-", string(other))
	assert.Equal(t, 2, p.cache.Len())

	// NUL bytes in the arguments must not let two invocations share an entry.
	p = NewPreprocessor(4)
	m = Macro{Body: strview.Of("p|q"), Params: slices("p", "q")}
	assert.Equal(t, "a\x00b|", string(p.Expand(strview.Of("OR"), m, slices("a\x00b", ""))))
	assert.Equal(t, "a|b\x00", string(p.Expand(strview.Of("OR"), m, slices("a", "b\x00"))))
	assert.Equal(t, 2, p.cache.Len())

	uncached := NewPreprocessor(-1)
	assert.Nil(t, uncached.cache)
	assert.Equal(t, "1-2", string(uncached.Expand(strview.Of("SUB"), m, slices("1", "2"))))
}

func TestParseDefine(t *testing.T) {
	for _, tt := range []struct {
		in, name, value string
	}{
		{"DEBUG", "DEBUG", "1"},
		{"LEVEL=3", "LEVEL", "3"},
		{"EMPTY=", "EMPTY", ""},
		{"EXPR=a=b", "EXPR", "a=b"},
	} {
		name, value := ParseDefine(tt.in)
		assert.Equal(t, tt.name, name, tt.in)
		assert.Equal(t, tt.value, value, tt.in)
	}
}

func TestSpliceContinuations(t *testing.T) {
	for _, tt := range []struct {
		in, want string
	}{
		{"define A 1", "define A 1"},
		{"define A \\\n 1", "define A  1"},
		{"define A \\\r\n 1 \\\n+ 2", "define A  1 + 2"},
		{`define S "a\\b"`, `define S "a\\b"`},
	} {
		got := string(SpliceContinuations([]byte(tt.in)))
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%q: mismatch (-want +got):\n%s", tt.in, diff)
		}
	}

	line := []byte("no continuation")
	assert.Same(t, &line[0], &SpliceContinuations(line)[0])
}
