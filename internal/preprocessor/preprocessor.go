package preprocessor

import (
	"io"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fwessels/c-lex/internal/hashtable"
	"github.com/fwessels/c-lex/internal/strview"
)

// DefaultCacheSize is the number of function-like expansions kept by
// NewPreprocessor when no size is given.
const DefaultCacheSize = 128

// ---------------- Preprocessor ----------------

// Preprocessor holds the macro definitions of one tokenizer session.
// Object-like macros live in the definition table, function-like macros
// in the macro table. A name is in at most one of them.
type Preprocessor struct {
	Log logrus.FieldLogger

	defs   *hashtable.Table[strview.Slice]
	macros *hashtable.Table[Macro]
	cache  *lru.Cache[string, []byte]
}

// NewPreprocessor creates an empty preprocessor. cacheSize bounds the
// function-like expansion cache; zero selects DefaultCacheSize and a
// negative size disables caching.
func NewPreprocessor(cacheSize int) *Preprocessor {
	p := &Preprocessor{
		Log:  discardLogger(),
		defs: hashtable.New[strview.Slice](hashtable.DefaultCapacity),
		macros: hashtable.New[Macro](hashtable.DefaultCapacity,
			hashtable.WithCopy(Macro.Clone),
			hashtable.WithRelease(func(m *Macro) { m.Params = nil }),
		),
	}
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheSize > 0 {
		// lru.New only fails for a non-positive size.
		p.cache, _ = lru.New[string, []byte](cacheSize)
	}
	return p
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// DefineObject stores an object-like macro. name and value are borrowed.
func (p *Preprocessor) DefineObject(name, value strview.Slice) {
	p.macros.Delete(name)
	p.defs.Set(name, value)
	p.Log.WithField("macro", name.String()).Debugf("defining object macro as %q", value.String())
}

// DefineFunc stores a function-like macro. The parameter list is copied,
// the name, parameter names and body stay borrowed.
func (p *Preprocessor) DefineFunc(name strview.Slice, params []strview.Slice, body strview.Slice) {
	p.defs.Delete(name)
	p.macros.Set(name, Macro{Body: body, Params: params})
	p.Log.WithFields(logrus.Fields{
		"macro":  name.String(),
		"params": joinSlices(params, ", "),
	}).Debugf("defining function macro as %q", body.String())
}

// Undef removes name from both tables and reports whether it was defined.
func (p *Preprocessor) Undef(name strview.Slice) bool {
	inDefs := p.defs.Delete(name)
	inMacros := p.macros.Delete(name)
	return inDefs || inMacros
}

// Definition returns the replacement text of an object-like macro.
func (p *Preprocessor) Definition(name strview.Slice) (strview.Slice, bool) {
	return p.defs.Get(name)
}

// Macro returns a function-like macro.
func (p *Preprocessor) Macro(name strview.Slice) (Macro, bool) {
	return p.macros.Get(name)
}

// Expand substitutes args into m, reusing a cached result for an identical
// body, parameter list and argument list. The returned buffer is shared
// and must not be modified.
func (p *Preprocessor) Expand(name strview.Slice, m Macro, args []strview.Slice) []byte {
	log := p.Log.WithField("macro", name.String())
	if p.cache == nil {
		out := Expand(m, args)
		log.Debugf("expanded to %q", out)
		return out
	}
	key := cacheKey(m, args)
	if out, ok := p.cache.Get(key); ok {
		log.Debugf("expanded to %q (cached)", out)
		return out
	}
	out := Expand(m, args)
	p.cache.Add(key, out)
	log.Debugf("expanded to %q", out)
	return out
}

// cacheKey length-prefixes every field so that no choice of body, parameter
// or argument bytes makes two invocations share a key.
func cacheKey(m Macro, args []strview.Slice) string {
	var b strings.Builder
	field := func(s []byte) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.Write(s)
	}
	field(m.Body)
	b.WriteString(strconv.Itoa(len(m.Params)))
	b.WriteByte(';')
	for _, param := range m.Params {
		field(param)
	}
	b.WriteString(strconv.Itoa(len(args)))
	b.WriteByte(';')
	for _, arg := range args {
		field(arg)
	}
	return b.String()
}

// Apply executes a parsed directive. Fatal directives return an error,
// non-fatal ones that have something to report return a warning message.
func (p *Preprocessor) Apply(d Directive) (warning string, err error) {
	switch d.Kind {
	case DirectiveDefine:
		if d.FunctionLike {
			p.DefineFunc(d.Macro, d.Params, d.Body)
		} else {
			p.DefineObject(d.Macro, d.Body)
		}
	case DirectiveUndef:
		if !p.Undef(d.Macro) {
			p.Log.WithField("macro", d.Macro.String()).Debug("undef of undefined macro")
		}
	case DirectiveError:
		if len(d.Body) == 0 {
			return "", errors.New("Preprocessor error")
		}
		return "", errors.Errorf("Preprocessor error: %s", d.Body)
	case DirectiveWarning:
		if len(d.Body) == 0 {
			return "Preprocessor warning", nil
		}
		return "Preprocessor warning: " + d.Body.String(), nil
	case DirectivePragma:
		if len(d.Body) == 0 {
			return "pragma not supported.", nil
		}
		return "Pragma not supported at the moment. Pragma used: " + d.Body.String(), nil
	case DirectiveReserved:
		p.Log.WithField("directive", d.Name.String()).Debug("directive not implemented, ignoring")
	case DirectiveUnknown:
		p.Log.WithField("directive", d.Name.String()).Debug("unknown directive, ignoring")
	}
	return "", nil
}

// Close drops every definition and cached expansion.
func (p *Preprocessor) Close() {
	p.defs.Destroy()
	p.macros.Destroy()
	if p.cache != nil {
		p.cache.Purge()
	}
}

// ParseDefine splits a command-line definition of the form NAME[=VALUE].
// A missing value defaults to "1".
func ParseDefine(s string) (name, value string) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, "1"
}

func joinSlices(ss []strview.Slice, sep string) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.String()
	}
	return strings.Join(parts, sep)
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f' || b == '\n'
}
