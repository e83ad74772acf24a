/*
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package c_lex

import (
	"strings"

	"github.com/fwessels/c-lex/internal/diagnostics"
	"github.com/fwessels/c-lex/internal/lexer"
)

type (
	Token      = lexer.Token
	Kind       = lexer.Kind
	Options    = lexer.Options
	Diagnostic = diagnostics.Diagnostic
	Tokenizer  = lexer.Tokenizer
)

const (
	EOF        = lexer.EOF
	Identifier = lexer.Identifier
)

// Tokenize returns every token of src, ending with EOF, along with the
// warnings produced on the way. name is used for positions only.
func Tokenize(name string, src []byte, opts Options) (toks []Token, warnings []*Diagnostic, err error) {
	tz := lexer.New(name, src, opts)
	defer tz.Close()
	toks, err = tz.All()
	return toks, tz.Warnings(), err
}

// TokenizeFile is Tokenize on the contents of path.
func TokenizeFile(path string, opts Options) (toks []Token, warnings []*Diagnostic, err error) {
	tz, err := lexer.Open(path, opts)
	if err != nil {
		return nil, nil, err
	}
	defer tz.Close()
	toks, err = tz.All()
	return toks, tz.Warnings(), err
}

// NewTokenizer returns a streaming tokenizer over src.
func NewTokenizer(name string, src []byte, opts Options) *Tokenizer {
	return lexer.New(name, src, opts)
}

// Join concatenates the token texts with sep, skipping EOF.
func Join(toks []Token, sep string) string {
	var b strings.Builder
	for i, tok := range toks {
		if tok.Kind == EOF {
			continue
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.Write(tok.Text)
	}
	return b.String()
}
