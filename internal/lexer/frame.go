package lexer

import (
	"io"
	"os"

	"github.com/fwessels/c-lex/internal/diagnostics"
	"github.com/fwessels/c-lex/internal/strview"
)

// frame is one level of the input stack: either a source file or the text
// of a macro expansion.
type frame struct {
	file string
	buf  []byte
	pos  int

	line int
	col  int

	// atLineStart is set at the start of the input and after every newline,
	// and cleared once a token has been produced on the line.
	atLineStart bool

	// macro is the name of the macro whose expansion this frame holds. It
	// is nil for file frames.
	macro strview.Slice
}

func newFileFrame(file string, buf []byte) *frame {
	return &frame{file: file, buf: buf, line: 1, col: 1, atLineStart: true}
}

// newExpansionFrame positions the expansion text at the invocation site so
// tokens coming from it report where the macro was used.
func newExpansionFrame(macro strview.Slice, text []byte, at diagnostics.Position) *frame {
	return &frame{file: at.File, buf: text, line: at.Line, col: at.Column, macro: macro}
}

func (f *frame) atEnd() bool { return f.pos >= len(f.buf) }

func (f *frame) peek() byte { return f.peekAt(0) }

// peekAt returns the byte n positions ahead, or 0 past the end.
func (f *frame) peekAt(n int) byte {
	if f.pos+n < len(f.buf) {
		return f.buf[f.pos+n]
	}
	return 0
}

func (f *frame) advance() byte {
	c := f.buf[f.pos]
	f.pos++
	if c == '\n' {
		f.line++
		f.col = 1
		f.atLineStart = true
	} else {
		f.col++
	}
	return c
}

func (f *frame) advanceN(n int) {
	for ; n > 0 && !f.atEnd(); n-- {
		f.advance()
	}
}

// match consumes c if it is next.
func (f *frame) match(c byte) bool {
	if f.atEnd() || f.buf[f.pos] != c {
		return false
	}
	f.advance()
	return true
}

func (f *frame) position() diagnostics.Position {
	return diagnostics.Position{File: f.file, Line: f.line, Column: f.col}
}

// readSource loads a whole file. A short read is an error, so that a file
// truncated while it is being read is not silently tokenized in part.
func readSource(path string) ([]byte, error) {
	at := diagnostics.Position{File: path, Line: 1, Column: 1}
	fh, err := os.Open(path)
	if err != nil {
		return nil, diagnostics.Wrap(err, at, "Did not find file "+path+".")
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return nil, diagnostics.Wrap(err, at, "Could not stat file "+path+".")
	}
	size := info.Size()
	buf := make([]byte, size)
	n, err := io.ReadFull(fh, buf)
	if err != nil {
		pct := 0.0
		if size > 0 {
			pct = float64(n) / float64(size) * 100
		}
		return nil, diagnostics.Errorf(diagnostics.IOError, at,
			"Unexpected EOF %f%% of the way through (%d of %d bytes): %v", pct, n, size, err)
	}
	return buf, nil
}
