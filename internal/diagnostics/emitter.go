package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode selects when the emitter colors its output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Emitter prints diagnostics to a writer and counts them.
type Emitter struct {
	w          io.Writer
	mu         sync.Mutex
	errorColor *color.Color
	warnColor  *color.Color
	errorCount int
	warnCount  int
}

// NewEmitter creates an emitter writing to w.
func NewEmitter(w io.Writer, mode ColorMode) *Emitter {
	e := &Emitter{
		w:          w,
		errorColor: color.New(color.FgRed, color.Bold),
		warnColor:  color.New(color.FgYellow, color.Bold),
	}
	if useColor(w, mode) {
		e.errorColor.EnableColor()
		e.warnColor.EnableColor()
	} else {
		e.errorColor.DisableColor()
		e.warnColor.DisableColor()
	}
	return e
}

func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Emit writes d on its own line.
func (e *Emitter) Emit(d *Diagnostic) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.errorColor
	if d.Severity == Warning {
		c = e.warnColor
		e.warnCount++
	} else {
		e.errorCount++
	}
	prefix := fmt.Sprintf("Lexing %s", d.Severity)
	fmt.Fprintf(e.w, "%s (%s - line: %d, column: %d): %s\n",
		c.Sprint(prefix), d.Pos.File, d.Pos.Line, d.Pos.Column, d.Msg)
}

// EmitError writes err, formatting it as a diagnostic when it is one.
func (e *Emitter) EmitError(err error) {
	if d, ok := As(err); ok {
		e.Emit(d)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errorCount++
	fmt.Fprintf(e.w, "%s: %v\n", e.errorColor.Sprint("error"), err)
}

func (e *Emitter) ErrorCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errorCount
}

func (e *Emitter) WarningCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.warnCount
}
