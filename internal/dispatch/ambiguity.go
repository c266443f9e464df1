package dispatch

import (
	"fmt"
	"io"
	"os"

	"github.com/multimethod/genfunc/internal/types"
)

// Warner receives an ambiguity warning at the moment a newly inserted
// method is found ambiguous with an existing one. Insertion itself never
// fails on ambiguity — the warning is purely diagnostic.
type Warner interface {
	Warn(a, b types.TTuple)
}

// WriterWarner writes a one-line diagnostic to an io.Writer. Colorizing
// the line is the CLI's job (cmd/gfctl wraps this with isatty
// detection), not this package's.
type WriterWarner struct {
	Out io.Writer
}

// NewWriterWarner returns a WriterWarner writing to os.Stderr.
func NewWriterWarner() *WriterWarner {
	return &WriterWarner{Out: os.Stderr}
}

func (w *WriterWarner) Warn(a, b types.TTuple) {
	fmt.Fprintf(w.Out, "ambiguity warning: %s and %s have no more specific applicable method\n", a, b)
}

// NoopWarner discards warnings, used when AmbiguityWarnings is disabled.
type NoopWarner struct{}

func (NoopWarner) Warn(types.TTuple, types.TTuple) {}

// ambiguousWith reports whether signatures a and b are ambiguous: their
// tuple lengths are equal, or differ by one with exactly one of them
// vararg; neither is more specific than the other; and some call could
// satisfy both.
func ambiguousWith(a, b types.TTuple) bool {
	if types.TypesEqual(a, b) {
		return false
	}
	la, lb := len(a.Elements), len(b.Elements)
	_, aVararg := arity(a.Elements)
	_, bVararg := arity(b.Elements)
	if la != lb && !(aVararg != bVararg && (la-lb == 1 || lb-la == 1)) {
		return false
	}
	if MoreSpecific(a, b) || MoreSpecific(b, a) {
		return false
	}
	return overlap(a, b)
}
