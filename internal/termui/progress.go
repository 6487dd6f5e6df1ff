package termui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/mattn/go-isatty"
)

// Bar redraws a single progress line in place. It stays silent when the
// writer is not a terminal unless forced on.
type Bar struct {
	w       io.Writer
	label   string
	model   progress.Model
	enabled bool
	every   time.Duration
	last    time.Time
	drawn   bool
}

// NewBar returns a bar writing to w.
func NewBar(w io.Writer, label string) *Bar {
	return &Bar{
		w:       w,
		label:   label,
		model:   progress.New(progress.WithWidth(40), progress.WithoutPercentage(), progress.WithSolidFill(string(colorAccent))),
		enabled: IsTerminal(w),
		every:   50 * time.Millisecond,
	}
}

// SetEnabled overrides terminal detection.
func (b *Bar) SetEnabled(on bool) { b.enabled = on }

// Update redraws the bar for cur of total. Redraws are throttled except for
// the final one.
func (b *Bar) Update(cur, total int) {
	if !b.enabled || total <= 0 {
		return
	}
	now := time.Now()
	if cur < total && b.drawn && now.Sub(b.last) < b.every {
		return
	}
	b.last = now
	b.drawn = true
	pct := float64(cur) / float64(total)
	if pct > 1 {
		pct = 1
	}
	fmt.Fprintf(b.w, "\r%s %s (%d/%d)", b.label, b.model.ViewAs(pct), cur, total)
}

// Done ends the progress line.
func (b *Bar) Done() {
	if b.enabled && b.drawn {
		fmt.Fprintln(b.w)
	}
	b.drawn = false
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
