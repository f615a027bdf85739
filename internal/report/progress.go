package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/conn-castle/spatialfill/internal/batch"
)

// Bar renders batch progress on a terminal as a single redrawn line.
type Bar struct {
	mu    sync.Mutex
	w     io.Writer
	model progress.Model
	drawn bool
}

// NewBar returns a bar sized for a terminal of width columns.
func NewBar(w io.Writer, width int) *Bar {
	barWidth := width / 3
	if barWidth < 10 {
		barWidth = 10
	}
	return &Bar{
		w:     w,
		model: progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
	}
}

// Update redraws the bar. It satisfies batch.ProgressFunc.
func (b *Bar) Update(p batch.Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	percent := 0.0
	if p.Total > 0 {
		percent = float64(p.Index) / float64(p.Total)
	}
	_, _ = fmt.Fprintf(b.w, "\r\033[K%s %s", b.model.ViewAs(percent), p.Message)
	b.drawn = true
}

// Done ends the progress line so following output starts on a fresh line.
func (b *Bar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drawn {
		_, _ = fmt.Fprintln(b.w)
		b.drawn = false
	}
}

// Lines returns a progress func that prints one plain line per report, for
// non-terminal output. Only every step-th report and the last one are printed.
func Lines(w io.Writer, step int) batch.ProgressFunc {
	if step <= 0 {
		step = 1
	}
	return func(p batch.Progress) {
		if p.Index%step == 0 || p.Index == p.Total {
			_, _ = fmt.Fprintln(w, p.Message)
		}
	}
}
