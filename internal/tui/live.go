package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/metrics"
	"github.com/san-kum/bhtree/internal/vec"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws the first two coordinates of every body as an ASCII
// scatter plot. It implements sim.Observer and drops frames that arrive
// faster than its frame rate.
type LiveRenderer struct {
	out       io.Writer
	title     string
	g         float64
	frameRate int
	lastFrame time.Time
	canvas    [][]rune

	lo, hi vec.Vec
	energy []float64
}

func NewLiveRenderer(out io.Writer, title string, g float64, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		title:     title,
		g:         g,
		frameRate: frameRate,
		canvas:    canvas,
	}
}

func (r *LiveRenderer) OnStep(step int, t float64, bodies []body.Body) {
	if r.frameRate > 0 && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.energy = append(r.energy, metrics.TotalEnergy(bodies, r.g))
	if len(r.energy) > 2*width {
		r.energy = r.energy[1:]
	}

	r.clear()
	r.fit(bodies)
	r.draw(bodies)
	r.render(step, t, len(bodies))
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// fit grows the view so bodies that escape stay on screen. The view never
// shrinks, which keeps the picture steady while a system contracts.
func (r *LiveRenderer) fit(bodies []body.Body) {
	for _, b := range bodies {
		if len(b.Position) < 2 {
			continue
		}
		if r.lo == nil {
			r.lo = vec.Vec{b.Position[0], b.Position[1]}
			r.hi = vec.Vec{b.Position[0], b.Position[1]}
		}
		for k := 0; k < 2; k++ {
			r.lo[k] = math.Min(r.lo[k], b.Position[k])
			r.hi[k] = math.Max(r.hi[k], b.Position[k])
		}
	}
}

func (r *LiveRenderer) project(p vec.Vec) (int, int) {
	span := func(k int) float64 {
		if s := r.hi[k] - r.lo[k]; s > 0 {
			return s
		}
		return 1
	}
	x := int((p[0] - r.lo[0]) / span(0) * float64(width-1))
	y := height - 1 - int((p[1]-r.lo[1])/span(1)*float64(height-1))
	return x, y
}

func (r *LiveRenderer) draw(bodies []body.Body) {
	if r.lo == nil {
		return
	}
	heaviest := 0.0
	for _, b := range bodies {
		heaviest = math.Max(heaviest, b.Mass)
	}
	for _, b := range bodies {
		if len(b.Position) < 2 {
			continue
		}
		x, y := r.project(b.Position)
		c := '.'
		switch {
		case b.Mass >= 0.75*heaviest:
			c = 'O'
		case b.Mass >= 0.25*heaviest:
			c = 'o'
		}
		if r.canvas[clampRow(y)][clampCol(x)] != ' ' {
			c = '*'
		}
		r.set(x, y, c)
	}
}

func (r *LiveRenderer) render(step int, t float64, n int) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  step=%d  t=%.3f  n=%d\n", r.title, step, t, n)
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	if len(r.energy) > 0 {
		fmt.Fprintf(&b, "  E=%.6g  %s\n", r.energy[len(r.energy)-1], Sparkline(r.energy, width-20))
	}

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func clampRow(y int) int { return max(0, min(y, height-1)) }
func clampCol(x int) int { return max(0, min(x, width-1)) }
