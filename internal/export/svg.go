package export

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/bhtree/internal/barneshut"
	"github.com/san-kum/bhtree/internal/sim"
)

var ErrNotPlanar = errors.New("svg export needs 2-D positions")

// viewport maps the region [lo, hi] onto a width x height image with the y
// axis pointing up.
type viewport struct {
	lo, span [2]float64
	w, h     float64
}

func newViewport(minX, minY, maxX, maxY float64, width, height int) viewport {
	v := viewport{lo: [2]float64{minX, minY}, w: float64(width), h: float64(height)}
	v.span[0] = maxX - minX
	v.span[1] = maxY - minY
	for k := range v.span {
		if v.span[k] <= 0 {
			v.span[k] = 1
		}
	}
	return v
}

func (v viewport) x(x float64) float64 { return (x - v.lo[0]) / v.span[0] * v.w }
func (v viewport) y(y float64) float64 { return v.h - (y-v.lo[1])/v.span[1]*v.h }

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// TreeSVG draws every cell of a 2-D tree as an outlined rectangle, shaded by
// depth, and every body as a dot whose radius grows with the square root of
// its mass.
func TreeSVG(root *barneshut.Node, width, height int) (string, error) {
	region := root.Region()
	if region.Dim() != 2 {
		return "", fmt.Errorf("%w: tree has dimension %d", ErrNotPlanar, region.Dim())
	}
	v := newViewport(region.Min[0], region.Min[1], region.Max[0], region.Max[1], width, height)
	maxDepth := root.Stats().MaxDepth

	var sb strings.Builder
	header(&sb, width, height)

	sb.WriteString(`<g fill="none" stroke-width="0.5">` + "\n")
	root.Walk(func(n *barneshut.Node) bool {
		r := n.Region()
		x0, y0 := v.x(r.Min[0]), v.y(r.Max[1])
		w, h := v.x(r.Max[0])-x0, v.y(r.Min[1])-y0
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" stroke="%s"/>
`, x0, y0, w, h, depthColor(n.Depth(), maxDepth)))
		return true
	})
	sb.WriteString("</g>\n")

	bodies := root.AllBodies()
	heaviest := 0.0
	for _, b := range bodies {
		heaviest = math.Max(heaviest, b.Mass)
	}
	sb.WriteString(`<g fill="#00ff88">` + "\n")
	for _, b := range bodies {
		radius := 1.0
		if heaviest > 0 {
			radius += 2 * math.Sqrt(b.Mass/heaviest)
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f"/>
`, v.x(b.Position[0]), v.y(b.Position[1]), radius))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String(), nil
}

// depthColor fades from bright cyan at the root to dark blue at the deepest
// level.
func depthColor(depth, maxDepth int) string {
	f := 0.0
	if maxDepth > 0 {
		f = float64(depth) / float64(maxDepth)
	}
	g := int(255 - 180*f)
	b := int(255 - 100*f)
	return fmt.Sprintf("#00%02x%02x", g, b)
}

// TrajectorySVG draws the path of every body through the snapshots of a run.
// Bodies are matched across snapshots by position in the slice.
func TrajectorySVG(snapshots []sim.Snapshot, width, height int) (string, error) {
	if len(snapshots) == 0 || len(snapshots[0].Bodies) == 0 {
		return "", errors.New("no snapshots to draw")
	}
	if snapshots[0].Bodies[0].Dim() < 2 {
		return "", ErrNotPlanar
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range snapshots {
		for _, b := range s.Bodies {
			minX, maxX = math.Min(minX, b.Position[0]), math.Max(maxX, b.Position[0])
			minY, maxY = math.Min(minY, b.Position[1]), math.Max(maxY, b.Position[1])
		}
	}
	padX, padY := (maxX-minX)*0.1, (maxY-minY)*0.1
	v := newViewport(minX-padX, minY-padY, maxX+padX, maxY+padY, width, height)

	var sb strings.Builder
	header(&sb, width, height)

	n := len(snapshots[0].Bodies)
	for i := 0; i < n; i++ {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, palette[i%len(palette)]))
		for j, s := range snapshots {
			if i >= len(s.Bodies) {
				break
			}
			p := s.Bodies[i].Position
			if j == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", v.x(p[0]), v.y(p[1])))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", v.x(p[0]), v.y(p[1])))
			}
		}
		sb.WriteString(`"/>` + "\n")
	}
	sb.WriteString("</svg>")
	return sb.String(), nil
}

var palette = []string{"#00ff88", "#00ccff", "#ff66cc", "#ffcc00", "#aa88ff", "#ff5555"}

