// Package export renders world frames as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

type Options struct {
	// Width of the image in pixels. Height follows the aspect ratio of the
	// scene bounds.
	Width int
	// Padding around the bounds, as a fraction of the larger side.
	Padding float64

	Background  string
	BodyColor   string
	StaticColor string
	TrailColor  string
}

func DefaultOptions() Options {
	return Options{
		Width:       800,
		Padding:     0.05,
		Background:  "#2d406c",
		BodyColor:   "#f2c14e",
		StaticColor: "#8a8fa3",
		TrailColor:  "#4ecdc4",
	}
}

// Bounds returns the box enclosing every body.
func Bounds(bodies []body.Body) (min, max vec.Vec2) {
	if len(bodies) == 0 {
		return vec.Zero, vec.Zero
	}
	min = vec.New(math.Inf(1), math.Inf(1))
	max = vec.New(math.Inf(-1), math.Inf(-1))
	for _, b := range bodies {
		lo, hi := b.Bounds()
		min = vec.New(math.Min(min.X, lo.X), math.Min(min.Y, lo.Y))
		max = vec.New(math.Max(max.X, hi.X), math.Max(max.Y, hi.Y))
	}
	return min, max
}

// FrameToSVG draws bodies in world coordinates, +y down as on screen.
// Trails, if any, are drawn as polylines under the bodies.
func FrameToSVG(bodies []body.Body, trails [][]vec.Vec2, opts Options) string {
	min, max := Bounds(bodies)
	for _, tr := range trails {
		for _, p := range tr {
			min = vec.New(math.Min(min.X, p.X), math.Min(min.Y, p.Y))
			max = vec.New(math.Max(max.X, p.X), math.Max(max.Y, p.Y))
		}
	}

	rangeX := math.Max(max.X-min.X, 1)
	rangeY := math.Max(max.Y-min.Y, 1)
	pad := math.Max(rangeX, rangeY) * opts.Padding
	min = min.SubScalar(pad)
	rangeX += 2 * pad
	rangeY += 2 * pad

	width := opts.Width
	if width <= 0 {
		width = DefaultOptions().Width
	}
	scale := float64(width) / rangeX
	height := int(math.Ceil(rangeY * scale))

	toPx := func(p vec.Vec2) vec.Vec2 { return p.Sub(min).Scale(scale) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, opts.Background)

	for _, tr := range trails {
		if len(tr) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, opts.TrailColor)
		for i, p := range tr {
			q := toPx(p)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", q.X, q.Y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", q.X, q.Y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	for _, b := range bodies {
		color := opts.BodyColor
		if b.IsStatic() {
			color = opts.StaticColor
		}
		c := toPx(b.Position)
		switch s := b.Shape.(type) {
		case shape.Circle:
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, c.X, c.Y, s.Radius*scale, color)
		case shape.AABB:
			h := s.HalfExtents().Scale(scale)
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, c.X-h.X, c.Y-h.Y, 2*h.X, 2*h.Y, color)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
