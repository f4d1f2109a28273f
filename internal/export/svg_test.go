package export

import (
	"strings"
	"testing"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

func TestBounds(t *testing.T) {
	bodies := []body.Body{
		body.New(shape.NewCircle(10), vec.New(0, 0), 0),
		body.New(shape.NewBox(20, 4), vec.New(50, 30), 0),
	}
	min, max := Bounds(bodies)
	if min != vec.New(-10, -10) || max != vec.New(60, 32) {
		t.Errorf("unexpected bounds %v..%v", min, max)
	}

	min, max = Bounds(nil)
	if min != vec.Zero || max != vec.Zero {
		t.Errorf("expected zero bounds, got %v..%v", min, max)
	}
}

func TestFrameToSVG(t *testing.T) {
	floor := body.New(shape.NewBox(200, 10), vec.New(100, 95), 0)
	floor.MakeStatic()
	bodies := []body.Body{
		floor,
		body.New(shape.NewCircle(10), vec.New(100, 50), 0),
	}
	opts := DefaultOptions()
	opts.Padding = 0

	svg := FrameToSVG(bodies, [][]vec.Vec2{{vec.New(100, 10), vec.New(100, 50)}}, opts)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete SVG document")
	}
	if strings.Count(svg, "<circle") != 1 {
		t.Errorf("expected 1 circle, got %d", strings.Count(svg, "<circle"))
	}
	if strings.Count(svg, "<rect") != 2 {
		t.Errorf("expected background and floor rects, got %d", strings.Count(svg, "<rect"))
	}
	if !strings.Contains(svg, opts.StaticColor) {
		t.Error("static body should use the static color")
	}
	if !strings.Contains(svg, `<path`) {
		t.Error("expected trail path")
	}
	// Bounds are 200 wide at 800 px: 4 px per unit, radius 10 -> 40 px.
	if !strings.Contains(svg, `r="40.0"`) {
		t.Errorf("expected scaled radius, got %s", svg)
	}
}
