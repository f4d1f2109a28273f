package viz

import (
	"math"
	"strings"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells. Pixel coordinates run from (0, 0) at
// the top left to (2*Width-1, 4*Height-1).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in dots.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set turns on the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect outlines the rectangle with corners (x0, y0) and (x1, y1).
func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

// FillRect sets every dot inside the rectangle, edges included.
func (c *Canvas) FillRect(x0, y0, x1, y1 int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y)
		}
	}
}

// DrawCircle outlines a circle with the midpoint algorithm. A radius below
// one dot draws a single dot.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		c.Set(cx+x, cy+y)
		c.Set(cx+y, cy+x)
		c.Set(cx-y, cy+x)
		c.Set(cx-x, cy+y)
		c.Set(cx-x, cy-y)
		c.Set(cx-y, cy-x)
		c.Set(cx+y, cy-x)
		c.Set(cx+x, cy-y)
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps a world rectangle onto canvas dots with one uniform
// scale, so circles stay round. +y points down in both spaces.
type Viewport struct {
	Min, Max vec.Vec2

	scale float64
	offX  float64
	offY  float64
}

// NewViewport fits [min, max] into a canvas of w x h dots, centred.
func NewViewport(min, max vec.Vec2, w, h int) Viewport {
	spanX := math.Max(max.X-min.X, 1)
	spanY := math.Max(max.Y-min.Y, 1)
	scale := math.Min(float64(w-1)/spanX, float64(h-1)/spanY)
	return Viewport{
		Min:   min,
		Max:   max,
		scale: scale,
		offX:  (float64(w-1) - spanX*scale) / 2,
		offY:  (float64(h-1) - spanY*scale) / 2,
	}
}

func (v Viewport) Scale() float64 { return v.scale }

// ToCanvas returns the dot nearest to world point p.
func (v Viewport) ToCanvas(p vec.Vec2) (int, int) {
	x := v.offX + (p.X-v.Min.X)*v.scale
	y := v.offY + (p.Y-v.Min.Y)*v.scale
	return int(math.Round(x)), int(math.Round(y))
}

// ToWorld is the inverse of ToCanvas, up to rounding.
func (v Viewport) ToWorld(x, y int) vec.Vec2 {
	return vec.New(
		v.Min.X+(float64(x)-v.offX)/v.scale,
		v.Min.Y+(float64(y)-v.offY)/v.scale,
	)
}

// DrawBody renders b through v. Static boxes are filled, everything else
// is outlined.
func (c *Canvas) DrawBody(v Viewport, b body.Body) {
	switch s := b.Shape.(type) {
	case shape.Circle:
		cx, cy := v.ToCanvas(b.Position)
		c.DrawCircle(cx, cy, int(math.Round(s.Radius*v.scale)))
	case shape.AABB:
		half := s.HalfExtents()
		x0, y0 := v.ToCanvas(b.Position.Sub(half))
		x1, y1 := v.ToCanvas(b.Position.Add(half))
		if b.IsStatic() {
			c.FillRect(x0, y0, x1, y1)
			return
		}
		c.DrawRect(x0, y0, x1, y1)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
