package scene

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

// Build validates cfg and creates a world holding its bodies in order:
// arena walls, listed bodies, then spawned bodies.
func Build(cfg *config.Scene, opts ...world.Option) (*world.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts = append([]world.Option{world.WithGravity(cfg.Gravity)}, opts...)
	w, err := world.New(cfg.Dt, cfg.Iterations, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.Arena.Enabled {
		for _, b := range Borders(cfg.Arena.Width, cfg.Arena.Height) {
			w.Add(b)
		}
	}

	for i, bc := range cfg.Bodies {
		b, err := FromConfig(bc)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		w.Add(b)
	}

	if cfg.Spawn.Count > 0 {
		sp := NewSpawner(cfg.Seed)
		sp.Restitution = cfg.Spawn.Restitution
		for range cfg.Spawn.Count {
			w.Add(sp.Scatter(cfg.Spawn))
		}
	}

	return w, nil
}

// FirstListedBody is the id of cfg.Bodies[0] in a world made by Build.
func FirstListedBody(cfg *config.Scene) world.BodyID {
	if cfg.Arena.Enabled {
		return world.BodyID(len(Borders(cfg.Arena.Width, cfg.Arena.Height)))
	}
	return 0
}

func FromConfig(bc config.BodyConfig) (body.Body, error) {
	density := bc.Density
	if density == 0 {
		density = shape.DefaultDensity
	}

	var s shape.Shape
	switch bc.Shape {
	case config.ShapeCircle:
		c := shape.NewCircle(bc.Radius)
		c.Density = density
		s = c
	case config.ShapeBox:
		b := shape.NewBox(bc.Width, bc.Height)
		b.Density = density
		s = b
	default:
		return body.Body{}, fmt.Errorf("unknown shape %q", bc.Shape)
	}
	if err := s.Validate(); err != nil {
		return body.Body{}, err
	}

	b := body.New(s, bc.Position, bc.Restitution)
	b.Velocity = bc.Velocity
	if bc.Static {
		b.MakeStatic()
	}
	return b, nil
}

const (
	BorderThickness       = 10.0
	BottomBorderThickness = 20.0
	BorderRestitution     = 0.5
)

// Borders returns static top, bottom, left and right walls lining the
// inside of a width x height canvas with its origin at the top left.
func Borders(width, height float64) []body.Body {
	t, bt := BorderThickness, BottomBorderThickness
	boxes := []shape.AABB{
		shape.NewAABB(vec.New(0, 0), vec.New(width, t)),
		shape.NewAABB(vec.New(0, height-bt), vec.New(width, height)),
		shape.NewAABB(vec.New(0, t), vec.New(t, height-bt)),
		shape.NewAABB(vec.New(width-t, t), vec.New(width, height-bt)),
	}

	walls := make([]body.Body, 0, len(boxes))
	for _, box := range boxes {
		b := body.New(box, box.Center(), BorderRestitution)
		b.MakeStatic()
		walls = append(walls, b)
	}
	return walls
}

const (
	SpawnRadius      = 30.0
	SpawnBoxSize     = 60.0
	SpawnRestitution = 1.0
)

// Spawner creates the bodies hosts add on user input. Random placement
// draws from a seeded source so scripted runs repeat exactly.
type Spawner struct {
	Radius      float64
	BoxSize     float64
	Restitution float64

	rng *rand.Rand
}

func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		Radius:      SpawnRadius,
		BoxSize:     SpawnBoxSize,
		Restitution: SpawnRestitution,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (s *Spawner) Circle(at vec.Vec2) body.Body {
	return body.New(shape.NewCircle(s.Radius), at, s.Restitution)
}

func (s *Spawner) Box(at vec.Vec2) body.Body {
	return body.New(shape.NewBox(s.BoxSize, s.BoxSize), at, s.Restitution)
}

// Scatter places one body of size sc.Size uniformly inside sc's area.
// Mixed spawns alternate at random between circles and boxes.
func (s *Spawner) Scatter(sc config.SpawnConfig) body.Body {
	at := s.Point(sc.Min, sc.Max)

	kind := sc.Shape
	if kind == config.ShapeMixed {
		kind = config.ShapeCircle
		if s.rng.Intn(2) == 1 {
			kind = config.ShapeBox
		}
	}

	if kind == config.ShapeBox {
		return body.New(shape.NewBox(sc.Size, sc.Size), at, s.Restitution)
	}
	return body.New(shape.NewCircle(sc.Size/2), at, s.Restitution)
}

// Point draws a uniform point in [min, max].
func (s *Spawner) Point(min, max vec.Vec2) vec.Vec2 {
	return vec.New(
		min.X+s.rng.Float64()*(max.X-min.X),
		min.Y+s.rng.Float64()*(max.Y-min.Y),
	)
}

// Random places a spawner-sized body at a random point in [min, max].
func (s *Spawner) Random(min, max vec.Vec2) body.Body {
	at := s.Point(min, max)
	if s.rng.Intn(2) == 0 {
		return s.Circle(at)
	}
	return s.Box(at)
}
