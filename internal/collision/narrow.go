package collision

import (
	"math"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

type collideFunc func(m *Manifold, a, b *body.Body)

// Mixed pairs delegate to aabbCircle with the roles swapped.
var dispatch = [shape.NumTypes][shape.NumTypes]collideFunc{
	shape.TypeCircle: {
		shape.TypeCircle: circleCircle,
		shape.TypeAABB:   circleAABB,
	},
	shape.TypeAABB: {
		shape.TypeCircle: aabbCircle,
		shape.TypeAABB:   aabbAABB,
	},
}

func lookup(ta, tb shape.Type) collideFunc {
	if ta < 0 || ta >= shape.NumTypes || tb < 0 || tb >= shape.NumTypes {
		return nil
	}
	return dispatch[ta][tb]
}

func circleCircle(m *Manifold, a, b *body.Body) {
	ca := a.Shape.(shape.Circle)
	cb := b.Shape.(shape.Circle)

	n := b.Position.Sub(a.Position)
	r := ca.Radius + cb.Radius
	distSqr := n.LenSqr()
	if distSqr >= r*r {
		return
	}

	dist := math.Sqrt(distSqr)
	if dist == 0 {
		// Coincident centres: any axis separates them, pick +x.
		m.Penetration = ca.Radius
		m.Normal = vec.New(1, 0)
		m.Contacts = append(m.Contacts, a.Position)
		return
	}

	m.Penetration = r - dist
	m.Normal = n.Div(dist)
	m.Contacts = append(m.Contacts, a.Position.Add(m.Normal.Scale(ca.Radius)))
}

func circleAABB(m *Manifold, a, b *body.Body) {
	aabbCircle(m, b, a)
	m.Normal = m.Normal.Neg()
}

func aabbCircle(m *Manifold, a, b *body.Body) {
	box := a.Shape.(shape.AABB)
	circle := b.Shape.(shape.Circle)

	half := box.HalfExtents()
	diff := b.Position.Sub(a.Position)
	clamped := diff.Clamp(half.Neg(), half)

	if !clamped.Equal(diff) {
		closest := a.Position.Add(clamped)
		n := b.Position.Sub(closest)
		distSqr := n.LenSqr()
		if distSqr >= circle.Radius*circle.Radius {
			return
		}
		if dist := math.Sqrt(distSqr); dist > 0 {
			n.Normalize()
			m.Normal = n
			m.Penetration = circle.Radius - dist
			m.Contacts = append(m.Contacts, closest)
			return
		}
		// Centre lies on the surface within float error; treat as inside.
	}

	// Centre inside the box: leave through the face nearest to it. The normal
	// stays outward and the depth adds to the radius so penetration is never
	// negative.
	toFaceX := half.X - math.Abs(diff.X)
	toFaceY := half.Y - math.Abs(diff.Y)
	if toFaceX <= toFaceY {
		s := sign(diff.X)
		clamped.X = s * half.X
		m.Normal = vec.New(s, 0)
		m.Penetration = circle.Radius + toFaceX
	} else {
		s := sign(diff.Y)
		clamped.Y = s * half.Y
		m.Normal = vec.New(0, s)
		m.Penetration = circle.Radius + toFaceY
	}
	m.Contacts = append(m.Contacts, a.Position.Add(clamped))
}

func aabbAABB(m *Manifold, a, b *body.Body) {
	ha := a.Shape.HalfExtents()
	hb := b.Shape.HalfExtents()
	n := b.Position.Sub(a.Position)

	xOverlap := ha.X + hb.X - math.Abs(n.X)
	if xOverlap <= 0 {
		return
	}
	yOverlap := ha.Y + hb.Y - math.Abs(n.Y)
	if yOverlap <= 0 {
		return
	}

	if xOverlap < yOverlap {
		m.Normal = vec.New(sign(n.X), 0)
		m.Penetration = xOverlap
	} else {
		m.Normal = vec.New(0, sign(n.Y))
		m.Penetration = yOverlap
	}

	// Contact at the centre of the overlap rectangle.
	aMin, aMax := a.Bounds()
	bMin, bMax := b.Bounds()
	lo := vec.New(math.Max(aMin.X, bMin.X), math.Max(aMin.Y, bMin.Y))
	hi := vec.New(math.Min(aMax.X, bMax.X), math.Min(aMax.Y, bMax.Y))
	m.Contacts = append(m.Contacts, lo.Add(hi).Div(2))
}

// sign maps zero to +1 so a degenerate axis still yields a unit normal.
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
