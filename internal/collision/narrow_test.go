package collision_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

const tol = 1e-9

func circle(x, y, r float64) body.Body {
	return body.New(shape.NewCircle(r), vec.New(x, y), 1)
}

func box(x, y, w, h float64) body.Body {
	return body.New(shape.NewBox(w, h), vec.New(x, y), 1)
}

func solve(bodies []body.Body) collision.Manifold {
	m := collision.New(0, 1)
	m.Solve(bodies)
	return m
}

type bogusShape struct{ shape.Circle }

func (bogusShape) Type() shape.Type { return shape.NumTypes }

var _ = Describe("Narrow phase", func() {
	Describe("circle vs circle", func() {
		It("reports penetration and an a-to-b normal", func() {
			m := solve([]body.Body{circle(0, 0, 10), circle(15, 0, 10)})

			Expect(m.Colliding()).To(BeTrue())
			Expect(m.Penetration).To(BeNumerically("~", 5, tol))
			Expect(m.Normal).To(Equal(vec.New(1, 0)))
			Expect(m.Contacts).To(HaveLen(1))
			Expect(m.Contacts[0]).To(Equal(vec.New(10, 0)))
		})

		It("flips the normal when the roles are swapped", func() {
			ab := solve([]body.Body{circle(0, 0, 10), circle(15, 0, 10)})
			ba := solve([]body.Body{circle(15, 0, 10), circle(0, 0, 10)})

			Expect(ba.Normal).To(Equal(ab.Normal.Neg()))
			Expect(ba.Penetration).To(BeNumerically("~", ab.Penetration, tol))
			Expect(ba.Contacts).To(HaveLen(len(ab.Contacts)))
			// Both contacts lie inside the overlap lens on the centre line.
			for _, c := range append(ab.Contacts, ba.Contacts...) {
				Expect(c.Y).To(BeNumerically("~", 0, tol))
				Expect(c.X).To(And(BeNumerically(">=", 5-tol), BeNumerically("<=", 10+tol)))
			}
		})

		It("treats touching circles as separate", func() {
			m := solve([]body.Body{circle(0, 0, 10), circle(20, 0, 10)})
			Expect(m.Colliding()).To(BeFalse())
			Expect(m.Contacts).To(BeEmpty())
		})

		It("picks +x for coincident centres", func() {
			m := solve([]body.Body{circle(3, 4, 7), circle(3, 4, 2)})

			Expect(m.Colliding()).To(BeTrue())
			Expect(m.Normal).To(Equal(vec.New(1, 0)))
			Expect(m.Penetration).To(Equal(7.0))
			Expect(m.Contacts[0]).To(Equal(vec.New(3, 4)))
		})

		It("produces a unit normal for diagonal overlaps", func() {
			m := solve([]body.Body{circle(0, 0, 5), circle(3, 4, 5)})
			Expect(m.Normal.Len()).To(BeNumerically("~", 1, tol))
			Expect(m.Penetration).To(BeNumerically("~", 5, tol))
		})
	})

	Describe("box vs circle", func() {
		It("finds the closest surface point when the centre is outside", func() {
			// Floor centred at (0,155), 2000x10; circle resting 8 units above.
			m := solve([]body.Body{box(0, 155, 2000, 10), circle(0, 142, 10)})

			Expect(m.Colliding()).To(BeTrue())
			Expect(m.Normal.X).To(BeNumerically("~", 0, tol))
			Expect(m.Normal.Y).To(BeNumerically("~", -1, tol))
			Expect(m.Penetration).To(BeNumerically("~", 2, tol))
			Expect(m.Contacts[0]).To(Equal(vec.New(0, 150)))
		})

		It("misses when the circle is out of reach", func() {
			m := solve([]body.Body{box(0, 0, 10, 10), circle(20, 0, 5)})
			Expect(m.Colliding()).To(BeFalse())
		})

		It("treats a circle touching a face as separate", func() {
			m := solve([]body.Body{box(0, 0, 10, 10), circle(10, 0, 5)})
			Expect(m.Colliding()).To(BeFalse())
		})

		It("handles corner contacts", func() {
			m := solve([]body.Body{box(0, 0, 10, 10), circle(8, 8, 5)})

			Expect(m.Colliding()).To(BeTrue())
			Expect(m.Normal.X).To(BeNumerically("~", math.Sqrt2/2, tol))
			Expect(m.Normal.Y).To(BeNumerically("~", math.Sqrt2/2, tol))
			Expect(m.Penetration).To(BeNumerically("~", 5-3*math.Sqrt2, tol))
			Expect(m.Contacts[0]).To(Equal(vec.New(5, 5)))
		})

		It("pushes an embedded centre out through the nearest face", func() {
			// Wide floor; the centre sits 1 unit below the top face.
			m := solve([]body.Body{box(0, 155, 2000, 10), circle(400, 151, 10)})

			Expect(m.Colliding()).To(BeTrue())
			Expect(m.Normal).To(Equal(vec.New(0, -1)))
			Expect(m.Penetration).To(BeNumerically("~", 11, tol))
			Expect(m.Contacts[0]).To(Equal(vec.New(400, 150)))
		})

		It("falls back to the +x face when the centres coincide", func() {
			m := solve([]body.Body{box(0, 0, 10, 10), circle(0, 0, 2)})

			Expect(m.Normal).To(Equal(vec.New(1, 0)))
			Expect(m.Penetration).To(BeNumerically("~", 7, tol))
		})

		It("mirrors the result for circle vs box", func() {
			bc := solve([]body.Body{box(0, 0, 10, 10), circle(8, 8, 5)})
			cb := solve([]body.Body{circle(8, 8, 5), box(0, 0, 10, 10)})

			Expect(cb.Normal).To(Equal(bc.Normal.Neg()))
			Expect(cb.Penetration).To(Equal(bc.Penetration))
			Expect(cb.Contacts).To(Equal(bc.Contacts))
		})
	})

	Describe("box vs box", func() {
		It("separates along the axis of least overlap", func() {
			m := solve([]body.Body{box(0, 0, 10, 10), box(8, 1, 10, 10)})

			Expect(m.Colliding()).To(BeTrue())
			Expect(m.Normal).To(Equal(vec.New(1, 0)))
			Expect(m.Penetration).To(BeNumerically("~", 2, tol))
		})

		It("takes the normal sign from the centre offset", func() {
			m := solve([]body.Body{box(0, 0, 10, 10), box(1, -9, 10, 10)})

			Expect(m.Normal).To(Equal(vec.New(0, -1)))
			Expect(m.Penetration).To(BeNumerically("~", 1, tol))
		})

		It("places the contact at the centre of the overlap", func() {
			m := solve([]body.Body{box(0, 0, 10, 10), box(8, 1, 10, 10)})
			// Overlap spans x in [3,5], y in [-4,5].
			Expect(m.Contacts).To(ConsistOf(vec.New(4, 0.5)))
		})

		It("requires overlap on both axes", func() {
			Expect(solve([]body.Body{box(0, 0, 10, 10), box(10, 0, 10, 10)}).Colliding()).To(BeFalse())
			Expect(solve([]body.Body{box(0, 0, 10, 10), box(3, 12, 10, 10)}).Colliding()).To(BeFalse())
		})
	})

	It("panics on a shape pair missing from the table", func() {
		bodies := []body.Body{
			circle(0, 0, 1),
			body.New(bogusShape{shape.NewCircle(1)}, vec.Zero, 1),
		}
		m := collision.New(0, 1)
		Expect(func() { m.Solve(bodies) }).To(PanicWith(MatchError(collision.ErrUnknownShapePair)))
	})

	It("clears contacts from a previous solve", func() {
		bodies := []body.Body{circle(0, 0, 10), circle(15, 0, 10)}
		m := collision.New(0, 1)
		m.Solve(bodies)
		Expect(m.Contacts).To(HaveLen(1))

		bodies[1].Position = vec.New(100, 0)
		m.Solve(bodies)
		Expect(m.Colliding()).To(BeFalse())
	})
})
