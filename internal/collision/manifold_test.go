package collision_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

var _ = Describe("Manifold", func() {
	var bodies []body.Body

	resolve := func() collision.Manifold {
		m := collision.New(0, 1)
		m.Solve(bodies)
		m.Initialize(bodies)
		return m
	}

	It("starts with no contacts and a default normal", func() {
		m := collision.New(2, 5)
		Expect(m.A).To(Equal(2))
		Expect(m.B).To(Equal(5))
		Expect(m.Colliding()).To(BeFalse())
		Expect(m.Normal.Len()).To(BeNumerically("~", 1, tol))
	})

	Describe("Initialize", func() {
		It("uses the smaller restitution", func() {
			bodies = []body.Body{
				body.New(shape.NewCircle(10), vec.New(0, 0), 0.8),
				body.New(shape.NewCircle(10), vec.New(15, 0), 0.3),
			}
			Expect(resolve().E).To(Equal(0.3))
		})
	})

	Describe("ApplyImpulse", func() {
		BeforeEach(func() {
			bodies = []body.Body{circle(0, 0, 10), circle(15, 0, 10)}
		})

		It("swaps velocities of equal masses in an elastic head-on hit", func() {
			bodies[0].Velocity = vec.New(5, 0)
			bodies[1].Velocity = vec.New(-5, 0)
			m := resolve()

			m.ApplyImpulse(bodies)

			Expect(bodies[0].Velocity.X).To(BeNumerically("~", -5, tol))
			Expect(bodies[1].Velocity.X).To(BeNumerically("~", 5, tol))
		})

		It("kills the normal velocity when restitution is zero", func() {
			bodies[0].Restitution = 0
			bodies[0].Velocity = vec.New(4, 0)
			m := resolve()

			m.ApplyImpulse(bodies)

			rv := bodies[1].Velocity.Sub(bodies[0].Velocity).Dot(m.Normal)
			Expect(rv).To(BeNumerically("~", 0, tol))
			// Momentum is conserved.
			total := bodies[0].Velocity.Scale(bodies[0].Mass).Add(bodies[1].Velocity.Scale(bodies[1].Mass))
			Expect(total.X).To(BeNumerically("~", 4*bodies[0].Mass, 1e-6))
		})

		It("leaves separating bodies alone", func() {
			bodies[0].Velocity = vec.New(-1, 0)
			bodies[1].Velocity = vec.New(1, 0)
			m := resolve()

			m.ApplyImpulse(bodies)

			Expect(bodies[0].Velocity).To(Equal(vec.New(-1, 0)))
			Expect(bodies[1].Velocity).To(Equal(vec.New(1, 0)))
		})

		It("bounces a body off a static one", func() {
			bodies[1].MakeStatic()
			bodies[0].Velocity = vec.New(3, 0)
			m := resolve()

			m.ApplyImpulse(bodies)

			Expect(bodies[0].Velocity.X).To(BeNumerically("~", -3, tol))
			Expect(bodies[1].Velocity).To(Equal(vec.Zero))
		})

		It("zeroes both velocities when both masses are infinite", func() {
			bodies[0].MakeStatic()
			bodies[1].MakeStatic()
			bodies[0].Velocity = vec.New(1, 2)
			bodies[1].Velocity = vec.New(3, 4)
			m := resolve()

			m.ApplyImpulse(bodies)

			Expect(bodies[0].Velocity).To(Equal(vec.Zero))
			Expect(bodies[1].Velocity).To(Equal(vec.Zero))
		})
	})

	Describe("PositionalCorrection", func() {
		It("ignores penetration within the slop", func() {
			bodies = []body.Body{circle(0, 0, 10), circle(19.97, 0, 10)}
			m := resolve()
			Expect(m.Penetration).To(BeNumerically("<", collision.Slop))

			m.PositionalCorrection(bodies)

			Expect(bodies[0].Position).To(Equal(vec.New(0, 0)))
			Expect(bodies[1].Position).To(Equal(vec.New(19.97, 0)))
		})

		It("splits the correction by inverse mass", func() {
			bodies = []body.Body{circle(0, 0, 10), circle(15, 0, 10)}
			m := resolve()

			m.PositionalCorrection(bodies)

			// Equal masses move the same distance in opposite directions.
			shift := (5 - collision.Slop) * collision.Percent / 2
			Expect(bodies[0].Position.X).To(BeNumerically("~", -shift, tol))
			Expect(bodies[1].Position.X).To(BeNumerically("~", 15+shift, tol))
		})

		It("moves only the dynamic body against a static one", func() {
			bodies = []body.Body{circle(0, 0, 10), circle(15, 0, 10)}
			bodies[1].MakeStatic()
			m := resolve()

			m.PositionalCorrection(bodies)

			Expect(bodies[0].Position.X).To(BeNumerically("~", -(5-collision.Slop)*collision.Percent, tol))
			Expect(bodies[1].Position.X).To(Equal(15.0))
		})

		It("does nothing between two static bodies", func() {
			bodies = []body.Body{circle(0, 0, 10), circle(15, 0, 10)}
			bodies[0].MakeStatic()
			bodies[1].MakeStatic()
			m := resolve()

			m.PositionalCorrection(bodies)

			Expect(bodies[0].Position).To(Equal(vec.New(0, 0)))
			Expect(bodies[1].Position).To(Equal(vec.New(15, 0)))
		})
	})
})
