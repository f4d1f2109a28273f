package world_test

import (
	"math"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

func newWorld(opts ...world.Option) *world.World {
	w, err := world.New(world.DefaultDt, world.DefaultIterations, opts...)
	Expect(err).NotTo(HaveOccurred())
	return w
}

func floor(restitution float64) body.Body {
	box := shape.NewAABB(vec.New(-1000, 150), vec.New(1000, 160))
	b := body.New(box, box.Center(), restitution)
	b.MakeStatic()
	return b
}

func ball(x, y, restitution float64) body.Body {
	return body.New(shape.NewCircle(10), vec.New(x, y), restitution)
}

var _ = Describe("World", func() {
	Describe("New", func() {
		DescribeTable("rejects bad timesteps",
			func(dt float64) {
				_, err := world.New(dt, 10)
				Expect(err).To(MatchError(world.ErrInvalidTimestep))
			},
			Entry("zero", 0.0),
			Entry("negative", -0.01),
			Entry("NaN", math.NaN()),
			Entry("infinite", math.Inf(1)),
		)

		It("rejects zero iterations", func() {
			_, err := world.New(world.DefaultDt, 0)
			Expect(err).To(MatchError(world.ErrNoIterations))
		})

		It("applies defaults and options", func() {
			w := newWorld()
			Expect(w.Gravity()).To(Equal(vec.New(0, 10)))
			Expect(w.Dt()).To(Equal(1.0 / 60.0))
			Expect(w.Iterations()).To(Equal(uint(20)))

			w = newWorld(world.WithGravity(vec.New(0, -9.81)))
			Expect(w.Gravity()).To(Equal(vec.New(0, -9.81)))
		})
	})

	Describe("Add", func() {
		It("returns ids in insertion order", func() {
			w := newWorld()
			Expect(w.Add(ball(0, 0, 0))).To(Equal(world.BodyID(0)))
			Expect(w.Add(ball(50, 0, 0))).To(Equal(world.BodyID(1)))
			Expect(w.Len()).To(Equal(2))

			b, err := w.Body(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Position).To(Equal(vec.New(50, 0)))
		})

		It("reports unknown ids", func() {
			w := newWorld()
			_, err := w.Body(3)
			Expect(err).To(MatchError(world.ErrBodyNotFound))
			Expect(w.ApplyForce(-1, vec.Zero)).To(MatchError(world.ErrBodyNotFound))
			Expect(w.ApplyImpulse(7, vec.Zero)).To(MatchError(world.ErrBodyNotFound))
			Expect(w.SetBody(0, ball(0, 0, 0))).To(MatchError(world.ErrBodyNotFound))
		})
	})

	Describe("Bodies", func() {
		It("returns a copy", func() {
			w := newWorld()
			w.Add(ball(0, 0, 0))

			bodies := w.Bodies()
			bodies[0].Position = vec.New(99, 99)

			b, _ := w.Body(0)
			Expect(b.Position).To(Equal(vec.New(0, 0)))
		})
	})

	Describe("Step", func() {
		It("integrates free fall with two half kicks", func() {
			w := newWorld()
			id := w.Add(ball(0, 0, 0))

			w.Step()

			dt := world.DefaultDt
			b, _ := w.Body(id)
			Expect(b.Velocity.Y).To(BeNumerically("~", 10*dt, 1e-12))
			Expect(b.Position.Y).To(BeNumerically("~", 10*dt*0.5*dt, 1e-12))
			Expect(w.Steps()).To(Equal(1))
			Expect(w.Time()).To(BeNumerically("~", dt, 1e-15))
		})

		It("applies accumulated force for one step and clears it", func() {
			w := newWorld(world.WithGravity(vec.Zero))
			id := w.Add(ball(0, 0, 0))
			b, _ := w.Body(id)
			Expect(w.ApplyForce(id, vec.New(5*b.Mass, 0))).To(Succeed())

			w.Step()

			b, _ = w.Body(id)
			Expect(b.Velocity.X).To(BeNumerically("~", 5*world.DefaultDt, 1e-12))
			Expect(b.Force).To(Equal(vec.Zero))

			w.Step()
			after, _ := w.Body(id)
			Expect(after.Velocity).To(Equal(b.Velocity))
		})

		It("never moves static bodies", func() {
			w := newWorld()
			id := w.Add(floor(0))
			w.Add(ball(0, 145, 0))

			for range 30 {
				w.Step()
			}

			b, _ := w.Body(id)
			Expect(b.Position).To(Equal(vec.New(0, 155)))
			Expect(b.Velocity).To(Equal(vec.Zero))
		})

		It("skips pairs of static bodies", func() {
			w := newWorld()
			w.Add(floor(0))
			w.Add(floor(0))
			w.Step()
			Expect(w.Contacts()).To(BeEmpty())

			w.Add(ball(0, 145, 0))
			w.Step()
			Expect(w.Contacts()).To(HaveLen(2))
			for _, m := range w.Contacts() {
				Expect(m.B).To(Equal(2))
			}
		})

		It("rebuilds contacts every step", func() {
			w := newWorld(world.WithGravity(vec.Zero))
			w.Add(ball(0, 0, 1))
			w.Add(ball(15, 0, 1))

			w.Step()
			Expect(w.Contacts()).To(HaveLen(1))

			Expect(w.SetBody(1, ball(500, 0, 1))).To(Succeed())
			w.Step()
			Expect(w.Contacts()).To(BeEmpty())
		})

		It("settles an inelastic ball on the floor", func() {
			w := newWorld()
			w.Add(floor(0))
			id := w.Add(ball(0, 100, 0))

			for range 600 {
				w.Step()
			}

			b, _ := w.Body(id)
			Expect(b.Position.X).To(Equal(0.0))
			Expect(b.Position.Y).To(BeNumerically("~", 140, collision.Slop+1e-9))
			Expect(b.Velocity.Y).To(And(
				BeNumerically(">=", 0),
				BeNumerically("<", 10*world.DefaultDt),
			))
		})

		It("bounces a ball with restitution", func() {
			w := newWorld()
			w.Add(floor(0.5))
			id := w.Add(ball(0, 100, 0.5))

			minVy := math.Inf(1)
			for range 300 {
				w.Step()
				b, _ := w.Body(id)
				minVy = math.Min(minVy, b.Velocity.Y)
			}

			Expect(minVy).To(BeNumerically("<", -5))
		})

		It("is deterministic", func() {
			build := func() *world.World {
				w := newWorld()
				w.Add(floor(0.5))
				for i := range 8 {
					w.Add(body.New(shape.NewCircle(10), vec.New(float64(i)*15-60, float64(i)*-25), 0.7))
					w.Add(body.New(shape.NewBox(20, 20), vec.New(float64(i)*18-70, float64(i)*-30-200), 0.3))
				}
				return w
			}

			a, b := build(), build()
			for range 300 {
				a.Step()
				b.Step()
			}

			Expect(cmp.Diff(a.Bodies(), b.Bodies())).To(BeEmpty())
		})
	})

	Describe("invariant checks", func() {
		It("records non-finite bodies without stopping", func() {
			core, logs := observer.New(zapcore.DebugLevel)
			w := newWorld(world.WithInvariantChecks(true), world.WithLogger(zap.New(core)))
			b := ball(0, 0, 0)
			b.Velocity = vec.New(math.NaN(), 0)
			id := w.Add(b)

			w.Step()
			w.Step()

			Expect(w.Steps()).To(Equal(2))
			Expect(w.Violations()).To(Equal(2))
			Expect(w.Err()).To(MatchError(world.ErrInvalidState))

			var stepErr *world.StepError
			Expect(w.Err()).To(BeAssignableToTypeOf(stepErr))
			Expect(w.Err().(*world.StepError).Body).To(Equal(id))
			Expect(logs.FilterMessage("body state invalid").Len()).To(Equal(2))
		})

		It("stays quiet when disabled", func() {
			w := newWorld()
			b := ball(0, 0, 0)
			b.Velocity = vec.New(math.Inf(1), 0)
			w.Add(b)

			w.Step()

			Expect(w.Violations()).To(BeZero())
			Expect(w.Err()).NotTo(HaveOccurred())
		})
	})
})
