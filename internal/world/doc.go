// Package world owns the bodies of a simulation and advances them in fixed
// steps.
//
// A step runs the whole pipeline in a fixed order:
//   - broad phase over every pair i<j, skipping pairs where both are static
//   - narrow phase per pair, keeping manifolds with at least one contact
//   - half-step force integration
//   - restitution setup and a fixed number of impulse iterations
//   - position drift followed by the second half-step of force integration
//   - positional correction and force reset
//
// Example:
//
//	w, err := world.New(world.DefaultDt, world.DefaultIterations)
//	if err != nil {
//	    return err
//	}
//	floor := body.New(shape.NewBox(2000, 10), vec.New(0, 155), 0)
//	floor.MakeStatic()
//	w.Add(floor)
//	ball := w.Add(body.New(shape.NewCircle(10), vec.New(0, 100), 0))
//	for i := 0; i < 600; i++ {
//	    w.Step()
//	}
//	b, _ := w.Body(ball)
//	fmt.Println(b.Position)
//
// A World is not safe for concurrent use. Hosts that render from another
// goroutine read [World.Bodies], which returns a copy.
package world
