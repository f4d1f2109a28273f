// Package control provides controllers that push bodies around with
// forces, applied by the host before every step.
//
// Controllers implement [sim.Controller]:
//
//   - [PID]: drives one body towards a target point
//   - [Manual]: applies a force set by the user, e.g. from key presses
//   - [None]: does nothing
//
// # Usage
//
//	pid := control.NewPID(ball, 40, 2, 12, vec.New(0, 40))
//	s := sim.New(w, pid)
//
// PID exposes its gains through GetParams and SetParam for live tuning.
package control
