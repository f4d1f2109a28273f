// Package analysis extracts summary numbers from sampled body
// trajectories.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectral view of a series
//   - [Bounces]: rebound events, apparent restitution and settling time
//
// # Bounce frequency
//
// A ball bouncing on a floor traces a periodic height curve:
//
//	ys := heights(result.Trajectory(ball))
//	f, err := analysis.DominantFrequency(ys, dt)
package analysis
