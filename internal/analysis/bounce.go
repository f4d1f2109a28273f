package analysis

import "math"

// BounceStats summarizes the vertical motion of one body. Velocities use
// screen coordinates: positive is falling.
type BounceStats struct {
	// Count is the number of rebounds (falling to rising transitions).
	Count int
	// Restitution is the mean ratio of rebound to impact speed.
	Restitution float64
	// SettleTime is the first time after which |vy| stays below the
	// threshold, or -1 when the body never settles.
	SettleTime float64
}

// Bounces scans a vertical velocity series sampled every dt seconds.
func Bounces(vy []float64, dt, threshold float64) BounceStats {
	stats := BounceStats{SettleTime: -1}
	if len(vy) < 2 {
		return stats
	}

	var ratios float64
	for i := 1; i < len(vy); i++ {
		impact, rebound := vy[i-1], vy[i]
		if impact > threshold && rebound < 0 {
			stats.Count++
			ratios += -rebound / impact
		}
	}
	if stats.Count > 0 {
		stats.Restitution = ratios / float64(stats.Count)
	}

	settled := len(vy)
	for i := len(vy) - 1; i >= 0; i-- {
		if math.Abs(vy[i]) >= threshold {
			break
		}
		settled = i
	}
	if settled < len(vy) {
		stats.SettleTime = float64(settled) * dt
	}
	return stats
}
