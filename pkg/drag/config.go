package drag

import "time"

// Config carries every tunable of the placement engine. Zero values are not
// usable; start from [DefaultConfig] and override fields as needed.
type Config struct {
	// EdgeRatio is the fraction of a container item's height reserved at
	// its top and bottom for "reorder the container" intent. The middle
	// band means "place inside".
	EdgeRatio float64

	// MinEdge and MaxEdge clamp the computed edge height, in the host's
	// coordinate units. The edge band additionally never exceeds half the
	// region height, so the inside band cannot vanish.
	MinEdge float64
	MaxEdge float64

	// HysteresisRatio scales the edge height into the widened band a
	// pointer must cross to leave its previous before/inside/after state.
	HysteresisRatio float64

	// CommitDelay is how long a raw candidate must hold steady before the
	// stabilizer commits it. Entering a container zone commits
	// immediately regardless of this delay.
	CommitDelay time.Duration
}

// DefaultConfig returns the tuning the builder UI ships with.
func DefaultConfig() Config {
	return Config{
		EdgeRatio:       0.25,
		MinEdge:         20,
		MaxEdge:         48,
		HysteresisRatio: 0.5,
		CommitDelay:     40 * time.Millisecond,
	}
}

// edgeHeight computes the edge-zone height for a region of the given
// height: height*EdgeRatio clamped into [MinEdge, MaxEdge] and never more
// than half the height.
func (c Config) edgeHeight(height float64) float64 {
	e := height * c.EdgeRatio
	if e < c.MinEdge {
		e = c.MinEdge
	}
	if e > c.MaxEdge {
		e = c.MaxEdge
	}
	if half := height / 2; e > half {
		e = half
	}
	return e
}

// hysteresis returns the widened-band width derived from an edge height.
func (c Config) hysteresis(edge float64) float64 {
	return edge * c.HysteresisRatio
}
