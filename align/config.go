package align

// Config is the set of tunable alignment knobs, fixed at startup (no hot
// reload) and shared read-only across every session.
type Config struct {
	WordThreshold    float64 // minimum similarity to call a word correct
	SegmentThreshold float64 // minimum segment score to accept a candidate

	Alpha float64 // edit-distance weight in segment score, Alpha+Beta=1
	Beta  float64 // length-penalty weight

	DeleteCost float64 // cost of dropping a spoken word (insertion in DP terms)
	InsertCost float64 // cost of skipping a reference word (deletion in DP terms)

	WindowSize      uint32 // forward reach of tracking window, in words
	BackwardMargin  uint32 // backward reach from anchor, in words
	MinSegmentWords int
	MaxSegmentWords int
	SegmentStride   int

	ConfidenceThreshold float64 // low-confidence boundary
	MaxLowConfidence    int     // streak length before dropping to search mode

	MaxBufferSeconds float64 // audio ring cap
}

// DefaultConfig returns the authoritative default knob values.
func DefaultConfig() Config {
	return Config{
		WordThreshold:       0.9,
		SegmentThreshold:    0.45,
		Alpha:               0.7,
		Beta:                0.3,
		DeleteCost:          1.0,
		InsertCost:          1.0,
		WindowSize:          15,
		BackwardMargin:      5,
		MinSegmentWords:     2,
		MaxSegmentWords:     20,
		SegmentStride:       2,
		ConfidenceThreshold: 0.4,
		MaxLowConfidence:    3,
		MaxBufferSeconds:    8.0,
	}
}
