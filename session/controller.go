package session

import (
	"gonum.org/v1/gonum/stat"

	"tartil/align"
	"tartil/corpus"
)

// confidenceWindowCap bounds the rolling-average telemetry to the last 32
// chunk confidences. It is independent of MAX_LOW_CONFIDENCE, which only the
// streak-based mode transition uses.
const confidenceWindowCap = 32

// Controller applies one alignment Result to a Session, running the C6
// mode-transition table and advancing the anchor. It carries no state of its
// own; all state lives on the Session it is given.
type Controller struct {
	cfg align.Config
}

// NewController builds a Controller bound to cfg's CONFIDENCE_THRESHOLD and
// MAX_LOW_CONFIDENCE knobs.
func NewController(cfg align.Config) *Controller {
	return &Controller{cfg: cfg}
}

// Apply updates s in place: advances the anchor to
// max(global_word_pos, furthest_global_idx), then runs the transition table
// on confidence against CONFIDENCE_THRESHOLD and MAX_LOW_CONFIDENCE. Must be
// called with s locked.
func (c *Controller) Apply(s *Session, res align.Result) {
	if res.FurthestGlobalIdx > s.GlobalWordPos {
		s.GlobalWordPos = res.FurthestGlobalIdx
	}
	s.LastConfidence = res.Confidence

	s.confWindow = append(s.confWindow, res.Confidence)
	if len(s.confWindow) > confidenceWindowCap {
		s.confWindow = s.confWindow[len(s.confWindow)-confidenceWindowCap:]
	}
	s.RollingConfAvg = stat.Mean(s.confWindow, nil)

	if res.Confidence >= c.cfg.ConfidenceThreshold {
		s.Mode = corpus.ModeTracking
		s.LowConfStreak = 0
		return
	}

	switch s.Mode {
	case corpus.ModeTracking:
		s.LowConfStreak++
		if s.LowConfStreak >= uint16(c.cfg.MaxLowConfidence) {
			s.Mode = corpus.ModeSearch
		}
	case corpus.ModeSearch:
		// stays in search; streak already exhausted to get here
	}
}
