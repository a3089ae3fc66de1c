package align

import (
	"tartil/corpus"
	"tartil/similarity"
)

// Engine runs the alignment operation (C5) against a shared, read-only
// reference Index.
type Engine struct {
	cfg   Config
	index *corpus.Index
}

// NewEngine builds an Engine over idx using cfg. idx is never mutated.
func NewEngine(cfg Config, idx *corpus.Index) *Engine {
	return &Engine{cfg: cfg, index: idx}
}

type candidate struct {
	k       uint32
	l       int
	score   float64
	matches []Match
}

// Align generates candidate segments from the window the current mode
// permits, scores each with Score, and accepts the best one if it clears
// SegmentThreshold. The returned FurthestGlobalIdx is never less than
// anchor; matches are in spoken-word order; every spoken word appears
// exactly once across them.
func (e *Engine) Align(spoken []string, anchor uint32, mode corpus.Mode, page *uint32) Result {
	win := e.index.RangeForWindow(anchor, mode, page, e.cfg.WindowSize, e.cfg.BackwardMargin)

	if win.Empty() || len(spoken) == 0 {
		return Result{FurthestGlobalIdx: anchor}
	}

	m := len(spoken)
	var best *candidate

	for k := win.Lo; k < win.Hi; k += uint32(e.cfg.SegmentStride) {
		minL := e.cfg.MinSegmentWords
		if m-2 > minL {
			minL = m - 2
		}
		if m < e.cfg.MinSegmentWords {
			// spoken vector shorter than MIN_SEGMENT_WORDS: relax the lower bound to m
			minL = m
		}
		maxL := e.cfg.MaxSegmentWords
		if m+2 < maxL {
			maxL = m + 2
		}
		if remaining := int(win.Hi - k); remaining < maxL {
			maxL = remaining
		}
		if maxL < minL {
			continue
		}

		for l := minL; l <= maxL; l++ {
			if l <= 0 {
				continue
			}
			segment := e.index.WordsInRange(k, k+uint32(l))
			if len(segment) == 0 {
				continue
			}
			score, matches := Score(e.cfg, spoken, segment, similarity.Sim)

			c := candidate{k: k, l: l, score: score, matches: matches}
			if better(c, best, m) {
				best = &c
			}
		}

		// avoid infinite loop when stride is misconfigured to 0
		if e.cfg.SegmentStride <= 0 {
			break
		}
	}

	if best == nil {
		return Result{FurthestGlobalIdx: anchor}
	}

	if best.score >= e.cfg.SegmentThreshold {
		return Result{
			Matches:           best.matches,
			SegmentScore:      best.score,
			Confidence:        best.score,
			FurthestGlobalIdx: best.k + uint32(best.l),
			Accepted:          true,
		}
	}

	return Result{
		Matches:           best.matches,
		SegmentScore:      best.score,
		Confidence:        best.score,
		FurthestGlobalIdx: anchor,
		Accepted:          false,
	}
}

// better reports whether candidate c beats the current best: highest score
// wins; ties broken by smaller |L-m|, then by smaller k.
func better(c candidate, best *candidate, m int) bool {
	if best == nil {
		return true
	}
	if c.score != best.score {
		return c.score > best.score
	}
	cd, bd := absDiff(c.l, m), absDiff(best.l, m)
	if cd != bd {
		return cd < bd
	}
	return c.k < best.k
}

func absDiff(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d
}
