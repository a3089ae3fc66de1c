package corpus

import (
	"fmt"

	"tartil/normalize"
)

// Mode selects how RangeForWindow clips the search window.
type Mode string

const (
	// ModeTracking searches a narrow window around the anchor.
	ModeTracking Mode = "tracking"
	// ModeSearch searches the full current page.
	ModeSearch Mode = "search"
)

// Index is the immutable, shared reference index: an ordered sequence of
// reference words plus a page_number -> [lo, hi) global-index mapping. Safe
// for concurrent use by any number of sessions once built - nothing here
// mutates after New returns.
type Index struct {
	words     []Word
	pageRange map[uint32]WordRange
	total     uint32
}

// New builds an Index from the canonical verse list, in the verses' given
// order. Each verse's Words are normalized and flattened into one dense
// global sequence; empty normalized words are dropped (callers discard
// empty tokens, same rule as spoken words).
func New(verses []Verse) (*Index, error) {
	idx := &Index{pageRange: make(map[uint32]WordRange)}

	var gi uint32
	for _, v := range verses {
		for wi, raw := range v.Words {
			norm := normalize.Text(raw)
			if norm == "" {
				continue
			}
			if wi > int(^uint16(0)) {
				return nil, fmt.Errorf("corpus: verse %d has more than %d words", v.ID, ^uint16(0))
			}
			idx.words = append(idx.words, Word{
				GlobalIndex: gi,
				VerseID:     v.ID,
				WordIndex:   uint16(wi),
				TextRaw:     raw,
				TextNorm:    norm,
			})

			r, seen := idx.pageRange[v.Page]
			if !seen {
				r = WordRange{Lo: gi, Hi: gi + 1}
			} else {
				if gi < r.Lo {
					r.Lo = gi
				}
				if gi+1 > r.Hi {
					r.Hi = gi + 1
				}
			}
			idx.pageRange[v.Page] = r

			gi++
		}
	}
	idx.total = gi
	return idx, nil
}

// Len returns the total number of reference words in the corpus.
func (idx *Index) Len() uint32 { return idx.total }

// WordsInRange returns the reference words in [lo, hi), clipped to the
// corpus bounds.
func (idx *Index) WordsInRange(lo, hi uint32) []Word {
	if hi > idx.total {
		hi = idx.total
	}
	if lo >= hi {
		return nil
	}
	return idx.words[lo:hi]
}

// Word returns the reference word at a global index, if any.
func (idx *Index) Word(gi uint32) (Word, bool) {
	if gi >= idx.total {
		return Word{}, false
	}
	return idx.words[gi], true
}

// RangeForPage returns the [lo, hi) global-index range for a page. ok is
// false when the page is unknown; the caller should fall back to the
// full-index window.
func (idx *Index) RangeForPage(page uint32) (WordRange, bool) {
	r, ok := idx.pageRange[page]
	return r, ok
}

// RangeForWindow computes the search window for a given anchor and mode,
// always clipped to the active page (or the whole index if page is absent):
//
//	tracking: lo = max(page_lo, anchor-backwardMargin), hi = min(page_hi, anchor+windowSize)
//	search:   lo = page_lo, hi = page_hi
func (idx *Index) RangeForWindow(anchor uint32, mode Mode, page *uint32, windowSize, backwardMargin uint32) WordRange {
	pageLo, pageHi := uint32(0), idx.total
	if page != nil {
		if r, ok := idx.RangeForPage(*page); ok {
			pageLo, pageHi = r.Lo, r.Hi
		}
	}

	if mode == ModeSearch {
		return WordRange{Lo: pageLo, Hi: pageHi}
	}

	lo := pageLo
	if anchor > backwardMargin && anchor-backwardMargin > pageLo {
		lo = anchor - backwardMargin
	}
	hi := pageHi
	if anchor+windowSize < pageHi {
		hi = anchor + windowSize
	}
	if hi < lo {
		hi = lo
	}
	return WordRange{Lo: lo, Hi: hi}
}
