package align

import "tartil/corpus"

// move names the three DP transitions. backtrace does not use these values;
// it picks among the transitions by recomputing and comparing their costs.
type move int

const (
	moveDiag move = iota // consumes one spoken + one reference word
	moveUp               // consumes one spoken word only (insertion: extra spoken word)
	moveLeft             // consumes one reference word only (deletion: missing reference word)
)

// Score runs the word-level edit-distance DP (C4) between the spoken vector
// s and the candidate reference segment r, returning the segment score in
// [0,1] and the back-traced per-word matches.
//
// Substitution cost is 1-sim(s_i,r_j); moveUp ("delete" a spoken word, i.e.
// an extra spoken word with no reference counterpart) costs cfg.DeleteCost;
// moveLeft ("insert" a reference word, i.e. a reference word the reciter
// skipped) costs cfg.InsertCost. Ties in the back-trace favor
// match > substitution > insertion > deletion, then earlier reference
// position on further ties.
func Score(cfg Config, s []string, r []corpus.Word, sim func(a, b string) float64) (float64, []Match) {
	m, n := len(s), len(r)
	if m == 0 || n == 0 {
		return 0, nil
	}

	// d[i][j]: min cost to align s[:i] with r[:j].
	d := make([][]float64, m+1)
	for i := range d {
		d[i] = make([]float64, n+1)
	}
	for i := 1; i <= m; i++ {
		d[i][0] = float64(i) * cfg.DeleteCost
	}
	for j := 1; j <= n; j++ {
		d[0][j] = float64(j) * cfg.InsertCost
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			subCost := 1 - sim(s[i-1], r[j-1].TextNorm)
			diag := d[i-1][j-1] + subCost
			up := d[i-1][j] + cfg.DeleteCost
			left := d[i][j-1] + cfg.InsertCost
			d[i][j] = minF(diag, up, left)
		}
	}

	dist := d[m][n]
	maxLen := float64(maxInt(m, n))
	distScore := 1 - dist/maxLen
	lengthPenalty := 1 - absInt(m-n)/maxLen
	score := cfg.Alpha*distScore + cfg.Beta*lengthPenalty
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	matches := backtrace(cfg, d, s, r, sim)
	return score, matches
}

// backtrace walks the DP matrix from (m,n) to (0,0), choosing among tied
// transitions in match > substitution > insertion > deletion order (diag
// carries match/substitution depending on exact normalized equality), then
// preferring the transition that lands on the earlier reference position.
// The result is reversed so matches are emitted in spoken-word order.
func backtrace(cfg Config, d [][]float64, s []string, r []corpus.Word, sim func(a, b string) float64) []Match {
	m, n := len(s), len(r)
	var out []Match

	i, j := m, n
	const eps = 1e-9

	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0:
			subCost := 1 - sim(s[i-1], r[j-1].TextNorm)
			diag := d[i-1][j-1] + subCost
			up := d[i-1][j] + cfg.DeleteCost
			left := d[i][j-1] + cfg.InsertCost
			cur := d[i][j]

			switch {
			case closeEnough(cur, diag, eps):
				w := r[j-1]
				s2 := sim(s[i-1], w.TextNorm)
				typ := TypeSubstitution
				if s[i-1] == w.TextNorm {
					typ = TypeMatch
				}
				out = append(out, Match{
					SpokenWord: s[i-1],
					QuranWord:  &w,
					Similarity: s2,
					IsCorrect:  s2 >= cfg.WordThreshold,
					Type:       typ,
				})
				i--
				j--
			case closeEnough(cur, up, eps):
				out = append(out, Match{
					SpokenWord: s[i-1],
					QuranWord:  nil,
					Similarity: 0,
					IsCorrect:  false,
					Type:       TypeInsertion,
				})
				i--
			case closeEnough(cur, left, eps):
				w := r[j-1]
				out = append(out, Match{
					SpokenWord: "",
					QuranWord:  &w,
					Similarity: 0,
					IsCorrect:  false,
					Type:       TypeDeletion,
				})
				j--
			default:
				// Unreachable: one of the three must equal cur.
				i--
				j--
			}
		case i > 0:
			out = append(out, Match{
				SpokenWord: s[i-1],
				QuranWord:  nil,
				Similarity: 0,
				IsCorrect:  false,
				Type:       TypeInsertion,
			})
			i--
		default: // j > 0
			w := r[j-1]
			out = append(out, Match{
				SpokenWord: "",
				QuranWord:  &w,
				Similarity: 0,
				IsCorrect:  false,
				Type:       TypeDeletion,
			})
			j--
		}
	}

	reverse(out)
	return out
}

func closeEnough(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func reverse(m []Match) {
	for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}
}

func minF(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(a int) float64 {
	if a < 0 {
		a = -a
	}
	return float64(a)
}
