// Package normalize folds Arabic text to a canonical comparison form.
package normalize

import "strings"

// letterFold maps orthographic letter variants to the form used for
// comparison. Built once at init time instead of a long switch so the hot
// loop in Text stays a single map lookup per rune.
var letterFold = map[rune]rune{
	'آ': 'ا', // alef with madda above -> alef
	'أ': 'ا', // alef with hamza above -> alef
	'إ': 'ا', // alef with hamza below -> alef
	'ٱ': 'ا', // alef wasla -> alef
	'ة': 'ه', // ta marbuta -> ha
	'ى': 'ي', // alef maksura -> ya
	'ؤ': 'ء', // waw with hamza above -> hamza
	'ئ': 'ء', // ya with hamza above -> hamza
}

// isDiacritic reports whether r is a combining mark, Qur'anic annotation
// symbol, or the tatwil elongation character - all of which are dropped
// during normalization.
func isDiacritic(r rune) bool {
	switch {
	case r >= 'ً' && r <= 'ٟ': // fatha..wavy hamza below, combining marks
		return true
	case r == 'ٰ': // superscript alef
		return true
	case r >= 'ۖ' && r <= 'ۭ': // Qur'anic annotation signs
		return true
	case r == 'ـ': // tatwil
		return true
	default:
		return false
	}
}

// Text folds raw to its canonical comparison form: diacritics and Qur'anic
// annotation marks are stripped, letter variants are unified, whitespace is
// collapsed to single spaces, and the result is trimmed.
//
// Normalization is total and idempotent: Text(Text(x)) == Text(x).
func Text(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	lastWasSpace := false
	wroteAny := false
	for _, r := range raw {
		if isDiacritic(r) {
			continue
		}
		if folded, ok := letterFold[r]; ok {
			r = folded
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !wroteAny || lastWasSpace {
				continue
			}
			lastWasSpace = true
			b.WriteRune(' ')
			continue
		}
		lastWasSpace = false
		wroteAny = true
		b.WriteRune(r)
	}

	return strings.TrimRight(b.String(), " ")
}

// Word normalizes a single token and reports whether the result is
// non-empty; callers discard empty tokens.
func Word(raw string) (string, bool) {
	n := Text(raw)
	return n, n != ""
}

// Words normalizes a whitespace-separated transcript into a sequence of
// non-empty normalized tokens, in order.
func Words(transcript string) []string {
	fields := strings.Fields(transcript)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if n, ok := Word(f); ok {
			out = append(out, n)
		}
	}
	return out
}
