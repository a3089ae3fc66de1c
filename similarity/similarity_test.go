package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSim_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"الرحمن", "الرحمن"},
		{"الرحمن", "الرحيم"},
		{"", ""},
		{"", "كتاب"},
		{"قلم", "قلب"},
	}
	for _, p := range pairs {
		s := Sim(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
		assert.Equal(t, Sim(p[1], p[0]), s, "sim must be symmetric for %v", p)
	}
}

func TestSim_EqualIsOne(t *testing.T) {
	assert.Equal(t, 1.0, Sim("بسم", "بسم"))
	assert.Equal(t, 1.0, Sim("", ""))
}

func TestDistance_KnownValues(t *testing.T) {
	assert.Equal(t, 0, Distance("", ""))
	assert.Equal(t, 3, Distance("", "abc"))
	assert.Equal(t, 1, Distance("كتب", "كتاب"))        // one inserted alef
	assert.Equal(t, 1, Distance("الرحمن", "الرحمان")) // one inserted alef
}

func TestSim_Monotone(t *testing.T) {
	closer := Sim("الرحمن", "الرحمان") // one-letter diff
	farther := Sim("الرحمن", "كتاب")   // unrelated
	assert.Greater(t, closer, farther)
}
