package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_StripsDiacritics(t *testing.T) {
	// bismillah with full tashkeel
	raw := "بِسْمِ"
	got := Text(raw)
	assert.Equal(t, "بسم", got)
}

func TestText_UnifiesLetterVariants(t *testing.T) {
	cases := map[string]string{
		"أحمد": "احمد",
		"إيمان": "ايمان",
		"آمين": "امين",
		"رحمة": "رحمه",
		"موسى": "موسي",
		"مسؤول": "مسءول",
	}
	for raw, want := range cases {
		assert.Equal(t, want, Text(raw), "raw=%q", raw)
	}
}

func TestText_CollapsesWhitespaceAndTrims(t *testing.T) {
	got := Text("  الرحمن    الرحيم  ")
	assert.Equal(t, "الرحمن الرحيم", got)
}

func TestText_Idempotent(t *testing.T) {
	inputs := []string{"بِسْمِ اللَّهِ", "ٱلرَّحْمَـٰنِ", "", "   ", "قُلْ هُوَ ٱللَّهُ أَحَدٌ"}
	for _, in := range inputs {
		once := Text(in)
		twice := Text(once)
		assert.Equal(t, once, twice, "not idempotent for %q", in)
	}
}

func TestWord_RejectsEmpty(t *testing.T) {
	_, ok := Word("   ")
	assert.False(t, ok)

	w, ok := Word("بِسْمِ")
	require.True(t, ok)
	assert.Equal(t, "بسم", w)
}

func TestWords_SplitsAndNormalizes(t *testing.T) {
	got := Words("بِسْمِ  اللَّهِ   ٱلرَّحْمَـٰنِ")
	require.Len(t, got, 3)
	assert.Equal(t, "بسم", got[0])
}
