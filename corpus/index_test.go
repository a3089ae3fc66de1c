package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVerses() []Verse {
	return []Verse{
		{ID: 1, SuraNo: 1, Page: 1, Words: []string{"بِسْمِ", "اللَّهِ", "ٱلرَّحْمَـٰنِ", "ٱلرَّحِيمِ"}},
		{ID: 2, SuraNo: 1, Page: 1, Words: []string{"ٱلْحَمْدُ", "لِلَّهِ", "رَبِّ", "ٱلْعَـٰلَمِينَ"}},
		{ID: 3, SuraNo: 1, Page: 2, Words: []string{"ٱلرَّحْمَـٰنِ", "ٱلرَّحِيمِ"}},
	}
}

func TestIndex_DenseGlobalIndices(t *testing.T) {
	idx, err := New(sampleVerses())
	require.NoError(t, err)
	require.EqualValues(t, 10, idx.Len())

	for gi := uint32(0); gi < idx.Len(); gi++ {
		w, ok := idx.Word(gi)
		require.True(t, ok)
		assert.Equal(t, gi, w.GlobalIndex)
		assert.NotEmpty(t, w.TextNorm)
	}
}

func TestIndex_RangeForPage(t *testing.T) {
	idx, err := New(sampleVerses())
	require.NoError(t, err)

	r, ok := idx.RangeForPage(1)
	require.True(t, ok)
	assert.EqualValues(t, 0, r.Lo)
	assert.EqualValues(t, 8, r.Hi)

	r2, ok := idx.RangeForPage(2)
	require.True(t, ok)
	assert.EqualValues(t, 8, r2.Lo)
	assert.EqualValues(t, 10, r2.Hi)

	_, ok = idx.RangeForPage(99)
	assert.False(t, ok)
}

func TestIndex_RangeForWindow_Tracking(t *testing.T) {
	idx, err := New(sampleVerses())
	require.NoError(t, err)

	page := uint32(1)
	w := idx.RangeForWindow(4, ModeTracking, &page, 3, 2)
	assert.EqualValues(t, 2, w.Lo) // anchor-2
	assert.EqualValues(t, 7, w.Hi) // anchor+3, clipped to page hi=8
}

func TestIndex_RangeForWindow_Search(t *testing.T) {
	idx, err := New(sampleVerses())
	require.NoError(t, err)

	page := uint32(1)
	w := idx.RangeForWindow(4, ModeSearch, &page, 3, 2)
	assert.EqualValues(t, 0, w.Lo)
	assert.EqualValues(t, 8, w.Hi)
}

func TestIndex_RangeForWindow_NoPageUsesWholeIndex(t *testing.T) {
	idx, err := New(sampleVerses())
	require.NoError(t, err)

	w := idx.RangeForWindow(0, ModeSearch, nil, 3, 2)
	assert.EqualValues(t, 0, w.Lo)
	assert.EqualValues(t, idx.Len(), w.Hi)
}

func TestIndex_UniqueVerseWordIndex(t *testing.T) {
	idx, err := New(sampleVerses())
	require.NoError(t, err)

	seen := make(map[[2]uint32]bool)
	for gi := uint32(0); gi < idx.Len(); gi++ {
		w, _ := idx.Word(gi)
		key := [2]uint32{w.VerseID, uint32(w.WordIndex)}
		assert.False(t, seen[key], "duplicate (verse,word) %v", key)
		seen[key] = true
	}
}
