package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootUnkEmptyDistinct(t *testing.T) {
	r := Root(2)
	u := Unk(2)
	e := Empty(2)

	assert.False(t, r.Equal(u))
	assert.False(t, r.Equal(e))
	assert.False(t, u.Equal(e))
	assert.Equal(t, 3, r.Factors()) // trg_factors + 1
}

func TestHieroHeadLabelsEqualIsComponentwise(t *testing.T) {
	a := HieroHeadLabelsFromWords([]WordID{1, 2, 3})
	b := HieroHeadLabelsFromWords([]WordID{1, 2, 3})
	c := HieroHeadLabelsFromWords([]WordID{1, 2, 4})

	assert.True(t, a.Equal(b))
	assert.Equal(t, a, b) // also directly comparable
	assert.False(t, a.Equal(c))
}

func TestSentenceLen(t *testing.T) {
	s := Sentence{1, 2, 3}
	assert.Equal(t, 3, s.Len())
}
