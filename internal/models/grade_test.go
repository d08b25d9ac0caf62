package models

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeLetterScale(t *testing.T) {
	cases := []struct {
		letter  GradeLetter
		value   int
		display string
	}{
		{LetterBad, 2, "Bad"},
		{LetterAverage, 3, "Average"},
		{LetterGood, 4, "Good"},
		{LetterVeryGood, 5, "Very Good"},
		{LetterExcellent, 6, "Excellent"},
	}
	require.Len(t, cases, len(GradeLetters()))
	for _, tc := range cases {
		t.Run(string(tc.letter), func(t *testing.T) {
			assert.Equal(t, tc.value, tc.letter.Value())
			assert.Equal(t, tc.display, tc.letter.Display())
		})
	}
}

func TestGradeLettersAscendingAndDistinct(t *testing.T) {
	letters := GradeLetters()
	seen := make(map[int]bool)
	prev := 0
	for _, letter := range letters {
		value := letter.Value()
		assert.Greater(t, value, prev)
		assert.False(t, seen[value])
		seen[value] = true
		prev = value
	}
}

func TestLetterForValueInvertsScale(t *testing.T) {
	for _, letter := range GradeLetters() {
		raw := strconv.Itoa(letter.Value())
		resolved, ok := LetterForValue(raw)
		require.True(t, ok, raw)
		assert.Equal(t, letter, resolved)
	}
}

func TestLetterForValueRejectsOutOfScale(t *testing.T) {
	for _, raw := range []string{"1", "7", "0", "-3", "abc", "5.5", ""} {
		_, ok := LetterForValue(raw)
		assert.False(t, ok, raw)
	}
}

func TestUnknownLetterValueIsZero(t *testing.T) {
	assert.Equal(t, 0, GradeLetter("PERFECT").Value())

	grade := Grade{}
	assert.Equal(t, 0, grade.Value())
}
