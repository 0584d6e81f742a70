package rating

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRating(t *testing.T) {
	tests := []struct {
		rating float64
		want   Grade
	}{
		{5, A},
		{4.7, A},
		{4.69, AB},
		{4.2, AB},
		{4.19, B},
		{3.7, B},
		{3.69, BC},
		{3.2, BC},
		{3.19, C},
		{2.5, C},
		{2.49, D},
		{1.5, D},
		{1.49, F},
		{1, F},
		{0, F},
		{-3, F},
		{math.NaN(), F},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromRating(tt.rating), "rating=%v", tt.rating)
	}
}

func TestFromRatingIsMonotonic(t *testing.T) {
	rank := make(map[Grade]int, len(Grades))
	for i, g := range Grades {
		rank[g] = i
	}

	prev := FromRating(0)
	for r := 0.0; r <= 5.0; r += 0.01 {
		g := FromRating(r)
		assert.LessOrEqual(t, rank[g], rank[prev], "grade got worse at %.2f", r)
		prev = g
	}
}

func TestGradeValid(t *testing.T) {
	for _, g := range Grades {
		assert.True(t, g.Valid())
	}
	assert.False(t, Grade("A+").Valid())
}

func TestNewBadge(t *testing.T) {
	b := NewBadge(AB, "Teaching", Small)
	assert.Equal(t, "Teaching: AB", b.Text())
	assert.True(t, strings.HasPrefix(b.Class, baseClass))
	assert.Contains(t, b.Class, "bg-green-50 text-green-700")
	assert.Contains(t, b.Class, "px-2 py-1 text-xs")
}

func TestNewBadgeDefaults(t *testing.T) {
	b := NewBadge(F, "", Size("xl"))
	assert.Equal(t, Medium, b.Size)
	assert.Equal(t, "F", b.Text())
	assert.Contains(t, b.Class, "px-3 py-1.5 text-sm")
	assert.Contains(t, b.Class, "bg-red-50")
}

func TestForRating(t *testing.T) {
	b := ForRating(3.8, "Content", Large)
	assert.Equal(t, B, b.Grade)
	assert.Contains(t, b.Class, "px-4 py-2 text-base")
}
