package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{
			name: "identical strings",
			a:    "wrights uk ltd",
			b:    "wrights uk ltd",
			want: 100,
		},
		{
			name: "token order ignored",
			a:    "ltd uk wrights",
			b:    "wrights uk ltd",
			want: 100,
		},
		{
			name: "subset scores full",
			a:    "wrights uk",
			b:    "wrights uk ltd inv",
			want: 100,
		},
		{
			name: "no overlap scores low",
			a:    "zzzq",
			b:    "wrights uk ltd",
			want: 0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenSetRatio(tt.a, tt.b))
		})
	}
}

func TestTokenSetRatio_PartialOverlap(t *testing.T) {
	score := TokenSetRatio("british gas payment", "british gas services")
	assert.GreaterOrEqual(t, score, 60)
	assert.Less(t, score, 100)
}

func TestTokenSetRatio_Symmetric(t *testing.T) {
	a, b := "wrights uk ltd inv", "uk wrights payment"
	assert.Equal(t, TokenSetRatio(a, b), TokenSetRatio(b, a))
}

func TestBestMatch_EmptyCorpus(t *testing.T) {
	match, score := TokenSetScorer{}.BestMatch("anything", nil)
	assert.Empty(t, match)
	assert.Equal(t, 0, score)
}

func TestBestMatch_TiesResolveToEarliestEntry(t *testing.T) {
	corpus := []string{"wrights uk", "uk wrights"}
	match, score := TokenSetScorer{}.BestMatch("wrights uk", corpus)
	assert.Equal(t, "wrights uk", match)
	assert.Equal(t, 100, score)
}

func TestBestMatch_Deterministic(t *testing.T) {
	corpus := []string{"british gas dd", "wrights uk ltd", "acme supplies north"}
	firstMatch, firstScore := TokenSetScorer{}.BestMatch("gas british", corpus)
	for i := 0; i < 10; i++ {
		match, score := TokenSetScorer{}.BestMatch("gas british", corpus)
		assert.Equal(t, firstMatch, match)
		assert.Equal(t, firstScore, score)
	}
	assert.Equal(t, "british gas dd", firstMatch)
}
