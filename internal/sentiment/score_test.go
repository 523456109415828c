package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRating(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Rating
	}{
		{name: "integer", input: "8", want: Rating{Value: 8, Valid: true}},
		{name: "comma decimal", input: "7,5", want: Rating{Value: 7.5, Valid: true}},
		{name: "period decimal", input: " 9.25 ", want: Rating{Value: 9.25, Valid: true}},
		{name: "embedded in text", input: "nota 6 de 10", want: Rating{Value: 6, Valid: true}},
		{name: "sign is ignored", input: "-3", want: Rating{Value: 3, Valid: true}},
		{name: "empty", input: "", want: Rating{}},
		{name: "whitespace", input: "   ", want: Rating{}},
		{name: "n/a sentinel", input: "N/A", want: Rating{}},
		{name: "na sentinel", input: "na", want: Rating{}},
		{name: "nan sentinel", input: "NaN", want: Rating{}},
		{name: "no numeral", input: "excelente", want: Rating{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseRating(tc.input))
		})
	}
}

func TestClassifyByScore(t *testing.T) {
	t.Run("zero through six are negative", func(t *testing.T) {
		for _, in := range []string{"0", "1", "3", "5,9", "6"} {
			v, ok := ClassifyByScore(in)
			assert.True(t, ok, in)
			assert.Equal(t, Negative, v, in)
		}
	})

	t.Run("seven through ten are positive", func(t *testing.T) {
		for _, in := range []string{"7", "8.5", "9", "10"} {
			v, ok := ClassifyByScore(in)
			assert.True(t, ok, in)
			assert.Equal(t, Positive, v, in)
		}
	})

	t.Run("gaps and out of range are neutral", func(t *testing.T) {
		for _, in := range []string{"6.5", "11", "100"} {
			v, ok := ClassifyByScore(in)
			assert.True(t, ok, in)
			assert.Equal(t, Neutral, v, in)
		}
	})

	t.Run("missing rating carries no information", func(t *testing.T) {
		for _, in := range []string{"", "n/a", "sem nota"} {
			v, ok := ClassifyByScore(in)
			assert.False(t, ok, in)
			assert.Empty(t, v, in)
		}
	})
}

func TestRatingInScale(t *testing.T) {
	assert.True(t, Rating{Value: 0, Valid: true}.InScale())
	assert.True(t, Rating{Value: 10, Valid: true}.InScale())
	assert.False(t, Rating{Value: 10.5, Valid: true}.InScale())
	assert.False(t, Rating{}.InScale())
}
