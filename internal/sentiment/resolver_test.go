package sentiment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextClassifier_Classify(t *testing.T) {
	c := NewTextClassifier(DefaultLexicon())

	t.Run("empty text is neutral", func(t *testing.T) {
		v, terms := c.Classify("   ")
		assert.Equal(t, Neutral, v)
		assert.Empty(t, terms)
	})

	t.Run("more positive hits", func(t *testing.T) {
		v, terms := c.Classify("Atendimento EXCELENTE, adorei")
		assert.Equal(t, Positive, v)
		assert.Equal(t, []string{"excelente", "adorei"}, terms)
	})

	t.Run("more negative hits", func(t *testing.T) {
		v, terms := c.Classify("Muito lento e caro")
		assert.Equal(t, Negative, v)
		assert.Equal(t, []string{"lento", "caro"}, terms)
	})

	t.Run("multi word phrase matches as substring", func(t *testing.T) {
		v, terms := c.Classify("Não gostei, muito lento")
		assert.Equal(t, Negative, v)
		assert.Contains(t, terms, "não gostei")
	})

	t.Run("tie discards matches", func(t *testing.T) {
		v, terms := c.Classify("bom e ruim")
		assert.Equal(t, Neutral, v)
		assert.Empty(t, terms)
	})
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	t.Run("keywords override a low rating", func(t *testing.T) {
		res := r.Resolve("Serviço excelente, adorei!", "3")
		assert.Equal(t, Positive, res.Verdict)
		assert.Equal(t, KeywordMatch, res.Criterion)
		assert.Contains(t, res.MatchedTerms, "excelente")
		assert.Contains(t, res.MatchedTerms, "adorei")
	})

	t.Run("no keywords falls back to rating", func(t *testing.T) {
		res := r.Resolve("Atendimento ok", "9")
		assert.Equal(t, Positive, res.Verdict)
		assert.Equal(t, RatingBased, res.Criterion)
		assert.Empty(t, res.MatchedTerms)
	})

	t.Run("tie without rating has no indicator", func(t *testing.T) {
		res := r.Resolve("Foi bom mas também péssimo em partes", "N/A")
		assert.Equal(t, Neutral, res.Verdict)
		assert.Equal(t, NoIndicator, res.Criterion)
		assert.Empty(t, res.MatchedTerms)
		assert.Equal(t, NoKeywords, res.Keywords())
	})

	t.Run("tie with rating uses the rating", func(t *testing.T) {
		res := r.Resolve("Foi bom mas também péssimo em partes", "2")
		assert.Equal(t, Negative, res.Verdict)
		assert.Equal(t, RatingBased, res.Criterion)
	})

	t.Run("low ratings without keywords are negative", func(t *testing.T) {
		for d := 0; d <= 6; d++ {
			res := r.Resolve("Atendimento ok", fmt.Sprint(d))
			assert.Equal(t, Negative, res.Verdict, d)
			assert.Equal(t, RatingBased, res.Criterion, d)
		}
	})

	t.Run("high ratings without keywords are positive", func(t *testing.T) {
		for d := 7; d <= 10; d++ {
			res := r.Resolve("Atendimento ok", fmt.Sprint(d))
			assert.Equal(t, Positive, res.Verdict, d)
			assert.Equal(t, RatingBased, res.Criterion, d)
		}
	})

	t.Run("positive majority wins for any rating", func(t *testing.T) {
		for _, rating := range []string{"0", "5", "10", "", "n/a", "42"} {
			res := r.Resolve("Perfeito, recomendo", rating)
			assert.Equal(t, Positive, res.Verdict, rating)
			assert.Equal(t, KeywordMatch, res.Criterion, rating)
		}
	})

	t.Run("keywords render joined", func(t *testing.T) {
		res := r.Resolve("Perfeito, recomendo", "")
		assert.Equal(t, "perfeito, recomendo", res.Keywords())
	})
}

func TestSuggestionDetector_Detect(t *testing.T) {
	d := NewSuggestionDetector(DefaultLexicon())

	t.Run("suggestion phrases", func(t *testing.T) {
		ok, found := d.Detect("Acho que deveriam melhorar o atendimento")
		assert.True(t, ok)
		assert.Contains(t, found, "acho que")
		assert.Contains(t, found, "deveriam")
	})

	t.Run("empty text", func(t *testing.T) {
		ok, found := d.Detect("")
		assert.False(t, ok)
		assert.Empty(t, found)
	})

	t.Run("no suggestion", func(t *testing.T) {
		ok, found := d.Detect("Tudo certo")
		assert.False(t, ok)
		assert.Empty(t, found)
	})
}
