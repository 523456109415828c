package sentiment

// TextClassifier assigns a verdict to free text by counting lexicon hits.
type TextClassifier struct {
	positive []string
	negative []string
}

func NewTextClassifier(lex Lexicon) *TextClassifier {
	n := lex.normalized()
	return &TextClassifier{positive: n.Positive, negative: n.Negative}
}

// Classify returns the dominant verdict and the terms that decided it.
// Equal counts, including none at all, yield Neutral with no terms.
func (c *TextClassifier) Classify(text string) (Verdict, []string) {
	subject := normalizeText(text)
	if subject == "" {
		return Neutral, nil
	}

	pos := matchTerms(c.positive, subject)
	neg := matchTerms(c.negative, subject)

	switch {
	case len(pos) > len(neg):
		return Positive, pos
	case len(neg) > len(pos):
		return Negative, neg
	default:
		return Neutral, nil
	}
}
