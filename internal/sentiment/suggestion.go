package sentiment

// SuggestionDetector flags suggestion-like phrasing. It never influences
// the sentiment verdict.
type SuggestionDetector struct {
	terms []string
}

func NewSuggestionDetector(lex Lexicon) *SuggestionDetector {
	return &SuggestionDetector{terms: lex.normalized().Suggestion}
}

// Detect returns whether text contains any suggestion term and which ones.
func (d *SuggestionDetector) Detect(text string) (bool, []string) {
	subject := normalizeText(text)
	if subject == "" {
		return false, nil
	}
	found := matchTerms(d.terms, subject)
	return len(found) > 0, found
}
