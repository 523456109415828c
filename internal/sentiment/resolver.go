package sentiment

// Resolver combines keyword evidence and the numeric rating. Keyword
// evidence always takes precedence over the rating.
type Resolver struct {
	text *TextClassifier
}

func NewResolver(lex Lexicon) *Resolver {
	return &Resolver{text: NewTextClassifier(lex)}
}

// Resolve returns the final verdict for one record together with the rule
// that produced it.
func (r *Resolver) Resolve(feedbackText, ratingText string) Result {
	if verdict, terms := r.text.Classify(feedbackText); len(terms) > 0 {
		return Result{Verdict: verdict, Criterion: KeywordMatch, MatchedTerms: terms}
	}

	if verdict, ok := ClassifyByScore(ratingText); ok {
		return Result{Verdict: verdict, Criterion: RatingBased}
	}

	return Result{Verdict: Neutral, Criterion: NoIndicator}
}
