package sentiment

import "strings"

// Verdict is the final sentiment assigned to a feedback record.
type Verdict string

const (
	Positive Verdict = "positive"
	Negative Verdict = "negative"
	Neutral  Verdict = "neutral"
)

// Verdicts lists every verdict in reporting order.
var Verdicts = []Verdict{Positive, Negative, Neutral}

// Criterion names the rule that produced a verdict.
type Criterion string

const (
	KeywordMatch Criterion = "keyword_match"
	RatingBased  Criterion = "rating_based"
	NoIndicator  Criterion = "no_indicator"
)

// NoKeywords is rendered in place of an empty matched-term list.
const NoKeywords = "Nenhuma"

type Result struct {
	Verdict      Verdict
	Criterion    Criterion
	MatchedTerms []string
}

// Keywords renders the matched terms for display.
func (r Result) Keywords() string {
	return JoinTerms(r.MatchedTerms)
}

// JoinTerms joins terms with ", " or returns NoKeywords when terms is empty.
func JoinTerms(terms []string) string {
	if len(terms) == 0 {
		return NoKeywords
	}
	return strings.Join(terms, ", ")
}
