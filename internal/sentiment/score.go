package sentiment

import (
	"regexp"
	"strconv"
	"strings"
)

var numeralPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

var notApplicable = map[string]struct{}{
	"":    {},
	"n/a": {},
	"na":  {},
	"nan": {},
}

// Rating is a best-effort numeric rating. Valid is false when the source
// text held no usable numeral.
type Rating struct {
	Value float64
	Valid bool
}

// ParseRating extracts the first numeral from text, accepting a comma as
// decimal separator. Signs are not part of the numeral, so "-3" reads as 3.
func ParseRating(text string) Rating {
	s := normalizeText(text)
	if _, na := notApplicable[s]; na {
		return Rating{}
	}

	m := numeralPattern.FindString(strings.ReplaceAll(s, ",", "."))
	if m == "" {
		return Rating{}
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return Rating{}
	}
	return Rating{Value: v, Valid: true}
}

// InScale reports whether the rating is valid and within [0, 10].
func (r Rating) InScale() bool {
	return r.Valid && r.Value >= 0 && r.Value <= 10
}

// Verdict maps the rating onto a sentiment: [0,6] negative, [7,10] positive,
// anything else (for example 6.5 or 11) neutral. ok is false for an invalid rating.
func (r Rating) Verdict() (v Verdict, ok bool) {
	if !r.Valid {
		return "", false
	}
	switch {
	case r.Value >= 0 && r.Value <= 6:
		return Negative, true
	case r.Value >= 7 && r.Value <= 10:
		return Positive, true
	default:
		return Neutral, true
	}
}

// ClassifyByScore classifies raw rating text. ok is false when the text
// carries no rating information.
func ClassifyByScore(ratingText string) (Verdict, bool) {
	return ParseRating(ratingText).Verdict()
}
