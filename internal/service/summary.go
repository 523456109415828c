package service

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/godilite/feedback-analyzer/internal/sentiment"
)

const minWordLen = 4

func summarize(records []OutputRecord, topN int) BatchSummary {
	summary := BatchSummary{
		Total:  len(records),
		Counts: make(map[sentiment.Verdict]int, len(sentiment.Verdicts)),
	}
	for _, v := range sentiment.Verdicts {
		summary.Counts[v] = 0
	}

	var ratingSum float64
	texts := make([]string, 0, len(records))
	for _, r := range records {
		summary.Counts[r.Verdict]++
		if r.HasSuggestion {
			summary.SuggestionCount++
		}
		if rating := sentiment.ParseRating(r.Rating); rating.InScale() {
			summary.RatedCount++
			ratingSum += rating.Value
		}
		texts = append(texts, r.Feedback)
	}
	if summary.RatedCount > 0 {
		summary.AverageRating = ratingSum / float64(summary.RatedCount)
	}

	summary.TopWords = topWords(strings.Join(texts, " "), topN)
	return summary
}

// topWords counts case-folded words of at least four characters. Ties keep
// first-seen order.
func topWords(text string, n int) []WordCount {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minWordLen {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}

	out := make([]WordCount, len(order))
	for i, w := range order {
		out[i] = WordCount{Word: w, Count: counts[w]}
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func itoa(i int) string { return strconv.Itoa(i) }
