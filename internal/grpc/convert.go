package grpc

import (
	"math"
	"strconv"
	"time"

	"github.com/godilite/feedback-analyzer/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func stringField(req *structpb.Struct, name string) string {
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func parseClassifyRequest(req *structpb.Struct) (service.RawFeedbackRecord, error) {
	raw := service.RawFeedbackRecord{
		Feedback:   stringField(req, "feedback"),
		Rating:     stringField(req, "rating"),
		Suggestion: stringField(req, "suggestion"),
	}
	if raw.Feedback == "" {
		return raw, status.Error(codes.InvalidArgument, "feedback is required")
	}
	return raw, nil
}

func parseLimit(req *structpb.Struct) (int, error) {
	v, ok := req.GetFields()["limit"]
	if !ok {
		return defaultListLimit, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, status.Error(codes.InvalidArgument, "limit must be an integer")
	}

	switch limit := int(n.NumberValue); {
	case limit < 0:
		return 0, status.Error(codes.InvalidArgument, "limit must not be negative")
	case limit == 0:
		return defaultListLimit, nil
	case limit > maxListLimit:
		return maxListLimit, nil
	default:
		return limit, nil
	}
}

func stringList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return s, nil
}

func classificationToStruct(rec service.OutputRecord) (*structpb.Struct, error) {
	return toStruct(map[string]any{
		"verdict":        string(rec.Verdict),
		"criterion":      string(rec.Criterion),
		"matched_terms":  stringList(rec.MatchedTerms),
		"keywords":       rec.Keywords,
		"has_suggestion": rec.HasSuggestion,
		"suggestions":    stringList(rec.SuggestionTerms),
	})
}

func summaryToStruct(run service.RunReport) (*structpb.Struct, error) {
	sum := run.Summary

	distribution := make([]any, 0, 3)
	for _, share := range sum.Distribution() {
		distribution = append(distribution, map[string]any{
			"verdict": string(share.Verdict),
			"count":   share.Count,
			"percent": math.Round(share.Percent*10) / 10,
		})
	}

	words := make([]any, 0, len(sum.TopWords))
	for _, w := range sum.TopWords {
		words = append(words, map[string]any{"word": w.Word, "count": w.Count})
	}

	return toStruct(map[string]any{
		"run_id":           run.ID,
		"started_at":       run.StartedAt.UTC().Format(time.RFC3339),
		"finished_at":      run.FinishedAt.UTC().Format(time.RFC3339),
		"total":            sum.Total,
		"excluded":         sum.Excluded,
		"skipped":          sum.Skipped,
		"rated_count":      sum.RatedCount,
		"average_rating":   sum.AverageRating,
		"suggestion_count": sum.SuggestionCount,
		"distribution":     distribution,
		"top_words":        words,
	})
}

func resultsToStruct(records []service.OutputRecord) (*structpb.Struct, error) {
	out := make([]any, len(records))
	for i, rec := range records {
		out[i] = map[string]any{
			"id":               rec.ID,
			"processed_at":     rec.ProcessedAt.UTC().Format(time.RFC3339),
			"name":             rec.Name,
			"email":            rec.Email,
			"phone":            rec.Phone,
			"rating":           rec.Rating,
			"feedback":         rec.CondensedFeedback(),
			"verdict":          string(rec.Verdict),
			"criterion":        string(rec.Criterion),
			"keywords":         rec.Keywords,
			"status":           rec.Status,
			"submitted_at":     rec.SubmittedAt,
			"suggestion":       rec.Suggestion,
			"has_suggestion":   rec.HasSuggestion,
			"suggestion_terms": stringList(rec.SuggestionTerms),
		}
	}
	return toStruct(map[string]any{"results": out})
}
