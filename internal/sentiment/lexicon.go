package sentiment

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyLexicon       = errors.New("lexicon must define positive and negative terms")
	ErrOverlappingLexicon = errors.New("positive and negative terms overlap")
)

// Lexicon holds the trigger terms for each category. Terms are matched as
// lowercase substrings, so multi-word phrases are allowed.
type Lexicon struct {
	Positive   []string `yaml:"positive"`
	Negative   []string `yaml:"negative"`
	Suggestion []string `yaml:"suggestion"`
}

var (
	defaultPositive = []string{
		"ótimo", "excelente", "bom", "muito bom", "perfeito", "maravilhoso",
		"satisfeito", "recomendo", "gostei", "adorei", "fantástico", "incrível",
		"eficiente", "rápido", "qualidade", "profissional", "atencioso", "legal",
		"top", "show", "massa", "bacana", "nota 10", "amei", "super",
		"excepcional", "sensacional", "parabéns", "sucesso", "aprovado",
		"recomendaria", "voltaria", "melhor",
	}
	defaultNegative = []string{
		"ruim", "péssimo", "terrível", "horrível", "insatisfeito", "decepcionado",
		"problema", "demora", "lento", "caro", "desorganizado", "mal atendido",
		"não gostei", "não recomendo", "frustrante", "irritante", "confuso",
		"desastre", "zero", "lixo", "odiei", "pior", "decepção", "falha",
		"erro", "defeito",
	}
	defaultSuggestion = []string{
		"sugiro", "acho que", "deveria", "mas", "possibilidade",
		"minha opinião", "sugestão", "deveriam", "seria melhor", "poderiam",
	}
)

// DefaultLexicon returns the built-in Portuguese term lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive:   append([]string(nil), defaultPositive...),
		Negative:   append([]string(nil), defaultNegative...),
		Suggestion: append([]string(nil), defaultSuggestion...),
	}
}

// LoadLexicon reads a YAML lexicon file. An omitted suggestion list falls
// back to the default one.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	if len(lex.Suggestion) == 0 {
		lex.Suggestion = append([]string(nil), defaultSuggestion...)
	}

	lex = lex.normalized()
	if err := lex.Validate(); err != nil {
		return Lexicon{}, err
	}
	return lex, nil
}

// Validate checks that both sentiment lists are present and disjoint.
func (l Lexicon) Validate() error {
	n := l.normalized()
	if len(n.Positive) == 0 || len(n.Negative) == 0 {
		return ErrEmptyLexicon
	}

	neg := make(map[string]struct{}, len(n.Negative))
	for _, t := range n.Negative {
		neg[t] = struct{}{}
	}
	for _, t := range n.Positive {
		if _, ok := neg[t]; ok {
			return fmt.Errorf("%w: %q", ErrOverlappingLexicon, t)
		}
	}
	return nil
}

func (l Lexicon) normalized() Lexicon {
	return Lexicon{
		Positive:   normalizeTerms(l.Positive),
		Negative:   normalizeTerms(l.Negative),
		Suggestion: normalizeTerms(l.Suggestion),
	}
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = normalizeText(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchTerms returns the terms contained in subject, in lexicon order.
// subject must already be normalized.
func matchTerms(terms []string, subject string) []string {
	var found []string
	for _, t := range terms {
		if strings.Contains(subject, t) {
			found = append(found, t)
		}
	}
	return found
}
