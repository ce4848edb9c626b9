package extractor

import (
	"context"
	"strings"
	"unicode"

	"news-timeline-go/internal/types"
)

// Mock is a deterministic, offline backend driven by small keyword lexicons.
type Mock struct{}

var (
	positiveWords = words("rally boom win wins won gain gains rise rises surge record success celebrate hope boost growth award peace recover recovery best improve")
	negativeWords = words("crash fall falls fell loss losses kill killed killing death dead die dies attack war crisis fear slump fraud scandal murder injured fire flood drought protest strike cut cuts decline worst")

	categoryWords = map[string]map[string]struct{}{
		"Entertainment":  words("film movie music concert festival actor actress star celebrity tv show album award"),
		"Education":      words("school schools university student students teacher teachers exam exams education college"),
		"Politics":       words("government minister election elections parliament president senate vote party policy council mayor"),
		"Technology":     words("tech technology internet software computer digital online cyber phone mobile app robot"),
		"Socio-Cultural": words("community culture heritage religion church family social indigenous festival art"),
		"Economy":        words("stock stocks market markets economy bank banks trade price prices tax budget inflation jobs dollar"),
		"Sports":         words("cup match final team coach league cricket football rugby tennis olympic olympics win"),
		"Crime":          words("police court murder charged arrest arrested jail theft drug drugs fraud assault crime"),
	}
)

func words(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(s) {
		out[w] = struct{}{}
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func count(tokens []string, lexicon map[string]struct{}) int {
	n := 0
	for _, t := range tokens {
		if _, ok := lexicon[t]; ok {
			n++
		}
	}
	return n
}

func (Mock) Name() string { return "mock" }

func (Mock) Score(_ context.Context, text string) (types.SentimentResult, error) {
	tokens := tokenize(text)
	pos, neg := count(tokens, positiveWords), count(tokens, negativeWords)
	if pos == neg {
		return types.SentimentResult{Label: "neutral", Confidence: 0.9}, nil
	}
	diff := pos - neg
	if diff < 0 {
		diff = -diff
	}
	conf := 0.5 + 0.5*float64(diff)/float64(pos+neg)
	if pos > neg {
		return types.SentimentResult{Label: "positive", Confidence: conf}, nil
	}
	return types.SentimentResult{Label: "negative", Confidence: conf}, nil
}

// Classify returns the candidate with the most keyword hits; ties go to the
// earlier candidate and no hits fall back to Socio-Cultural when offered.
func (Mock) Classify(_ context.Context, text string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	tokens := tokenize(text)
	best, bestHits := "", 0
	for _, c := range candidates {
		if hits := count(tokens, categoryWords[c]); hits > bestHits {
			best, bestHits = c, hits
		}
	}
	if best != "" {
		return best, nil
	}
	for _, c := range candidates {
		if c == types.FallbackCategory {
			return c, nil
		}
	}
	return candidates[0], nil
}
