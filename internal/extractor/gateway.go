package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"news-timeline-go/internal/types"
)

// Gateway talks to an OpenAI-compatible chat-completions endpoint with plain
// HTTP and parses a JSON object out of the assistant message.
type Gateway struct {
	URL        string
	APIKey     string
	Model      string
	MaxRetries int
	HTTPClient *http.Client
	Log        *logrus.Entry
}

func (g *Gateway) Name() string { return "gateway" }

// BuildSentimentPrompt asks for a single polarity label with a confidence.
func BuildSentimentPrompt(headline string) string {
	return fmt.Sprintf(`You are a sentiment analysis engine for news headlines.

Classify the overall sentiment of the headline below as exactly one of:
positive, negative, neutral.

Return ONLY a JSON object:
{"label": "positive|negative|neutral", "confidence": 0.0}

confidence is your probability for the chosen label, between 0 and 1.
DO NOT include commentary. DO NOT wrap JSON in backticks.

HEADLINE:
%s
`, headline)
}

// BuildCategoryPrompt asks for exactly one label out of candidates.
func BuildCategoryPrompt(headline string, candidates []string) string {
	return fmt.Sprintf(`You are a zero-shot news topic classifier.

Pick the single best category for the headline below.
Allowed categories (use the exact spelling): %s

Return ONLY a JSON object:
{"category": ""}

DO NOT include commentary. DO NOT wrap JSON in backticks.

HEADLINE:
%s
`, strings.Join(candidates, ", "), headline)
}

func (g *Gateway) Score(ctx context.Context, text string) (types.SentimentResult, error) {
	var out types.SentimentResult
	if err := g.complete(ctx, BuildSentimentPrompt(text), &out); err != nil {
		return types.SentimentResult{}, fmt.Errorf("sentiment: %w", err)
	}
	return out, nil
}

func (g *Gateway) Classify(ctx context.Context, text string, candidates []string) (string, error) {
	var out struct {
		Category string `json:"category"`
	}
	if err := g.complete(ctx, BuildCategoryPrompt(text, candidates), &out); err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	return strings.TrimSpace(out.Category), nil
}

func (g *Gateway) complete(ctx context.Context, prompt string, target any) error {
	reqBody := map[string]any{
		"model": g.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.0,
	}
	headers := map[string]string{"Authorization": "Bearer " + g.APIKey}

	client := g.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	body, err := postJSON(ctx, client, g.URL, headers, reqBody, nil, g.MaxRetries)
	if err != nil {
		return err
	}
	if g.Log != nil {
		g.Log.Debug("llm raw:\n" + clip(body))
	}

	// Try choices[0].message.content (OpenAI-like)
	if inner := extractContentFromChoices(body); inner != "" {
		if err := json.Unmarshal([]byte(inner), target); err == nil {
			return nil
		}
	}
	// Fallback: first balanced JSON object anywhere in the body
	if fallback := extractJSON(string(body)); fallback != "" {
		if err := json.Unmarshal([]byte(fallback), target); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no JSON found in LLM output")
}

// extractContentFromChoices reads openai-style choices[0].message.content and
// returns the JSON object embedded in it.
func extractContentFromChoices(body []byte) string {
	var obj struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &obj); err != nil || len(obj.Choices) == 0 {
		return ""
	}
	return extractJSON(obj.Choices[0].Message.Content)
}

// extractJSON finds the first balanced JSON object in a string.
// It strips common markdown fences first.
func extractJSON(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, r := range []string{"```json", "```", "`"} {
		s = strings.ReplaceAll(s, r, "")
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1])
			}
		}
	}
	return ""
}
