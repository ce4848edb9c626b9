package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"news-timeline-go/internal/types"
)

// HuggingFace calls the hosted inference API: a text-classification model for
// sentiment and an NLI model for zero-shot categories.
type HuggingFace struct {
	BaseURL         string
	Token           string
	SentimentModel  string
	ClassifierModel string
	MaxRetries      int
	HTTPClient      *http.Client
	Log             *logrus.Entry
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type zeroShotResult struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

func (h *HuggingFace) Name() string { return "huggingface" }

func (h *HuggingFace) Score(ctx context.Context, text string) (types.SentimentResult, error) {
	var raw json.RawMessage
	if _, err := postJSON(ctx, h.client(), h.modelURL(h.SentimentModel), h.headers(),
		map[string]any{"inputs": text}, &raw, h.MaxRetries); err != nil {
		return types.SentimentResult{}, fmt.Errorf("sentiment request: %w", err)
	}

	scores, err := decodeLabelScores(raw)
	if err != nil {
		return types.SentimentResult{}, err
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	h.logger().WithFields(logrus.Fields{"label": best.Label, "score": best.Score}).Debug("sentiment scored")
	return types.SentimentResult{Label: best.Label, Confidence: best.Score}, nil
}

func (h *HuggingFace) Classify(ctx context.Context, text string, candidates []string) (string, error) {
	payload := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": candidates,
			"multi_label":      false,
		},
	}
	var raw json.RawMessage
	if _, err := postJSON(ctx, h.client(), h.modelURL(h.ClassifierModel), h.headers(),
		payload, &raw, h.MaxRetries); err != nil {
		return "", fmt.Errorf("zero-shot request: %w", err)
	}

	return decodeZeroShot(raw)
}

func (h *HuggingFace) modelURL(model string) string {
	return strings.TrimRight(h.BaseURL, "/") + "/" + strings.TrimLeft(model, "/")
}

func (h *HuggingFace) headers() map[string]string {
	hdr := map[string]string{"x-wait-for-model": "true"}
	if h.Token != "" {
		hdr["Authorization"] = "Bearer " + h.Token
	}
	return hdr
}

func (h *HuggingFace) client() *http.Client {
	if h.HTTPClient != nil {
		return h.HTTPClient
	}
	return http.DefaultClient
}

func (h *HuggingFace) logger() *logrus.Entry {
	if h.Log != nil {
		return h.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// decodeLabelScores accepts both [[{label,score}...]] and [{label,score}...].
func decodeLabelScores(raw json.RawMessage) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 && flat[0].Label != "" {
		return flat, nil
	}
	return nil, fmt.Errorf("malformed sentiment response: %s", clip(raw))
}

// decodeZeroShot accepts a bare result object or a one-element list of them
// and returns the highest-scoring label.
func decodeZeroShot(raw json.RawMessage) (string, error) {
	var res zeroShotResult
	if err := json.Unmarshal(raw, &res); err != nil {
		var list []zeroShotResult
		if lerr := json.Unmarshal(raw, &list); lerr != nil || len(list) == 0 {
			return "", fmt.Errorf("malformed zero-shot response: %s", clip(raw))
		}
		res = list[0]
	}
	if len(res.Labels) == 0 {
		return "", errors.New("zero-shot response has no labels")
	}
	best := 0
	if len(res.Scores) == len(res.Labels) {
		for i, s := range res.Scores {
			if s > res.Scores[best] {
				best = i
			}
		}
	}
	return res.Labels[best], nil
}
