package processor

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"news-timeline-go/internal/dataset"
	"news-timeline-go/internal/extractor"
	"news-timeline-go/internal/types"
)

// Enricher attaches a sentiment score and a category to each headline, one
// synchronous model call per headline and job, never retrying and never
// letting a per-record failure escape.
type Enricher struct {
	Scorer     extractor.SentimentScorer
	Classifier extractor.CategoryClassifier
	Policy     Policy
	Categories []string
	Log        *logrus.Entry
}

// Stats counts what happened during one Enrich call.
type Stats struct {
	Input              int `json:"input"`
	EmptyText          int `json:"empty_text"`
	SentimentFailures  int `json:"sentiment_failures"`
	ClassifierFailures int `json:"classifier_failures"`
	OutOfSet           int `json:"out_of_set"`
	Output             int `json:"output"`
}

func NewEnricher(scorer extractor.SentimentScorer, classifier extractor.CategoryClassifier, log *logrus.Entry) *Enricher {
	return &Enricher{
		Scorer:     scorer,
		Classifier: classifier,
		Policy:     DefaultPolicy(),
		Categories: types.Categories,
		Log:        log,
	}
}

// ScoreSentiment returns the signed score for text. ok is false when the
// model call failed and the neutral default was used instead.
func (e *Enricher) ScoreSentiment(ctx context.Context, text string) (score float64, ok bool) {
	if isEmpty(text) {
		return e.Policy.NeutralScore, true
	}
	res, err := e.Scorer.Score(ctx, text)
	if err != nil {
		e.Log.WithFields(logrus.Fields{
			"headline": dataset.Truncate(text, 50),
			"error":    err.Error(),
		}).Warn("sentiment scoring failed, using neutral score")
		return e.Policy.NeutralScore, false
	}
	return e.Policy.SentimentScore(res), true
}

// ClassifyCategory returns the winning label for text. ok is false when the
// model call failed and the fallback category was used instead.
func (e *Enricher) ClassifyCategory(ctx context.Context, text string) (label string, ok bool) {
	if isEmpty(text) {
		return e.Policy.FallbackCategory, true
	}
	label, err := e.Classifier.Classify(ctx, text, e.Categories)
	if err != nil {
		e.Log.WithFields(logrus.Fields{
			"headline": dataset.Truncate(text, 50),
			"error":    err.Error(),
		}).Warn("category classification failed, using fallback category")
		return e.Policy.FallbackCategory, false
	}
	return label, true
}

// Enrich scores every headline, then classifies every headline, then drops
// any headline whose label is not one of e.Categories.
func (e *Enricher) Enrich(ctx context.Context, headlines []types.Headline) ([]types.Headline, Stats) {
	stats := Stats{Input: len(headlines)}
	out := make([]types.Headline, len(headlines))
	copy(out, headlines)

	e.Log.WithField("headlines", len(out)).Info("running sentiment analysis")
	for i := range out {
		if isEmpty(out[i].HeadlineText) {
			stats.EmptyText++
		}
		score, ok := e.ScoreSentiment(ctx, out[i].HeadlineText)
		if !ok {
			stats.SentimentFailures++
		}
		out[i].NewsSentiment = score
	}

	e.Log.WithField("headlines", len(out)).Info("running category classification")
	for i := range out {
		label, ok := e.ClassifyCategory(ctx, out[i].HeadlineText)
		if !ok {
			stats.ClassifierFailures++
		}
		out[i].Category = label
	}

	kept := out[:0]
	for _, h := range out {
		if !e.inSet(h.Category) {
			stats.OutOfSet++
			e.Log.WithFields(logrus.Fields{
				"headline": dataset.Truncate(h.HeadlineText, 50),
				"category": h.Category,
			}).Warn("dropping headline with category outside the fixed set")
			continue
		}
		kept = append(kept, h)
	}
	stats.Output = len(kept)
	return kept, stats
}

func (e *Enricher) inSet(label string) bool {
	for _, c := range e.Categories {
		if c == label {
			return true
		}
	}
	return false
}

func isEmpty(text string) bool {
	return strings.TrimSpace(text) == ""
}
