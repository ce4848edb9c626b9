package processor

import (
	"strings"

	"news-timeline-go/internal/types"
)

// Policy names the defaults applied when a headline cannot be enriched.
type Policy struct {
	// NeutralScore is used for empty text, unrecognized labels and failed calls.
	NeutralScore float64
	// FallbackCategory is used for empty text and failed classifier calls.
	FallbackCategory string
}

func DefaultPolicy() Policy {
	return Policy{NeutralScore: 0.0, FallbackCategory: types.FallbackCategory}
}

// Polarity is the sign a sentiment label contributes to the score.
type Polarity int

const (
	Neutral Polarity = iota
	Positive
	Negative
)

// LabelPolarity maps model labels to a polarity. Three-class models that use
// index labels follow the LABEL_0=negative, LABEL_1=neutral, LABEL_2=positive
// convention.
func LabelPolarity(label string) Polarity {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "label_2", "positive", "pos":
		return Positive
	case "label_0", "negative", "neg":
		return Negative
	default:
		return Neutral
	}
}

// SentimentScore converts a model answer into a signed score in [-1, 1].
func (p Policy) SentimentScore(res types.SentimentResult) float64 {
	conf := res.Confidence
	if conf != conf { // NaN
		return p.NeutralScore
	}
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	switch LabelPolarity(res.Label) {
	case Positive:
		return conf
	case Negative:
		return -conf
	default:
		return p.NeutralScore
	}
}
