// Package extractor is the boundary to the external sentiment and zero-shot
// classification models. Every backend answers one headline per call,
// synchronously; callers decide what to do with failures.
package extractor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"news-timeline-go/internal/config"
	"news-timeline-go/internal/types"
)

// SentimentScorer returns the dominant sentiment label of text and its confidence.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (types.SentimentResult, error)
}

// CategoryClassifier picks exactly one of candidates for text.
type CategoryClassifier interface {
	Classify(ctx context.Context, text string, candidates []string) (string, error)
}

// Backend is a model provider able to do both jobs.
type Backend interface {
	SentimentScorer
	CategoryClassifier
	Name() string
}

// New builds the backend selected by cfg.Backend.
func New(cfg config.Config, log *logrus.Entry) (Backend, error) {
	if err := cfg.ValidateBackend(); err != nil {
		return nil, err
	}
	hc := &http.Client{Timeout: cfg.ModelTimeout}
	log = log.WithField("backend", cfg.Backend)

	switch cfg.Backend {
	case config.BackendHuggingFace:
		return &HuggingFace{
			BaseURL:         cfg.HFAPIURL,
			Token:           cfg.HFAPIToken,
			SentimentModel:  cfg.SentimentModel,
			ClassifierModel: cfg.ClassifierModel,
			MaxRetries:      cfg.MaxRetries,
			HTTPClient:      hc,
			Log:             log,
		}, nil
	case config.BackendGateway:
		return &Gateway{
			URL:        cfg.GatewayURL,
			APIKey:     cfg.GatewayAPIKey,
			Model:      cfg.GatewayModel,
			MaxRetries: cfg.MaxRetries,
			HTTPClient: hc,
			Log:        log,
		}, nil
	case config.BackendOpenAI:
		return NewOpenAI(OpenAIOptions{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.ModelTimeout,
			MaxRetries: cfg.MaxRetries,
		}), nil
	case config.BackendMock:
		log.Info("mock model backend ON - deterministic keyword scoring")
		return Mock{}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
