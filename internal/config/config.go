package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Model backends understood by extractor.New.
const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
	BackendGateway     = "gateway"
	BackendMock        = "mock"
)

// Config holds everything both stages need. Values come from the environment
// (optionally seeded from .env) and may be overridden by CLI flags.
type Config struct {
	InputPath         string
	YearlyOutputPath  string
	MonthlyOutputPath string

	Backend string

	HFAPIURL        string
	HFAPIToken      string
	SentimentModel  string
	ClassifierModel string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	GatewayURL    string
	GatewayAPIKey string
	GatewayModel  string

	ModelTimeout time.Duration
	MaxRetries   int
	JSONIndent   int
}

// Load builds a Config from environment variables.
func Load() Config {
	return Config{
		InputPath:         getEnv("INPUT_PATH", "ShortenDataset_News.csv"),
		YearlyOutputPath:  getEnv("YEARLY_OUTPUT_PATH", "news_spline_data_individual_headlines.json"),
		MonthlyOutputPath: getEnv("MONTHLY_OUTPUT_PATH", "news_spline_data_monthly_headlines.json"),
		Backend:           strings.ToLower(getEnv("MODEL_BACKEND", BackendHuggingFace)),
		HFAPIURL:          getEnv("HF_API_URL", "https://api-inference.huggingface.co/models"),
		HFAPIToken:        getEnv("HF_API_TOKEN", ""),
		SentimentModel:    getEnv("SENTIMENT_MODEL", "cardiffnlp/twitter-roberta-base-sentiment-latest"),
		ClassifierModel:   getEnv("CLASSIFIER_MODEL", "facebook/bart-large-mnli"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GatewayURL:        getEnv("LLM_GATEWAY_URL", ""),
		GatewayAPIKey:     getEnv("LLM_API_KEY", ""),
		GatewayModel:      getEnv("LLM_MODEL", ""),
		ModelTimeout:      getDuration("MODEL_TIMEOUT", "25s"),
		MaxRetries:        getInt("MODEL_MAX_RETRIES", 0),
		JSONIndent:        getInt("JSON_INDENT", 4),
	}
}

// ValidatePaths checks the file locations used by the stages.
func (c Config) ValidatePaths() error {
	if c.InputPath == "" {
		return errors.New("INPUT_PATH must not be empty")
	}
	if c.YearlyOutputPath == "" {
		return errors.New("YEARLY_OUTPUT_PATH must not be empty")
	}
	if c.MonthlyOutputPath == "" {
		return errors.New("MONTHLY_OUTPUT_PATH must not be empty")
	}
	if c.JSONIndent < 0 {
		return errors.New("JSON_INDENT cannot be negative")
	}
	return nil
}

// ValidateBackend checks the model backend settings. Only Stage 1 needs them.
func (c Config) ValidateBackend() error {
	if c.ModelTimeout <= 0 {
		return errors.New("MODEL_TIMEOUT must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("MODEL_MAX_RETRIES cannot be negative")
	}
	switch c.Backend {
	case BackendHuggingFace:
		if c.HFAPIURL == "" {
			return errors.New("HF_API_URL must not be empty")
		}
		if c.HFAPIToken == "" {
			return errors.New("HF_API_TOKEN is required for the huggingface backend")
		}
		if c.SentimentModel == "" || c.ClassifierModel == "" {
			return errors.New("SENTIMENT_MODEL and CLASSIFIER_MODEL must not be empty")
		}
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai backend")
		}
		if c.OpenAIModel == "" {
			return errors.New("OPENAI_MODEL must not be empty")
		}
	case BackendGateway:
		if c.GatewayURL == "" || c.GatewayAPIKey == "" {
			return errors.New("LLM_GATEWAY_URL and LLM_API_KEY are required for the gateway backend")
		}
		if c.GatewayModel == "" {
			return errors.New("LLM_MODEL is required for the gateway backend")
		}
	case BackendMock:
	default:
		return fmt.Errorf("unknown MODEL_BACKEND %q", c.Backend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
