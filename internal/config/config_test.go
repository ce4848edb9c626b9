package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"INPUT_PATH", "MODEL_BACKEND", "MODEL_TIMEOUT", "MODEL_MAX_RETRIES", "JSON_INDENT", "SENTIMENT_MODEL", "CLASSIFIER_MODEL", "YEARLY_OUTPUT_PATH", "MONTHLY_OUTPUT_PATH"} {
		t.Setenv(k, "")
	}

	c := Load()
	require.Equal(t, "ShortenDataset_News.csv", c.InputPath)
	require.Equal(t, "news_spline_data_individual_headlines.json", c.YearlyOutputPath)
	require.Equal(t, "news_spline_data_monthly_headlines.json", c.MonthlyOutputPath)
	require.Equal(t, BackendHuggingFace, c.Backend)
	require.Equal(t, "cardiffnlp/twitter-roberta-base-sentiment-latest", c.SentimentModel)
	require.Equal(t, "facebook/bart-large-mnli", c.ClassifierModel)
	require.Equal(t, 25*time.Second, c.ModelTimeout)
	require.Equal(t, 0, c.MaxRetries)
	require.Equal(t, 4, c.JSONIndent)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INPUT_PATH", "data/news.xlsx")
	t.Setenv("MODEL_BACKEND", "MOCK")
	t.Setenv("MODEL_TIMEOUT", "3s")
	t.Setenv("MODEL_MAX_RETRIES", "2")
	t.Setenv("JSON_INDENT", "not-a-number")

	c := Load()
	require.Equal(t, "data/news.xlsx", c.InputPath)
	require.Equal(t, BackendMock, c.Backend)
	require.Equal(t, 3*time.Second, c.ModelTimeout)
	require.Equal(t, 2, c.MaxRetries)
	require.Equal(t, 4, c.JSONIndent)
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("MODEL_TIMEOUT", "soon")
	require.Equal(t, 25*time.Second, Load().ModelTimeout)
}

func TestValidatePaths(t *testing.T) {
	ok := Config{InputPath: "in.csv", YearlyOutputPath: "y.json", MonthlyOutputPath: "m.json", JSONIndent: 4}
	require.NoError(t, ok.ValidatePaths())

	missing := ok
	missing.InputPath = ""
	require.Error(t, missing.ValidatePaths())

	neg := ok
	neg.JSONIndent = -1
	require.Error(t, neg.ValidatePaths())
}

func TestValidateBackend(t *testing.T) {
	base := Config{ModelTimeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "mock", mutate: func(c *Config) { c.Backend = BackendMock }},
		{name: "unknown", mutate: func(c *Config) { c.Backend = "bert" }, wantErr: true},
		{name: "hf without token", mutate: func(c *Config) {
			c.Backend = BackendHuggingFace
			c.HFAPIURL = "http://hf"
			c.SentimentModel, c.ClassifierModel = "s", "c"
		}, wantErr: true},
		{name: "hf ok", mutate: func(c *Config) {
			c.Backend = BackendHuggingFace
			c.HFAPIURL = "http://hf"
			c.HFAPIToken = "tok"
			c.SentimentModel, c.ClassifierModel = "s", "c"
		}},
		{name: "openai without key", mutate: func(c *Config) {
			c.Backend = BackendOpenAI
			c.OpenAIModel = "m"
		}, wantErr: true},
		{name: "openai ok", mutate: func(c *Config) {
			c.Backend = BackendOpenAI
			c.OpenAIAPIKey = "k"
			c.OpenAIModel = "m"
		}},
		{name: "gateway missing url", mutate: func(c *Config) {
			c.Backend = BackendGateway
			c.GatewayAPIKey = "k"
		}, wantErr: true},
		{name: "gateway without model", mutate: func(c *Config) {
			c.Backend = BackendGateway
			c.GatewayURL = "http://gw"
			c.GatewayAPIKey = "k"
		}, wantErr: true},
		{name: "gateway ok", mutate: func(c *Config) {
			c.Backend = BackendGateway
			c.GatewayURL = "http://gw"
			c.GatewayAPIKey = "k"
			c.GatewayModel = "m"
		}},
		{name: "negative retries", mutate: func(c *Config) {
			c.Backend = BackendMock
			c.MaxRetries = -1
		}, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) {
			c.Backend = BackendMock
			c.ModelTimeout = 0
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.ValidateBackend()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
