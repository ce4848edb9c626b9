package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"news-timeline-go/internal/types"
)

type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// OpenAI scores and classifies headlines through the Responses API with
// strict JSON-schema output.
type OpenAI struct {
	client *openai.Client
	model  string
}

type sentimentAnswer struct {
	Label      string  `json:"label" jsonschema:"enum=positive,enum=negative,enum=neutral"`
	Confidence float64 `json:"confidence"`
}

type categoryAnswer struct {
	Category string `json:"category"`
}

var (
	sentimentSchema = GenerateSchema[sentimentAnswer]()
	categorySchema  = GenerateSchema[categoryAnswer]()
)

func NewOpenAI(opts OpenAIOptions) *OpenAI {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	client := openai.NewClient(reqOpts...)
	return &OpenAI{client: &client, model: opts.Model}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Score(ctx context.Context, text string) (types.SentimentResult, error) {
	var out sentimentAnswer
	if err := o.ask(ctx, "HeadlineSentiment", "Sentiment label and confidence for one news headline",
		sentimentSchema, BuildSentimentPrompt(text), &out); err != nil {
		return types.SentimentResult{}, fmt.Errorf("sentiment: %w", err)
	}
	return types.SentimentResult{Label: out.Label, Confidence: out.Confidence}, nil
}

func (o *OpenAI) Classify(ctx context.Context, text string, candidates []string) (string, error) {
	var out categoryAnswer
	schema := withEnum(categorySchema, "category", candidates)
	if err := o.ask(ctx, "HeadlineCategory", "Single best category for one news headline",
		schema, BuildCategoryPrompt(text, candidates), &out); err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	return strings.TrimSpace(out.Category), nil
}

func (o *OpenAI) ask(ctx context.Context, name, description string, schema map[string]any, prompt string, target any) error {
	if o.client == nil {
		return errors.New("openai: client is nil")
	}
	params := responses.ResponseNewParams{
		Model:       o.model,
		Temperature: openai.Float(0),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        name,
					Schema:      schema,
					Strict:      openai.Bool(true),
					Description: openai.String(description),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return err
	}
	return decodeModelJSON(resp.OutputText(), target)
}

// decodeModelJSON unmarshals the model output, tolerating surrounding text.
func decodeModelJSON(output string, v any) error {
	s := strings.TrimSpace(output)
	if s == "" {
		return errors.New("empty model output")
	}
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}
	sub := extractJSON(s)
	if sub == "" {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("unmarshal extracted JSON: %w", err)
	}
	return nil
}
