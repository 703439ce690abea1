package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// DefaultOpenAIModel is the vision model used when none is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI recognizes formulas with OpenAI vision models, or any
// OpenAI-compatible endpoint when a custom base URL is set.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI engine. The API key is required; an empty
// model falls back to DefaultOpenAIModel, and a non-empty baseURL points
// the client at a compatible third-party endpoint.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	clientOpts := []openaiopt.RequestOption{openaiopt.WithAPIKey(apiKey)}
	if baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(baseURL))
	}
	return &OpenAI{client: openai.NewClient(clientOpts...), model: model}, nil
}

// Name implements Engine.
func (*OpenAI) Name() string { return "openai" }

// Close implements Engine.
func (*OpenAI) Close() error { return nil }

// Recognize sends the image as a data URL with the formula prompt and
// parses the model's JSON reply.
func (o *OpenAI) Recognize(ctx context.Context, in Input) (Result, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(in.Image)

	parts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfText: &openai.ChatCompletionContentPartTextParam{Text: formulaPrompt},
		},
		{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL},
			},
		},
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: parts,
					},
				},
			},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: openai request: %v", ErrRecognitionFailed, err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("%w: openai returned no choices", ErrRecognitionFailed)
	}
	return parseFormulaReply(resp.Choices[0].Message.Content)
}
