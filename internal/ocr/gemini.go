package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is the vision model used when none is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini recognizes formulas with Google's Gemini vision models.
//
// The model is prompted to reply with a JSON object carrying the LaTeX and
// a self-assessed confidence score, so Gemini results participate in the
// confidence gate.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini engine. The API key is required; an empty
// model falls back to DefaultGeminiModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Name implements Engine.
func (*Gemini) Name() string { return "gemini" }

// Close implements Engine.
func (g *Gemini) Close() error { return g.client.Close() }

// Recognize sends the PNG image with the formula prompt and parses the
// model's JSON reply.
func (g *Gemini) Recognize(ctx context.Context, in Input) (Result, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx,
		genai.ImageData("png", in.Image),
		genai.Text(formulaPrompt),
	)
	if err != nil {
		return Result{}, fmt.Errorf("%w: gemini request: %v", ErrRecognitionFailed, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Result{}, fmt.Errorf("%w: gemini returned no candidates", ErrRecognitionFailed)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return parseFormulaReply(sb.String())
}
