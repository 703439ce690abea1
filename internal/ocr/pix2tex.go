package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultPix2TexURL is the standard local address of a pix2tex API server
// started with `python -m pix2tex.api.run`.
const DefaultPix2TexURL = "http://127.0.0.1:8502"

// Pix2Tex recognizes formulas through a running pix2tex API server.
//
// The server exposes a single endpoint, POST {base}/predict/, that accepts
// a multipart image upload and returns the recognized LaTeX as a JSON
// string. The model does not report confidence, so results carry
// ConfidenceUnknown.
type Pix2Tex struct {
	baseURL string
	client  *http.Client
}

// NewPix2Tex returns an engine talking to the pix2tex server at baseURL.
// An empty baseURL uses DefaultPix2TexURL.
func NewPix2Tex(baseURL string, timeout time.Duration) *Pix2Tex {
	if baseURL == "" {
		baseURL = DefaultPix2TexURL
	}
	return &Pix2Tex{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Name implements Engine.
func (*Pix2Tex) Name() string { return "pix2tex" }

// Close implements Engine.
func (*Pix2Tex) Close() error { return nil }

// Recognize uploads the image and decodes the server's JSON string reply.
func (p *Pix2Tex) Recognize(ctx context.Context, in Input) (Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "formula.png")
	if err != nil {
		return Result{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(in.Image); err != nil {
		return Result{}, fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict/", &body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build pix2tex request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: pix2tex request: %v", ErrRecognitionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("%w: pix2tex returned %d: %s",
			ErrRecognitionFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var latex string
	if err := json.NewDecoder(resp.Body).Decode(&latex); err != nil {
		return Result{}, fmt.Errorf("%w: failed to decode pix2tex response: %v",
			ErrRecognitionFailed, err)
	}

	return Result{LaTeX: strings.TrimSpace(latex), Confidence: ConfidenceUnknown}, nil
}
