//go:build cgo

package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/formulasnap/formulasnap/internal/ocr"
)

// Engine recognizes text with a local Tesseract installation.
//
// A fresh gosseract client is created per recognition because clients are
// not safe for reuse across images with different settings. Recognition
// runs as a single native call and cannot be interrupted once started;
// the context is only checked before the call begins.
type Engine struct {
	lang           string
	tessdataPrefix string
}

// New creates a Tesseract engine. An empty lang falls back to
// DefaultLanguage. tessdataPrefix optionally points at a directory of
// traineddata files; when empty the system default location is used.
func New(lang, tessdataPrefix string) (*Engine, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	return &Engine{lang: lang, tessdataPrefix: tessdataPrefix}, nil
}

// Available reports whether this build links against libtesseract.
func Available() bool { return true }

// Version returns the linked Tesseract version string.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// Name implements ocr.Engine.
func (*Engine) Name() string { return "tesseract" }

// Close implements ocr.Engine.
func (*Engine) Close() error { return nil }

// Recognize runs Tesseract over the PNG bytes and returns the recognized
// text with the mean word confidence.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return ocr.Result{}, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(e.lang); err != nil {
		return ocr.Result{}, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("%w: OCR failed: %v", ocr.ErrRecognitionFailed, err)
	}

	return ocr.Result{
		LaTeX:      strings.Join(strings.Fields(text), " "),
		Confidence: meanConfidence(client),
	}, nil
}

// meanConfidence averages Tesseract's per-word confidences into [0, 1].
// If bounding boxes cannot be extracted the result is ConfidenceUnknown
// and the text is still usable.
func meanConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return ocr.ConfidenceUnknown
	}

	var sum float64
	count := 0
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		sum += float64(box.Confidence)
		count++
	}
	if count == 0 {
		return ocr.ConfidenceUnknown
	}
	return sum / float64(count) / 100.0
}
