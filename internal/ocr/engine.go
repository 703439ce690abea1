package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRecognitionFailed indicates that an engine could not produce an
// acceptable formula: a model error, a timeout, empty output, or a
// low-confidence rejection. The UI maps it to "No formula detected".
var ErrRecognitionFailed = errors.New("recognition failed")

// ConfidenceUnknown marks results from engines that cannot score their
// output. Unscored results are exempt from the minimum-confidence check.
const ConfidenceUnknown = -1.0

// DefaultMinConfidence is the default acceptance threshold for scored
// results.
const DefaultMinConfidence = 0.35

// Input carries one formula image into a recognition engine.
type Input struct {
	// ID correlates engine calls with log lines and API responses.
	ID string

	// Image is the PNG-encoded bitmap.
	Image []byte

	// Width and Height are the bitmap dimensions in pixels. Engines that
	// only need the raw bytes may ignore them.
	Width  int
	Height int
}

// Result is one recognized formula.
type Result struct {
	// LaTeX is the recognized formula in LaTeX-like notation.
	LaTeX string

	// Confidence is the engine's certainty in [0,1], or
	// ConfidenceUnknown when the engine does not score output.
	Confidence float64
}

// Engine converts a formula image into LaTeX markup.
//
// Implementations wrap external pretrained models and must be safe for
// sequential reuse; the application serializes calls through a single
// worker, so engines do not need internal locking.
type Engine interface {
	// Name identifies the engine in logs and API responses.
	Name() string

	// Recognize runs the model on one image. The context bounds the
	// call; implementations backed by remote services must honor it.
	Recognize(ctx context.Context, in Input) (Result, error)

	// Close releases model or client resources.
	Close() error
}

// CheckResult applies the acceptance policy to a recognition result.
//
// Empty output always fails. Scored results below minConfidence fail.
// Unscored results (Confidence < 0) pass regardless of threshold. All
// failures wrap ErrRecognitionFailed.
func CheckResult(res Result, minConfidence float64) error {
	if strings.TrimSpace(res.LaTeX) == "" {
		return fmt.Errorf("%w: empty result", ErrRecognitionFailed)
	}
	if res.Confidence >= 0 && res.Confidence < minConfidence {
		return fmt.Errorf("%w: confidence %.2f below threshold %.2f",
			ErrRecognitionFailed, res.Confidence, minConfidence)
	}
	return nil
}
