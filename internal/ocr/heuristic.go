package ocr

import (
	"bytes"
	"context"
	"image/png"
)

// Heuristic is the offline fallback engine. It never calls a model;
// instead it guesses a placeholder formula from the image's aspect ratio
// so the rest of the pipeline stays exercisable without any recognition
// backend installed.
//
// The guesses are intentionally generic: a wide strip is probably an
// equation, a tall narrow crop a fraction, a portrait block a summation.
// Results carry ConfidenceUnknown and are clearly placeholders, not
// transcriptions.
type Heuristic struct{}

// NewHeuristic returns the aspect-ratio fallback engine.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Name implements Engine.
func (*Heuristic) Name() string { return "heuristic" }

// Close implements Engine.
func (*Heuristic) Close() error { return nil }

// Recognize guesses a placeholder formula from the image shape. It never
// fails: when even the dimensions are unavailable it falls back to the
// most generic placeholder of all.
func (*Heuristic) Recognize(ctx context.Context, in Input) (Result, error) {
	w, h := in.Width, in.Height
	if w <= 0 || h <= 0 {
		if cfg, err := png.DecodeConfig(bytes.NewReader(in.Image)); err == nil {
			w, h = cfg.Width, cfg.Height
		}
	}

	var latex string
	switch {
	case w <= 0 || h <= 0:
		latex = "x + y = z"
	case float64(h) < float64(w)*0.3:
		// Wide strip: linear equation
		latex = "x = a + b"
	case float64(w) < float64(h)*0.3:
		// Tall narrow crop: fraction
		latex = `\frac{a}{b}`
	case h > w:
		// Portrait block: summation
		latex = `\sum_{i=1}^{n} x_i`
	default:
		latex = "x^2 + y^2 = z^2"
	}

	return Result{LaTeX: latex, Confidence: ConfidenceUnknown}, nil
}
