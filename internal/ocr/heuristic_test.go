package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
)

func TestHeuristicAspectRatios(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want string
	}{
		{"wide strip is an equation", 400, 80, "x = a + b"},
		{"tall narrow is a fraction", 60, 400, `\frac{a}{b}`},
		{"portrait block is a summation", 200, 300, `\sum_{i=1}^{n} x_i`},
		{"landscape block is the default", 300, 200, "x^2 + y^2 = z^2"},
		{"square is the default", 200, 200, "x^2 + y^2 = z^2"},
	}

	engine := NewHeuristic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Recognize(context.Background(), Input{Width: tt.w, Height: tt.h})
			if err != nil {
				t.Fatalf("Recognize() returned error: %v", err)
			}
			if res.LaTeX != tt.want {
				t.Errorf("latex = %q, want %q", res.LaTeX, tt.want)
			}
			if res.Confidence != ConfidenceUnknown {
				t.Errorf("confidence = %v, want ConfidenceUnknown", res.Confidence)
			}
		})
	}
}

func TestHeuristicDimensionsFromPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 80))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}

	res, err := NewHeuristic().Recognize(context.Background(), Input{Image: buf.Bytes()})
	if err != nil {
		t.Fatalf("Recognize() returned error: %v", err)
	}
	if res.LaTeX != "x = a + b" {
		t.Errorf("latex = %q, want %q", res.LaTeX, "x = a + b")
	}
}

func TestHeuristicNeverFails(t *testing.T) {
	res, err := NewHeuristic().Recognize(context.Background(), Input{Image: []byte("not a png")})
	if err != nil {
		t.Fatalf("Recognize() returned error: %v", err)
	}
	if res.LaTeX != "x + y = z" {
		t.Errorf("latex = %q, want the generic placeholder", res.LaTeX)
	}
}
