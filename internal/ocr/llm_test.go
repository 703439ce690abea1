package ocr

import (
	"errors"
	"math"
	"testing"
)

func TestParseFormulaReply(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantTeX  string
		wantConf float64
		wantErr  bool
	}{
		{
			name:     "plain json",
			reply:    `{"latex": "x^2 + y^2 = z^2", "confidence": 0.92}`,
			wantTeX:  "x^2 + y^2 = z^2",
			wantConf: 0.92,
		},
		{
			name:     "json fences",
			reply:    "```json\n{\"latex\": \"\\\\frac{a}{b}\", \"confidence\": 0.8}\n```",
			wantTeX:  `\frac{a}{b}`,
			wantConf: 0.8,
		},
		{
			name:     "bare fences",
			reply:    "```\n{\"latex\": \"x\", \"confidence\": 0.5}\n```",
			wantTeX:  "x",
			wantConf: 0.5,
		},
		{
			name:     "surrounding prose",
			reply:    `Sure! Here is the result: {"latex": "e = mc^2", "confidence": 0.7} Hope that helps.`,
			wantTeX:  "e = mc^2",
			wantConf: 0.7,
		},
		{
			name:     "latex whitespace trimmed",
			reply:    `{"latex": "  x + y  ", "confidence": 0.6}`,
			wantTeX:  "x + y",
			wantConf: 0.6,
		},
		{
			name:     "confidence clamped high",
			reply:    `{"latex": "x", "confidence": 1.7}`,
			wantTeX:  "x",
			wantConf: 1.0,
		},
		{
			name:     "confidence clamped low",
			reply:    `{"latex": "x", "confidence": -0.2}`,
			wantTeX:  "x",
			wantConf: 0.0,
		},
		{
			name:    "no json object",
			reply:   "I cannot see any formula in this image.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			reply:   `{"latex": "x", "confidence": }`,
			wantErr: true,
		},
		{
			name:    "empty reply",
			reply:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseFormulaReply(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseFormulaReply(%q) = %+v, want error", tt.reply, res)
				}
				if !errors.Is(err, ErrRecognitionFailed) {
					t.Errorf("error %v should wrap ErrRecognitionFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFormulaReply(%q) returned error: %v", tt.reply, err)
			}
			if res.LaTeX != tt.wantTeX {
				t.Errorf("latex = %q, want %q", res.LaTeX, tt.wantTeX)
			}
			if math.Abs(res.Confidence-tt.wantConf) > 1e-9 {
				t.Errorf("confidence = %v, want %v", res.Confidence, tt.wantConf)
			}
		})
	}
}
