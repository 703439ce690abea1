package ocr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// formulaPrompt instructs vision models to transcribe the formula and
// reply with strict JSON. Keeping the reply machine-parseable is what lets
// these engines participate in the confidence policy.
const formulaPrompt = `You are a formula OCR engine. The image contains a single mathematical formula.
Transcribe it into LaTeX.

Respond with ONLY a JSON object in exactly this shape, no markdown fences, no commentary:
{"latex": "<the formula in LaTeX>", "confidence": <your confidence from 0.0 to 1.0>}

If the image contains no recognizable formula, use an empty string for "latex" and 0.0 for "confidence".`

// formulaReply is the JSON shape requested by formulaPrompt.
type formulaReply struct {
	LaTeX      string  `json:"latex"`
	Confidence float64 `json:"confidence"`
}

// parseFormulaReply decodes a model reply into a Result.
//
// Models occasionally wrap JSON in markdown fences or surround it with
// prose despite instructions; fences are stripped and the reply is scanned
// for its outermost JSON object before decoding.
func parseFormulaReply(reply string) (Result, error) {
	raw, ok := extractJSON(stripFences(reply))
	if !ok {
		return Result{}, fmt.Errorf("%w: model reply contains no JSON object: %q",
			ErrRecognitionFailed, truncate(reply, 120))
	}

	var fr formulaReply
	if err := json.Unmarshal([]byte(raw), &fr); err != nil {
		return Result{}, fmt.Errorf("%w: failed to parse model reply: %v", ErrRecognitionFailed, err)
	}

	conf := fr.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return Result{LaTeX: strings.TrimSpace(fr.LaTeX), Confidence: conf}, nil
}

// stripFences removes markdown code fences that models sometimes add
// around JSON replies.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSON returns the outermost JSON object in s.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// truncate shortens s for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
