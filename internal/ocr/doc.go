// Package ocr defines the formula recognition engine interface and its
// implementations.
//
// An Engine takes a preprocessed formula image and returns LaTeX markup.
// All real recognition is delegated to external pretrained models; this
// package contains only adapters:
//
//   - tesseract (subpackage ocr/tesseract): local Tesseract via gosseract.
//     Requires CGO and an installed Tesseract library; without them the
//     constructor fails with tesseract.ErrUnavailable.
//   - pix2tex: HTTP client for a running pix2tex API server.
//   - gemini: Google Gemini vision models.
//   - openai: OpenAI-compatible vision chat endpoints.
//   - heuristic: offline aspect-ratio placeholder, used as the fallback
//     when no model is available or a model returns nothing.
//
// # Confidence Policy
//
// Engines that can score their output report a confidence in [0,1];
// engines that cannot report ConfidenceUnknown. CheckResult rejects scored
// results below a minimum threshold and empty results, both as
// ErrRecognitionFailed. Unscored results pass through unchecked, so
// best-effort engines keep their best-effort behavior.
//
// # Errors
//
// All recognition failures (model errors, timeouts, empty output,
// low-confidence rejection) wrap ErrRecognitionFailed so callers can map
// them to a single user-facing message.
package ocr
