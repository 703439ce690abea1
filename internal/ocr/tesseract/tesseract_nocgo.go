//go:build !cgo

package tesseract

import (
	"context"

	"github.com/formulasnap/formulasnap/internal/ocr"
)

// Engine is a stub for builds without cgo.
type Engine struct{}

// New always returns ErrUnavailable in builds without cgo.
func New(lang, tessdataPrefix string) (*Engine, error) {
	return nil, ErrUnavailable
}

// Available reports whether this build links against libtesseract.
func Available() bool { return false }

// Version returns the linked Tesseract version string, empty in builds
// without cgo.
func Version() string { return "" }

// Name implements ocr.Engine.
func (*Engine) Name() string { return "tesseract" }

// Close implements ocr.Engine.
func (*Engine) Close() error { return nil }

// Recognize always returns ErrUnavailable in builds without cgo.
func (*Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	return ocr.Result{}, ErrUnavailable
}
