// Package tesseract adapts the native Tesseract OCR engine to the
// recognition Engine interface.
//
// The gosseract bindings require cgo and an installed libtesseract. In
// builds without cgo the package compiles to a stub whose constructor
// returns ErrUnavailable, so callers select engines at runtime without
// build-time branching.
package tesseract

import "errors"

// DefaultLanguage is the Tesseract language code used when none is
// configured. Additional languages can be combined with "+", for example
// "eng+equ".
const DefaultLanguage = "eng"

// ErrUnavailable reports that Tesseract support was not compiled into
// this binary.
var ErrUnavailable = errors.New("tesseract support not compiled in (requires cgo)")
