package formula

import (
	"errors"
	"fmt"
	"os"

	"github.com/formulasnap/formulasnap/internal/imaging"
)

// Output format names accepted by copy, export, and download.
const (
	FormatLaTeX = "latex"
	FormatTypst = "typst"
)

// ErrWriteFailed indicates the exported file could not be written. The
// in-memory extraction is unaffected.
var ErrWriteFailed = errors.New("file write failed")

// ErrNoResult indicates no extraction has completed yet.
var ErrNoResult = errors.New("no result available")

// ErrUnknownFormat indicates an output format other than latex or typst.
var ErrUnknownFormat = errors.New("unknown output format")

// Content returns the extraction text for an output format.
func (e *Extraction) Content(format string) (string, error) {
	switch format {
	case FormatLaTeX:
		return e.LaTeX, nil
	case FormatTypst:
		return e.Typst, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ExportFilename is the default file name offered for downloads.
func ExportFilename(format string) string {
	if format == FormatTypst {
		return "formula.typ"
	}
	return "formula.tex"
}

// Export writes the latest extraction to path in the given format.
// Write failures surface as ErrWriteFailed and the session keeps its
// result either way.
func (s *Service) Export(path, format string) error {
	ex, ok := s.session.Extraction()
	if !ok {
		return ErrNoResult
	}
	text, err := ex.Content(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	s.logger.Infow("exported formula", "path", path, "format", format)
	return nil
}

// Copy places the latest extraction on the system clipboard. Copying
// with no result is reported as ErrNoResult so the UI can warn instead
// of erroring.
func (s *Service) Copy(format string) error {
	ex, ok := s.session.Extraction()
	if !ok {
		return ErrNoResult
	}
	text, err := ex.Content(format)
	if err != nil {
		return err
	}
	if err := imaging.WriteClipboardText(text); err != nil {
		return err
	}
	s.logger.Infow("copied formula to clipboard", "format", format)
	return nil
}
