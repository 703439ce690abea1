package formula

import (
	"image"
	"sync"
	"time"
)

// Extraction is one completed recognition together with its conversions.
// Immutable once recorded.
type Extraction struct {
	// ID correlates the extraction across logs and API responses.
	ID string

	// LaTeX is the recognized formula.
	LaTeX string

	// Typst is the LaTeX converted through the token mapping.
	Typst string

	// MathML is the best-effort preview markup, empty when rendering
	// failed.
	MathML string

	// Confidence is the engine's score in [0,1], negative when the
	// engine does not report one.
	Confidence float64

	// Engine names the engine that produced the result.
	Engine string

	// Duration covers queueing, recognition, and conversion.
	Duration time.Duration

	// Warning carries a non-fatal notice, such as a fallback to the
	// placeholder engine.
	Warning string
}

// Session is the application's in-memory state: the image currently
// being worked on and the latest extraction. Nothing survives the
// process.
//
// The requesting goroutine records the image before queueing its job;
// the worker records the extraction on completion. UI handlers only
// read. An RWMutex guards the handoff.
type Session struct {
	mu           sync.RWMutex
	original     image.Image
	preprocessed image.Image
	thumbnail    []byte
	extraction   *Extraction
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// SetImage records the image being worked on, before recognition runs,
// so the UI can show what the engine sees.
func (s *Session) SetImage(original, preprocessed image.Image, thumbnailPNG []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.original = original
	s.preprocessed = preprocessed
	s.thumbnail = thumbnailPNG
}

// SetExtraction records a completed recognition.
func (s *Session) SetExtraction(ex *Extraction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extraction = ex
}

// Extraction returns the latest completed recognition.
func (s *Session) Extraction() (*Extraction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.extraction == nil {
		return nil, false
	}
	return s.extraction, true
}

// Thumbnail returns the PNG preview of the current preprocessed image.
func (s *Session) Thumbnail() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.thumbnail) == 0 {
		return nil, false
	}
	return s.thumbnail, true
}

// Images returns the original and preprocessed images of the current
// session.
func (s *Session) Images() (original, preprocessed image.Image, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.original == nil {
		return nil, nil, false
	}
	return s.original, s.preprocessed, true
}
