package server

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/formulasnap/formulasnap/internal/formula"
	"github.com/formulasnap/formulasnap/internal/imaging"
	"github.com/formulasnap/formulasnap/internal/ocr"
)

// maxUploadBytes caps multipart uploads.
const maxUploadBytes = 32 << 20

// extractionResponse is the wire form of a completed extraction.
type extractionResponse struct {
	ID         string  `json:"id"`
	LaTeX      string  `json:"latex"`
	Typst      string  `json:"typst"`
	MathML     string  `json:"mathml,omitempty"`
	Confidence float64 `json:"confidence"`
	Engine     string  `json:"engine"`
	DurationMS int64   `json:"duration_ms"`
	Warning    string  `json:"warning,omitempty"`
}

func newExtractionResponse(ex *formula.Extraction) extractionResponse {
	return extractionResponse{
		ID:         ex.ID,
		LaTeX:      ex.LaTeX,
		Typst:      ex.Typst,
		MathML:     ex.MathML,
		Confidence: ex.Confidence,
		Engine:     ex.Engine,
		DurationMS: ex.Duration.Milliseconds(),
		Warning:    ex.Warning,
	}
}

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleStaticCSS serves the stylesheet.
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(appCSS)
}

// handleStaticJS serves the UI script.
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}

// handleInfo reports application metadata for the UI header.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "FormulaSnap",
		"version": s.version,
		"engine":  s.service.EngineName(),
		"ready":   true,
	})
}

// handleExtract runs the pipeline on an uploaded image file.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.logger.Warnw("malformed upload", "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody("Upload is too large or malformed"))
		return
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("No file provided"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.logger.Warnw("failed to read upload", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Error reading file"))
		return
	}

	ex, err := s.service.ExtractBytes(r.Context(), data)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newExtractionResponse(ex))
}

// handleExtractClipboard runs the pipeline on the server's clipboard
// image.
func (s *Server) handleExtractClipboard(w http.ResponseWriter, r *http.Request) {
	ex, err := s.service.ExtractClipboard(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newExtractionResponse(ex))
}

// handleResult returns the latest extraction.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	ex, ok := s.service.Session().Extraction()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("No result available"))
		return
	}
	writeJSON(w, http.StatusOK, newExtractionResponse(ex))
}

// handleImage serves the preprocessed thumbnail the engine saw.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	thumb, ok := s.service.Session().Thumbnail()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("No image available"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(thumb)
}

// handleCopy places the latest extraction on the server's clipboard.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Format string `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if err := s.service.Copy(req.Format); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "copied"})
}

// handleExport writes the latest extraction to a file on the server's
// filesystem.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Format string `json:"format"`
		Path   string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Export path required"))
		return
	}
	if err := s.service.Export(req.Path, req.Format); err != nil {
		s.writeError(w, r, err, req.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "exported", "path": req.Path})
}

// handleDownload serves the latest extraction as a file attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ex, ok := s.service.Session().Extraction()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("No result available"))
		return
	}
	format := r.PathValue("format")
	text, err := ex.Content(format)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+formula.ExportFilename(format)+`"`)
	w.Write([]byte(text))
}

// writeError maps a pipeline error to its HTTP status and user-facing
// message. detail, when set, is appended to the message (a path, for
// example).
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, detail string) {
	status, message := mapError(err)
	if detail != "" {
		message += ": " + detail
	}
	s.logger.Warnw("request failed",
		"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, errorBody(message))
}

// UserMessage returns the user-facing message for a pipeline error,
// shared with the one-shot CLI.
func UserMessage(err error) string {
	_, message := mapError(err)
	return message
}

// mapError translates pipeline sentinels into the status codes and
// modal messages the UI shows.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, imaging.ErrNoImage):
		return http.StatusBadRequest, "No image found in clipboard"
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "Unsupported image format"
	case errors.Is(err, imaging.ErrClipboardUnavailable):
		return http.StatusNotImplemented, "System clipboard unavailable"
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, "File not found"
	case errors.Is(err, ocr.ErrRecognitionFailed):
		return http.StatusUnprocessableEntity, "No formula detected"
	case errors.Is(err, formula.ErrWriteFailed):
		return http.StatusInternalServerError, "Failed to write file"
	case errors.Is(err, formula.ErrNoResult):
		return http.StatusNotFound, "No result available"
	case errors.Is(err, formula.ErrUnknownFormat):
		return http.StatusBadRequest, "Unknown output format"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
