package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/formulasnap/formulasnap/internal/formula"
)

// Server exposes the extraction pipeline over HTTP: the embedded web UI
// plus the JSON API backing it.
type Server struct {
	service *formula.Service
	logger  *zap.SugaredLogger
	version string
	mux     *http.ServeMux
}

// NewServer creates a Server with a default mux.
func NewServer(service *formula.Service, logger *zap.SugaredLogger, version string) *Server {
	return NewServerWithMux(service, logger, version, http.NewServeMux())
}

// NewServerWithMux creates a Server on a caller-supplied mux.
func NewServerWithMux(service *formula.Service, logger *zap.SugaredLogger, version string, mux *http.ServeMux) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{
		service: service,
		logger:  logger,
		version: version,
		mux:     mux,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all routes, most specific first.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /static/app.css", s.handleStaticCSS)
	s.mux.HandleFunc("GET /static/app.js", s.handleStaticJS)

	s.mux.HandleFunc("GET /api/info", s.handleInfo)
	s.mux.HandleFunc("POST /api/extract/clipboard", s.handleExtractClipboard)
	s.mux.HandleFunc("POST /api/extract", s.handleExtract)
	s.mux.HandleFunc("GET /api/result", s.handleResult)
	s.mux.HandleFunc("GET /api/image", s.handleImage)
	s.mux.HandleFunc("POST /api/copy", s.handleCopy)
	s.mux.HandleFunc("POST /api/export", s.handleExport)
	s.mux.HandleFunc("GET /api/download/{format}", s.handleDownload)

	// The UI is the catch-all.
	s.mux.HandleFunc("GET /", s.handleIndex)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
