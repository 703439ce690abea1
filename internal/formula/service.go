package formula

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/formulasnap/formulasnap/internal/convert"
	"github.com/formulasnap/formulasnap/internal/imaging"
	"github.com/formulasnap/formulasnap/internal/ocr"
)

// Thumbnail bounds for the UI preview.
const (
	thumbMaxWidth  = 640
	thumbMaxHeight = 320
)

// Config assembles a Service.
type Config struct {
	// Engine performs recognition. Required.
	Engine ocr.Engine

	// MinConfidence rejects scored results below it.
	MinConfidence float64

	// Fallback enables the heuristic placeholder when the engine fails
	// or returns nothing.
	Fallback bool

	// Timeout bounds each recognition job. Zero means no limit.
	Timeout time.Duration

	// Logger defaults to a no-op logger when nil.
	Logger *zap.SugaredLogger
}

// Service runs the extract pipeline: preprocess, recognize, convert,
// record. Recognition happens on a single background worker; a new
// request while a job is in flight blocks until the worker is idle, and
// a running job is never cancelled from the outside.
type Service struct {
	engine        ocr.Engine
	fallback      ocr.Engine
	minConfidence float64
	timeout       time.Duration
	logger        *zap.SugaredLogger
	pool          *ants.Pool
	session       *Session
}

// NewService creates the pipeline service around a recognition engine.
func NewService(cfg Config) (*Service, error) {
	if cfg.Engine == nil {
		return nil, errors.New("recognition engine is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognition worker: %w", err)
	}

	var fallback ocr.Engine
	if cfg.Fallback && cfg.Engine.Name() != "heuristic" {
		fallback = ocr.NewHeuristic()
	}

	return &Service{
		engine:        cfg.Engine,
		fallback:      fallback,
		minConfidence: cfg.MinConfidence,
		timeout:       cfg.Timeout,
		logger:        logger,
		pool:          pool,
		session:       NewSession(),
	}, nil
}

// Session exposes the in-memory state for the UI layer.
func (s *Service) Session() *Session { return s.session }

// EngineName reports the configured primary engine.
func (s *Service) EngineName() string { return s.engine.Name() }

// Close stops the worker and releases engine resources.
func (s *Service) Close() error {
	s.pool.Release()
	if s.fallback != nil {
		s.fallback.Close()
	}
	return s.engine.Close()
}

// ExtractFile recognizes the formula in the image file at path.
func (s *Service) ExtractFile(ctx context.Context, path string) (*Extraction, error) {
	img, format, err := imaging.LoadFile(path)
	if err != nil {
		return nil, err
	}
	s.logger.Debugw("loaded image", "path", path, "format", format)
	return s.ExtractImage(ctx, img)
}

// ExtractBytes recognizes the formula in an encoded image, as delivered
// by an upload or a browser paste.
func (s *Service) ExtractBytes(ctx context.Context, data []byte) (*Extraction, error) {
	img, format, err := imaging.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	s.logger.Debugw("decoded image", "format", format, "bytes", len(data))
	return s.ExtractImage(ctx, img)
}

// ExtractClipboard recognizes the formula in the system clipboard image.
func (s *Service) ExtractClipboard(ctx context.Context) (*Extraction, error) {
	data, err := imaging.ReadClipboardImage()
	if err != nil {
		return nil, err
	}
	return s.ExtractBytes(ctx, data)
}

// ExtractImage runs the full pipeline on a decoded image. The caller's
// context bounds the wait, not the job: an abandoned wait leaves the
// worker running and the result still lands in the session.
func (s *Service) ExtractImage(ctx context.Context, img image.Image) (*Extraction, error) {
	pre, err := imaging.Preprocess(img)
	if err != nil {
		s.logger.Warnw("preprocessing failed, using original image", "error", err)
		pre = img
	}

	data, err := imaging.EncodePNG(pre)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preprocessed image: %w", err)
	}

	thumb, err := imaging.EncodePNG(imaging.Thumbnail(pre, thumbMaxWidth, thumbMaxHeight))
	if err != nil {
		s.logger.Debugw("thumbnail encode failed", "error", err)
		thumb = nil
	}
	s.session.SetImage(img, pre, thumb)

	in := ocr.Input{
		ID:     uuid.New().String(),
		Image:  data,
		Width:  pre.Bounds().Dx(),
		Height: pre.Bounds().Dy(),
	}

	p := newPromise()
	if err := s.pool.Submit(func() { p.resolve(s.runJob(in)) }); err != nil {
		return nil, fmt.Errorf("failed to queue recognition: %w", err)
	}
	return p.wait(ctx)
}

// runJob executes one recognition on the worker goroutine. The job is
// bounded by the service timeout, not by any caller context.
func (s *Service) runJob(in ocr.Input) (*Extraction, error) {
	start := time.Now()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, engineName, warning, err := s.recognize(ctx, in)
	if err != nil {
		if !errors.Is(err, ocr.ErrRecognitionFailed) {
			err = fmt.Errorf("%w: %v", ocr.ErrRecognitionFailed, err)
		}
		s.logger.Warnw("recognition failed", "id", in.ID, "engine", engineName, "error", err)
		return nil, err
	}

	ex := &Extraction{
		ID:         in.ID,
		LaTeX:      res.LaTeX,
		Typst:      convert.ToTypst(res.LaTeX),
		Confidence: res.Confidence,
		Engine:     engineName,
		Duration:   time.Since(start),
		Warning:    warning,
	}
	if mathml, merr := convert.ToMathML(res.LaTeX); merr != nil {
		s.logger.Debugw("mathml preview failed", "id", in.ID, "error", merr)
	} else {
		ex.MathML = mathml
	}

	s.session.SetExtraction(ex)
	s.logger.Infow("recognized formula",
		"id", in.ID,
		"engine", engineName,
		"confidence", res.Confidence,
		"ms", ex.Duration.Milliseconds())
	return ex, nil
}

// recognize runs the primary engine and applies the acceptance policy.
// Engine failures and empty results fall back to the heuristic engine
// when enabled; low-confidence rejections never do.
func (s *Service) recognize(ctx context.Context, in ocr.Input) (ocr.Result, string, string, error) {
	primary := s.engine.Name()

	res, err := s.engine.Recognize(ctx, in)
	if err == nil && strings.TrimSpace(res.LaTeX) != "" {
		if cerr := ocr.CheckResult(res, s.minConfidence); cerr != nil {
			return ocr.Result{}, primary, "", cerr
		}
		return res, primary, "", nil
	}
	if err == nil {
		err = fmt.Errorf("%w: engine %s returned an empty result", ocr.ErrRecognitionFailed, primary)
	}

	if s.fallback == nil {
		return ocr.Result{}, primary, "", err
	}

	s.logger.Warnw("primary engine failed, using fallback",
		"engine", primary, "fallback", s.fallback.Name(), "error", err)

	fres, ferr := s.fallback.Recognize(ctx, in)
	if ferr != nil {
		return ocr.Result{}, primary, "", err
	}
	warning := fmt.Sprintf("%s unavailable, showing a placeholder guess", primary)
	return fres, s.fallback.Name(), warning, nil
}

// promise is a single-slot future. The worker resolves it exactly once;
// the requesting caller is the only waiter.
type promise struct {
	done chan struct{}
	ex   *Extraction
	err  error
}

func newPromise() *promise {
	return &promise{done: make(chan struct{})}
}

func (p *promise) resolve(ex *Extraction, err error) {
	p.ex = ex
	p.err = err
	close(p.done)
}

func (p *promise) wait(ctx context.Context) (*Extraction, error) {
	select {
	case <-p.done:
		return p.ex, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
