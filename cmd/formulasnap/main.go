package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"go.uber.org/zap"

	"github.com/formulasnap/formulasnap/internal/formula"
	"github.com/formulasnap/formulasnap/internal/imaging"
	"github.com/formulasnap/formulasnap/internal/logging"
	"github.com/formulasnap/formulasnap/internal/ocr"
	"github.com/formulasnap/formulasnap/internal/ocr/tesseract"
	"github.com/formulasnap/formulasnap/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	flags := ff.NewFlagSet("formulasnap")
	var (
		listen        = flags.StringLong("listen", "127.0.0.1:8543", "HTTP listen address for the UI")
		engineName    = flags.StringLong("engine", "auto", "recognition engine: auto, tesseract, pix2tex, gemini, openai, heuristic")
		minConfidence = flags.Float64Long("min-confidence", ocr.DefaultMinConfidence, "reject scored results below this confidence")
		noFallback    = flags.BoolLong("no-fallback", "disable the heuristic placeholder when the engine fails")
		lang          = flags.StringLong("lang", tesseract.DefaultLanguage, "tesseract language codes, e.g. eng or eng+equ")
		pix2texURL    = flags.StringLong("pix2tex-url", ocr.DefaultPix2TexURL, "pix2tex API base URL")
		geminiKey     = flags.StringLong("gemini-key", "", "Gemini API key (or set FORMULASNAP_GEMINI_KEY)")
		geminiModel   = flags.StringLong("gemini-model", ocr.DefaultGeminiModel, "Gemini model name")
		openaiKey     = flags.StringLong("openai-key", "", "OpenAI-compatible API key")
		openaiModel   = flags.StringLong("openai-model", ocr.DefaultOpenAIModel, "OpenAI-compatible model name")
		openaiBaseURL = flags.StringLong("openai-base-url", "", "OpenAI-compatible API base URL")
		input         = flags.StringLong("input", "", "recognize this image file and exit")
		fromClipboard = flags.BoolLong("clipboard", "recognize the clipboard image and exit")
		output        = flags.StringLong("output", "", "write the one-shot result to this path instead of stdout")
		format        = flags.StringLong("format", "all", "one-shot output format: latex, typst or all")
		timeout       = flags.DurationLong("timeout", 90*time.Second, "per-recognition timeout")
		logFile       = flags.StringLong("log-file", "", "log file path (default $HOME/FormulaSnap/logs/formulasnap.log)")
		debug         = flags.BoolLong("debug", "enable debug logging")
	)

	// Handle --version and --help before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("formulasnap %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println(ffhelp.Flags(flags))
			return
		}
	}

	if err := ff.Parse(flags, os.Args[1:], ff.WithEnvVarPrefix("FORMULASNAP")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(flags))
		if errors.Is(err, ff.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logPath := *logFile
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}
	logger := logging.Setup(logPath, *debug)
	defer logger.Sync()

	logger.Infow("formulasnap starting",
		"version", Version, "build_time", BuildTime, "commit", GitCommit)

	engine, err := buildEngine(context.Background(), engineConfig{
		name:          *engineName,
		lang:          *lang,
		pix2texURL:    *pix2texURL,
		geminiKey:     *geminiKey,
		geminiModel:   *geminiModel,
		openaiKey:     *openaiKey,
		openaiModel:   *openaiModel,
		openaiBaseURL: *openaiBaseURL,
		timeout:       *timeout,
	}, logger)
	if err != nil {
		logger.Fatalw("failed to initialize recognition engine", "engine", *engineName, "error", err)
	}
	logger.Infow("recognition engine ready", "engine", engine.Name())

	service, err := formula.NewService(formula.Config{
		Engine:        engine,
		MinConfidence: *minConfidence,
		Fallback:      !*noFallback,
		Timeout:       *timeout,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatalw("failed to initialize pipeline", "error", err)
	}
	defer service.Close()

	if *input != "" || *fromClipboard {
		code := runOnce(service, oneShot{
			input:     *input,
			clipboard: *fromClipboard,
			output:    *output,
			format:    *format,
		})
		service.Close()
		logger.Sync()
		os.Exit(code)
	}

	serve(service, logger, *listen, *timeout)
}

// engineConfig carries the flag values the engine constructors need.
type engineConfig struct {
	name          string
	lang          string
	pix2texURL    string
	geminiKey     string
	geminiModel   string
	openaiKey     string
	openaiModel   string
	openaiBaseURL string
	timeout       time.Duration
}

// buildEngine constructs the engine selected by --engine. auto prefers
// tesseract when compiled in and falls back to heuristic placeholders
// otherwise.
func buildEngine(ctx context.Context, cfg engineConfig, logger *zap.SugaredLogger) (ocr.Engine, error) {
	switch cfg.name {
	case "auto":
		if tesseract.Available() {
			return tesseract.New(cfg.lang, "")
		}
		logger.Warnw("tesseract support not compiled in, using heuristic placeholders")
		return ocr.NewHeuristic(), nil
	case "tesseract":
		return tesseract.New(cfg.lang, "")
	case "pix2tex":
		return ocr.NewPix2Tex(cfg.pix2texURL, cfg.timeout), nil
	case "gemini":
		return ocr.NewGemini(ctx, cfg.geminiKey, cfg.geminiModel)
	case "openai":
		return ocr.NewOpenAI(cfg.openaiKey, cfg.openaiModel, cfg.openaiBaseURL)
	case "heuristic":
		return ocr.NewHeuristic(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.name)
	}
}

// oneShot holds the flags for a single headless extraction.
type oneShot struct {
	input     string
	clipboard bool
	output    string
	format    string
}

// runOnce executes one extraction and reports the result on stdout or at
// the output path. Returns the process exit code.
func runOnce(service *formula.Service, job oneShot) int {
	ctx := context.Background()

	var (
		ex  *formula.Extraction
		err error
	)
	if job.clipboard {
		ex, err = service.ExtractClipboard(ctx)
	} else {
		ex, err = service.ExtractFile(ctx, job.input)
	}
	if err != nil {
		message := server.UserMessage(err)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, imaging.ErrUnsupportedFormat) {
			message += ": " + job.input
		}
		fmt.Fprintln(os.Stderr, message)
		return 1
	}
	if ex.Warning != "" {
		fmt.Fprintln(os.Stderr, ex.Warning)
	}

	if job.output != "" {
		if job.format != formula.FormatLaTeX && job.format != formula.FormatTypst {
			fmt.Fprintln(os.Stderr, "--output requires --format latex or typst")
			return 1
		}
		if err := service.Export(job.output, job.format); err != nil {
			fmt.Fprintln(os.Stderr, server.UserMessage(err)+": "+job.output)
			return 1
		}
		return 0
	}

	switch job.format {
	case formula.FormatLaTeX:
		fmt.Println(ex.LaTeX)
	case formula.FormatTypst:
		fmt.Println(ex.Typst)
	case "all":
		fmt.Printf("latex: %s\n", ex.LaTeX)
		fmt.Printf("typst: %s\n", ex.Typst)
	default:
		fmt.Fprintf(os.Stderr, "unknown output format %q\n", job.format)
		return 1
	}
	return 0
}

// serve runs the web UI until SIGINT or SIGTERM.
func serve(service *formula.Service, logger *zap.SugaredLogger, addr string, timeout time.Duration) {
	// The write timeout must outlast a full recognition, which blocks
	// the extract handlers.
	writeTimeout := time.Duration(0)
	if timeout > 0 {
		writeTimeout = timeout + 30*time.Second
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.NewServer(service, logger, Version),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Infow("serving UI", "addr", addr, "url", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warnw("forced shutdown", "error", err)
	}
}
