package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/comigor/reflector/internal/config"
	"github.com/comigor/reflector/internal/history"
	"github.com/comigor/reflector/internal/llm"
	"github.com/comigor/reflector/internal/logger"
	"github.com/comigor/reflector/internal/prompt"
	"github.com/comigor/reflector/internal/reflection"
	"github.com/comigor/reflector/internal/render"
	"github.com/comigor/reflector/internal/transcript"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("reflector", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: reflector [flags] [input...]\n\nRefines a tweet or audits code through generate/critique rounds.\n\n")
		fs.PrintDefaults()
	}
	modeName := fs.StringP("mode", "m", string(prompt.ModeTweet), "what to refine: tweet or audit")
	inputFile := fs.StringP("file", "f", "", "read the input from `path` (- for stdin)")
	configPath := fs.StringP("config", "c", "", "YAML config `path` (default ./config.yaml or $CONFIG_PATH)")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("archive", "", "archive finished reports in the SQLite database at `path`")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	// Load .env first so the variables it defines reach the config loader.
	if err := godotenv.Load(); err != nil {
		logger.L.Debug("no .env file found, using environment variables")
	}

	v := config.New()
	// Both flags exist above, so binding cannot fail.
	_ = v.BindPFlag("log.level", fs.Lookup("log-level"))
	_ = v.BindPFlag("archive.path", fs.Lookup("archive"))

	cfg, err := config.Load(v, *configPath)
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		_ = render.Failure(stderr, err)
		return exitUsage
	}
	logger.SetLevel(cfg.Log.Level)

	mode, err := prompt.ParseMode(*modeName)
	if err != nil {
		logger.L.Error("invalid mode", "error", err)
		return exitUsage
	}

	input, err := readInput(*inputFile, fs.Args(), stdin)
	if err != nil {
		logger.L.Error("failed to read input", "error", err)
		_ = render.Failure(stderr, err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	completer, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		logger.L.Error("failed to create completion client", "error", err)
		_ = render.Failure(stderr, err)
		return exitFailure
	}

	r := reflection.New(completer, mode,
		reflection.WithRequestTimeout(cfg.LLM.RequestTimeout),
		reflection.WithObserver(func(s reflection.Step) {
			logger.L.Info("stage completed", "stage", s.Stage, "round", s.Round, "messages", s.Transcript.Len())
		}),
	)

	logger.L.Info("starting refinement", "mode", mode, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	tr, err := r.Run(ctx, input)
	if err != nil {
		logger.L.Error("refinement failed", "error", err)
		_ = render.Failure(stderr, err)
		return exitFailure
	}

	if cfg.Archive.Path != "" {
		archive(ctx, cfg.Archive.Path, mode, tr)
	}

	if err := render.Transcript(stdout, mode, tr); err != nil {
		logger.L.Error("failed to write report", "error", err)
		return exitFailure
	}
	return exitOK
}

// archive stores the finished report. Failing to archive never hides the
// report itself.
func archive(ctx context.Context, path string, mode prompt.Mode, tr transcript.Transcript) {
	store, err := history.Open(ctx, path)
	if err != nil {
		logger.L.Warn("report archive unavailable", "path", path, "error", err)
		return
	}
	defer store.Close()

	report := history.NewReport(mode, tr)
	if err := store.Save(ctx, report); err != nil {
		logger.L.Warn("failed to archive report", "path", path, "error", err)
		return
	}
	logger.L.Info("report archived", "path", path, "session_id", report.SessionID)
}
