// Command signup is a terminal registration wizard. Drafts survive restarts
// and are posted to the submission sink on the last step.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/and161185/signup-wizard/internal/cli"
	"github.com/and161185/signup-wizard/internal/config"
	"github.com/and161185/signup-wizard/internal/draftstore"
	"github.com/and161185/signup-wizard/internal/prompt"
	"github.com/and161185/signup-wizard/internal/sink"
	"github.com/and161185/signup-wizard/internal/wizard"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWizard()
	if err != nil {
		return err
	}

	flag.StringVar(&cfg.SinkURL, "sink", cfg.SinkURL, "submission endpoint URL")
	flag.StringVar(&cfg.Storage, "storage", cfg.Storage, "draft storage: file, sqlite or memory")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for drafts and the seal key")
	flag.BoolVar(&cfg.Seal, "seal", cfg.Seal, "encrypt stored drafts")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "write a debug log to <data-dir>/debug.log")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("signup %s (%s)\n", version, buildDate)
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logPath := cfg.DebugLogPath()
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			return err
		}
	}
	log, err := newLogger(logPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	st, closeStore, err := cli.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	log.Info("starting",
		zap.String("version", version),
		zap.String("storage", cfg.Storage),
		zap.String("sink", cfg.SinkURL),
	)

	// nil: no client timeout on submission
	client := sink.NewClient(cfg.SinkURL, nil, log.Named("sink"))
	ctrl := wizard.New(ctx, draftstore.New(st, log.Named("draft")), client, wizard.WithLogger(log.Named("wizard")))

	err = cli.NewRunner(ctrl, prompt.NewSurvey(), log).Run(ctx)
	if errors.Is(err, prompt.ErrAborted) {
		fmt.Println("\nDraft saved. Run again to continue.")
		return nil
	}
	return err
}

// newLogger logs to path at debug level, or nowhere when path is empty so
// prompts stay clean.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	return zc.Build()
}
