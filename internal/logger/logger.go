// Package logger builds the run-scoped loggers for the crawl
// pipeline. Each run writes to logs/law/<run-id>/run.log (info and
// above) and logs/law/<run-id>/error.log (warnings and failures), so
// a failure can always be correlated to the invocation that produced
// it. The logger is passed explicitly to every component.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
)

// New creates a logger for the given run. Log files live under
// dir/<run-id>/. If dir is empty, files are skipped and only the
// console core is active (useful in tests).
func New(runID domain.RunID, dir string, verbose bool) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleLevel := zapcore.InfoLevel
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}

	consoleEnc := zapcore.NewJSONEncoder(encCfg)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		devCfg := zap.NewDevelopmentEncoderConfig()
		consoleEnc = zapcore.NewConsoleEncoder(devCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), consoleLevel),
	}

	if dir != "" {
		runDir := filepath.Join(dir, runID.String())
		if err := os.MkdirAll(runDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}

		runFile, err := os.OpenFile(filepath.Join(runDir, "run.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening run log: %w", err)
		}
		errFile, err := os.OpenFile(filepath.Join(runDir, "error.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			runFile.Close()
			return nil, fmt.Errorf("opening error log: %w", err)
		}

		fileEnc := zapcore.NewJSONEncoder(encCfg)
		cores = append(cores,
			zapcore.NewCore(fileEnc, zapcore.AddSync(runFile), zapcore.InfoLevel),
			zapcore.NewCore(fileEnc, zapcore.AddSync(errFile), zapcore.WarnLevel),
		)
	}

	log := zap.New(zapcore.NewTee(cores...)).With(zap.String("run_id", runID.String()))
	return log, nil
}

// Nop returns a no-op logger for tests and optional call sites.
func Nop() *zap.Logger {
	return zap.NewNop()
}
