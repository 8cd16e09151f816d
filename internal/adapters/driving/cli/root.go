// Package cli wires the cobra command tree for the lawcrawl CLI.
package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	configfile "github.com/roeum-labs/lawcrawl/internal/adapters/driven/config/file"
	"github.com/roeum-labs/lawcrawl/internal/connectors/lawgokr"
	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig  string
	flagVerbose bool
	flagRunID   string
)

var rootCmd = &cobra.Command{
	Use:   "lawcrawl",
	Short: "Crawl statute documents from the national law portal",
	Long: `lawcrawl collects statute documents from the national law
information portal, normalises them into a law/article/chunk
hierarchy and prepares the chunks for vector embedding.

The pipeline runs in phases: validate the listing URL, walk the
listing into a manifest, scrape each detail page into per-statute
JSONL shards, merge the shards into corpus files, and optionally
load the corpus into the relational sink.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default lawcrawl.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagRunID, "run-id", "", "run identifier (default: derived from current time)")
}

// Execute runs the CLI. A non-nil error means a non-zero exit.
func Execute() error {
	return rootCmd.Execute()
}

// env bundles everything a command needs: config, a run-scoped
// logger and the run id that namespaces its log files.
type env struct {
	cfg   configfile.Config
	log   *zap.Logger
	runID domain.RunID
}

// newEnv builds the command environment from the persistent flags.
func newEnv() (*env, error) {
	cfg, err := configfile.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	runID := domain.RunID(flagRunID)
	if runID == "" {
		runID = domain.NewRunID(time.Now())
	}

	log, err := logger.New(runID, cfg.Output.LogDir, flagVerbose)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log, runID: runID}, nil
}

func (e *env) close() {
	_ = e.log.Sync()
}

// strategy resolves the execution strategy from flag overrides and
// config defaults. workers 0 and delay -1 mean "use the config value".
func (e *env) strategy(workers int, delay float64) domain.ExecStrategy {
	if workers == 0 {
		workers = e.cfg.Crawl.Workers
	}
	if delay < 0 {
		delay = e.cfg.Crawl.DelaySeconds
	}
	if workers > 1 {
		return domain.BoundedPool(workers)
	}
	return domain.Sequential(time.Duration(delay * float64(time.Second)))
}

// newFetcher builds the portal client from config.
func (e *env) newFetcher() *lawgokr.Client {
	return lawgokr.NewClient(
		lawgokr.WithTimeout(e.cfg.Timeout()),
		lawgokr.WithRate(e.cfg.Portal.RatePerSecond),
		lawgokr.WithRetries(e.cfg.Portal.Retries),
		lawgokr.WithUserAgent(e.cfg.Portal.UserAgent),
	)
}
