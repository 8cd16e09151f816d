package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/adapters/driven/shards"
	"github.com/roeum-labs/lawcrawl/internal/core/services"
	"github.com/roeum-labs/lawcrawl/internal/postprocessors/chunker"
)

var (
	runMaxPages int
	runWorkers  int
	runDelay    float64
)

var runCmd = &cobra.Command{
	Use:   "run <dept-code>",
	Short: "Run the full crawl pipeline for a department",
	Long: `Runs every phase in order for one department code: validate
the listing URL, walk the listing into a manifest, scrape each
detail page into per-statute shards, and merge the shards into the
corpus files. Individual statute failures are logged and counted;
only gate failures (invalid listing URL, empty manifest, merge
failure) abort the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(&runMaxPages, "max-pages", "p", 0, "maximum listing pages to walk (0 = config value)")
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "concurrent scrapes (0 = config value)")
	runCmd.Flags().Float64Var(&runDelay, "delay", -1, "seconds between sequential scrapes (-1 = config value)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	dept := args[0]
	maxPages := runMaxPages
	if maxPages == 0 {
		maxPages = e.cfg.Crawl.MaxPages
	}

	store, err := shards.NewStore(e.cfg.ShardDir(dept), e.cfg.Output.CorpusDir)
	if err != nil {
		return err
	}
	fetcher := e.newFetcher()
	splitter := chunker.New(chunker.WithMaxChars(e.cfg.Chunk.MaxChars))

	pipeline := services.NewPipeline(
		services.NewValidator(fetcher, e.log),
		services.NewListScraper(fetcher, e.log),
		services.NewDetailScraper(fetcher, store, splitter, e.log),
		services.NewMerger(store, e.log),
		shards.ManifestStore{},
		e.log,
	)

	e.log.Info("starting crawl",
		zap.String("dept", dept), zap.String("run_dir", e.cfg.ShardDir(dept)))

	summary, err := pipeline.Run(cmd.Context(), services.RunOptions{
		ListURL:      e.cfg.ListURL(dept),
		ManifestPath: e.cfg.ManifestPath(dept),
		MaxPages:     maxPages,
		Strategy:     e.strategy(runWorkers, runDelay),
	})
	if err != nil {
		return err
	}

	cmd.Printf("Crawled %d statutes: %d succeeded, %d failed, %d skipped\n",
		summary.Entries, summary.Succeeded, summary.Failed, summary.Skipped)
	cmd.Printf("Corpus files written to %s\n", e.cfg.Output.CorpusDir)
	return nil
}
