package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/adapters/driven/shards"
	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/services"
	"github.com/roeum-labs/lawcrawl/internal/postprocessors/chunker"
)

var (
	scrapeManifest string
	scrapeDept     string
	scrapeURL      string
	scrapeName     string
	scrapeWorkers  int
	scrapeDelay    float64
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape statute detail pages into JSONL shards",
	Long: `Fetches statute detail pages and writes two shards per
statute: <name>_document.jsonl (law metadata merged with each
article) and <name>_chunks.jsonl (retrieval-sized chunks).

Entries come from a manifest produced by 'lawcrawl list', or a
single --url/--name pair. Fetch and parse failures are logged and
skipped; the remaining entries still produce their shards.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeManifest, "manifest", "m", "", "manifest file to iterate")
	scrapeCmd.Flags().StringVarP(&scrapeDept, "dept", "d", "", "department code (selects the shard directory)")
	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "single detail page URL")
	scrapeCmd.Flags().StringVar(&scrapeName, "name", "", "display name for --url")
	scrapeCmd.Flags().IntVarP(&scrapeWorkers, "workers", "w", 0, "concurrent scrapes (0 = config value)")
	scrapeCmd.Flags().Float64Var(&scrapeDelay, "delay", -1, "seconds between sequential scrapes (-1 = config value)")
	_ = scrapeCmd.MarkFlagRequired("dept")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if scrapeManifest == "" && scrapeURL == "" {
		return errors.New("either --manifest or --url is required")
	}

	store, err := shards.NewStore(e.cfg.ShardDir(scrapeDept), e.cfg.Output.CorpusDir)
	if err != nil {
		return err
	}
	splitter := chunker.New(chunker.WithMaxChars(e.cfg.Chunk.MaxChars))
	detail := services.NewDetailScraper(e.newFetcher(), store, splitter, e.log)

	strategy := e.strategy(scrapeWorkers, scrapeDelay)

	if scrapeURL != "" {
		res := detail.ScrapeOne(cmd.Context(), domain.ManifestEntry{URL: scrapeURL, Name: scrapeName})
		if res.Outcome != domain.ResultSuccess {
			return res.Err
		}
		cmd.Printf("Scraped %s\n", scrapeName)
		return nil
	}

	var entries []domain.ManifestEntry
	skipped, err := shards.ForEachManifest(scrapeManifest, func(entry domain.ManifestEntry) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return domain.ErrEmptyManifest
	}

	succeeded, failed := 0, 0
	for _, res := range services.ScheduleDetail(cmd.Context(), detail, entries, strategy) {
		if res.Outcome == domain.ResultSuccess {
			succeeded++
		} else {
			failed++
		}
	}

	e.log.Info("scrape finished",
		zap.Int("succeeded", succeeded), zap.Int("failed", failed), zap.Int("skipped", skipped))
	cmd.Printf("Scraped %d statutes (%d failed, %d skipped rows)\n", succeeded, failed, skipped)
	return nil
}
