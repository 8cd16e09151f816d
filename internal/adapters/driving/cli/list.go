package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roeum-labs/lawcrawl/internal/adapters/driven/shards"
	"github.com/roeum-labs/lawcrawl/internal/core/services"
)

var (
	listMaxPages int
	listOutput   string
)

var listCmd = &cobra.Command{
	Use:   "list <list-url>",
	Short: "Walk a statute listing into a URL manifest",
	Long: `Paginates through the statute listing, extracting one
(detail URL, display name) pair per row, and appends each pair to
the manifest as soon as it is parsed. Pagination stops at the
--max-pages cap, at the pager-reported total, or when a page yields
no new rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listMaxPages, "max-pages", "p", 0, "maximum pages to walk (0 = unbounded)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "urls.jsonl", "manifest output path")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	writer, err := shards.NewManifestWriter(listOutput)
	if err != nil {
		return err
	}

	lister := services.NewListScraper(e.newFetcher(), e.log)
	res, err := lister.Scrape(cmd.Context(), args[0], listMaxPages, writer)
	if cerr := writer.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	cmd.Printf("Wrote %d entries from %d pages to %s", res.Entries, res.Pages, listOutput)
	if res.SkippedRows > 0 {
		cmd.Printf(" (%d malformed rows skipped)", res.SkippedRows)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
