package cli

import (
	"github.com/spf13/cobra"

	"github.com/roeum-labs/lawcrawl/internal/core/services"
)

var checkCmd = &cobra.Command{
	Use:   "check <list-url>",
	Short: "Validate a statute listing URL",
	Long: `Performs a single probe fetch against the listing URL and
confirms it resolves to a statute listing page. Exits non-zero when
the page is unreachable or carries no listing markers, so shell
pipelines can gate a crawl on it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	validator := services.NewValidator(e.newFetcher(), e.log)
	if err := validator.Validate(cmd.Context(), args[0]); err != nil {
		return err
	}

	cmd.Println("Listing URL is valid.")
	return nil
}
