package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/adapters/driven/shards"
	"github.com/roeum-labs/lawcrawl/internal/adapters/driven/storage/sqlite"
)

var (
	loadCorpusDir string
	loadDBPath    string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the merged corpus into the relational sink",
	Long: `Reads all_documents.jsonl and all_chunks.jsonl from the
corpus directory and upserts them into the SQLite schema: laws,
articles, chunks and the embedding queue. The load is idempotent;
unchanged laws are hash-matched no-ops and only genuinely new
chunks enter the queue.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadCorpusDir, "corpus", "", "corpus directory (default: config corpus_dir)")
	loadCmd.Flags().StringVar(&loadDBPath, "db", "", "SQLite database path (default: config db.path)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	corpusDir := loadCorpusDir
	if corpusDir == "" {
		corpusDir = e.cfg.Output.CorpusDir
	}
	dbPath := loadDBPath
	if dbPath == "" {
		dbPath = e.cfg.DB.Path
	}

	docs, err := shards.ReadDocuments(filepath.Join(corpusDir, shards.AllDocumentsFile))
	if err != nil {
		return err
	}
	chunks, err := shards.ReadChunks(filepath.Join(corpusDir, shards.AllChunksFile))
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.LoadCorpus(cmd.Context(), docs, chunks)
	if err != nil {
		return err
	}

	e.log.Info("corpus loaded",
		zap.String("db", dbPath),
		zap.Int("laws", stats.Laws),
		zap.Int("changed", stats.Changed),
		zap.Int("queued", stats.Queued))
	cmd.Printf("Loaded %d laws (%d new or changed, %d chunks queued) into %s\n",
		stats.Laws, stats.Changed, stats.Queued, dbPath)
	return nil
}
