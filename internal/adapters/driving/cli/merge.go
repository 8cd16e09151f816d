package cli

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/adapters/driven/shards"
	"github.com/roeum-labs/lawcrawl/internal/core/services"
)

var (
	mergeDept  string
	mergeWatch bool
)

// watchDebounce batches bursts of shard writes into one re-merge.
const watchDebounce = 500 * time.Millisecond

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge per-statute shards into corpus files",
	Long: `Concatenates every *_document.jsonl shard into
all_documents.jsonl and every *_chunks.jsonl shard into
all_chunks.jsonl under the corpus directory, in sorted filename
order. Corpus files are rebuilt from scratch on every merge, so
re-running after a partial crawl is always safe.

With --watch the command keeps running and re-merges whenever a
shard file changes.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeDept, "dept", "d", "", "department code (selects the shard directory)")
	mergeCmd.Flags().BoolVar(&mergeWatch, "watch", false, "re-merge on shard changes until interrupted")
	_ = mergeCmd.MarkFlagRequired("dept")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	shardDir := e.cfg.ShardDir(mergeDept)
	store, err := shards.NewStore(shardDir, e.cfg.Output.CorpusDir)
	if err != nil {
		return err
	}
	merger := services.NewMerger(store, e.log)

	if err := merger.Merge(); err != nil {
		return err
	}
	cmd.Printf("Merged shards from %s into %s\n", shardDir, e.cfg.Output.CorpusDir)

	if !mergeWatch {
		return nil
	}
	return watchAndMerge(cmd, merger, shardDir, e.log)
}

// watchAndMerge re-runs the merge whenever a shard file under dir is
// created or written. Events are debounced so that the two shard
// files one scrape produces trigger a single re-merge.
func watchAndMerge(cmd *cobra.Command, merger *services.Merger, dir string, log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	cmd.Printf("Watching %s for shard changes (Ctrl-C to stop)\n", dir)

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".jsonl") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := merger.Merge(); err != nil {
				log.Error("re-merge failed", zap.Error(err))
				continue
			}
			log.Info("corpus re-merged", zap.String("shard_dir", dir))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
