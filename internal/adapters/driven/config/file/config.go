// Package file loads the crawler configuration from a TOML file.
// Every value has a sane default; the config file and CLI flags only
// override.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where the config file is looked up when no path is
// given.
const DefaultPath = "lawcrawl.toml"

// Config is the full crawler configuration.
type Config struct {
	Portal PortalConfig `toml:"portal"`
	Crawl  CrawlConfig  `toml:"crawl"`
	Chunk  ChunkConfig  `toml:"chunk"`
	Output OutputConfig `toml:"output"`
	DB     DBConfig     `toml:"db"`
}

// PortalConfig configures the portal HTTP client and the listing
// endpoint.
type PortalConfig struct {
	// ListURLTemplate builds the listing URL for a department code
	// (one %s verb).
	ListURLTemplate string `toml:"list_url_template"`

	UserAgent      string  `toml:"user_agent"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	Retries        int     `toml:"retries"`
}

// CrawlConfig configures the crawl phases.
type CrawlConfig struct {
	// MaxPages caps the listing walk; 0 means unbounded.
	MaxPages int `toml:"max_pages"`

	// DelaySeconds is the pause between sequential detail scrapes.
	DelaySeconds float64 `toml:"delay_seconds"`

	// Workers selects the execution strategy: 1 is sequential, n>1 a
	// bounded pool.
	Workers int `toml:"workers"`
}

// ChunkConfig configures article chunking.
type ChunkConfig struct {
	MaxChars int `toml:"max_chars"`
}

// OutputConfig configures file locations.
type OutputConfig struct {
	// DataDir is the root for raw shards and manifests.
	DataDir string `toml:"data_dir"`

	// CorpusDir receives all_documents.jsonl and all_chunks.jsonl.
	CorpusDir string `toml:"corpus_dir"`

	// LogDir is the root for per-run log directories.
	LogDir string `toml:"log_dir"`
}

// DBConfig configures the relational sink.
type DBConfig struct {
	Path string `toml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Portal: PortalConfig{
			ListURLTemplate: "https://www.law.go.kr/LSW/lsAstSc.do?menuId=391&cptOfiCd=%s",
			TimeoutSeconds:  30,
			RatePerSecond:   1.0,
			Retries:         3,
		},
		Crawl: CrawlConfig{
			DelaySeconds: 2,
			Workers:      1,
		},
		Chunk: ChunkConfig{
			MaxChars: 1200,
		},
		Output: OutputConfig{
			DataDir:   "data",
			CorpusDir: filepath.Join("data", "export"),
			LogDir:    filepath.Join("logs", "law"),
		},
		DB: DBConfig{
			Path: filepath.Join("data", "lawcorpus.db"),
		},
	}
}

// Load reads the config at path, falling back to defaults for a
// missing file. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to path in TOML form.
func Save(cfg Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ListURL renders the listing URL for a department code.
func (c Config) ListURL(deptCode string) string {
	return fmt.Sprintf(c.Portal.ListURLTemplate, deptCode)
}

// ShardDir returns the per-department shard directory.
func (c Config) ShardDir(deptCode string) string {
	return filepath.Join(c.Output.DataDir, "raw", deptCode)
}

// ManifestPath returns the per-department manifest location.
func (c Config) ManifestPath(deptCode string) string {
	return filepath.Join(c.ShardDir(deptCode), "urls.jsonl")
}

// Timeout returns the portal request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Portal.TimeoutSeconds) * time.Second
}

// Delay returns the sequential inter-request delay as a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Crawl.DelaySeconds * float64(time.Second))
}
