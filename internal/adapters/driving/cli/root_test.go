package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	configfile "github.com/roeum-labs/lawcrawl/internal/adapters/driven/config/file"
	"github.com/roeum-labs/lawcrawl/internal/logger"
)

func testEnv() *env {
	cfg := configfile.Default()
	cfg.Crawl.Workers = 2
	cfg.Crawl.DelaySeconds = 1.5
	return &env{cfg: cfg, log: logger.Nop()}
}

func TestEnvStrategy(t *testing.T) {
	tests := []struct {
		name        string
		workers     int
		delay       float64
		wantWorkers int
		wantDelay   time.Duration
	}{
		{
			name:        "zero values fall back to config",
			workers:     0,
			delay:       -1,
			wantWorkers: 2,
		},
		{
			name:        "explicit workers win",
			workers:     4,
			delay:       -1,
			wantWorkers: 4,
		},
		{
			name:        "sequential uses the delay",
			workers:     1,
			delay:       0.5,
			wantWorkers: 1,
			wantDelay:   500 * time.Millisecond,
		},
		{
			name:        "sequential with config delay",
			workers:     1,
			delay:       -1,
			wantWorkers: 1,
			wantDelay:   1500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testEnv().strategy(tt.workers, tt.delay)
			assert.Equal(t, tt.wantWorkers, s.Workers)
			if tt.wantWorkers <= 1 {
				assert.Equal(t, tt.wantDelay, s.Delay)
			}
		})
	}
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"check", "list", "scrape", "merge", "load", "run", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
