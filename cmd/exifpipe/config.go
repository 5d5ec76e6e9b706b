package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultBlockSize    = 4096
	defaultPollInterval = 10 * time.Millisecond
	defaultLogLevel     = "warn"
	configFileName      = ".exifpipe.toml"
)

// config stores CLI settings loaded from a TOML file.
type config struct {
	// ToolPath overrides the extraction tool executable.  Empty means
	// use the EXIFTOOL environment variable or the built-in default.
	ToolPath string `toml:"tool_path"`

	// BlockSize is the stream-drain chunk size.
	BlockSize int `toml:"block_size"`

	// PollInterval is the pause after a zero-byte stream read.
	PollInterval duration `toml:"poll_interval"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// WatchTags lists the tags the watch command extracts from new
	// files.  Empty means all tags.
	WatchTags []string `toml:"watch_tags"`
}

// duration wraps time.Duration for TOML decoding, accepting values
// like "25ms".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}

func defaultConfig() *config {
	return &config{
		BlockSize:    defaultBlockSize,
		PollInterval: duration{defaultPollInterval},
		LogLevel:     defaultLogLevel,
	}
}

// loadConfig reads settings from path, or from ~/.exifpipe.toml when
// path is empty.  A missing default file is not an error; defaults
// apply.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, configFileName)
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s; %w", path, err)
	}
	if cfg.BlockSize < 0 {
		return nil, fmt.Errorf("config %s: block_size must be positive", path)
	}
	return cfg, nil
}
