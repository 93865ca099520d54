// Package config loads waves's TOML configuration: the library root(s) to
// scan, playback defaults, and the socket port used for single-instance
// forwarding (internal/instance). Grounded on the teacher's internal/config
// (koanf + toml + file provider loading order), trimmed to the fields this
// spec actually uses.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FilterConfig mirrors library.Filter for TOML (un)marshaling.
type FilterConfig struct {
	Tag   string   `koanf:"tag"`
	Items []string `koanf:"items"`
}

// SorterConfig mirrors library.Sorter for TOML (un)marshaling.
type SorterConfig struct {
	Tagstring string `koanf:"tagstring"`
}

// Config is waves's full runtime configuration.
type Config struct {
	// LibrarySources are the root directories Discover walks to build the
	// track list.
	LibrarySources []string `koanf:"library_sources"`
	// IncludeHidden mirrors track.Discover's includeHidden flag.
	IncludeHidden bool `koanf:"include_hidden"`

	// Filters and Sorters seed the library's initial filter chain and
	// sort order (spec.md §4.C).
	Filters []FilterConfig `koanf:"filters"`
	Sorters []SorterConfig `koanf:"sorters"`

	// Volume is the initial perceptual (linear 0..1) output volume.
	Volume float32 `koanf:"volume"`

	// SocketPort is the TCP port internal/instance binds for single-instance
	// command forwarding (spec.md §G2 / original_source/src/main.rs).
	SocketPort int `koanf:"socket_port"`
}

// DefaultVolume is applied when the config omits Volume; an explicit 0 is
// kept.
const DefaultVolume float32 = 0.5

// DefaultSocketPort matches original_source/src/main.rs's literal port.
const DefaultSocketPort = 18346

// Load reads config.toml from, in priority order (last wins),
// ~/.config/waves/config.toml then ./config.toml, applying defaults for
// anything left unset.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Volume:     DefaultVolume,
		SocketPort: DefaultSocketPort,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}

	switch {
	case cfg.Volume < 0:
		cfg.Volume = 0
	case cfg.Volume > 1:
		cfg.Volume = 1
	}
	if cfg.SocketPort <= 0 {
		cfg.SocketPort = DefaultSocketPort
	}

	return cfg, nil
}

func configPaths() []string {
	paths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "waves", "config.toml"))
	}
	paths = append(paths, "config.toml")
	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
