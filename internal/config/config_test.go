package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/music", filepath.Join(home, "music")},
		{"tilde with nested path", "~/music/library/albums", filepath.Join(home, "music", "library", "albums")},
		{"absolute path unchanged", "/usr/local/music", "/usr/local/music"},
		{"relative path unchanged", "music/albums", "music/albums"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestConfigPaths(t *testing.T) {
	paths := configPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, "config.toml", paths[len(paths)-1])

	if home, err := os.UserHomeDir(); err == nil {
		assert.Equal(t, filepath.Join(home, ".config", "waves", "config.toml"), paths[0])
	}
}

func withTempWD(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	withTempWD(t)
	require.NoError(t, os.WriteFile("config.toml", []byte(""), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultVolume, cfg.Volume)
	assert.Equal(t, DefaultSocketPort, cfg.SocketPort)
}

func TestLoad_BasicConfig(t *testing.T) {
	withTempWD(t)
	content := `
library_sources = ["/music", "~/library"]
include_hidden = true
volume = 0.75
socket_port = 9000

[[filters]]
tag = "album"
items = ["Favorites"]

[[sorters]]
tagstring = "<artist> - <album>"
`
	require.NoError(t, os.WriteFile("config.toml", []byte(content), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.LibrarySources, 2)
	assert.Equal(t, "/music", cfg.LibrarySources[0])
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "library"), cfg.LibrarySources[1])

	assert.True(t, cfg.IncludeHidden)
	assert.InDelta(t, float32(0.75), cfg.Volume, 1e-6)
	assert.Equal(t, 9000, cfg.SocketPort)

	require.Len(t, cfg.Filters, 1)
	assert.Equal(t, "album", cfg.Filters[0].Tag)
	assert.Equal(t, []string{"Favorites"}, cfg.Filters[0].Items)

	require.Len(t, cfg.Sorters, 1)
	assert.Equal(t, "<artist> - <album>", cfg.Sorters[0].Tagstring)
}

func TestLoad_VolumeClamped(t *testing.T) {
	withTempWD(t)
	require.NoError(t, os.WriteFile("config.toml", []byte("volume = 2.5"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, float32(1), cfg.Volume, 1e-6)
}

func TestLoad_InvalidToml(t *testing.T) {
	withTempWD(t)
	require.NoError(t, os.WriteFile("config.toml", []byte("invalid = [[["), 0o600))

	_, err := Load()
	assert.Error(t, err)
}
