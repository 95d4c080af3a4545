package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("HOME", root)
	return root
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, 48, cfg.Art.RowSize)
	assert.Equal(t, 10*time.Second, cfg.Codecs.RestartNoticeDelay)
	assert.Equal(t, "tracklist.desktop", cfg.Codecs.DesktopID)
	assert.True(t, cfg.UI.ShowMenu)
	assert.GreaterOrEqual(t, cfg.Library.ScanWorkers, 1)

	_, err = os.Stat(filepath.Dir(cfg.Storage.DatabasePath))
	assert.NoError(t, err)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	root := isolate(t)
	path := filepath.Join(root, "custom.yaml")
	body := []byte(`debug: true
art:
  row_size: 64
codecs:
  restart_notice_delay: 2s
ui:
  show_menu: false
storage:
  database_path: ` + filepath.Join(root, "db", "lib.db") + `
`)
	require.NoError(t, os.WriteFile(path, body, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 64, cfg.Art.RowSize)
	assert.Equal(t, 2*time.Second, cfg.Codecs.RestartNoticeDelay)
	assert.False(t, cfg.UI.ShowMenu)
	assert.DirExists(t, filepath.Join(root, "db"))
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	root := isolate(t)
	path := filepath.Join(root, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	root := isolate(t)
	path := filepath.Join(root, "tracklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  theme: dark\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.UI.Theme = "light"
	cfg.UI.ShowMenu = false
	cfg.Audio.DefaultVolume = 0.4
	require.NoError(t, cfg.Save())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "light", again.UI.Theme)
	assert.False(t, again.UI.ShowMenu)
	assert.InDelta(t, 0.4, again.Audio.DefaultVolume, 1e-9)
}

func TestLoadFailsWithoutUserDirs(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG resolution")
	}
	root := t.TempDir()
	path := filepath.Join(root, "tracklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0644))

	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve data directory")
}
