package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Alexander-D-Karpov/tracklist/internal/platform"
)

type Config struct {
	Debug bool `mapstructure:"debug"`

	Log struct {
		Level      string `mapstructure:"level"`
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAgeDays int    `mapstructure:"max_age_days"`
		Compress   bool   `mapstructure:"compress"`
	} `mapstructure:"log"`

	Storage struct {
		DatabasePath string `mapstructure:"database_path"`
		CacheDir     string `mapstructure:"cache_dir"`
		EnableWAL    bool   `mapstructure:"enable_wal"`
	} `mapstructure:"storage"`

	Audio struct {
		SampleRate    int     `mapstructure:"sample_rate"`
		DefaultVolume float64 `mapstructure:"default_volume"`
	} `mapstructure:"audio"`

	Art struct {
		RowSize           int     `mapstructure:"row_size"`
		MemoryEntries     int     `mapstructure:"memory_entries"`
		Workers           int     `mapstructure:"workers"`
		Timeout           int     `mapstructure:"timeout"`
		Retries           int     `mapstructure:"retries"`
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
		BurstSize         int     `mapstructure:"burst_size"`
		UserAgent         string  `mapstructure:"user_agent"`
	} `mapstructure:"art"`

	Codecs struct {
		HelperPath         string        `mapstructure:"helper_path"`
		DesktopID          string        `mapstructure:"desktop_id"`
		RestartNoticeDelay time.Duration `mapstructure:"restart_notice_delay"`
	} `mapstructure:"codecs"`

	Library struct {
		ScanWorkers int `mapstructure:"scan_workers"`
	} `mapstructure:"library"`

	UI struct {
		Theme        string `mapstructure:"theme"`
		ShowMenu     bool   `mapstructure:"show_menu"`
		WindowWidth  int    `mapstructure:"window_width"`
		WindowHeight int    `mapstructure:"window_height"`
		SearchLimit  int    `mapstructure:"search_limit"`
		DebounceMs   int    `mapstructure:"debounce_ms"`
	} `mapstructure:"ui"`

	v *viper.Viper
}

// Load reads configuration from configPath, or from the platform config
// directory when configPath is empty. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		configDir, err := platform.GetConfigDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(configDir)
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TRACKLIST")
	v.AutomaticEnv()

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.v = v

	if err := ensureDirectories(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Watch re-reads the config file whenever it changes on disk and hands the
// fresh values to onChange. Only fields that are safe to change at runtime
// should be picked up by the callback.
func (c *Config) Watch(onChange func(*Config)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		var fresh Config
		if err := c.v.Unmarshal(&fresh); err != nil {
			return
		}
		fresh.v = c.v
		onChange(&fresh)
	})
	c.v.WatchConfig()
}

// setDefaults fails when the per-user directories cannot be resolved, so
// no default ever points at a path relative to the working directory.
func setDefaults(v *viper.Viper) error {
	v.SetDefault("debug", false)

	dataDir, err := platform.GetDataDir()
	if err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}
	cacheDir, err := platform.GetCacheDir()
	if err != nil {
		return fmt.Errorf("resolve cache directory: %w", err)
	}
	logDir, err := platform.GetLogDir()
	if err != nil {
		return fmt.Errorf("resolve log directory: %w", err)
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(logDir, "tracklist.log"))
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)

	v.SetDefault("storage.database_path", filepath.Join(dataDir, "library.db"))
	v.SetDefault("storage.cache_dir", cacheDir)
	v.SetDefault("storage.enable_wal", true)

	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.default_volume", 0.7)

	v.SetDefault("art.row_size", 48)
	v.SetDefault("art.memory_entries", 500)
	v.SetDefault("art.workers", 4)
	v.SetDefault("art.timeout", 15)
	v.SetDefault("art.retries", 3)
	v.SetDefault("art.requests_per_second", 5.0)
	v.SetDefault("art.burst_size", 2)
	v.SetDefault("art.user_agent", "tracklist/1.0.0")

	v.SetDefault("codecs.helper_path", "gst-install-plugins-helper")
	v.SetDefault("codecs.desktop_id", "tracklist.desktop")
	v.SetDefault("codecs.restart_notice_delay", 10*time.Second)

	v.SetDefault("library.scan_workers", getDefaultScanWorkers())

	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.show_menu", true)
	v.SetDefault("ui.window_width", 1000)
	v.SetDefault("ui.window_height", 700)
	v.SetDefault("ui.search_limit", 200)
	v.SetDefault("ui.debounce_ms", 300)
	return nil
}

func getDefaultScanWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		return 8
	}
	if n < 1 {
		return 1
	}
	return n
}

func ensureDirectories(cfg *Config) error {
	dirs := []string{
		filepath.Dir(cfg.Storage.DatabasePath),
		cfg.Storage.CacheDir,
	}
	if cfg.Log.File != "" {
		dirs = append(dirs, filepath.Dir(cfg.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// Save writes the settings editable from the UI back to the config file.
func (c *Config) Save() error {
	if c.v == nil {
		v := viper.New()
		if err := setDefaults(v); err != nil {
			return err
		}
		c.v = v
	}

	c.v.Set("ui.theme", c.UI.Theme)
	c.v.Set("ui.show_menu", c.UI.ShowMenu)
	c.v.Set("ui.window_width", c.UI.WindowWidth)
	c.v.Set("ui.window_height", c.UI.WindowHeight)
	c.v.Set("ui.search_limit", c.UI.SearchLimit)
	c.v.Set("ui.debounce_ms", c.UI.DebounceMs)
	c.v.Set("audio.default_volume", c.Audio.DefaultVolume)
	c.v.Set("log.level", c.Log.Level)

	configFile := c.v.ConfigFileUsed()
	if configFile == "" {
		configDir, err := platform.GetConfigDir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(configDir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}
	return c.v.WriteConfigAs(configFile)
}
