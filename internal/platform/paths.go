// Package platform resolves the per-user directories tracklist keeps its
// config, library database, cover cache and logs in.
package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appDirName = "Tracklist"
	xdgDirName = "tracklist"
)

var errNoHome = errors.New("home directory is not set")

// location says where one kind of directory lives on each desktop OS.
// Paths are relative to the user's home unless an environment variable
// overrides them.
type location struct {
	xdgEnv  string
	xdgHome string

	windowsEnv  string
	windowsHome string
	windowsSub  string

	darwinHome string
}

var (
	dataLocation = location{
		xdgEnv:      "XDG_DATA_HOME",
		xdgHome:     ".local/share",
		windowsEnv:  "APPDATA",
		windowsHome: "AppData/Roaming",
		darwinHome:  "Library/Application Support",
	}
	cacheLocation = location{
		xdgEnv:      "XDG_CACHE_HOME",
		xdgHome:     ".cache",
		windowsEnv:  "LOCALAPPDATA",
		windowsHome: "AppData/Local",
		windowsSub:  "Cache",
		darwinHome:  "Library/Caches",
	}
	configLocation = location{
		xdgEnv:      "XDG_CONFIG_HOME",
		xdgHome:     ".config",
		windowsEnv:  "APPDATA",
		windowsHome: "AppData/Roaming",
		darwinHome:  "Library/Preferences",
	}
)

func (l location) resolve(goos string, getenv func(string) string) (string, error) {
	switch goos {
	case "windows":
		base := getenv(l.windowsEnv)
		if base == "" {
			home := getenv("USERPROFILE")
			if home == "" {
				return "", errNoHome
			}
			base = filepath.Join(home, filepath.FromSlash(l.windowsHome))
		}
		return filepath.Join(base, appDirName, l.windowsSub), nil
	case "darwin":
		home := getenv("HOME")
		if home == "" {
			return "", errNoHome
		}
		return filepath.Join(home, filepath.FromSlash(l.darwinHome), appDirName), nil
	default:
		if base := getenv(l.xdgEnv); base != "" {
			return filepath.Join(base, xdgDirName), nil
		}
		home := getenv("HOME")
		if home == "" {
			return "", errNoHome
		}
		return filepath.Join(home, filepath.FromSlash(l.xdgHome), xdgDirName), nil
	}
}

// GetDataDir returns where the library database lives.
func GetDataDir() (string, error) {
	return dataLocation.resolve(runtime.GOOS, os.Getenv)
}

// GetCacheDir returns where downloaded covers are kept.
func GetCacheDir() (string, error) {
	return cacheLocation.resolve(runtime.GOOS, os.Getenv)
}

// GetConfigDir returns the directory searched for config.yaml.
func GetConfigDir() (string, error) {
	return configLocation.resolve(runtime.GOOS, os.Getenv)
}

// GetLogDir returns the directory rotated log files are written to. It lives
// under the cache directory so clearing caches also clears old logs.
func GetLogDir() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "logs"), nil
}
