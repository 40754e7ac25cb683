// Package paths provides XDG-compliant path resolution for hookcfg.
//
// Resolution order:
// 1. HOOKCFG_HOME (portable root) → $HOOKCFG_HOME/{config,state,cache}
// 2. XDG env vars → $XDG_*_HOME/hookcfg
// 3. Platform defaults → ~/.config/hookcfg, ~/.local/state/hookcfg, ~/.cache/hookcfg
package paths

import (
	"os"
	"path/filepath"
)

const appName = "hookcfg"

// HomeEnv overrides every base directory when set.
const HomeEnv = "HOOKCFG_HOME"

func resolve(homeSub, xdgEnv string, fallback ...string) string {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, homeSub)
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append(append([]string{homeDir}, fallback...), appName)...)
	}
	return ""
}

// ConfigDir returns the hookcfg configuration directory.
// Used for settings.yaml.
func ConfigDir() string {
	return resolve("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the hookcfg state directory.
// Used for logs.
func StateDir() string {
	return resolve("state", "XDG_STATE_HOME", ".local", "state")
}

// CacheDir returns the hookcfg cache directory.
// Used for fetched hook repositories.
func CacheDir() string {
	return resolve("cache", "XDG_CACHE_HOME", ".cache")
}

// EnsureDirs creates all hookcfg directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), CacheDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
