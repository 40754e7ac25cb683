package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/hookcfg/logging"
	"github.com/grovetools/hookcfg/pkg/paths"
	"github.com/grovetools/hookcfg/util/pathutil"
	"github.com/spf13/viper"
)

// SettingsFile is the name of the tool settings file in the config directory.
const SettingsFile = "settings.yaml"

// Settings configures hookcfg itself, not the hook configuration it checks.
type Settings struct {
	LogLevel  string         `mapstructure:"log_level"`
	LogFormat string         `mapstructure:"log_format"`
	CacheDir  string         `mapstructure:"cache_dir"`
	Jobs      int            `mapstructure:"jobs"`
	Logging   logging.Config `mapstructure:"logging"`
}

// SettingsPath returns the default location of settings.yaml.
func SettingsPath() string {
	return filepath.Join(paths.ConfigDir(), SettingsFile)
}

// LoadSettings reads settings from path (SettingsPath when empty). A missing
// file is not an error. HOOKCFG_* environment variables override file values,
// with nested keys joined by underscores (HOOKCFG_LOGGING_LEVEL).
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		path = SettingsPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("HOOKCFG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "")
	v.SetDefault("cache_dir", "")
	v.SetDefault("jobs", 4)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.report_caller", false)
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.path", "")
	v.SetDefault("logging.format.preset", "")
	v.SetDefault("logging.format.disable_timestamp", false)
	v.SetDefault("logging.format.disable_component", false)
	v.SetDefault("logging.format.structured_to_stderr", "")

	if err := v.ReadInConfig(); err != nil && !isConfigNotFound(err) {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	err := v.Unmarshal(&s)
	if err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if s.Jobs <= 0 {
		s.Jobs = 1
	}
	if s.CacheDir, err = pathutil.Expand(s.CacheDir); err != nil {
		return nil, fmt.Errorf("expand cache_dir: %w", err)
	}
	return &s, nil
}

// LoggingConfig returns the logging section with the top-level shorthands
// applied over it.
func (s *Settings) LoggingConfig() logging.Config {
	cfg := s.Logging
	if s.LogLevel != "" {
		cfg.Level = s.LogLevel
	}
	if s.LogFormat != "" {
		cfg.Format.Preset = s.LogFormat
	}
	return cfg
}

func isConfigNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nf viper.ConfigFileNotFoundError
	if stderrors.As(err, &nf) {
		return true
	}
	var pathErr *os.PathError
	if stderrors.As(err, &pathErr) && stderrors.Is(pathErr.Err, os.ErrNotExist) {
		return true
	}
	return stderrors.Is(err, os.ErrNotExist)
}
