package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/grovetools/hookcfg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a pre-commit configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		if hookErr, ok := errors.As(err); ok {
			hookErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFrom finds and loads the configuration starting from the given directory
func LoadFrom(startDir string) (*Config, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return LoadFromWithLogger(startDir, logger)
}

// LoadFromWithLogger finds and loads the configuration with logging
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}

	logger.WithField("path", path).Debug("Loading hook configuration")

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"path":  path,
		"repos": len(cfg.Repos),
		"hooks": len(cfg.Hooks()),
	}).Debug("Configuration loaded and validated successfully")

	return cfg, nil
}

// LoadFromBytes parses configuration from a YAML document. The raw document
// is checked against the embedded schema before it is decoded, so unknown
// keys are reported instead of silently dropped.
func LoadFromBytes(data []byte) (*Config, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}
	if raw == nil {
		return nil, errors.ConfigInvalid("document is empty")
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create validator")
	}

	if err := validator.Validate(raw); err != nil {
		return nil, errors.SchemaInvalid(err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err // Already returns structured error from validation
	}

	return &cfg, nil
}

// FindConfigFile searches for the pre-commit configuration with the following precedence:
// 1. Current directory up to filesystem root
// 2. Git repository root (if in a git repo)
func FindConfigFile(startDir string) (string, error) {
	// 1. Search from current directory up to filesystem root
	dir := startDir
	for {
		if path, ok := configIn(dir); ok {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// 2. Check git repository root if we're in a git repo
	if gitRoot, err := getGitRoot(startDir); err == nil && gitRoot != "" {
		if path, ok := configIn(gitRoot); ok {
			return path, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

func configIn(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// getGitRoot attempts to find the git repository root
func getGitRoot(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
