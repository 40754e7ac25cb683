package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/hookcfg/pkg/paths"
	"github.com/grovetools/hookcfg/util/pathutil"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	current   Config
	openFiles []*os.File
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	configure(logger, component, current)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Configure replaces the logging configuration and reconfigures every logger
// created so far.
func Configure(cfg Config) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, f := range openFiles {
		f.Close()
	}
	openFiles = nil

	current = cfg
	for component, entry := range loggers {
		configure(entry.Logger, component, cfg)
	}
}

// CurrentConfig returns the configuration loggers are built from.
func CurrentConfig() Config {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	return current
}

func configure(logger *logrus.Logger, component string, logCfg Config) {
	// Configure Level
	levelStr := "info" // Default level
	if os.Getenv("HOOKCFG_LOG_LEVEL") != "" {
		levelStr = os.Getenv("HOOKCFG_LOG_LEVEL")
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	logger.SetReportCaller(os.Getenv("HOOKCFG_LOG_CALLER") == "true" || logCfg.ReportCaller)

	// Configure Formatter
	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	// Configure Output Sinks
	var writers []io.Writer

	if logCfg.File.Enabled {
		logFilePath, err := pathutil.Expand(logCfg.File.Path)
		if err != nil {
			logger.Warnf("Failed to expand log path %s: %v", logCfg.File.Path, err)
			logFilePath = logCfg.File.Path
		}
		if logFilePath == "" {
			dateStr := time.Now().Format("2006-01-02")
			logFilePath = filepath.Join(paths.StateDir(), "logs", fmt.Sprintf("%s-%s.log", component, dateStr))
		}

		dir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Warnf("Failed to create log directory %s: %v", dir, err)
		} else if file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			logger.Warnf("Failed to open log file %s: %v", logFilePath, err)
		} else {
			openFiles = append(openFiles, file)
			writers = append(writers, file)
		}
	}

	if structuredToStderr(logger, logCfg.Format.StructuredToStderr) {
		writers = append(writers, GetGlobalOutput())
	}

	// Configure the output based on the number of writers
	switch len(writers) {
	case 0:
		// Interactive use without debug: structured logs are suppressed
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
}

// structuredToStderr decides whether structured logs go to stderr.
func structuredToStderr(logger *logrus.Logger, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// "auto": log to stderr if debug is enabled, or if not in an interactive terminal
		isDebug := os.Getenv("HOOKCFG_DEBUG") == "1" || logger.GetLevel() >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || !isInteractive
	}
}
