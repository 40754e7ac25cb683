package logging_test

import (
	"github.com/grovetools/hookcfg/logging"
	"github.com/sirupsen/logrus"
)

func ExampleNewLogger() {
	// Create a logger for your component
	log := logging.NewLogger("store")

	// Use it for various log levels
	log.Debug("Debug information")
	log.Info("Fetching hook repository")
	log.Warn("Shallow fetch failed, falling back to full fetch")
	log.Error("Fetch failed")

	// Add structured fields
	log.WithFields(logrus.Fields{
		"repo": "https://github.com/psf/black",
		"rev":  "20.8b1",
	}).Info("Fetching hook repository")

	// Use WithField for single fields
	log.WithField("file", ".pre-commit-config.yaml").Info("Loading configuration")

	// Use WithError for errors
	// err := someFunction()
	// log.WithError(err).Error("Operation failed")
}

func ExampleNewLogger_configuration() {
	// Configuration via settings.yaml in the hookcfg config directory:
	//
	// logging:
	//   level: debug              # Set log level
	//   report_caller: true       # Include file/line info
	//   file:
	//     enabled: true
	//     path: /var/log/hookcfg/hookcfg.log
	//   format:
	//     preset: json           # Use JSON output format

	// Or via environment variables:
	// HOOKCFG_LOG_LEVEL=debug
	// HOOKCFG_LOG_CALLER=true

	log := logging.NewLogger("config")
	log.Info("This will respect the configuration")
}

func ExampleNewLogger_multipleComponents() {
	// Different components can have their own loggers
	// but they share the same configuration

	storeLog := logging.NewLogger("store")
	checkLog := logging.NewLogger("check")
	watchLog := logging.NewLogger("watch")

	// Each log entry will be tagged with its component
	storeLog.Info("Fetching hook repository")
	checkLog.Info("Resolved declaration")
	watchLog.Warn("Watcher error")

	// Output will show:
	// [INFO] [store] Fetching hook repository
	// [INFO] [check] Resolved declaration
	// [WARN] [watch] Watcher error
}