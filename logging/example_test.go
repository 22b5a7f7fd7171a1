package logging_test

import (
	"github.com/dotforge/dotkit/logging"
	"github.com/sirupsen/logrus"
)

func ExampleNewLogger() {
	// Create a logger for your component
	log := logging.NewLogger("my-component")

	// Use it for various log levels
	log.Debug("Debug information")
	log.Info("Starting process")
	log.Warn("Backup count is high")
	log.Error("Link failed")

	// Add structured fields
	log.WithFields(logrus.Fields{
		"destination": "~/.bashrc",
		"source":      "rcfiles/bashrc",
	}).Info("Link created")

	// Use WithField for single fields
	log.WithField("file", "/path/to/file.txt").Info("Processing file")

	// Use WithError for errors
	// err := someFunction()
	// log.WithError(err).Error("Operation failed")
}

func ExampleNewLogger_configuration() {
	// Configuration via dotkit.yml:
	//
	// logging:
	//   level: debug              # Set log level
	//   report_caller: true       # Include file/line info
	//   file:
	//     enabled: true
	//     path: /var/log/dotkit/app.log
	//   format:
	//     preset: json           # Use JSON output format

	// Or via environment variables:
	// DOTKIT_LOG_LEVEL=debug
	// DOTKIT_LOG_CALLER=true

	log := logging.NewLogger("configured-app")
	log.Info("This will respect the configuration")
}

func ExampleNewLogger_multipleComponents() {
	// Different components can have their own loggers
	// but they share the same configuration

	linkLog := logging.NewLogger("linker")
	hooksLog := logging.NewLogger("hooks")
	watchLog := logging.NewLogger("watcher")

	// Each log entry will be tagged with its component
	linkLog.Info("Installed 12 links")
	hooksLog.Info("Configuration is valid")
	watchLog.Warn("Configuration changed on disk")

	// Output will show:
	// [INFO] [linker] Installed 12 links
	// [INFO] [hooks] Configuration is valid
	// [WARN] [watcher] Configuration changed on disk
}
