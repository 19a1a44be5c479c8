package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LogManager writes leveled log lines to the console and optionally a file
type LogManager struct {
	logFile     *os.File
	logger      *logrus.Logger
	logFilePath string
}

// NewLogManager creates a log manager writing to out, tee'd to logFilePath
// when it is not empty. level is a logrus level name such as "info".
func NewLogManager(out io.Writer, logFilePath, level string) (*LogManager, error) {
	lm := &LogManager{
		logger:      logrus.New(),
		logFilePath: logFilePath,
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	lm.logger.SetLevel(lvl)
	lm.logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if logFilePath == "" {
		lm.logger.SetOutput(out)
		return lm, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	lm.logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	lm.logger.SetOutput(io.MultiWriter(out, lm.logFile))

	return lm, nil
}

// discardLogManager returns a LogManager that drops everything
func discardLogManager() *LogManager {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &LogManager{logger: logger}
}

func fields(keyValuePairs []string) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keyValuePairs); i += 2 {
		f[keyValuePairs[i]] = keyValuePairs[i+1]
	}
	return f
}

// LogInfo logs an informational message
func (lm *LogManager) LogInfo(message string, keyValuePairs ...string) {
	lm.logger.WithFields(fields(keyValuePairs)).Info(message)
}

// LogDebug logs a message shown only with --verbose
func (lm *LogManager) LogDebug(message string, keyValuePairs ...string) {
	lm.logger.WithFields(fields(keyValuePairs)).Debug(message)
}

// LogWarning logs a warning message
func (lm *LogManager) LogWarning(message string, keyValuePairs ...string) {
	lm.logger.WithFields(fields(keyValuePairs)).Warn(message)
}

// LogError logs an error message
func (lm *LogManager) LogError(message string, err error, keyValuePairs ...string) {
	entry := lm.logger.WithFields(fields(keyValuePairs))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)
}

// GetLogFilePath returns the log file path, empty when logging to the console only
func (lm *LogManager) GetLogFilePath() string {
	return lm.logFilePath
}

// Close closes the log file
func (lm *LogManager) Close() {
	if lm.logFile != nil {
		lm.logFile.Close()
		lm.logFile = nil
	}
}
