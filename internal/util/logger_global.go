package util

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	globalLogger LoggerInterface = Discard()
	globalMu     sync.RWMutex
)

// InitLogger replaces the global logger. When debugToConsole is set, entries
// are mirrored to stderr as well as the log file. Every entry carries the
// run_id of this invocation.
func InitLogger(level, format, logFile string, debugToConsole bool) (string, error) {
	cfg := LoggerConfig{
		Level:  level,
		Format: format,
		File:   logFile,
	}
	if debugToConsole {
		cfg.Console = stderr
	}
	if cfg.File == "" && cfg.Console == nil {
		return "", fmt.Errorf("log file must be specified when not in debug mode")
	}

	logger, err := NewLogger(cfg)
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()
	SetLogger(logger.With(F("run_id", runID)))
	return runID, nil
}

// SetLogger installs l as the global logger and closes the previous one.
func SetLogger(l LoggerInterface) {
	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()

	if prev != nil && prev != l {
		_ = prev.Close()
	}
}

// Log returns the global logger.
func Log() LoggerInterface {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// LogInfo convenience functions for logging
func LogInfo(msg string, fields ...Field) {
	Log().Info(msg, fields...)
}

func LogInfof(format string, args ...interface{}) {
	Log().Infof(format, args...)
}

func LogDebug(msg string, fields ...Field) {
	Log().Debug(msg, fields...)
}

func LogDebugf(format string, args ...interface{}) {
	Log().Debugf(format, args...)
}

func LogWarn(msg string, fields ...Field) {
	Log().Warn(msg, fields...)
}

func LogWarnf(format string, args ...interface{}) {
	Log().Warnf(format, args...)
}

func LogError(msg string, fields ...Field) {
	Log().Error(msg, fields...)
}

func LogErrorf(format string, args ...interface{}) {
	Log().Errorf(format, args...)
}
