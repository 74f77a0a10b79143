// Copyright 2025 The Opsflow Authors, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// A Logger provides leveled logging for a single component.
// The functions are Printf-style and safe for concurrent use.
// Disabled levels are silent.
type Logger struct {
	moduleName string
	Verbosef   func(format string, args ...any)
	Infof      func(format string, args ...any)
	Warningf   func(format string, args ...any)
	Errorf     func(format string, args ...any)
}

// Log levels for use with NewLogger.
const (
	LogLevelSilent  = iota // No logging
	LogLevelVerbose        // Debug logging
	LogLevelInfo           // Info logging
	LogLevelWarning        // Warning logging
	LogLevelError          // Error logging
)

// Loglevel is the default level applied to loggers created through
// GetLogger. Set once at startup via SetLogLevel.
var Loglevel = LogLevelInfo

func logLevel(level string) int {
	switch strings.ToLower(level) {
	case "error":
		return LogLevelError
	case "verbose", "debug":
		return LogLevelVerbose
	case "info":
		return LogLevelInfo
	case "warning", "warn":
		return LogLevelWarning
	default:
		return LogLevelSilent
	}
}

// SetLogLevel sets the process-wide default level by name.
func SetLogLevel(level string) {
	Loglevel = logLevel(level)
}

// DiscardLogf is a Logger function that discards logged lines.
func DiscardLogf(format string, args ...any) {}

func (logger *Logger) logf(prefix string) func(string, ...any) {
	return log.New(os.Stdout, fmt.Sprintf("[%s] %s: ", logger.moduleName, prefix), log.Ldate|log.Ltime).Printf
}

// NewLogger constructs a Logger for the named component that writes to
// stdout at the given level and above.
func NewLogger(level int, moduleName string) *Logger {
	logger := &Logger{moduleName, DiscardLogf, DiscardLogf, DiscardLogf, DiscardLogf}
	logger.set(level)
	return logger
}

// GetLogger returns a Logger for the named component at the default level.
func GetLogger(moduleName string) *Logger {
	return NewLogger(Loglevel, moduleName)
}

func (logger *Logger) set(level int) *Logger {
	logger.Verbosef = DiscardLogf
	logger.Infof = DiscardLogf
	logger.Warningf = DiscardLogf
	logger.Errorf = DiscardLogf
	switch level {
	case LogLevelVerbose:
		logger.Verbosef = logger.logf("DEBUG")
		fallthrough
	case LogLevelInfo:
		logger.Infof = logger.logf("INFO")
		fallthrough
	case LogLevelWarning:
		logger.Warningf = logger.logf("WARNING")
		fallthrough
	case LogLevelError:
		logger.Errorf = logger.logf("ERROR")
	}
	return logger
}
