// Copyright 2018 Andrew Bates
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package x10

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Log is the global log object. The default level is set to Info
var Log = &Logger{level: LevelInfo, logger: log.New(os.Stderr, "", log.LstdFlags)}

// SetLogLevel changes the global log level and destination
func SetLogLevel(level LogLevel, out io.Writer) {
	Log.level = level
	Log.logger = log.New(out, "", log.LstdFlags)
}

// LogLevel indicates verbosity of logging
type LogLevel int

func (ll LogLevel) String() string {
	switch ll {
	case LevelNone:
		return "NONE"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	}
	return ""
}

// Set satisfies the flag.Value interface
func (ll *LogLevel) Set(str string) error {
	switch strings.ToLower(str) {
	case "none":
		*ll = LevelNone
	case "info":
		*ll = LevelInfo
	case "debug":
		*ll = LevelDebug
	case "trace":
		*ll = LevelTrace
	default:
		return fmt.Errorf("unknown log level %q", str)
	}
	return nil
}

// Get satisfies the flag.Getter interface
func (ll *LogLevel) Get() interface{} { return *ll }

// Log levels are None, Info, Debug and Trace. Trace logging
// should only be used to display frames as they are sent
const (
	LevelNone = iota
	LevelInfo
	LevelDebug
	LevelTrace
)

// Logger is a struct that keeps track of a log level and only
// prints messages of that level or lower
type Logger struct {
	level  LogLevel
	logger *log.Logger
}

// Level sets the Loggers log level
func (s *Logger) Level(level LogLevel) {
	s.level = level
}

func (s *Logger) logf(level LogLevel, format string, v ...interface{}) {
	if s.level >= level {
		format = fmt.Sprintf("%5s %s", level, format)
		s.logger.Printf(format, v...)
	}
}

// Infof will print a message at the Info level
func (s *Logger) Infof(format string, v ...interface{}) {
	s.logf(LevelInfo, format, v...)
}

// Debugf will print a message at the Debug level
func (s *Logger) Debugf(format string, v ...interface{}) {
	s.logf(LevelDebug, format, v...)
}

// Tracef will print a message at the Trace level
func (s *Logger) Tracef(format string, v ...interface{}) {
	s.logf(LevelTrace, format, v...)
}
