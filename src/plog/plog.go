// Package plog is the shared leveled logger for the plotting tools.
// The level is process-global so render passes and the UI goroutine log
// without coordination.
package plog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level represents severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var prefixes = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "INFO"
	}
	return prefixes[l]
}

// ParseLevel maps a level name to its Level. "warning" is accepted as
// an alias for "warn".
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

var currentLevel atomic.Int32

var sink = log.New(os.Stderr, "", log.Ldate|log.Ltime)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel parses and sets the global log level. Unknown names are ignored.
func SetLevel(s string) {
	if l, ok := ParseLevel(s); ok {
		currentLevel.Store(int32(l))
	}
}

// SetOutput redirects log output, e.g. to a buffer under test.
func SetOutput(w io.Writer) { sink.SetOutput(w) }

func logf(l Level, format string, args ...interface{}) {
	if Level(currentLevel.Load()) > l {
		return
	}
	msg := format
	// A plain message may contain literal % characters (vector names,
	// file paths) that fmt would mangle.
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	sink.Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs the duration of a phase, typically one render pass.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
