// Package logger is the leveled logger shared by the plot engine and its tools.
package logger

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

var levelTags = [...]string{LevelDebug: "DEBUG", LevelInfo: "INFO", LevelWarn: "WARN", LevelError: "ERROR"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelTags) {
		return fmt.Sprintf("Level(%d)", int32(l))
	}
	return levelTags[l]
}

// ParseLevel maps a flag value such as "warn" to its Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

var currentLevel int32 = int32(LevelInfo)

var baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)

// SetLevel sets the global log level.
func SetLevel(l Level) { atomic.StoreInt32(&currentLevel, int32(l)) }

// SetLogLevel parses and sets the global log level. Unknown names are
// ignored and reported as an error.
func SetLogLevel(s string) error {
	l, err := ParseLevel(s)
	if err != nil {
		return err
	}
	SetLevel(l)
	return nil
}

// CurrentLevel returns the global log level.
func CurrentLevel() Level { return Level(atomic.LoadInt32(&currentLevel)) }

// Enabled reports whether messages at l are written.
func Enabled(l Level) bool { return CurrentLevel() <= l }

// SetOutput redirects log output (the CLI uses it for --log-file).
func SetOutput(w io.Writer) { baseLogger.SetOutput(w) }

func logf(l Level, format string, args ...interface{}) {
	if !Enabled(l) {
		return
	}
	// Without args the input is a plain message; formatting it would turn
	// literal % characters (legend escapes, formulas) into %!x(MISSING).
	if len(args) == 0 {
		baseLogger.Printf("[%s] %s", l, format)
		return
	}
	baseLogger.Printf("[%s] %s", l, fmt.Sprintf(format, args...))
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs the duration of a phase at debug level. Use it deferred:
// defer logger.TimeTrack(time.Now(), "render").
func TimeTrack(start time.Time, label string) {
	if Enabled(LevelDebug) {
		Debugf("%s took %s", label, time.Since(start).Round(time.Microsecond))
	}
}
