package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	t.Cleanup(func() { baseLogger = saved; SetLevel(LevelInfo) })
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)

	msg := "legend text=\\c{1}Growth (100.0% of target) formula=x%2"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(100.0% of target)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "MISSING") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t)
	SetLevel(LevelWarn)

	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("messages below WARN leaked: %s", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Fatalf("expected WARN and ERROR lines, got: %s", out)
	}
}

func TestSetLogLevelRejectsUnknown(t *testing.T) {
	captureLogs(t)
	if err := SetLogLevel("error"); err != nil {
		t.Fatalf("error: %v", err)
	}
	if err := SetLogLevel("verbose"); err == nil {
		t.Fatalf("verbose should be rejected")
	}
	if CurrentLevel() != LevelError {
		t.Fatalf("unknown level changed current level to %v", CurrentLevel())
	}
	if l, err := ParseLevel(" Warning "); err != nil || l != LevelWarn {
		t.Fatalf("ParseLevel(Warning) = %v, %v", l, err)
	}
	if LevelDebug.String() != "DEBUG" || Level(9).String() != "Level(9)" {
		t.Fatalf("level names %s %s", LevelDebug, Level(9))
	}
}

func TestTimeTrackOnlyAtDebug(t *testing.T) {
	buf := captureLogs(t)
	TimeTrack(time.Now(), "replot")
	if buf.Len() != 0 {
		t.Fatalf("TimeTrack wrote at INFO: %s", buf.String())
	}
	SetLevel(LevelDebug)
	TimeTrack(time.Now().Add(-time.Millisecond), "replot")
	if !strings.Contains(buf.String(), "[DEBUG] replot took") {
		t.Fatalf("missing timing line: %s", buf.String())
	}
}
