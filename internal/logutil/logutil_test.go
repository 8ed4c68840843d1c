package logutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { Log.SetLevel(logrus.InfoLevel) })

	tests := []struct {
		input   string
		want    logrus.Level
		wantErr bool
	}{
		{input: "debug", want: logrus.DebugLevel},
		{input: "INFO", want: logrus.InfoLevel},
		{input: "warning", want: logrus.WarnLevel},
		{input: "warn", want: logrus.WarnLevel},
		{input: "error", want: logrus.ErrorLevel},
		{input: "verbose", wantErr: true},
	}

	for _, tc := range tests {
		err := SetLogLevel(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if Log.GetLevel() != tc.want {
			t.Fatalf("level for %q: want %s, got %s", tc.input, tc.want, Log.GetLevel())
		}
	}
}

func TestLeveledLoggerWritesKeyValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	leveled := LeveledLogger{Entry: logrus.NewEntry(logger)}
	leveled.Debug("retrying request", "url", "https://example.test/a.csv", "attempt", 2)

	out := buf.String()
	if !strings.Contains(out, "retrying request") || !strings.Contains(out, "attempt=2") {
		t.Fatalf("unexpected log output: %s", out)
	}
}
