package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		want  logrus.Level
	}{
		{"", false, logrus.InfoLevel},
		{"", true, logrus.DebugLevel},
		{"warn", true, logrus.WarnLevel},
		{"nonsense", false, logrus.InfoLevel},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if got := newWithOutput(tt.level, tt.debug, &buf).GetLevel(); got != tt.want {
			t.Errorf("level(%q, %v) = %v, want %v", tt.level, tt.debug, got, tt.want)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	newWithOutput("info", false, &buf).WithField("film_id", 7).Info("film created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if entry["msg"] != "film created" || entry["film_id"] != float64(7) || entry["time"] == nil {
		t.Errorf("entry = %v", entry)
	}
}
