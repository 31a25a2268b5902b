package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gindownload/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "invalid"}, wantErr: true},
		{
			name: "file output",
			cfg: &config.LoggingConfig{
				Level: "info",
				File:  filepath.Join(t.TempDir(), "logs", "gindownload.log"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestFileOutputReceivesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := New(&config.LoggingConfig{Level: "info", File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.WithField("step", 3).Info("download complete")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"download complete"`) {
		t.Errorf("log file missing message: %s", data)
	}
	if !strings.Contains(string(data), `"step":3`) {
		t.Errorf("log file missing field: %s", data)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"fatal", zerolog.InfoLevel, true},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var records []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		records = append(records, rec)
	}
	return records
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "warn")
	if err != nil {
		t.Fatalf("NewWithWriter() error = %v", err)
	}

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	records := decodeLines(t, &buf)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %s", len(records), buf.String())
	}
	if records[0]["level"] != "warn" || records[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v", records)
	}
	if records[0]["app"] != "gindownload" {
		t.Errorf("missing app field: %v", records[0])
	}
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	base, _ := NewWithWriter(&buf, "debug")

	runLog := ForRun(base, "run-1")
	stepLog := ForStep(runLog, 4, "download", "2017/PET/pet2017min.min")
	stepLog.WithError(errors.New("connection reset")).WarnWithFields("attempt failed", map[string]interface{}{
		"attempt": 2,
	})
	runLog.Info("run finished")

	records := decodeLines(t, &buf)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	for key, want := range map[string]interface{}{
		"run_id":  "run-1",
		"step":    float64(4),
		"kind":    "download",
		"path":    "2017/PET/pet2017min.min",
		"error":   "connection reset",
		"attempt": float64(2),
	} {
		if first[key] != want {
			t.Errorf("field %s = %v, want %v", key, first[key], want)
		}
	}

	// Child fields must not leak back into the parent
	if _, ok := records[1]["step"]; ok {
		t.Errorf("parent logger picked up child field: %v", records[1])
	}
}

func TestWithNilError(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := NewWithWriter(&buf, "info")
	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestTestLogger(t *testing.T) {
	tl := NewTestLogger()
	child := tl.WithField("step", 1)
	child.Warn("data type rename skipped")
	tl.Info("fresh run")

	if !tl.HasMessage("rename skipped") {
		t.Error("expected child message in shared store")
	}
	warns := tl.GetMessagesByLevel("WARN")
	if len(warns) != 1 || warns[0].Fields["step"] != 1 {
		t.Errorf("unexpected warnings: %+v", warns)
	}

	tl.Clear()
	if len(tl.GetMessages()) != 0 {
		t.Error("Clear() left messages behind")
	}
}

func TestGlobalLogger(t *testing.T) {
	tl := NewTestLogger()
	SetLogger(tl)
	defer SetLogger(nil)

	GetLogger().Info("hello")
	if !tl.HasMessage("hello") {
		t.Error("global logger did not route to the configured logger")
	}
}
