package logger

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name:    "valid config with info level",
			cfg:     &Config{Level: "info"},
			wantErr: false,
		},
		{
			name:    "valid config with debug level",
			cfg:     &Config{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "empty level defaults to info",
			cfg:     &Config{},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &Config{Level: "invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "run.log")

	logger, err := New(&Config{Level: "info", File: file})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("file output test")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"nonsense", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	logger, err := New(&Config{Level: "disabled"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	child := logger.WithField("username", "some_party")
	grandchild := child.WithFields(map[string]interface{}{"batch": 2})

	if child == nil || grandchild == nil {
		t.Fatal("derived loggers must not be nil")
	}

	parent, ok := logger.(*zerologLogger)
	if !ok {
		t.Fatal("unexpected logger implementation")
	}
	if len(parent.fields) != 0 {
		t.Errorf("parent logger gained %d fields", len(parent.fields))
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()

	// all methods are safe no-ops
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")
	log.WithField("k", "v").WithError(nil).Info("chained")
	log.InfoWithFields("fields", map[string]interface{}{"n": 1})

	if log.GetZerolog() == nil {
		t.Error("GetZerolog() must not return nil")
	}
}
