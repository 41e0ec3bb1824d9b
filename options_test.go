package gradebook

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	gb, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if gb.Port() != 8080 {
		t.Errorf("Port() = %v, want %v", gb.Port(), 8080)
	}
	if gb.BelowThreshold() != 6.0 {
		t.Errorf("BelowThreshold() = %v, want %v", gb.BelowThreshold(), 6.0)
	}
	if gb.AutosaveInterval() != 0 {
		t.Errorf("AutosaveInterval() = %v, want 0", gb.AutosaveInterval())
	}
}

func TestWithPort(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid", 9090, false},
		{"min", 1, false},
		{"max", 65535, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too high", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gb, err := New(WithPort(tt.port))
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(WithPort(%d)) error = %v, wantErr %v", tt.port, err, tt.wantErr)
			}
			if !tt.wantErr && gb.Port() != tt.port {
				t.Errorf("Port() = %v, want %v", gb.Port(), tt.port)
			}
		})
	}
}

func TestWithLogger_Nil(t *testing.T) {
	_, err := New(WithLogger(nil))
	if err == nil {
		t.Error("New(WithLogger(nil)) expected error, got nil")
	}
}

func TestWithLogger_Used(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	gb, err := New(WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	gb.logger.Info("probe")
	if !strings.Contains(buf.String(), "probe") {
		t.Errorf("custom logger not used, output: %q", buf.String())
	}
}

func TestWithJSONFile_Empty(t *testing.T) {
	_, err := New(WithJSONFile(""))
	if err == nil {
		t.Error("New(WithJSONFile(\"\")) expected error, got nil")
	}
}

func TestWithSQLiteFile_Empty(t *testing.T) {
	_, err := New(WithSQLiteFile(""))
	if err == nil {
		t.Error("New(WithSQLiteFile(\"\")) expected error, got nil")
	}
}

func TestWithAutosaveInterval(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		wantErr bool
	}{
		{"disabled", 0, false},
		{"one second", time.Second, false},
		{"one minute", time.Minute, false},
		{"too short", 500 * time.Millisecond, true},
		{"negative", -time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gb, err := New(WithAutosaveInterval(tt.d))
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(WithAutosaveInterval(%v)) error = %v, wantErr %v", tt.d, err, tt.wantErr)
			}
			if !tt.wantErr && gb.AutosaveInterval() != tt.d {
				t.Errorf("AutosaveInterval() = %v, want %v", gb.AutosaveInterval(), tt.d)
			}
		})
	}
}

func TestWithBelowThreshold(t *testing.T) {
	gb, err := New(WithBelowThreshold(4.5))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if gb.BelowThreshold() != 4.5 {
		t.Errorf("BelowThreshold() = %v, want 4.5", gb.BelowThreshold())
	}

	for _, bad := range []float64{-0.5, 10.5} {
		if _, err := New(WithBelowThreshold(bad)); err == nil {
			t.Errorf("New(WithBelowThreshold(%v)) expected error, got nil", bad)
		}
	}
}
