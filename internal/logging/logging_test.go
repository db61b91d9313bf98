package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New("warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("Expected info disabled at warn level")
	}
	if !log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("Expected error enabled at warn level")
	}
}

func TestNew_DefaultLevel(t *testing.T) {
	log, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !log.Core().Enabled(zapcore.InfoLevel) || log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Expected info level by default")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
