package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"":         zapcore.InfoLevel,
		"verbose":  zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Fatalf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	l := New(" WARN ")
	if l.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !l.Desugar().Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("warn should be enabled at warn level")
	}
}

func TestGet_ReturnsSingleton(t *testing.T) {
	a := Get(DebugLevel)
	b := Get(ErrorLevel)
	if a != b {
		t.Fatalf("expected the same logger instance")
	}
}
