package server

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestConfigureParsesLevelName(t *testing.T) {
	var buf bytes.Buffer
	Configure("warn", false, &buf)
	if Log.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("Log level = %v, want %v", Log.GetLevel(), zerolog.WarnLevel)
	}
}

func TestConfigureDebugOverridesLevelName(t *testing.T) {
	var buf bytes.Buffer
	Configure("error", true, &buf)
	if Log.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("Log level = %v, want %v (debug should override levelName)", Log.GetLevel(), zerolog.DebugLevel)
	}
}

func TestConfigureFallsBackToInfoOnUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure("not-a-real-level", false, &buf)
	if Log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("Log level = %v, want %v for an unrecognized level name", Log.GetLevel(), zerolog.InfoLevel)
	}
}

func TestConfigureWritesThroughProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	Configure("info", false, &buf)
	Log.Info().Msg("hello")
	if buf.Len() == 0 {
		t.Fatalf("expected Configure's writer to receive log output")
	}
}
