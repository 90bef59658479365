package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
		"panic":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestInit_JSONWithService(t *testing.T) {
	Reset()
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf, Service: "lostfound-api"})

	authLog := Component("auth")
	authLog.Info().Msg("hello")
	log := Get()
	log.Debug().Msg("filtered out")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if line["service"] != "lostfound-api" || line["component"] != "auth" || line["message"] != "hello" {
		t.Fatalf("unexpected log line: %+v", line)
	}
}

func TestInit_OnlyFirstCallCounts(t *testing.T) {
	Reset()
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first, Env: "test"})
	Init(Options{Level: "debug", Output: &second})

	log := Get()
	log.Info().Msg("hello")
	if second.Len() != 0 {
		t.Fatalf("second Init must not replace the logger: %q", second.String())
	}

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(first.Bytes()), &line); err != nil {
		t.Fatalf("decode %q: %v", first.String(), err)
	}
	if line["env"] != "test" {
		t.Fatalf("env field missing: %+v", line)
	}
}

func TestGet_BootstrapBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	// Must not panic; startup errors are logged before Init runs.
	log := Get()
	log.Debug().Msg("bootstrap")
	mainLog := Component("main")
	mainLog.Debug().Msg("bootstrap")
}
