package logger

import (
	"bytes"
	"context"
	"testing"

	kit "sdexindex/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		" warn ":   zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.InfoLevel,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_NamedAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "debug",
		Format:       "console",
		Service:      "sdex-indexer",
		Network:      "testnet",
		Writer:       &buf,
		WithCaller:   true,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	// resample so every line is emitted
	rv := Named("horizon").Sample(&zerolog.BasicSampler{N: 1})
	(&rv).Info().Msg("named-msg")

	ctx := WithRun(WithRequest(context.Background(), "req-123"), "run-7")
	cv := C(ctx).Sample(&zerolog.BasicSampler{N: 1})
	(&cv).Info().Msg("ctx-msg")

	out := buf.String()
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, "horizon")
	kit.MustContain(t, out, "ctx-msg")
	kit.MustContain(t, out, "request_id=")
	kit.MustContain(t, out, "req-123")
	kit.MustContain(t, out, "run_id=")
	kit.MustContain(t, out, "run-7")
	kit.MustContain(t, out, "testnet")
	kit.MustContain(t, out, "sdex-indexer")
}

func TestWithRun(t *testing.T) {
	ctx := context.Background()
	if WithRun(ctx, "") != ctx {
		t.Fatalf("empty run id should return ctx unchanged")
	}
	if got := RunID(WithRun(ctx, "abc")); got != "abc" {
		t.Fatalf("RunID = %q", got)
	}
	if got := RunID(ctx); got != "" {
		t.Fatalf("RunID on bare ctx = %q", got)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "sdex-api")
	t.Setenv("LOG_NETWORK", "pubnet")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" {
		t.Fatalf("FromEnv level/format = %+v", opt)
	}
	if opt.Service != "sdex-api" || opt.Network != "pubnet" {
		t.Fatalf("FromEnv service/network = %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample = %+v", opt)
	}
}

func TestReplace_RestoresPrevious(t *testing.T) {
	before := Get()
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	restore := Replace(&l)
	Get().Info().Msg("swapped")
	restore()

	kit.MustContain(t, buf.String(), "swapped")
	if Get() != before {
		t.Fatalf("expected previous root after restore")
	}
}
