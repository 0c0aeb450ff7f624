package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type flagsString uint32

func (f flagsString) String() string { return "Docked|LandingGearDown" }

type bitmask uint32

func (b bitmask) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("value", uint32(b))
	enc.AddString("hex", fmt.Sprintf("%#x", uint32(b)))
	return nil
}

type gates struct {
	landing bool
	inSRV   bool
}

func (g gates) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("landing", g.landing)
	enc.AddBool("inSRV", g.inSRV)
	return nil
}

func TestToFields(t *testing.T) {
	now := time.Now()
	err := errors.New("boom")

	tests := []struct {
		name  string
		input []any
		want  int
	}{
		{"empty input", []any{}, 0},
		{"string-int-bool", []any{"a", "x", "b", 123, "c", true}, 3},
		{"time type", []any{"t", now}, 1},
		{"duration", []any{"hold", 100 * time.Millisecond}, 1},
		{"float type", []any{"pi", 3.14}, 1},
		{"bytes", []any{"data", []byte("xyz")}, 1},
		{"uint32 flags", []any{"flags", uint32(16777480)}, 1},
		{"stringer", []any{"flags", flagsString(5)}, 1},
		{"error only", []any{err}, 1},
		{"multiple errors", []any{err, errors.New("again")}, 2},
		{"mixed field types", []any{"msg", "ok", zap.String("x", "y"), "num", 42}, 3},
		{"odd number of args", []any{"key1", "val1", "key2"}, 2},
		{"non-string key", []any{123, "value", true, 99}, 2},
		{"nil values", []any{"a", nil, "b", (*int)(nil)}, 2},
		{"map value", []any{"a", map[string]string{"xyz": "123"}}, 1},
		{"object value", []any{"flags", bitmask(4)}, 1},
		{"inlined object", []any{gates{landing: true}, "flags", bitmask(4)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := toFields(tt.input...)
			assert.Len(t, fields, tt.want)
			for _, f := range fields {
				assert.NotEmpty(t, f.Key, "field has empty key: %+v", f)
			}
		})
	}
}

func TestStringerRendersAsString(t *testing.T) {
	fields := toFields("flags", flagsString(5))
	require.Len(t, fields, 1)
	assert.Equal(t, zapcore.StringerType, fields[0].Type)

	enc := zapcore.NewMapObjectEncoder()
	fields[0].AddTo(enc)
	assert.Equal(t, "Docked|LandingGearDown", enc.Fields["flags"])
}

func TestObjectMarshalers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	logger.Info("Status", "flags", bitmask(0x1000108), gates{landing: true})

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()

	flags, ok := ctx["flags"].(map[string]any)
	require.True(t, ok, "flags should be encoded as an object: %#v", ctx["flags"])
	assert.Equal(t, uint32(0x1000108), flags["value"])
	assert.Equal(t, "0x1000108", flags["hex"])

	assert.Equal(t, true, ctx["landing"])
	assert.Equal(t, false, ctx["inSRV"])
}

func TestLoggerWritesStructuredEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core)).WithName("agent").WithValues("file", "Status.json")

	logger.Info("Status", "docked", false, "landingGear", true)
	logger.Error(errors.New("denied"), "Corrective action failed")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "agent", entries[0].LoggerName)
	assert.Equal(t, "Status", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "Status.json", ctx["file"])
	assert.Equal(t, true, ctx["landingGear"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "denied", entries[1].ContextMap()["error"])
}

func TestNewLoggerUnwritableOutput(t *testing.T) {
	opts := NewOptions()
	opts.OutputPaths = []string{filepath.Join(t.TempDir(), "missing", "assistoff.log")}

	assert.NotPanics(t, func() {
		l, err := NewLogger(opts)
		require.Error(t, err)
		assert.Nil(t, l)
	})

	before := current()
	require.Error(t, Init(opts))
	assert.Same(t, before, current())
}

func TestInitInstallsLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistoff.log")
	opts := NewOptions()
	opts.Format = FormatJSON
	opts.OutputPaths = []string{path}

	before := current()
	t.Cleanup(func() { std.Store(&before) })

	require.NoError(t, Init(opts))
	Info("Disabling Flight Assist", "scanCode", uint16(0x23))
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"Disabling Flight Assist"`)
	assert.Contains(t, string(data), `"scanCode":35`)
}

func TestOptionsValidate(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())

	opts.Level = "loud"
	opts.Format = "xml"
	opts.OutputPaths = nil
	assert.Len(t, opts.Validate(), 3)
}
