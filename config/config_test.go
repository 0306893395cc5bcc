package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoZeroFields(t *testing.T) {
	cfg := Default()

	for _, field := range visit(newVar(*cfg), "Config", false) {
		assert.Fail(t, "zero-value field", field)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, 5*time.Second, cfg.NET.ReadTimeout)
	require.Equal(t, 8192, cfg.Request.MaxSize)
	require.Equal(t, "index.html", cfg.Static.Index)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	t.Run("overlay", func(t *testing.T) {
		cfg, err := Parse([]byte(`{
			"NET": {"ReadTimeout": "1m30s", "MaxConnections": 64},
			"Headers": {"Default": {"X-Powered-By": "coffee"}},
			"Static": {"MIME": {"md": "text/markdown"}}
		}`))
		require.NoError(t, err)
		require.Equal(t, 90*time.Second, cfg.NET.ReadTimeout)
		require.Equal(t, 64, cfg.NET.MaxConnections)
		require.Equal(t, Default().NET.AcceptLoopInterruptPeriod, cfg.NET.AcceptLoopInterruptPeriod)
		require.Equal(t, "triton", cfg.Headers.Default["Server"])
		require.Equal(t, "coffee", cfg.Headers.Default["X-Powered-By"])
		require.Equal(t, "text/markdown", cfg.Static.MIME["md"])
	})

	t.Run("numeric duration", func(t *testing.T) {
		cfg, err := Parse([]byte(`{"NET": {"ReadTimeout": 1000000000}}`))
		require.NoError(t, err)
		require.Equal(t, time.Second, cfg.NET.ReadTimeout)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Parse([]byte(`{"NET": {"ReadTimeout": "forever"}}`))
		require.Error(t, err)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte(`{"NET": {"ReadTimeot": "1s"}}`))
		require.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		for _, doc := range []string{
			`{"Request": {"MaxSize": 0}}`,
			`{"Request": {"BufferPrealloc": -1}}`,
			`{"Request": {"HeadersPrealloc": -1}}`,
			`{"NET": {"WriteBufferSize": -1}}`,
			`{"NET": {"ReadBufferSize": 0}}`,
			`{"NET": {"WriteTimeout": "0s"}}`,
			`{"NET": {"MaxConnections": -1}}`,
			`{"Static": {"Index": ""}}`,
		} {
			_, err := Parse([]byte(doc))
			require.Error(t, err, doc)
		}
	})

	t.Run("zero preallocations", func(t *testing.T) {
		cfg, err := Parse([]byte(`{"NET": {"WriteBufferSize": 0}, "Request": {"BufferPrealloc": 0, "HeadersPrealloc": 0}}`))
		require.NoError(t, err)
		require.Zero(t, cfg.Request.HeadersPrealloc)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triton.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Static": {"Index": "home.html"}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "home.html", cfg.Static.Index)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

type variable struct {
	Type  reflect.Type
	Value reflect.Value
}

func newVar(a any) variable {
	return variable{reflect.TypeOf(a), reflect.ValueOf(a)}
}

func visit(a variable, name string, nullable bool) (fields []string) {
	if a.Type.Kind() == reflect.Struct {
		for field := range a.Value.NumField() {
			v1 := variable{a.Type.Field(field).Type, a.Value.Field(field)}
			fieldname := a.Type.Field(field).Name
			isNullable := a.Type.Field(field).Tag.Get("test") == "nullable"
			fields = append(fields, visit(v1, name+"."+fieldname, isNullable)...)
		}

		return fields
	}

	if a.Value.IsZero() && !nullable {
		return []string{name}
	}

	return nil
}
