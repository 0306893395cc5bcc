package config

import (
	"os"
	"time"
	"unsafe"

	json "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var decoder = json.Config{
	EscapeHTML:             true,
	DisallowUnknownFields:  true,
	ValidateJsonRawMessage: true,
}.Froze()

func init() {
	json.RegisterTypeDecoderFunc("time.Duration", decodeDuration)
}

// Load reads a JSON document and overlays it over the defaults. Only present keys are
// changed. Durations are accepted either as strings ("5s", "1m30s") or as nanoseconds.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	return Parse(data)
}

// Parse is like Load, but takes the document itself.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := decoder.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	return cfg, cfg.Validate()
}

// Validate reports settings the server can't run with.
func (c *Config) Validate() error {
	switch {
	case c.NET.ReadBufferSize <= 0:
		return errors.New("NET.ReadBufferSize must be positive")
	case c.NET.ReadTimeout <= 0:
		return errors.New("NET.ReadTimeout must be positive")
	case c.NET.AcceptLoopInterruptPeriod <= 0:
		return errors.New("NET.AcceptLoopInterruptPeriod must be positive")
	case c.NET.WriteTimeout <= 0:
		return errors.New("NET.WriteTimeout must be positive")
	case c.NET.WriteBufferSize < 0:
		return errors.New("NET.WriteBufferSize must not be negative")
	case c.NET.MaxConnections < 0:
		return errors.New("NET.MaxConnections must not be negative")
	case c.Request.MaxSize <= 0:
		return errors.New("Request.MaxSize must be positive")
	case c.Request.BufferPrealloc < 0:
		return errors.New("Request.BufferPrealloc must not be negative")
	case c.Request.HeadersPrealloc < 0:
		return errors.New("Request.HeadersPrealloc must not be negative")
	case len(c.Static.Index) == 0:
		return errors.New("Static.Index must not be empty")
	}

	return nil
}

func decodeDuration(ptr unsafe.Pointer, iter *json.Iterator) {
	switch iter.WhatIsNext() {
	case json.StringValue:
		d, err := time.ParseDuration(iter.ReadString())
		if err != nil {
			iter.ReportError("decode duration", err.Error())
			return
		}

		*(*time.Duration)(ptr) = d
	case json.NumberValue:
		*(*time.Duration)(ptr) = time.Duration(iter.ReadInt64())
	default:
		iter.Skip()
		iter.ReportError("decode duration", "must be a string or a number")
	}
}
