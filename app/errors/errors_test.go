package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewWithCause("failed opening store", cause, "backend", "redis")
	assert.EqualError(t, err, "failed opening store")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Cause())
	assert.Equal(t, map[string]any{"backend": "redis"}, err.Metadata())

	merged := With(err, "backend", "sqlite", "path", "/data/purr.db")
	assert.EqualError(t, merged, "failed opening store")
	assert.ErrorIs(t, merged, cause)
	assert.Equal(t, map[string]any{"backend": "sqlite", "path": "/data/purr.db"}, merged.Metadata())
	// The original error is unchanged.
	assert.Equal(t, map[string]any{"backend": "redis"}, err.Metadata())

	assert.PanicsWithValue(t, "an even number of fields is required", func() {
		NewWith("oops", "key")
	})
	assert.PanicsWithValue(t, "keys must be strings", func() {
		NewWith("oops", 1, 2)
	})
}

func TestLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	Log(logger, NewWithCause("failed getting cat", errors.New("boom"), "id", "1", "backend", "sqlite"))
	assert.Equal(t, "level=ERROR msg=\"failed getting cat\" cause=boom backend=sqlite id=1\n", buf.String())

	buf.Reset()
	Log(logger, errors.New("plain"))
	assert.Equal(t, "level=ERROR msg=plain\n", buf.String())
}

func TestLogRuntimeError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	err := NewRuntimeError("cat doesn't exist", nil, "list cats with 'purr cat ls'", "id", "9")
	Log(logger, err)
	assert.Equal(t, "level=ERROR msg=\"cat doesn't exist\" hint=\"list cats with 'purr cat ls'\" id=9\n", buf.String())

	var serr *StructuredError
	assert.True(t, errors.As(err, &serr))
}
