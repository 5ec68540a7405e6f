package errors

import (
	"errors"
	"log/slog"
	"slices"
)

// Log logs an error with logger, extracting metadata if it's a
// StructuredError, and the hint if it's a RuntimeError. The default logger is used if logger is nil.
func Log(logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	var serr *StructuredError
	if !errors.As(err, &serr) {
		logger.Error(err.Error())
		return
	}

	args := make([]any, 0, len(serr.metadata)*2+2)

	cause := serr.metadata["cause"]
	if serr.cause != nil {
		cause = serr.cause.Error()
	}
	if cause != nil {
		args = append(args, "cause", cause)
	}

	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.Hint != "" {
		args = append(args, "hint", rerr.Hint)
	}

	keys := make([]string, 0, len(serr.metadata))
	for k := range serr.metadata {
		if k != "cause" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		args = append(args, k, serr.metadata[k])
	}

	logger.Error(serr.Error(), args...)
}
