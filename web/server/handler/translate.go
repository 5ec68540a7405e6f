package handler

import (
	"context"

	"go.hackfix.me/purr/effect"
	"go.hackfix.me/purr/web/server/types"
)

// Translate converts a handler result into a response outcome. If result is
// deferred it's executed first. A successful result is returned as body with
// the given status, and failures are mapped with types.MapFailure.
func Translate(ctx context.Context, result any, status int) types.Outcome {
	return outcome(resolve(ctx, result), status)
}

func resolve(ctx context.Context, result any) effect.Exit {
	if d, ok := result.(effect.Deferred); ok {
		return d.Exec(ctx)
	}
	return effect.Exit{Kind: effect.ExitSuccess, Value: result}
}

func outcome(exit effect.Exit, status int) types.Outcome {
	if exit.Kind == effect.ExitSuccess {
		return types.Outcome{Status: status, Body: exit.Value}
	}
	return types.MapFailure(exit.Cause)
}
