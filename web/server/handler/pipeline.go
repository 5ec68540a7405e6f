package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.hackfix.me/purr/effect"
	"go.hackfix.me/purr/web/server/types"
)

// Pipeline defines how requests to a single route are processed.
// It provides a fluent interface for configuring request bindings, the success
// status and error reporting. A Pipeline must not be shared between routes.
type Pipeline struct {
	bindings   []Binding
	status     int
	errorLevel types.ErrorLevel
	logger     *slog.Logger
	onExit     []func(effect.Exit)
}

// NewPipeline creates a new pipeline that responds with 200 OK on success.
func NewPipeline() *Pipeline {
	return &Pipeline{
		status:     http.StatusOK,
		errorLevel: types.ErrorLevelFull,
		logger:     slog.Default(),
	}
}

// Bind adds request bindings. They are decoded in the order they're added.
func (p *Pipeline) Bind(b ...Binding) *Pipeline {
	p.bindings = append(p.bindings, b...)
	return p
}

// Status sets the status code of successful responses.
func (p *Pipeline) Status(code int) *Pipeline {
	p.status = code
	return p
}

// ErrorLevel sets the detail level of server error messages.
func (p *Pipeline) ErrorLevel(lvl types.ErrorLevel) *Pipeline {
	p.errorLevel = lvl
	return p
}

// Logger sets the logger used to report failed requests.
func (p *Pipeline) Logger(logger *slog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// OnExit adds a function called with the exit of every result the pipeline
// translates.
func (p *Pipeline) OnExit(fn func(effect.Exit)) *Pipeline {
	p.onExit = append(p.onExit, fn)
	return p
}

func (p *Pipeline) translate(r *http.Request, result any) types.Outcome {
	exit := resolve(r.Context(), result)
	for _, fn := range p.onExit {
		fn(exit)
	}

	switch exit.Kind {
	case effect.ExitSuccess:
		return outcome(exit, p.status)
	case effect.ExitDefect:
		return p.fail(r, &effect.DefectError{Value: exit.Cause})
	default:
		return p.fail(r, exit.Cause)
	}
}

func (p *Pipeline) fail(r *http.Request, cause any) types.Outcome {
	out := types.MapFailure(cause)

	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", out.Status,
		"cause", fmt.Sprint(cause),
	}
	if derr, ok := cause.(*effect.DefectError); ok {
		attrs = append(attrs, "defect", fmt.Sprintf("%T", derr.Value))
	}

	if out.Status >= http.StatusInternalServerError {
		p.logger.Error("request failed", attrs...)
	} else {
		p.logger.Debug("request rejected", attrs...)
	}

	return out
}
