// Package effect implements Effect, an inert description of a computation
// that either succeeds with a value, fails with an error, or dies with a
// defect (a recovered panic). Nothing runs until Run or Exec is called.
package effect

import (
	"context"
	"errors"
)

// ErrNoSuchElement is the failure of an Effect built from an absent value.
var ErrNoSuchElement = errors.New("no such element")

type tag uint8

const (
	tagOk tag = iota
	tagErr
	tagPending
)

// Effect is a deferred computation producing a value of type A.
// The zero value succeeds with the zero value of A.
type Effect[A any] struct {
	tag   tag
	value A
	err   error
	run   func(context.Context) (A, error)
}

// Deferred is implemented by every Effect, regardless of its value type.
// It lets callers that only see an untyped result detect and execute it.
type Deferred interface {
	Exec(ctx context.Context) Exit
}

var _ Deferred = Effect[struct{}]{}

// Succeed returns an Effect that succeeds with v.
func Succeed[A any](v A) Effect[A] {
	return Effect[A]{tag: tagOk, value: v}
}

// Fail returns an Effect that fails with err. A nil err is treated as
// absence and replaced with ErrNoSuchElement.
func Fail[A any](err error) Effect[A] {
	if err == nil {
		err = ErrNoSuchElement
	}
	return Effect[A]{tag: tagErr, err: err}
}

// Suspend returns an Effect that calls fn when executed. fn is called once
// per execution.
func Suspend[A any](fn func(ctx context.Context) (A, error)) Effect[A] {
	return Effect[A]{tag: tagPending, run: fn}
}

// Sync returns an Effect that evaluates fn when executed. A panic inside fn
// becomes a defect.
func Sync[A any](fn func() A) Effect[A] {
	return Suspend(func(context.Context) (A, error) {
		return fn(), nil
	})
}

// Try returns an Effect that evaluates fn when executed and fails with its
// error, if any.
func Try[A any](fn func() (A, error)) Effect[A] {
	return Suspend(func(context.Context) (A, error) {
		return fn()
	})
}

// Die returns an Effect that dies with the defect v when executed.
func Die[A any](v any) Effect[A] {
	return Suspend(func(context.Context) (A, error) {
		panic(v)
	})
}

// FromNullable succeeds with v, or fails with ErrNoSuchElement if v is nil.
func FromNullable[A any](v *A) Effect[*A] {
	if v == nil {
		return Fail[*A](ErrNoSuchElement)
	}
	return Succeed(v)
}

// FromResult lifts a (value, error) pair into an Effect.
func FromResult[A any](v A, err error) Effect[A] {
	if err != nil {
		return Fail[A](err)
	}
	return Succeed(v)
}

// Map transforms the success value of e with fn.
func Map[A, B any](e Effect[A], fn func(A) B) Effect[B] {
	return Suspend(func(ctx context.Context) (B, error) {
		a, err := e.step(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return fn(a), nil
	})
}

// FlatMap sequences e with the Effect returned by fn. fn is not called if e
// fails.
func FlatMap[A, B any](e Effect[A], fn func(A) Effect[B]) Effect[B] {
	return Suspend(func(ctx context.Context) (B, error) {
		a, err := e.step(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return fn(a).step(ctx)
	})
}

// Tap runs fn with the success value of e and keeps that value, unless fn
// fails.
func Tap[A any](e Effect[A], fn func(A) error) Effect[A] {
	return Suspend(func(ctx context.Context) (A, error) {
		a, err := e.step(ctx)
		if err != nil {
			return a, err
		}
		if err = fn(a); err != nil {
			var zero A
			return zero, err
		}
		return a, nil
	})
}

// MapError transforms the failure of e with fn. Defects are not affected.
func MapError[A any](e Effect[A], fn func(error) error) Effect[A] {
	return Suspend(func(ctx context.Context) (A, error) {
		a, err := e.step(ctx)
		if err != nil {
			return a, fn(err)
		}
		return a, nil
	})
}

// CatchAll recovers from any failure of e with the Effect returned by fn.
// Defects are not caught.
func CatchAll[A any](e Effect[A], fn func(error) Effect[A]) Effect[A] {
	return Suspend(func(ctx context.Context) (A, error) {
		a, err := e.step(ctx)
		if err != nil {
			return fn(err).step(ctx)
		}
		return a, nil
	})
}

// Run executes the Effect and returns its result. A defect is returned as a
// *DefectError.
func (e Effect[A]) Run(ctx context.Context) (val A, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero A
			val, err = zero, &DefectError{Value: r}
		}
	}()

	return e.step(ctx)
}

// Exec executes the Effect and reports how it ended.
func (e Effect[A]) Exec(ctx context.Context) Exit {
	v, err := e.Run(ctx)
	if err == nil {
		return Exit{Kind: ExitSuccess, Value: v}
	}
	if derr, ok := err.(*DefectError); ok {
		return Exit{Kind: ExitDefect, Cause: derr.Value}
	}

	return Exit{Kind: ExitFailure, Cause: err}
}

func (e Effect[A]) step(ctx context.Context) (A, error) {
	switch e.tag {
	case tagOk:
		return e.value, nil
	case tagErr:
		var zero A
		return zero, e.err
	default:
		if err := ctx.Err(); err != nil {
			var zero A
			return zero, err
		}
		return e.run(ctx)
	}
}
