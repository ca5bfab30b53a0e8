// Package generator defines the text generator abstraction used by the stage
// runner, plus middleware that adds tracing and per-call deadlines to any
// backend.
//
// Backends live in sub-packages:
//   - [github.com/leofalp/scenario/providers/generator/cli] runs an external command
//   - [github.com/leofalp/scenario/providers/generator/openai] calls an OpenAI-compatible endpoint
package generator

import (
	"context"
	"errors"
)

var (
	// ErrEmptyOutput is returned when a backend produced no usable text.
	ErrEmptyOutput = errors.New("generator returned empty output")

	// ErrCommandNotFound is returned when the external command is not installed.
	ErrCommandNotFound = errors.New("generator command not found")
)

// Generator turns a prompt into raw model output.
type Generator interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Generate sends prompt and returns the model's raw text. It must honour
	// ctx cancellation.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Generator interface.
type Func struct {
	ID string
	Fn func(ctx context.Context, prompt string) (string, error)
}

func (f Func) Name() string { return f.ID }

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f.Fn(ctx, prompt)
}

// Middleware wraps a Generator with additional behaviour.
type Middleware func(next Generator) Generator

// Chain applies middlewares around g. The first middleware is the outermost
// wrapper, i.e. the first to see an incoming prompt.
func Chain(g Generator, middlewares ...Middleware) Generator {
	for i := len(middlewares) - 1; i >= 0; i-- {
		g = middlewares[i](g)
	}
	return g
}
