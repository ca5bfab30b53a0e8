// Package cli implements a generator that pipes the prompt into an external
// command and returns its standard output.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/leofalp/scenario/internal/utils"
	"github.com/leofalp/scenario/providers/generator"
	"github.com/leofalp/scenario/providers/observability"
)

const (
	// DefaultCommand is the executable used when none is configured.
	DefaultCommand = "claude"

	// longPromptThreshold is the prompt size above which a warning is logged.
	longPromptThreshold = 20000

	stderrLimit = 500
)

// Generator runs Command with Args, writing the prompt to its stdin.
type Generator struct {
	Command string
	Args    []string
	// Env is appended to the current process environment.
	Env []string
	Dir string
}

var _ generator.Generator = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithCommand sets the executable and its arguments.
func WithCommand(command string, args ...string) Option {
	return func(g *Generator) {
		if command != "" {
			g.Command = command
		}
		g.Args = args
	}
}

// WithEnv appends KEY=VALUE pairs to the child environment.
func WithEnv(env ...string) Option {
	return func(g *Generator) {
		g.Env = append(g.Env, env...)
	}
}

// WithDir sets the working directory of the child process.
func WithDir(dir string) Option {
	return func(g *Generator) {
		g.Dir = dir
	}
}

// New returns a Generator for DefaultCommand unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{Command: DefaultCommand}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Name() string { return "cli" }

// CommandLine renders the command and arguments for logging.
func (g *Generator) CommandLine() string {
	return strings.TrimSpace(g.Command + " " + strings.Join(g.Args, " "))
}

// Generate runs the command once. A missing executable yields
// generator.ErrCommandNotFound, a non-zero exit an error carrying the exit
// code and the head of stderr, and blank stdout generator.ErrEmptyOutput.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	observer := observability.ObserverFromContext(ctx)
	if observer == nil {
		observer = observability.Nop{}
	}

	path, err := exec.LookPath(g.Command)
	if err != nil {
		return "", fmt.Errorf("%w: %s", generator.ErrCommandNotFound, g.Command)
	}

	if len(prompt) > longPromptThreshold {
		observer.Warn(ctx, "prompt is very long",
			observability.Int(observability.AttrGeneratorPromptLength, len(prompt)),
		)
	}

	cmd := exec.CommandContext(ctx, path, g.Args...)
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Dir = g.Dir
	if len(g.Env) > 0 {
		cmd.Env = append(os.Environ(), g.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	observer.Debug(ctx, "running generator command",
		observability.String(observability.AttrGeneratorCommand, g.CommandLine()),
		observability.Int(observability.AttrGeneratorPromptLength, len(prompt)),
	)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s: %w", g.Command, ctxErr)
		}
		tail := utils.TruncateRunes(strings.TrimSpace(stderr.String()), stderrLimit)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			observer.Warn(ctx, "generator command failed",
				observability.String(observability.AttrGeneratorCommand, g.CommandLine()),
				observability.Int(observability.AttrGeneratorExitCode, exitErr.ExitCode()),
				observability.String(observability.AttrGeneratorStderr, tail),
			)
			return "", fmt.Errorf("%s exited with code %d: %s", g.Command, exitErr.ExitCode(), tail)
		}
		return "", fmt.Errorf("run %s: %w", g.Command, err)
	}

	if s := strings.TrimSpace(stderr.String()); s != "" {
		observer.Debug(ctx, "generator stderr",
			observability.String(observability.AttrGeneratorStderr, utils.TruncateRunes(s, stderrLimit)),
		)
	}

	out := stdout.String()
	if strings.TrimSpace(out) == "" {
		return "", generator.ErrEmptyOutput
	}
	return out, nil
}
