package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leofalp/scenario/core/parse"
	"github.com/leofalp/scenario/internal/config"
	"github.com/leofalp/scenario/internal/pipeline"
	"github.com/leofalp/scenario/internal/references"
	"github.com/leofalp/scenario/providers/generator"
	"github.com/leofalp/scenario/providers/generator/cli"
	"github.com/leofalp/scenario/providers/generator/openai"
	"github.com/leofalp/scenario/providers/observability"
	"github.com/leofalp/scenario/providers/observability/slogobs"
)

// app is the per-invocation wiring shared by the commands.
type app struct {
	cfg      config.Config
	observer *slogobs.Observer
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}

	observer := slogobs.New(
		slogobs.WithLevel(slogobs.ParseLogLevel(cfg.Log.Level)),
		slogobs.WithFormat(slogobs.ParseFormat(cfg.Log.Format)),
		slogobs.WithOutput(cmd.ErrOrStderr()),
	)
	return &app{cfg: cfg, observer: observer}, nil
}

// context returns ctx carrying the app observer.
func (a *app) context(ctx context.Context) context.Context {
	return observability.ContextWithObserver(ctx, a.observer)
}

func (a *app) decoder(repair bool) *parse.Decoder {
	return parse.New(
		parse.WithObserver(a.observer),
		parse.WithRepair(repair || a.cfg.Pipeline.Repair),
	)
}

// generator builds the configured backend wrapped with tracing and the
// per-call timeout.
func (a *app) generator() (generator.Generator, error) {
	gc := a.cfg.Generator

	var g generator.Generator
	switch gc.Kind {
	case "cli":
		g = cli.New(cli.WithCommand(gc.Command, gc.Args...))
	case "openai":
		opts := []openai.Option{openai.WithModel(gc.Model)}
		if gc.APIKey != "" {
			opts = append(opts, openai.WithAPIKey(gc.APIKey))
		}
		if gc.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(gc.BaseURL))
		}
		g = openai.New(opts...)
	default:
		return nil, fmt.Errorf("unknown generator kind %q", gc.Kind)
	}

	return generator.Chain(g,
		generator.WithObserver(a.observer),
		generator.WithTimeout(gc.Timeout),
	), nil
}

// runner builds a stage runner. withRefs loads the reference corpus; a
// missing corpus file only produces a warning.
func (a *app) runner(ctx context.Context, withRefs bool) (*pipeline.Runner, error) {
	gen, err := a.generator()
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithObserver(a.observer),
		pipeline.WithDecoder(a.decoder(false)),
		pipeline.WithRetry(a.cfg.Pipeline.Attempts(), a.cfg.Pipeline.RetryDelay),
	}

	if withRefs && a.cfg.Pipeline.References != "" {
		episodes, err := references.Load(a.cfg.Pipeline.References)
		switch {
		case err == nil:
			opts = append(opts, pipeline.WithReferences(episodes, a.cfg.Pipeline.ReferenceSample))
		case errors.Is(err, os.ErrNotExist), errors.Is(err, references.ErrNoEpisodes):
			a.observer.Warn(ctx, "no reference corpus, prompting without references",
				observability.String("path", a.cfg.Pipeline.References),
				observability.Error(err),
			)
		default:
			return nil, err
		}
	}

	return pipeline.NewRunner(gen, opts...), nil
}

// save writes v to the output directory and logs the path.
func (a *app) save(ctx context.Context, prefix string, v any) (string, error) {
	path, err := pipeline.SaveJSON(a.cfg.Pipeline.OutputDir, prefix, v)
	if err != nil {
		return "", err
	}
	a.observer.Info(ctx, "result saved", observability.String(observability.AttrOutputPath, path))
	return path, nil
}

// reportOutcome tells the user when placeholder content was written.
func reportOutcome(cmd *cobra.Command, out pipeline.Outcome) {
	if !out.Placeholder {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s stage produced no usable output (%s); placeholder content was saved\n", out.Stage, out.Reason)
	if out.Diagnostic != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), out.Diagnostic.String())
	}
}
