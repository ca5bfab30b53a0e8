package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/leofalp/scenario/core/parse"
	"github.com/leofalp/scenario/core/scenario"
	"github.com/leofalp/scenario/internal/references"
	"github.com/leofalp/scenario/providers/generator"
	"github.com/leofalp/scenario/providers/observability"
)

const (
	StagePlots      = "plots"
	StageCharacters = "characters"
	StageDetails    = "details"
)

// Outcome describes how a stage result was produced.
type Outcome struct {
	RunID    string
	Stage    string
	Attempts int
	// Decode is the decoder stage of the final output.
	Decode parse.Stage
	// Placeholder is set when stand-in content replaced the model output.
	Placeholder bool
	// Reason explains why placeholder content was used.
	Reason     string
	Diagnostic *parse.Diagnostic
	// Raw is the unmodified generator output.
	Raw string
}

// Runner executes stages against one generator. It is safe for concurrent use.
type Runner struct {
	gen       generator.Generator
	decoder   *parse.Decoder
	observer  observability.Provider
	attempts  uint
	delay     time.Duration
	refs      []references.Episode
	refSample int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Runner.
type Option func(*Runner)

// WithDecoder replaces the default decoder.
func WithDecoder(d *parse.Decoder) Option {
	return func(r *Runner) { r.decoder = d }
}

// WithObserver sets the observability provider for stage spans and logs.
func WithObserver(p observability.Provider) Option {
	return func(r *Runner) { r.observer = p }
}

// WithRetry sets how many times a failing generator call is attempted and
// the pause between attempts.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(r *Runner) {
		r.attempts = max(attempts, 1)
		r.delay = delay
	}
}

// WithReferences attaches the corpus that plot prompts sample from.
func WithReferences(episodes []references.Episode, sample int) Option {
	return func(r *Runner) {
		r.refs = episodes
		r.refSample = sample
	}
}

// WithRand sets the random source used for prompt variation, tone shifts and
// reference sampling.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) { r.rng = rng }
}

// NewRunner returns a Runner for gen.
func NewRunner(gen generator.Generator, opts ...Option) *Runner {
	r := &Runner{
		gen:       gen,
		attempts:  1,
		refSample: 30,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.observer == nil {
		r.observer = observability.Nop{}
	}
	if r.decoder == nil {
		r.decoder = parse.New(parse.WithObserver(r.observer))
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

// withRand runs fn while holding the random source.
func (r *Runner) withRand(fn func(rng *rand.Rand)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.rng)
}

// Plots runs the plot stage with the session's current tone and keywords.
func (r *Runner) Plots(ctx context.Context, s *Session) (scenario.StoryList, Outcome, error) {
	var (
		prompt string
		err    error
	)
	r.withRand(func(rng *rand.Rand) {
		refs := references.Sample(r.refs, r.refSample, rng)
		prompt, err = PlotPrompt(s, refs, rng)
	})
	if err != nil {
		return scenario.StoryList{}, Outcome{Stage: StagePlots}, err
	}

	count := s.count()
	return run(ctx, r, StagePlots, prompt, scenario.StoriesFrom, func() scenario.StoryList {
		return scenario.PlaceholderStories(count)
	},
		observability.String(observability.AttrSessionTone, string(s.Tone)),
		observability.Strings(observability.AttrSessionKeywords, s.Keywords),
		observability.Int(observability.AttrSessionCount, count),
	)
}

// RegeneratePlots runs the plot stage again. An unlocked session may switch
// to a random tone first.
func (r *Runner) RegeneratePlots(ctx context.Context, s *Session) (scenario.StoryList, Outcome, error) {
	var changed bool
	r.withRand(func(rng *rand.Rand) { changed = s.Reroll(rng) })
	if changed {
		r.observer.Info(ctx, "tone changed", observability.String(observability.AttrSessionTone, string(s.Tone)))
	}
	return r.Plots(ctx, s)
}

// Characters runs the character stage for story.
func (r *Runner) Characters(ctx context.Context, s *Session, story scenario.Story) (scenario.CharacterSet, Outcome, error) {
	var (
		prompt string
		err    error
	)
	r.withRand(func(rng *rand.Rand) {
		prompt, err = CharacterPrompt(s, story, rng)
	})
	if err != nil {
		return scenario.CharacterSet{}, Outcome{Stage: StageCharacters}, err
	}
	return run(ctx, r, StageCharacters, prompt, scenario.CharactersFrom, func() scenario.CharacterSet {
		return scenario.PlaceholderCharacters("")
	})
}

// Details runs the detail stage for one section.
func (r *Runner) Details(ctx context.Context, section scenario.Section, story scenario.Story, cast []scenario.Character, previous []Selection) (scenario.DetailSet, Outcome, error) {
	prompt, err := DetailPrompt(section, story, cast, previous)
	if err != nil {
		return scenario.DetailSet{}, Outcome{Stage: StageDetails}, err
	}
	convert := func(m map[string]any) (scenario.DetailSet, error) {
		return scenario.DetailsFrom(section, m)
	}
	return run(ctx, r, StageDetails, prompt, convert, func() scenario.DetailSet {
		return scenario.PlaceholderDetails(section)
	}, observability.String(observability.AttrDetailSection, string(section)))
}

// run is the shared stage body: generate, decode, convert, fall back.
func run[T any](
	ctx context.Context,
	r *Runner,
	stage, prompt string,
	convert func(map[string]any) (T, error),
	placeholder func() T,
	attrs ...observability.Attribute,
) (T, Outcome, error) {
	out := Outcome{RunID: uuid.NewString(), Stage: stage}

	attrs = append([]observability.Attribute{
		observability.String(observability.AttrStageName, stage),
		observability.String(observability.AttrRunID, out.RunID),
	}, attrs...)
	ctx, span := r.observer.StartSpan(ctx, observability.SpanStage, attrs...)
	defer span.End()
	ctx = observability.ContextWithObserver(ctx, r.observer)

	raw, attempts, err := r.generate(ctx, prompt)
	out.Attempts = attempts
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "generation failed")
		r.observer.Error(ctx, "stage failed", append(attrs, observability.Error(err))...)
		var zero T
		return zero, out, fmt.Errorf("%s stage: %w", stage, err)
	}
	out.Raw = raw

	res := r.decoder.Decode(ctx, raw)
	out.Decode = res.Stage
	out.Diagnostic = res.Diagnostic

	var value T
	if res.OK() {
		value, err = convert(res.Value)
		if err != nil {
			out.Reason = err.Error()
		}
	} else {
		err = errors.New("no JSON found in generator output")
		out.Reason = err.Error()
	}

	if err != nil {
		value = placeholder()
		out.Placeholder = true
		r.observer.Counter(observability.MetricPlaceholders).Add(ctx, 1,
			observability.String(observability.AttrStageName, stage),
		)
		r.observer.Warn(ctx, "using placeholder content",
			observability.String(observability.AttrStageName, stage),
			observability.String(observability.AttrDecodeStage, res.Stage.String()),
			observability.Error(err),
		)
	}

	span.SetAttributes(
		observability.String(observability.AttrDecodeStage, res.Stage.String()),
		observability.Bool(observability.AttrPlaceholder, out.Placeholder),
	)
	span.SetStatus(observability.StatusOK, "")
	r.observer.Info(ctx, "stage finished",
		observability.String(observability.AttrStageName, stage),
		observability.String(observability.AttrRunID, out.RunID),
		observability.String(observability.AttrDecodeStage, res.Stage.String()),
		observability.Bool(observability.AttrPlaceholder, out.Placeholder),
	)
	return value, out, nil
}

// generate calls the generator, retrying failures other than a missing
// command or a cancelled context.
func (r *Runner) generate(ctx context.Context, prompt string) (string, int, error) {
	attempts := 0
	out, err := retry.DoWithData(
		func() (string, error) {
			attempts++
			return r.gen.Generate(ctx, prompt)
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			r.observer.Warn(ctx, "generator attempt failed",
				observability.Int(observability.AttrGeneratorAttempt, int(n)+1),
				observability.String(observability.AttrGeneratorName, r.gen.Name()),
				observability.Error(err),
			)
		}),
	)
	return out, attempts, err
}

func retryable(err error) bool {
	return !errors.Is(err, generator.ErrCommandNotFound) &&
		!errors.Is(err, context.Canceled)
}
