package parse

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/scenario/providers/observability"
	"github.com/leofalp/scenario/providers/observability/slogobs"
)

// Stage reports how a decoded value was obtained.
type Stage int

const (
	// StageAbsent means no structured value could be produced.
	StageAbsent Stage = iota
	// StageParsed means the normalized candidate parsed as a JSON object.
	StageParsed
	// StageRepaired means the value parsed only after generic JSON repair.
	StageRepaired
	// StageRecovered means story entries were salvaged by pattern matching.
	StageRecovered
)

func (s Stage) String() string {
	switch s {
	case StageParsed:
		return "parsed"
	case StageRepaired:
		return "repaired"
	case StageRecovered:
		return "recovered"
	default:
		return "absent"
	}
}

// Result is the outcome of one decode.
type Result struct {
	Value     map[string]any
	Stage     Stage
	Candidate Candidate
	// Diagnostic is set whenever the normalized candidate failed to parse.
	Diagnostic *Diagnostic
}

// OK reports whether a value was produced.
func (r Result) OK() bool {
	return r.Value != nil
}

// Degraded reports whether the value came from repair or recovery rather
// than a clean parse.
func (r Result) Degraded() bool {
	return r.Stage == StageRepaired || r.Stage == StageRecovered
}

var errNotObject = errors.New("top-level JSON value is not an object")

// Decoder decodes model output into a JSON object. A Decoder is immutable
// once built and safe for concurrent use.
type Decoder struct {
	observer observability.Provider
	repair   bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithObserver sends decode events to p instead of the observer found in the
// context or the default slog logger.
func WithObserver(p observability.Provider) Option {
	return func(d *Decoder) {
		d.observer = p
	}
}

// WithRepair enables the generic JSON repair stage between parsing and
// pattern recovery.
func WithRepair(enabled bool) Option {
	return func(d *Decoder) {
		d.repair = enabled
	}
}

// New returns a Decoder configured by opts.
func New(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode is the zero-configuration entry point. It never fails loudly: false
// is the only signal that nothing usable was found.
func Decode(text string) (map[string]any, bool) {
	r := New().Decode(context.Background(), text)
	return r.Value, r.OK()
}

// Decode runs extraction, normalization, parsing and staged recovery on text.
func (d *Decoder) Decode(ctx context.Context, text string) Result {
	obs := d.observerFor(ctx)

	candidate, kind, ok := ExtractCandidate(text)
	if !ok {
		obs.Debug(ctx, "no JSON candidate found",
			observability.Int(observability.AttrDecodeInputLength, len(text)))
		return d.finish(ctx, obs, Result{Stage: StageAbsent})
	}

	normalized := Normalize(candidate)
	value, err := parseObject(normalized)
	if err == nil {
		return d.finish(ctx, obs, Result{Value: value, Stage: StageParsed, Candidate: kind})
	}

	diag := newDiagnostic(normalized, err)
	obs.Warn(ctx, "JSON parse failed",
		observability.Error(err),
		observability.String(observability.AttrDecodeCandidate, string(kind)),
		observability.Int(observability.AttrDecodeLine, diag.Line),
		observability.Int(observability.AttrDecodeColumn, diag.Column),
		observability.String(observability.AttrDecodeContext, diag.ContextBlock()),
	)

	if d.repair {
		if value, ok := repairObject(normalized); ok {
			obs.Info(ctx, "JSON repaired",
				observability.String(observability.AttrDecodeCandidate, string(kind)))
			return d.finish(ctx, obs, Result{Value: value, Stage: StageRepaired, Candidate: kind, Diagnostic: diag})
		}
	}

	if stories := RecoverStories(normalized); len(stories) > 0 {
		obs.Info(ctx, "recovered stories from malformed JSON",
			observability.Int(observability.AttrDecodeRecovered, len(stories)))
		return d.finish(ctx, obs, Result{
			Value:      map[string]any{"stories": stories},
			Stage:      StageRecovered,
			Candidate:  kind,
			Diagnostic: diag,
		})
	}

	obs.Warn(ctx, "JSON recovery failed",
		observability.String(observability.AttrDecodeCandidate, string(kind)))
	return d.finish(ctx, obs, Result{Stage: StageAbsent, Candidate: kind, Diagnostic: diag})
}

func (d *Decoder) finish(ctx context.Context, obs observability.Provider, r Result) Result {
	obs.Counter(observability.MetricDecodeResults).Add(ctx, 1,
		observability.String(observability.AttrDecodeStage, r.Stage.String()))
	return r
}

func (d *Decoder) observerFor(ctx context.Context) observability.Provider {
	if d.observer != nil {
		return d.observer
	}
	if p := observability.ObserverFromContext(ctx); p != nil {
		return p
	}
	return defaultObserver()
}

// defaultObserver is built on first use so the environment is read once.
var defaultObserver = sync.OnceValue(func() observability.Provider {
	return slogobs.New(slogobs.WithLogger(slog.Default()))
})

func parseObject(text string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}

func repairObject(text string) (map[string]any, bool) {
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, false
	}
	obj, err := parseObject(repaired)
	if err != nil {
		return nil, false
	}
	return obj, true
}
