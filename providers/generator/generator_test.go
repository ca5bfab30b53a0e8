package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/scenario/providers/observability"
	"github.com/leofalp/scenario/providers/observability/observabilitytest"
)

func echo(id string) Func {
	return Func{ID: id, Fn: func(_ context.Context, prompt string) (string, error) {
		return prompt, nil
	}}
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(label string) Middleware {
		return func(next Generator) Generator {
			return Func{ID: next.Name(), Fn: func(ctx context.Context, prompt string) (string, error) {
				calls = append(calls, label)
				return next.Generate(ctx, prompt+label)
			}}
		}
	}

	g := Chain(echo("base"), tag("a"), tag("b"))
	out, err := g.Generate(context.Background(), ">")
	if err != nil {
		t.Fatal(err)
	}
	if out != ">ab" {
		t.Errorf("output = %q, want >ab", out)
	}
	if strings.Join(calls, "") != "ab" {
		t.Errorf("call order = %v", calls)
	}
	if g.Name() != "base" {
		t.Errorf("Name() = %q", g.Name())
	}
}

func TestWithTimeout(t *testing.T) {
	slow := Func{ID: "slow", Fn: func(ctx context.Context, _ string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "late", nil
		}
	}}

	_, err := Chain(slow, WithTimeout(10*time.Millisecond)).Generate(context.Background(), "p")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}

	if g := WithTimeout(0)(slow); g.Name() != "slow" {
		t.Errorf("zero timeout should return the generator unchanged")
	}
}

func TestWithObserver(t *testing.T) {
	rec := observabilitytest.New()

	out, err := Chain(echo("fake"), WithObserver(rec)).Generate(context.Background(), "hello")
	if err != nil || out != "hello" {
		t.Fatalf("Generate() = %q, %v", out, err)
	}

	boom := errors.New("boom")
	failing := Func{ID: "fake", Fn: func(context.Context, string) (string, error) { return "", boom }}
	if _, err := Chain(failing, WithObserver(rec)).Generate(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	spans := rec.Spans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Name != observability.SpanGenerate || spans[0].Status != observability.StatusOK || !spans[0].Ended {
		t.Errorf("first span = %+v", spans[0])
	}
	if spans[1].Status != observability.StatusError || len(spans[1].Errors) != 1 {
		t.Errorf("second span = %+v", spans[1])
	}
	if got := len(rec.Samples(observability.MetricGeneratorDuration)); got != 2 {
		t.Errorf("duration samples = %d, want 2", got)
	}
	if got := rec.CounterValue(observability.MetricGeneratorFailures); got != 1 {
		t.Errorf("failures = %d, want 1", got)
	}
	if warns := rec.EntriesAt("warn"); len(warns) != 1 || warns[0].Msg != "generator call failed" {
		t.Errorf("warn entries = %+v", warns)
	}
}

func TestWithObserver_ContextCarriesObserver(t *testing.T) {
	rec := observabilitytest.New()
	var seen observability.Provider
	probe := Func{ID: "probe", Fn: func(ctx context.Context, _ string) (string, error) {
		seen = observability.ObserverFromContext(ctx)
		return "ok", nil
	}}

	if _, err := Chain(probe, WithObserver(rec)).Generate(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if seen != rec {
		t.Errorf("observer on context = %v, want recorder", seen)
	}
}
