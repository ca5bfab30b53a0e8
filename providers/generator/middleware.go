package generator

import (
	"context"
	"time"

	"github.com/leofalp/scenario/internal/utils"
	"github.com/leofalp/scenario/providers/observability"
)

// WithTimeout enforces a per-call deadline. A non-positive timeout leaves the
// caller's context untouched. A shorter deadline already on the context wins.
func WithTimeout(timeout time.Duration) Middleware {
	return func(next Generator) Generator {
		if timeout <= 0 {
			return next
		}
		return Func{
			ID: next.Name(),
			Fn: func(ctx context.Context, prompt string) (string, error) {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				return next.Generate(ctx, prompt)
			},
		}
	}
}

// WithObserver records a span, the call latency and failures for every
// Generate call. The observer is also placed on the context so backends can
// log through it.
func WithObserver(observer observability.Provider) Middleware {
	return func(next Generator) Generator {
		if observer == nil {
			return next
		}
		name := next.Name()
		return Func{
			ID: name,
			Fn: func(ctx context.Context, prompt string) (string, error) {
				ctx, span := observer.StartSpan(ctx, observability.SpanGenerate,
					observability.String(observability.AttrGeneratorName, name),
					observability.Int(observability.AttrGeneratorPromptLength, len(prompt)),
				)
				defer span.End()
				ctx = observability.ContextWithObserver(ctx, observer)

				timer := utils.NewTimer()
				out, err := next.Generate(ctx, prompt)
				elapsed := timer.Stop()

				observer.Histogram(observability.MetricGeneratorDuration).Record(ctx, elapsed.Seconds(),
					observability.String(observability.AttrGeneratorName, name),
				)

				if err != nil {
					span.RecordError(err)
					span.SetStatus(observability.StatusError, "generate failed")
					observer.Counter(observability.MetricGeneratorFailures).Add(ctx, 1,
						observability.String(observability.AttrGeneratorName, name),
					)
					observer.Warn(ctx, "generator call failed",
						observability.Error(err),
						observability.String(observability.AttrGeneratorName, name),
						observability.Duration(observability.AttrDuration, elapsed),
					)
					return "", err
				}

				span.SetAttributes(observability.Int(observability.AttrGeneratorOutputLength, len(out)))
				span.SetStatus(observability.StatusOK, "")
				observer.Debug(ctx, "generator call finished",
					observability.String(observability.AttrGeneratorName, name),
					observability.Int(observability.AttrGeneratorOutputLength, len(out)),
					observability.Duration(observability.AttrDuration, elapsed),
				)
				return out, nil
			},
		}
	}
}
