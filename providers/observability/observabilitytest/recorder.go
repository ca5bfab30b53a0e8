// Package observabilitytest provides an in-memory observability.Provider for
// asserting on log events, span lifecycles, and counters in tests.
package observabilitytest

import (
	"context"
	"sync"

	"github.com/leofalp/scenario/providers/observability"
)

// Entry is one recorded log call.
type Entry struct {
	Level string
	Msg   string
	Attrs map[string]any
}

// SpanRecord is one recorded span.
type SpanRecord struct {
	Name   string
	Attrs  map[string]any
	Status observability.StatusCode
	Errors []string
	Events []string
	Ended  bool
}

// Recorder implements observability.Provider and keeps everything in memory.
type Recorder struct {
	mu       sync.Mutex
	entries  []Entry
	spans    []*SpanRecord
	counters map[string]int64
	samples  map[string][]float64
}

var _ observability.Provider = (*Recorder)(nil)

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		counters: make(map[string]int64),
		samples:  make(map[string][]float64),
	}
}

// Entries returns a copy of the recorded log entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// EntriesAt returns the entries logged at level ("trace", "debug", "info", "warn", "error").
func (r *Recorder) EntriesAt(level string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Spans returns the recorded spans in start order.
func (r *Recorder) Spans() []SpanRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SpanRecord, 0, len(r.spans))
	for _, s := range r.spans {
		out = append(out, *s)
	}
	return out
}

// CounterValue returns the accumulated value of the named counter.
func (r *Recorder) CounterValue(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

// Samples returns the values recorded by the named histogram.
func (r *Recorder) Samples(name string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.samples[name]...)
}

func (r *Recorder) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	rec := &SpanRecord{Name: name, Attrs: toMap(attrs)}
	r.mu.Lock()
	r.spans = append(r.spans, rec)
	r.mu.Unlock()
	s := &span{r: r, rec: rec}
	return observability.ContextWithSpan(ctx, s), s
}

func (r *Recorder) Counter(name string) observability.Counter {
	return &counter{r: r, name: name}
}

func (r *Recorder) Histogram(name string) observability.Histogram {
	return &histogram{r: r, name: name}
}

func (r *Recorder) Trace(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("trace", msg, attrs)
}

func (r *Recorder) Debug(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("debug", msg, attrs)
}

func (r *Recorder) Info(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("info", msg, attrs)
}

func (r *Recorder) Warn(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("warn", msg, attrs)
}

func (r *Recorder) Error(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("error", msg, attrs)
}

func (r *Recorder) log(level, msg string, attrs []observability.Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Attrs: toMap(attrs)})
}

func toMap(attrs []observability.Attribute) map[string]any {
	m := make(map[string]any, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

type span struct {
	r   *Recorder
	rec *SpanRecord
}

func (s *span) End() {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.rec.Ended = true
}

func (s *span) SetAttributes(attrs ...observability.Attribute) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	for _, a := range attrs {
		s.rec.Attrs[a.Key] = a.Value
	}
}

func (s *span) SetStatus(code observability.StatusCode, _ string) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.rec.Status = code
}

func (s *span) RecordError(err error) {
	if err == nil {
		return
	}
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.rec.Errors = append(s.rec.Errors, err.Error())
}

func (s *span) AddEvent(name string, _ ...observability.Attribute) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.rec.Events = append(s.rec.Events, name)
}

type counter struct {
	r    *Recorder
	name string
}

func (c *counter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	c.r.counters[c.name] += value
	for _, a := range attrs {
		if s, ok := a.Value.(string); ok {
			c.r.counters[c.name+"{"+a.Key+"="+s+"}"] += value
		}
	}
}

type histogram struct {
	r    *Recorder
	name string
}

func (h *histogram) Record(_ context.Context, value float64, _ ...observability.Attribute) {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	h.r.samples[h.name] = append(h.r.samples[h.name], value)
}
