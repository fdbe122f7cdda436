// Package buildlog records the append-only, phase-tagged event history of one build.
//
// A Log is owned by exactly one build. Entries keep creation order, which is
// the order used by the text rendering, the artifact manifest, and the
// persisted log records.
package buildlog

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/clock"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
)

// Sink receives every entry as it is appended, together with its zero-based sequence number.
type Sink func(seq int, entry domain.LogEntry)

// Log is an append-only build event record. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []domain.LogEntry
	clock   clock.Clock
	logger  zerolog.Logger
	sinks   []Sink
}

// Option configures a Log.
type Option func(*Log)

// WithClock sets the clock used to timestamp entries.
func WithClock(c clock.Clock) Option {
	return func(l *Log) {
		l.clock = c
	}
}

// WithLogger mirrors every appended entry to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Log) {
		l.logger = logger
	}
}

// WithSink registers a sink that observes every appended entry.
func WithSink(s Sink) Option {
	return func(l *Log) {
		l.sinks = append(l.sinks, s)
	}
}

// New creates an empty Log.
func New(opts ...Option) *Log {
	l := &Log{
		clock:  clock.RealClock{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records an entry and returns it. detail may be nil.
func (l *Log) Append(phase constants.Phase, severity constants.Severity, message string, detail map[string]any) domain.LogEntry {
	entry := domain.LogEntry{
		Phase:    phase,
		Severity: severity,
		Message:  message,
		Detail:   maps.Clone(detail),
	}

	l.mu.Lock()
	entry.Timestamp = l.clock.Now()
	seq := len(l.entries)
	l.entries = append(l.entries, entry)
	sinks := l.sinks
	l.mu.Unlock()

	l.mirror(entry)
	for _, s := range sinks {
		s(seq, entry)
	}
	return entry
}

// Success records a success entry.
func (l *Log) Success(phase constants.Phase, message string, detail map[string]any) domain.LogEntry {
	return l.Append(phase, constants.SeveritySuccess, message, detail)
}

// Warning records a warning entry.
func (l *Log) Warning(phase constants.Phase, message string, detail map[string]any) domain.LogEntry {
	return l.Append(phase, constants.SeverityWarning, message, detail)
}

// Error records an error entry.
func (l *Log) Error(phase constants.Phase, message string, detail map[string]any) domain.LogEntry {
	return l.Append(phase, constants.SeverityError, message, detail)
}

// Entries returns a snapshot of every entry in creation order.
func (l *Log) Entries() []domain.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.LogEntry, len(l.entries))
	for i, e := range l.entries {
		e.Detail = maps.Clone(e.Detail)
		out[i] = e
	}
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Worst returns the most severe severity recorded for phase, or success when
// the phase has no entries.
func (l *Log) Worst(phase constants.Phase) constants.Severity {
	l.mu.Lock()
	defer l.mu.Unlock()

	worst := constants.SeveritySuccess
	for _, e := range l.entries {
		if e.Phase == phase && e.Severity.Rank() > worst.Rank() {
			worst = e.Severity
		}
	}
	return worst
}

// Counts returns the number of entries per severity.
func (l *Log) Counts() map[constants.Severity]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := map[constants.Severity]int{}
	for _, e := range l.entries {
		counts[e.Severity]++
	}
	return counts
}

// Render returns the history as text, one line per entry:
//
//	2025-12-27T10:00:00Z [install] ERROR install command failed exit_code=1
func (l *Log) Render() string {
	return Render(l.Entries())
}

// Render formats entries as text in the order given.
func Render(entries []domain.LogEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(FormatEntry(e))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatEntry formats a single entry. Detail keys are sorted.
func FormatEntry(e domain.LogEntry) string {
	line := fmt.Sprintf("%s [%s] %s %s",
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Phase,
		strings.ToUpper(e.Severity.String()),
		e.Message,
	)
	if len(e.Detail) == 0 {
		return line
	}
	keys := make([]string, 0, len(e.Detail))
	for k := range e.Detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%v", k, e.Detail[k])
	}
	return line
}

func (l *Log) mirror(e domain.LogEntry) {
	level := zerolog.InfoLevel
	switch e.Severity {
	case constants.SeverityWarning:
		level = zerolog.WarnLevel
	case constants.SeverityError:
		level = zerolog.ErrorLevel
	case constants.SeveritySuccess:
	}
	l.logger.WithLevel(level).
		Str("phase", e.Phase.String()).
		Str("severity", e.Severity.String()).
		Fields(e.Detail).
		Msg(e.Message)
}
