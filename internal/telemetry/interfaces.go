// Package telemetry defines the logging and metrics seams shared by server
// components, plus a small in-memory counter set for the diagnostics endpoint.
package telemetry

import (
	"log"
	"sort"
	"sync"
)

// Logger exposes the logging capability required by server components.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a standard library logger to the Logger interface.
func WrapLogger(logger *log.Logger) Logger {
	return &loggerAdapter{logger: logger}
}

type loggerAdapter struct {
	logger *log.Logger
}

func (l *loggerAdapter) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf(format, args...)
}

// Metrics exposes the counter methods required by server components.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

// Counters is a concurrency-safe Metrics implementation backed by a map.
type Counters struct {
	mu     sync.Mutex
	values map[string]uint64
}

// NewCounters returns an empty counter set.
func NewCounters() *Counters {
	return &Counters{values: make(map[string]uint64)}
}

func (c *Counters) Add(key string, delta uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.values[key] += delta
	c.mu.Unlock()
}

func (c *Counters) Store(key string, value uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.values[key] = value
	c.mu.Unlock()
}

// Snapshot copies the current counter values.
func (c *Counters) Snapshot() map[string]uint64 {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Keys returns the counter names in sorted order.
func (c *Counters) Keys() []string {
	snapshot := c.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ Metrics = (*Counters)(nil)
