// Package logger writes prefixed log lines to the host logger and, when one
// is attached, to an on-screen sink.
package logger

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Raysphere24/HenonViewer4D/hal"
)

// MaxLineBytes bounds a single line. Longer lines are truncated.
const MaxLineBytes = 256

// Sink receives a copy of every line.
type Sink interface {
	WriteLineString(s string)
}

type sinkRef struct {
	mu   sync.Mutex
	sink Sink
}

// Logger is best-effort: a nil Logger or a nil host logger drops lines.
type Logger struct {
	out    hal.Logger
	prefix string
	ref    *sinkRef
}

func New(out hal.Logger, prefix string) *Logger {
	return &Logger{out: out, prefix: joinPrefix("", prefix), ref: &sinkRef{}}
}

// With returns a child logger that adds prefix and shares the parent's sink.
func (l *Logger) With(prefix string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{out: l.out, prefix: joinPrefix(l.prefix, prefix), ref: l.ref}
}

// SetSink attaches s to l and every logger derived from it. A nil s detaches.
func (l *Logger) SetSink(s Sink) {
	if l == nil {
		return
	}
	l.ref.mu.Lock()
	l.ref.sink = s
	l.ref.mu.Unlock()
}

func (l *Logger) Log(line string) {
	if l == nil {
		return
	}
	line = l.prefix + strings.TrimRight(line, "\r\n")
	line = truncate(line, MaxLineBytes)
	if l.out != nil {
		l.out.WriteLineString(line)
	}
	l.ref.mu.Lock()
	s := l.ref.sink
	l.ref.mu.Unlock()
	if s != nil {
		s.WriteLineString(line)
	}
}

func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.Log(fmt.Sprintf(format, args...))
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func joinPrefix(parent, p string) string {
	p = strings.TrimSuffix(strings.TrimSpace(p), ":")
	if p == "" {
		return parent
	}
	return parent + p + ": "
}
