package hal

import (
	"fmt"
	"io/fs"
)

// eventQueue is a bounded event channel fed from the host loop, which must
// never block. A full queue drops the event. Drops are counted and reported
// on the host logger when a burst starts and when the queue accepts events
// again.
type eventQueue[T any] struct {
	name string
	ch   chan T
	log  Logger

	burst   uint64
	dropped uint64
}

func newEventQueue[T any](name string, size int, log Logger) eventQueue[T] {
	return eventQueue[T]{name: name, ch: make(chan T, size), log: log}
}

func (q *eventQueue[T]) emit(ev T) bool {
	select {
	case q.ch <- ev:
		if q.burst > 0 {
			q.logf("hal: %s queue accepting again, %d events dropped", q.name, q.burst)
			q.burst = 0
		}
		return true
	default:
		if q.burst == 0 {
			q.logf("hal: %s queue full (%d), dropping events", q.name, cap(q.ch))
		}
		q.burst++
		q.dropped++
		return false
	}
}

// Dropped returns the number of events dropped so far.
func (q *eventQueue[T]) Dropped() uint64 { return q.dropped }

func (q *eventQueue[T]) logf(format string, args ...any) {
	if q.log != nil {
		q.log.WriteLineString(fmt.Sprintf(format, args...))
	}
}

type hostKeyboard struct {
	eventQueue[KeyEvent]
}

func newHostKeyboard(log Logger) *hostKeyboard {
	return &hostKeyboard{newEventQueue[KeyEvent]("keyboard", 64, log)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

type hostPointer struct {
	eventQueue[PointerEvent]
}

func newHostPointer(log Logger) *hostPointer {
	return &hostPointer{newEventQueue[PointerEvent]("pointer", 256, log)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

type hostDropper struct {
	eventQueue[FileDrop]
}

func newHostDropper(log Logger) *hostDropper {
	return &hostDropper{newEventQueue[FileDrop]("drop", 4, log)}
}

func (d *hostDropper) Drops() <-chan FileDrop { return d.ch }

// firstFile returns the first regular file at the root of fsys.
func firstFile(fsys fs.FS) (string, bool) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() {
			return e.Name(), true
		}
	}
	return "", false
}
