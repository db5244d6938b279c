package mesh

import (
	"context"
	"fmt"
	"sync"
)

// Result is the outcome of one load request.
type Result struct {
	Gen    uint64
	Name   string
	Buffer *Buffer
	Err    error
}

// Loader runs mesh loads in the background. Only the most recent request
// can complete: a new Request cancels the one in flight and results from
// superseded requests are discarded.
type Loader struct {
	maxBytes int64

	mu       sync.Mutex
	gen      uint64
	inflight bool
	cancel   context.CancelFunc
	done     *Result

	ready chan struct{}
}

// NewLoader returns a Loader that rejects meshes larger than maxBytes. A
// maxBytes of zero means no limit.
func NewLoader(maxBytes int64) *Loader {
	return &Loader{
		maxBytes: maxBytes,
		ready:    make(chan struct{}, 1),
	}
}

// Request starts loading src and returns its generation.
//
// An unsupported extension is refused before anything is opened, and does
// not disturb a load already in flight.
func (l *Loader) Request(ctx context.Context, src Source) (uint64, error) {
	if DetectTopology(src.Name) == TopologyUnknown {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Name)
	}

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.inflight = true
	l.done = nil
	l.mu.Unlock()

	go l.run(ctx, cancel, gen, src)
	return gen, nil
}

func (l *Loader) run(ctx context.Context, cancel context.CancelFunc, gen uint64, src Source) {
	defer cancel()
	buf, err := Load(ctx, src, l.maxBytes)

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.done = &Result{Gen: gen, Name: src.Name, Buffer: buf, Err: err}
	l.inflight = false
	l.cancel = nil
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// Poll returns the result of the latest request once it has finished. Each
// result is returned once.
func (l *Loader) Poll() (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done == nil || l.done.Gen != l.gen {
		return Result{}, false
	}
	r := *l.done
	l.done = nil
	return r, true
}

// Wait blocks until Poll would return a result or ctx is done.
func (l *Loader) Wait(ctx context.Context) (Result, error) {
	for {
		if r, ok := l.Poll(); ok {
			return r, nil
		}
		select {
		case <-l.ready:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
}

// Pending reports whether a request is still in flight.
func (l *Loader) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight
}

// Close cancels the request in flight, if any.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	l.inflight = false
	l.done = nil
}
