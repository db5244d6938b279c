package hal

import "time"

// hostTime converts wall-clock time between steps into millisecond ticks.
type hostTime struct {
	ch  chan uint64
	seq uint64
	now func() time.Time

	last time.Time
	acc  time.Duration
}

const tickDur = time.Millisecond

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step publishes the ticks elapsed since the previous call. The first call
// publishes n ticks.
func (t *hostTime) step(n uint64) {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.publish(n)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	ticks := uint64(t.acc / tickDur)
	if ticks == 0 {
		return
	}
	t.acc %= tickDur
	t.publish(ticks)
}

// publish advances the sequence by n and sends only the final value; readers
// want the current tick, not every tick.
func (t *hostTime) publish(n uint64) {
	t.seq += n
	select {
	case t.ch <- t.seq:
	default:
	}
}
