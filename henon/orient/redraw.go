package orient

// Redraw is a coalescing redraw request flag.
//
// Any number of Request calls between two Take calls yield one redraw.
// Not safe for concurrent use; it lives on the update goroutine.
type Redraw struct {
	pending bool
}

func (r *Redraw) Request() { r.pending = true }

func (r *Redraw) Pending() bool { return r.pending }

// Take reports whether a redraw was requested and clears the request.
func (r *Redraw) Take() bool {
	p := r.pending
	r.pending = false
	return p
}
