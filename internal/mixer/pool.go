package mixer

// Pool hands out one reusable sample buffer. A buffer taken from the pool is
// valid until the next Take; the orchestrator renders segments one at a time,
// so there is never more than one live segment buffer.
type Pool struct {
	buf    []Sample
	allocs int
}

// Take returns a zeroed buffer of length n, reusing the previous storage when
// it is large enough.
func (p *Pool) Take(n int) []Sample {
	if n < 0 {
		n = 0
	}
	if cap(p.buf) < n {
		p.buf = make([]Sample, n)
		p.allocs++
		return p.buf
	}
	p.buf = p.buf[:n]
	clear(p.buf)
	return p.buf
}

// Allocations counts how many times Take had to allocate.
func (p *Pool) Allocations() int { return p.allocs }
