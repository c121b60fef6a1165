// Package mixer owns the sample buffer of one tempo segment and accumulates
// instrument output into it.
package mixer

import (
	"github.com/cbegin/beatmix/internal/beat"
)

// Sample is the output sample type: signed 16-bit PCM.
type Sample = int16

// Props describes the segment being rendered.
type Props struct {
	Start beat.Beat
	// Cutoff is exclusive: notes starting on or after it belong to a later segment.
	Cutoff     beat.Beat
	SampleRate int
	BPM        float64
}

// NumSamples is the segment length in samples.
func (p Props) NumSamples() int {
	n := beat.SampleIndex(p.Cutoff.Sub(p.Start), p.BPM, p.SampleRate)
	if n < 0 {
		return 0
	}
	return n
}

// index maps an absolute beat to a sample index relative to the segment start.
func (p Props) index(b beat.Beat) int {
	return beat.SampleIndex(b.Sub(p.Start), p.BPM, p.SampleRate)
}

type Params struct {
	Policy Policy
}

func DefaultParams() Params {
	return Params{Policy: Wrap}
}

type Mixer struct {
	props   Props
	params  Params
	samples []Sample
}

// New sizes a mixer for props, taking its buffer from pool. A nil pool
// allocates a fresh buffer.
func New(pool *Pool, props Props, params Params) *Mixer {
	var samples []Sample
	if pool != nil {
		samples = pool.Take(props.NumSamples())
	} else {
		samples = make([]Sample, props.NumSamples())
	}
	return &Mixer{props: props, params: params, samples: samples}
}

func (m *Mixer) Props() Props { return m.props }

// Samples returns the segment buffer in index order. It aliases pool storage.
func (m *Mixer) Samples() []Sample { return m.samples }

func (m *Mixer) Len() int { return len(m.samples) }

// SamplesForBeats returns the window covering [start, start+length) scaled by
// level. The part of the window past the segment end is dropped on Mix, but
// Total still reports the full span so envelopes keep their shape.
func (m *Mixer) SamplesForBeats(start, length beat.Beat, level float64) Window {
	lo := m.props.index(start)
	hi := m.props.index(start.Add(length))
	total := hi - lo
	if total < 0 {
		total = 0
	}
	w := Window{
		total:      total,
		skip:       0,
		level:      level,
		sampleRate: m.props.SampleRate,
		policy:     m.params.Policy,
	}
	if lo < 0 {
		w.skip = -lo
		lo = 0
	}
	if hi > len(m.samples) {
		hi = len(m.samples)
	}
	if lo < hi {
		w.samples = m.samples[lo:hi]
	}
	return w
}

// Window is a note's view of the segment buffer.
type Window struct {
	samples    []Sample
	total      int
	skip       int // window indices before the segment start
	level      float64
	sampleRate int
	policy     Policy
}

// Total is the number of samples the note spans.
func (w Window) Total() int { return w.total }

// Len is the number of samples that land inside the segment.
func (w Window) Len() int { return len(w.samples) }

func (w Window) SampleRate() int { return w.sampleRate }

func (w Window) Level() float64 { return w.level }

// Mix adds amp (nominally in [-1, 1]) at window index i. It never overwrites:
// tracks overlapping the same samples superimpose.
func (w Window) Mix(i int, amp float64) {
	j := i - w.skip
	if j < 0 || j >= len(w.samples) {
		return
	}
	w.samples[j] = Accumulate(w.policy, w.samples[j], Scale[Sample](amp*w.level))
}
