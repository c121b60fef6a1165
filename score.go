package beatmix

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cbegin/beatmix/internal/beat"
	"github.com/cbegin/beatmix/internal/mixer"
	"github.com/cbegin/beatmix/internal/track"
)

var (
	ErrNoInstrument      = track.ErrNoInstrument
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// Score holds an ordered list of tracks and the tempo map they are rendered
// against. The tempo map always starts at beat 0.
type Score struct {
	tracks []*Track
	tempos []TempoChange
	pool   mixer.Pool
}

func NewScore(initial Tempo) (*Score, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &Score{tempos: []TempoChange{{At: beat.Zero, Tempo: initial}}}, nil
}

// AddTrack appends an unnamed track. Tracks render in insertion order.
func (s *Score) AddTrack(instrument Oscillator) (*Track, error) {
	return s.AddNamedTrack("", instrument)
}

func (s *Score) AddNamedTrack(name string, instrument Oscillator) (*Track, error) {
	if instrument == nil {
		return nil, ErrNoInstrument
	}
	t := track.New(name, instrument)
	s.tracks = append(s.tracks, t)
	return t, nil
}

// SetTempo changes the tempo from at onwards. A change at a beat that
// already carries one replaces it.
func (s *Score) SetTempo(at Beat, t Tempo) error {
	if at.Sign() < 0 {
		return beat.ErrNegative
	}
	if err := t.Validate(); err != nil {
		return err
	}
	i, found := slices.BinarySearchFunc(s.tempos, at, func(tc TempoChange, b Beat) int {
		return tc.At.Cmp(b)
	})
	if found {
		s.tempos[i].Tempo = t
		return nil
	}
	s.tempos = slices.Insert(s.tempos, i, TempoChange{At: at, Tempo: t})
	return nil
}

func (s *Score) Tempos() []TempoChange { return slices.Clone(s.tempos) }

func (s *Score) Tracks() []*Track { return slices.Clone(s.tracks) }

// End returns the latest note end across all tracks, false if the score has
// no notes.
func (s *Score) End() (Beat, bool) {
	var end Beat
	found := false
	for _, t := range s.tracks {
		e, ok := t.End()
		if !ok {
			continue
		}
		if !found || end.Less(e) {
			end = e
		}
		found = true
	}
	return end, found
}

// PoolAllocations reports how many segment buffers had to be allocated
// rather than reused.
func (s *Score) PoolAllocations() int { return s.pool.Allocations() }

type segment struct {
	index  int
	start  Beat
	cutoff Beat
	tempo  Tempo
}

// segments lists the tempo segments to render. Each one ends where the next
// tempo change begins, the last one at the latest note end. Tempo changes at
// or past the latest note end produce nothing.
func (s *Score) segments() []segment {
	end, ok := s.End()
	if !ok {
		return nil
	}
	var out []segment
	for i, tc := range s.tempos {
		if !tc.At.Less(end) {
			break
		}
		cutoff := end
		if i+1 < len(s.tempos) {
			cutoff = s.tempos[i+1].At
		}
		out = append(out, segment{index: i, start: tc.At, cutoff: cutoff, tempo: tc.Tempo})
	}
	return out
}

// Duration returns the rendered length in seconds.
func (s *Score) Duration() float64 {
	var sec float64
	for _, seg := range s.segments() {
		sec += beat.Seconds(seg.cutoff.Sub(seg.start), seg.tempo.BPM)
	}
	return sec
}

// Render mixes every tempo segment in order and hands each one to sink.
// Oscillator phase is reset at the start of every segment. Rendering stops
// at the first track or sink error.
func (s *Score) Render(sink Sink, opts ...RenderOption) error {
	cfg := defaultRenderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, cfg.sampleRate)
	}
	if o, ok := sink.(Opener); ok {
		if err := o.Open(Format{SampleRate: cfg.sampleRate, BitDepth: 16, Channels: 1}); err != nil {
			return err
		}
	}
	for _, seg := range s.segments() {
		props := mixer.Props{
			Start:      seg.start,
			Cutoff:     seg.cutoff,
			SampleRate: cfg.sampleRate,
			BPM:        seg.tempo.BPM,
		}
		m := mixer.New(&s.pool, props, cfg.mixer)
		for _, t := range s.tracks {
			t.Reset()
			if err := t.Render(m); err != nil {
				return fmt.Errorf("segment %d: %w", seg.index, err)
			}
		}
		if cfg.onSegment != nil {
			cfg.onSegment(SegmentInfo{
				Index:   seg.index,
				Start:   seg.start,
				Cutoff:  seg.cutoff,
				Tempo:   seg.tempo,
				Samples: m.Len(),
			})
		}
		if err := sink.WriteSamples(m.Samples()); err != nil {
			return &SinkWriteError{Segment: seg.index, Err: err}
		}
	}
	return nil
}
