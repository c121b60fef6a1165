// Package track holds one instrument's ordered, non-overlapping notes and
// renders them into a segment mixer.
package track

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/cbegin/beatmix/internal/beat"
	"github.com/cbegin/beatmix/internal/mixer"
	"github.com/cbegin/beatmix/internal/osc"
)

var ErrNoInstrument = errors.New("track has no instrument")

type Track struct {
	id         uuid.UUID
	name       string
	instrument osc.Oscillator
	level      float64
	envelope   Envelope
	notes      []Note // ascending by Key, non-overlapping
}

// New creates an empty track that owns instrument.
func New(name string, instrument osc.Oscillator) *Track {
	return &Track{
		id:         uuid.New(),
		name:       name,
		instrument: instrument,
		level:      1,
		envelope:   DefaultEnvelope(),
	}
}

func (t *Track) ID() uuid.UUID              { return t.id }
func (t *Track) Instrument() osc.Oscillator { return t.instrument }
func (t *Track) Level() float64             { return t.level }
func (t *Track) SetLevel(level float64)     { t.level = level }
func (t *Track) Envelope() Envelope         { return t.envelope }
func (t *Track) SetEnvelope(e Envelope)     { t.envelope = e }
func (t *Track) Len() int                   { return len(t.notes) }
func (t *Track) Notes() []Note              { return slices.Clone(t.notes) }

// Name falls back to the short form of the ID.
func (t *Track) Name() string {
	if t.name != "" {
		return t.name
	}
	return t.id.String()[:8]
}

// End returns the end beat of the last note.
func (t *Track) End() (beat.Beat, bool) {
	if len(t.notes) == 0 {
		return beat.Zero, false
	}
	return t.notes[len(t.notes)-1].End(), true
}

// AddNote inserts n in start order. It fails without modifying the track if n
// shares a start with an existing note or overlaps a neighbour; notes that
// touch end to start are fine.
func (t *Track) AddNote(n Note) error {
	if n.Length.Sign() <= 0 {
		return fmt.Errorf("%w: %v", ErrNonPositiveLength, n)
	}
	i, found := slices.BinarySearchFunc(t.notes, n.Key(), func(e Note, k Key) int {
		return e.Key().Cmp(k)
	})
	if found {
		return t.collision(t.notes[i], n)
	}
	if i > 0 {
		if prev := t.notes[i-1]; n.Start.Less(prev.End()) {
			return t.collision(prev, n)
		}
	}
	if i < len(t.notes) {
		if next := t.notes[i]; next.Start.Less(n.End()) {
			return t.collision(next, n)
		}
	}
	t.notes = slices.Insert(t.notes, i, n)
	return nil
}

func (t *Track) collision(existing, rejected Note) error {
	return &CollisionError{Track: t.Name(), Existing: existing, Rejected: rejected}
}

// NotesInWindow yields, in order, the notes starting in [start, cutoff). The
// search runs each time the sequence is ranged over.
func (t *Track) NotesInWindow(start, cutoff beat.Beat) iter.Seq[Note] {
	return func(yield func(Note) bool) {
		i, _ := slices.BinarySearchFunc(t.notes, start, func(e Note, b beat.Beat) int {
			return e.Start.Cmp(b)
		})
		for _, n := range t.notes[i:] {
			if !n.Start.Less(cutoff) {
				return
			}
			if !yield(n) {
				return
			}
		}
	}
}

// Reset clears the instrument's phase state. The orchestrator calls it once
// per tempo segment before Render.
func (t *Track) Reset() {
	if t.instrument != nil {
		t.instrument.Reset()
	}
}

// Render mixes every note starting inside the mixer's segment.
func (t *Track) Render(m *mixer.Mixer) error {
	props := m.Props()
	for n := range t.NotesInWindow(props.Start, props.Cutoff) {
		if t.instrument == nil {
			return fmt.Errorf("%w: %s", ErrNoInstrument, t.Name())
		}
		if err := t.renderNote(n, m.SamplesForBeats(n.Start, n.Length, t.level)); err != nil {
			return fmt.Errorf("track %s: %w", t.Name(), err)
		}
	}
	return nil
}

func (t *Track) renderNote(n Note, w mixer.Window) error {
	dt := 1.0 / float64(w.SampleRate())
	total := w.Total()
	switch n.Content.kind {
	case KindSingle:
		if len(n.Content.pitches) != 1 {
			return fmt.Errorf("%w: single note %v", ErrUnsupportedChordArity, n)
		}
		freq := n.Content.pitches[0].Freq()
		for i := 0; i < total; i++ {
			raw := t.instrument.Sample(0, dt, freq)
			w.Mix(i, raw*t.envelope.Gain(i, total))
		}
	case KindChord:
		if len(n.Content.pitches) != ChordSize {
			return fmt.Errorf("%w: %d pitches in %v", ErrUnsupportedChordArity, len(n.Content.pitches), n)
		}
		var freq [ChordSize]float64
		for v, p := range n.Content.pitches {
			freq[v] = p.Freq()
		}
		for i := 0; i < total; i++ {
			var sum float64
			for v := range freq {
				sum += t.instrument.Sample(v, dt, freq[v]) / ChordSize
			}
			w.Mix(i, sum*t.envelope.Gain(i, total))
		}
	default:
		return fmt.Errorf("%w: content kind %d", ErrUnsupportedChordArity, n.Content.kind)
	}
	return nil
}
