// Package midifile converts between scores and Standard MIDI Files.
//
// Beats map to ticks at TicksPerBeat, so any beat whose denominator divides
// 960 survives a round trip exactly. Chords are written as three keys that
// start and stop together and are folded back into chords on read.
package midifile

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cbegin/beatmix/internal/beat"
	"github.com/cbegin/beatmix/internal/track"
)

const (
	TicksPerBeat = 960
	velocity     = 100
	defaultBPM   = 120
)

var (
	ErrNoTempo           = errors.New("midifile: song has no tempo")
	ErrKeyRange          = errors.New("midifile: pitch outside the MIDI key range")
	ErrTimeFormat        = errors.New("midifile: only metric time formats are supported")
	ErrTooManyParts      = errors.New("midifile: more parts than MIDI channels")
	errNegativeTickDelta = errors.New("midifile: events out of order")
)

// Part is one track of notes.
type Part struct {
	Name  string
	Notes []track.Note
}

// Song is the tempo map plus the parts played against it.
type Song struct {
	Tempos []beat.TempoChange
	Parts  []Part
}

// ToTicks rounds b to the nearest tick.
func ToTicks(b beat.Beat) int64 {
	num, den := b.Num()*TicksPerBeat, b.Den()
	if num < 0 {
		return -((-num*2 + den) / (2 * den))
	}
	return (num*2 + den) / (2 * den)
}

func fromTicks(ticks, resolution int64) beat.Beat {
	return beat.MustNew(ticks, resolution)
}

// channel skips channel 10 (index 9), which General MIDI reserves for drums.
func channel(part int) (uint8, error) {
	if part >= 15 {
		return 0, ErrTooManyParts
	}
	if part >= 9 {
		part++
	}
	return uint8(part), nil
}

type event struct {
	tick int64
	off  bool
	key  uint8
}

func partEvents(p Part) ([]event, error) {
	var evs []event
	for _, n := range p.Notes {
		start, end := ToTicks(n.Start), ToTicks(n.End())
		for _, pt := range n.Content.Pitches() {
			key := pt.MIDI()
			if key < 0 || key > 127 {
				return nil, fmt.Errorf("%w: %v", ErrKeyRange, pt)
			}
			evs = append(evs, event{tick: start, key: uint8(key)}, event{tick: end, off: true, key: uint8(key)})
		}
	}
	// Note offs sort first so back to back notes on one key stay distinct.
	slices.SortStableFunc(evs, func(a, b event) int {
		if c := cmp.Compare(a.tick, b.tick); c != 0 {
			return c
		}
		switch {
		case a.off && !b.off:
			return -1
		case !a.off && b.off:
			return 1
		}
		return 0
	})
	return evs, nil
}

// Write encodes song as a format 1 SMF: a conductor track carrying tempo and
// meter, then one track per part on its own channel.
func Write(w io.Writer, song Song) error {
	if len(song.Tempos) == 0 {
		return ErrNoTempo
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerBeat)

	var conductor smf.Track
	var last int64
	var sig beat.TimeSignature
	for i, tc := range song.Tempos {
		at := ToTicks(tc.At)
		delta := uint32(at - last)
		if i == 0 || tc.Tempo.Signature != sig {
			sig = tc.Tempo.Signature
			conductor.Add(delta, smf.MetaMeter(sig.Beats, sig.Unit))
			delta = 0
		}
		conductor.Add(delta, smf.MetaTempo(tc.Tempo.BPM))
		last = at
	}
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return fmt.Errorf("midifile: adding conductor track: %w", err)
	}

	for i, p := range song.Parts {
		ch, err := channel(i)
		if err != nil {
			return err
		}
		evs, err := partEvents(p)
		if err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
		var tr smf.Track
		if p.Name != "" {
			tr.Add(0, smf.MetaTrackSequenceName(p.Name))
		}
		var last int64
		for _, ev := range evs {
			if ev.tick < last {
				return errNegativeTickDelta
			}
			delta := uint32(ev.tick - last)
			if ev.off {
				tr.Add(delta, midi.NoteOff(ch, ev.key))
			} else {
				tr.Add(delta, midi.NoteOn(ch, ev.key, velocity))
			}
			last = ev.tick
		}
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return fmt.Errorf("midifile: adding track %d: %w", i, err)
		}
	}
	_, err := s.WriteTo(w)
	return err
}
