package beatmix

import (
	"fmt"
	"io"
	"os"

	"github.com/cbegin/beatmix/internal/midifile"
)

// InstrumentFunc picks the oscillator for the index-th part of an imported
// file.
type InstrumentFunc func(index int, name string) Oscillator

// WriteMIDI exports the score as a Standard MIDI File. Instruments and
// levels are not represented.
func (s *Score) WriteMIDI(w io.Writer) error {
	song := midifile.Song{Tempos: s.Tempos()}
	for _, t := range s.tracks {
		song.Parts = append(song.Parts, midifile.Part{Name: t.Name(), Notes: t.Notes()})
	}
	return midifile.Write(w, song)
}

// ReadMIDI imports a Standard MIDI File. A nil instrument plays every part
// on a sine.
func ReadMIDI(r io.Reader, instrument InstrumentFunc) (*Score, error) {
	song, err := midifile.Read(r)
	if err != nil {
		return nil, err
	}
	if instrument == nil {
		instrument = func(int, string) Oscillator { return NewSine() }
	}
	s, err := NewScore(song.Tempos[0].Tempo)
	if err != nil {
		return nil, err
	}
	for _, tc := range song.Tempos[1:] {
		if err := s.SetTempo(tc.At, tc.Tempo); err != nil {
			return nil, err
		}
	}
	for i, part := range song.Parts {
		t, err := s.AddNamedTrack(part.Name, instrument(i, part.Name))
		if err != nil {
			return nil, fmt.Errorf("part %q: %w", part.Name, err)
		}
		for _, n := range part.Notes {
			if err := t.AddNote(n); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func ReadMIDIFile(path string, instrument InstrumentFunc) (*Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMIDI(f, instrument)
}

func (s *Score) WriteMIDIFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return s.WriteMIDI(f)
}
