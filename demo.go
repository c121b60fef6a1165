package beatmix

import (
	"strconv"
	"strings"
)

// demoMelody is a sequence of pitch:beats steps played back to back.
const demoMelody = `
A4:1 G4:1 F4:1 G4:1 A4:1 A4:1 A4:2
G4:1 G4:1 G4:2 A4:1 C5:1 C5:2
A4:1 G4:1 F4:1 G4:1 A4:1 A4:1 A4:1 A4:1
G4:1 G4:1 A4:1 G4:1 F4:4`

// demoChords are four-beat triads, one per bar.
var demoChords = []string{
	"F3 A3 C4", "F3 A3 C4", "C3 E3 G4", "F3 A3 C4",
	"F3 A3 C4", "F3 A3 C4", "C3 E3 G4", "F3 A3 C4",
}

// DemoScore builds a short 32 beat tune at 120 bpm: a sine melody over a
// triangle pad and a triangle chord track.
func DemoScore() (*Score, error) {
	s, err := NewScore(NewTempo(120))
	if err != nil {
		return nil, err
	}

	melody, err := s.AddNamedTrack("melody", NewSine())
	if err != nil {
		return nil, err
	}
	at := Beats(0)
	for _, step := range strings.Fields(demoMelody) {
		name, length, _ := strings.Cut(step, ":")
		p, err := ParsePitch(name)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(length, 10, 64)
		if err != nil {
			return nil, err
		}
		if err := melody.AddNote(NewNote(Single(p), at, Beats(n))); err != nil {
			return nil, err
		}
		at = at.Add(Beats(n))
	}

	for _, name := range []string{"F3", "A3", "C3"} {
		p, err := ParsePitch(name)
		if err != nil {
			return nil, err
		}
		pad, err := s.AddNamedTrack("pad "+name, NewTriangle())
		if err != nil {
			return nil, err
		}
		if err := pad.AddNote(NewNote(Single(p), Beats(0), Beats(4))); err != nil {
			return nil, err
		}
	}

	chords, err := s.AddNamedTrack("chords", NewTriangle())
	if err != nil {
		return nil, err
	}
	for i, triad := range demoChords {
		var ps []Pitch
		for _, name := range strings.Fields(triad) {
			p, err := ParsePitch(name)
			if err != nil {
				return nil, err
			}
			ps = append(ps, p)
		}
		if err := chords.AddNote(NewNote(Chord(ps...), Beats(int64(i)*4), Beats(4))); err != nil {
			return nil, err
		}
	}
	return s, nil
}
