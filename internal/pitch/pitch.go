// Package pitch names the twelve equal-tempered pitch classes and maps them to
// frequencies referenced to A4 = 440 Hz.
package pitch

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPitch = errors.New("invalid pitch")

type Class int

const (
	C Class = iota
	DFlat
	D
	EFlat
	E
	F
	GFlat
	G
	AFlat
	A
	BFlat
	B
)

var classNames = [...]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// semitones from A in the same octave
var fromA = [...]int{-9, -8, -7, -6, -5, -4, -3, -2, -1, 0, 1, 2}

func (c Class) String() string {
	if c < C || c > B {
		return "Class(" + strconv.Itoa(int(c)) + ")"
	}
	return classNames[c]
}

// Pitch is a pitch class in a signed octave (A4 is concert A).
type Pitch struct {
	Class  Class
	Octave int
}

func New(c Class, octave int) Pitch {
	return Pitch{Class: c, Octave: octave}
}

// SemitonesFromA4 is negative below A4.
func (p Pitch) SemitonesFromA4() int {
	return fromA[p.Class] + (p.Octave-4)*12
}

// Freq returns the equal-tempered frequency in Hz.
func (p Pitch) Freq() float64 {
	return 440 * math.Pow(2, float64(p.SemitonesFromA4())/12.0)
}

// MIDI returns the MIDI key number (A4 = 69).
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + int(p.Class)
}

// FromMIDI is the inverse of MIDI.
func FromMIDI(key int) Pitch {
	octave := key/12 - 1
	class := key % 12
	if class < 0 {
		class += 12
		octave--
	}
	return Pitch{Class: Class(class), Octave: octave}
}

func (p Pitch) String() string {
	return p.Class.String() + strconv.Itoa(p.Octave)
}

// Parse reads names like "A4", "Bb3", "C#5" or "F-1". Sharps are folded onto
// the flat spelling of the same class.
func Parse(s string) (Pitch, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}
	var base Class
	switch s[0] {
	case 'C', 'c':
		base = C
	case 'D', 'd':
		base = D
	case 'E', 'e':
		base = E
	case 'F', 'f':
		base = F
	case 'G', 'g':
		base = G
	case 'A', 'a':
		base = A
	case 'B', 'b':
		base = B
	default:
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}
	rest := s[1:]
	shift := 0
	switch rest[0] {
	case 'b':
		shift = -1
		rest = rest[1:]
	case '#':
		shift = 1
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}
	return FromMIDI(New(base, octave).MIDI() + shift), nil
}
