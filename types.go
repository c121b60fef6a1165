package beatmix

import (
	"github.com/cbegin/beatmix/internal/beat"
	"github.com/cbegin/beatmix/internal/mixer"
	"github.com/cbegin/beatmix/internal/osc"
	"github.com/cbegin/beatmix/internal/pitch"
	"github.com/cbegin/beatmix/internal/track"
)

type (
	Beat          = beat.Beat
	Tempo         = beat.Tempo
	TimeSignature = beat.TimeSignature
	TempoChange   = beat.TempoChange

	Pitch      = pitch.Pitch
	PitchClass = pitch.Class

	Note           = track.Note
	Content        = track.Content
	Track          = track.Track
	Envelope       = track.Envelope
	CollisionError = track.CollisionError

	Oscillator = osc.Oscillator
	Policy     = mixer.Policy
	Sample     = mixer.Sample
)

const (
	Wrap     = mixer.Wrap
	Saturate = mixer.Saturate
)

var (
	ErrNoteCollision         = track.ErrNoteCollision
	ErrUnsupportedChordArity = track.ErrUnsupportedChordArity
	ErrNonPositiveLength     = track.ErrNonPositiveLength
	ErrTempoNotPositive      = beat.ErrTempoNotPositive
)

var FourFour = beat.FourFour

// NewBeat returns num/den beats.
func NewBeat(num, den int64) (Beat, error) { return beat.New(num, den) }

// Beats returns n whole beats.
func Beats(n int64) Beat { return beat.Whole(n) }

// NewTempo returns bpm in 4/4.
func NewTempo(bpm float64) Tempo { return Tempo{BPM: bpm, Signature: beat.FourFour} }

func ParsePitch(s string) (Pitch, error) { return pitch.Parse(s) }

func Single(p Pitch) Content                     { return track.Single(p) }
func Chord(ps ...Pitch) Content                  { return track.Chord(ps...) }
func NewNote(c Content, start, length Beat) Note { return track.NewNote(c, start, length) }

func NewSine() Oscillator     { return osc.NewSine() }
func NewSquare() Oscillator   { return osc.NewSquare() }
func NewTriangle() Oscillator { return osc.NewTriangle() }
func NewSaw() Oscillator      { return osc.NewSaw() }

// InstrumentByName returns a built-in oscillator: sine, square, triangle or saw.
func InstrumentByName(name string) (Oscillator, error) {
	o, err := osc.ByName(name)
	if err != nil {
		return nil, err
	}
	return o, nil
}
