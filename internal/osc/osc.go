// Package osc provides the phase-tracking waveform generators instruments are
// built from.
package osc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const twoPi = math.Pi * 2

// MaxVoices is the number of independent phase accumulators per oscillator:
// enough for a three-note chord plus a spare.
const MaxVoices = 4

var ErrUnknownWave = errors.New("unknown waveform")

// Oscillator produces one normalized sample per call for a voice.
type Oscillator interface {
	// Reset zeroes the phase of every voice.
	Reset()
	// Sample advances voice by dt seconds at freq Hz and returns a value in [-1, 1].
	Sample(voice int, dt, freq float64) float64
}

// Wave selects the waveform function of an Osc.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
	WaveSaw
)

var waveNames = map[Wave]string{
	WaveSine:     "sine",
	WaveSquare:   "square",
	WaveTriangle: "triangle",
	WaveSaw:      "saw",
}

func (w Wave) String() string {
	if n, ok := waveNames[w]; ok {
		return n
	}
	return fmt.Sprintf("Wave(%d)", int(w))
}

// ParseWave accepts the names printed by Wave.String.
func ParseWave(name string) (Wave, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for w, n := range waveNames {
		if n == name {
			return w, nil
		}
	}
	if name == "sin" {
		return WaveSine, nil
	}
	return 0, fmt.Errorf("%w %q (expected sine|square|triangle|saw)", ErrUnknownWave, name)
}

// Osc is the built-in Oscillator. The zero value is a sine.
type Osc struct {
	wave  Wave
	phase [MaxVoices]float64 // each in [0, 1]
}

func New(w Wave) *Osc { return &Osc{wave: w} }

func NewSine() *Osc     { return New(WaveSine) }
func NewSquare() *Osc   { return New(WaveSquare) }
func NewTriangle() *Osc { return New(WaveTriangle) }
func NewSaw() *Osc      { return New(WaveSaw) }

// ByName builds an oscillator for a ParseWave name.
func ByName(name string) (*Osc, error) {
	w, err := ParseWave(name)
	if err != nil {
		return nil, err
	}
	return New(w), nil
}

func (o *Osc) Wave() Wave { return o.wave }

func (o *Osc) Reset() {
	for i := range o.phase {
		o.phase[i] = 0
	}
}

// Phase reports the current phase of a voice.
func (o *Osc) Phase(voice int) float64 {
	if voice < 0 || voice >= MaxVoices {
		return 0
	}
	return o.phase[voice]
}

// Sample wraps the phase once per call rather than taking it modulo 1; with
// dt one sample period the phase never runs more than one step past 1.
// Voices outside [0, MaxVoices) are silent.
func (o *Osc) Sample(voice int, dt, freq float64) float64 {
	if voice < 0 || voice >= MaxVoices {
		return 0
	}
	p := o.phase[voice] + dt*freq
	if p > 1.0 {
		p -= 1.0
	}
	o.phase[voice] = p
	return shape(o.wave, p)
}

func shape(w Wave, p float64) float64 {
	switch w {
	case WaveSquare:
		if p < 0.5 {
			return 1.0
		}
		return -1.0
	case WaveTriangle:
		if p < 0.5 {
			return 1.0 - p*4.0
		}
		return -1.0 + (p-0.5)*4.0
	case WaveSaw:
		return 1.0 - 2.0*p
	default:
		return math.Sin(p * twoPi)
	}
}
