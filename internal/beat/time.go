package beat

import "errors"

var ErrTempoNotPositive = errors.New("tempo bpm must be positive")

// TimeSignature is display-only; it never changes timing.
type TimeSignature struct {
	Beats uint8
	Unit  uint8
}

var FourFour = TimeSignature{Beats: 4, Unit: 4}

// Tempo is a bpm plus the signature shown alongside it.
type Tempo struct {
	BPM       float64
	Signature TimeSignature
}

func NewTempo(bpm float64, sig TimeSignature) (Tempo, error) {
	t := Tempo{BPM: bpm, Signature: sig}
	return t, t.Validate()
}

func (t Tempo) Validate() error {
	if !(t.BPM > 0) {
		return ErrTempoNotPositive
	}
	return nil
}

// TempoChange makes Tempo effective from At onwards.
type TempoChange struct {
	At    Beat
	Tempo Tempo
}

// Seconds converts a beat count to elapsed seconds at bpm.
func Seconds(b Beat, bpm float64) float64 {
	return b.Float64() / (bpm / 60.0)
}

// SecondsToSamples truncates toward zero.
func SecondsToSamples(seconds float64, sampleRate int) int {
	return int(seconds * float64(sampleRate))
}

// SampleIndex is the only path from a beat offset to a sample index. Every
// caller goes through it so that a window ending at beat X and a window
// starting at beat X agree on the boundary index.
func SampleIndex(b Beat, bpm float64, sampleRate int) int {
	return SecondsToSamples(Seconds(b, bpm), sampleRate)
}
