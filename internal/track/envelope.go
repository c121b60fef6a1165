package track

// Envelope is a linear decay from 1 at the note start that never falls below
// Floor.
type Envelope struct {
	Floor float64
}

func DefaultEnvelope() Envelope {
	return Envelope{Floor: 0.5}
}

// Gain is the multiplier for sample i of total.
func (e Envelope) Gain(i, total int) float64 {
	if total <= 0 {
		return e.Floor
	}
	d := 1.0 - float64(i)/float64(total)
	if d < e.Floor {
		d = e.Floor
	}
	return d
}
