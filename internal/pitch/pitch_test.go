package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreq(t *testing.T) {
	for _, tc := range []struct {
		p    Pitch
		want float64
	}{
		{New(A, 4), 440},
		{New(A, 5), 880},
		{New(A, 3), 220},
		{New(C, 4), 261.6256},
		{New(BFlat, 4), 466.1638},
		{New(AFlat, 4), 415.3047},
		{New(F, 3), 174.6141},
	} {
		t.Run(tc.p.String(), func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.p.Freq(), 1e-3)
		})
	}
}

func TestSemitonesFromA4(t *testing.T) {
	assert.Equal(t, 0, New(A, 4).SemitonesFromA4())
	assert.Equal(t, -9, New(C, 4).SemitonesFromA4())
	assert.Equal(t, 3, New(C, 5).SemitonesFromA4())
	assert.Equal(t, -58, New(B, -1).SemitonesFromA4())
}

func TestMIDIRoundTrip(t *testing.T) {
	assert.Equal(t, 69, New(A, 4).MIDI())
	assert.Equal(t, 60, New(C, 4).MIDI())
	for key := 0; key < 128; key++ {
		assert.Equal(t, key, FromMIDI(key).MIDI())
	}
	assert.Equal(t, New(B, -2), FromMIDI(-1))
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Pitch{
		"A4":  New(A, 4),
		"Bb3": New(BFlat, 3),
		"c#5": New(DFlat, 5),
		"Cb4": New(B, 3),
		"E-1": New(E, -1),
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "H4", "A", "Ax"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidPitch, bad)
	}
}
