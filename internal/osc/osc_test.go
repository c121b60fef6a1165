package osc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveShapes(t *testing.T) {
	for _, tc := range []struct {
		wave  Wave
		phase float64
		want  float64
	}{
		{WaveSine, 0.25, 1},
		{WaveSine, 0.75, -1},
		{WaveSquare, 0.1, 1},
		{WaveSquare, 0.5, -1},
		{WaveTriangle, 0, 1},
		{WaveTriangle, 0.25, 0},
		{WaveTriangle, 0.5, -1},
		{WaveTriangle, 0.75, 0},
		{WaveSaw, 0, 1},
		{WaveSaw, 0.5, 0},
	} {
		t.Run(tc.wave.String(), func(t *testing.T) {
			assert.InDelta(t, tc.want, shape(tc.wave, tc.phase), 1e-9)
		})
	}
}

func TestSampleAdvancesPhaseBeforeShaping(t *testing.T) {
	o := NewSquare()
	// quarter cycle per call
	assert.Equal(t, 1.0, o.Sample(0, 0.25, 1))
	assert.Equal(t, -1.0, o.Sample(0, 0.25, 1))
	assert.InDelta(t, 0.5, o.Phase(0), 1e-12)
}

func TestPhaseWrapsBySubtraction(t *testing.T) {
	o := NewSine()
	o.Sample(0, 0.7, 1)
	o.Sample(0, 0.7, 1)
	assert.InDelta(t, 0.4, o.Phase(0), 1e-12)
	// exactly 1.0 is not wrapped
	o.Reset()
	o.Sample(0, 0.5, 1)
	o.Sample(0, 0.5, 1)
	assert.Equal(t, 1.0, o.Phase(0))
}

func TestVoicesAreIndependent(t *testing.T) {
	o := NewTriangle()
	for i := 0; i < 10; i++ {
		o.Sample(0, 1.0/44100, 440)
		o.Sample(2, 1.0/44100, 110)
	}
	assert.InDelta(t, 10*440.0/44100, o.Phase(0), 1e-9)
	assert.Equal(t, 0.0, o.Phase(1))
	assert.InDelta(t, 10*110.0/44100, o.Phase(2), 1e-9)
}

func TestResetZeroesAllVoices(t *testing.T) {
	o := NewSaw()
	for v := 0; v < MaxVoices; v++ {
		o.Sample(v, 0.01, 3)
	}
	o.Reset()
	for v := 0; v < MaxVoices; v++ {
		assert.Equal(t, 0.0, o.Phase(v))
	}
}

func TestOutOfRangeVoiceIsSilent(t *testing.T) {
	o := NewSquare()
	assert.Equal(t, 0.0, o.Sample(MaxVoices, 0.1, 1))
	assert.Equal(t, 0.0, o.Sample(-1, 0.1, 1))
}

func TestOutputBounded(t *testing.T) {
	for _, w := range []Wave{WaveSine, WaveSquare, WaveTriangle, WaveSaw} {
		o := New(w)
		for i := 0; i < 10000; i++ {
			v := o.Sample(0, 1.0/48000, 523.25)
			if math.Abs(v) > 1.0+1e-9 {
				t.Fatalf("%v sample %d = %v, out of range", w, i, v)
			}
		}
	}
}

func TestByName(t *testing.T) {
	o, err := ByName(" Triangle ")
	require.NoError(t, err)
	assert.Equal(t, WaveTriangle, o.Wave())
	o, err = ByName("sin")
	require.NoError(t, err)
	assert.Equal(t, WaveSine, o.Wave())
	_, err = ByName("noise")
	assert.ErrorIs(t, err, ErrUnknownWave)
}

func TestZeroValueIsSine(t *testing.T) {
	var o Osc
	assert.InDelta(t, 1.0, o.Sample(0, 0.25, 1), 1e-12)
}
