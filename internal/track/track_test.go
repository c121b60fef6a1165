package track

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/cbegin/beatmix/internal/beat"
	"github.com/cbegin/beatmix/internal/mixer"
	"github.com/cbegin/beatmix/internal/osc"
	"github.com/cbegin/beatmix/internal/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	voice int
	dt    float64
	freq  float64
}

// constOsc returns a fixed value per voice and records every call.
type constOsc struct {
	values [osc.MaxVoices]float64
	calls  []call
	resets int
}

func (o *constOsc) Reset() { o.resets++ }
func (o *constOsc) Sample(voice int, dt, freq float64) float64 {
	o.calls = append(o.calls, call{voice, dt, freq})
	return o.values[voice]
}

var a4 = pitch.New(pitch.A, 4)

func note(c Content, start, length beat.Beat) Note { return NewNote(c, start, length) }

func whole(n int64) beat.Beat { return beat.Whole(n) }

func TestAddNoteTouchingNotesDoNotCollide(t *testing.T) {
	tr := New("t", osc.NewSine())
	require.NoError(t, tr.AddNote(note(Single(a4), whole(0), whole(1))))
	require.NoError(t, tr.AddNote(note(Single(a4), whole(1), whole(1))))
	assert.Equal(t, 2, tr.Len())
}

func TestAddNoteCollisions(t *testing.T) {
	for _, tc := range []struct {
		name     string
		incoming Note
		existing Note
	}{
		{"same start", note(Single(pitch.New(pitch.C, 2)), whole(2), beat.MustNew(1, 8)), note(Single(a4), whole(2), whole(1))},
		{"overlaps previous", note(Single(a4), beat.MustNew(5, 2), whole(1)), note(Single(a4), whole(2), whole(1))},
		{"overlaps next", note(Single(a4), beat.MustNew(7, 2), whole(1)), note(Single(a4), whole(4), whole(1))},
		{"covers next", note(Single(a4), beat.MustNew(3, 2), whole(5)), note(Single(a4), whole(2), whole(1))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tr := New("lead", osc.NewSine())
			require.NoError(t, tr.AddNote(note(Single(a4), whole(2), whole(1))))
			require.NoError(t, tr.AddNote(note(Single(a4), whole(4), whole(1))))
			before := tr.Notes()

			err := tr.AddNote(tc.incoming)
			require.ErrorIs(t, err, ErrNoteCollision)
			var ce *CollisionError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.existing, ce.Existing)
			assert.Equal(t, tc.incoming, ce.Rejected)
			assert.Equal(t, "lead", ce.Track)
			assert.Equal(t, before, tr.Notes())
		})
	}
}

func TestAddNoteHalfBeatOverlapRejected(t *testing.T) {
	tr := New("", osc.NewSine())
	require.NoError(t, tr.AddNote(note(Single(a4), whole(0), whole(1))))
	err := tr.AddNote(note(Single(a4), beat.MustNew(1, 2), whole(1)))
	assert.ErrorIs(t, err, ErrNoteCollision)
	assert.Contains(t, err.Error(), tr.ID().String()[:8])
}

func TestAddNoteRejectsNonPositiveLength(t *testing.T) {
	tr := New("", osc.NewSine())
	assert.ErrorIs(t, tr.AddNote(note(Single(a4), whole(0), beat.Zero)), ErrNonPositiveLength)
	assert.Equal(t, 0, tr.Len())
}

func TestRandomInsertsStaySortedAndDisjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := New("", osc.NewSine())
	for i := 0; i < 500; i++ {
		start := beat.MustNew(rng.Int63n(400), 1+rng.Int63n(4))
		length := beat.MustNew(1+rng.Int63n(8), 1+rng.Int63n(4))
		before := tr.Notes()
		if err := tr.AddNote(note(Single(a4), start, length)); err != nil {
			require.ErrorIs(t, err, ErrNoteCollision)
			require.Equal(t, before, tr.Notes())
		}
	}
	notes := tr.Notes()
	require.NotEmpty(t, notes)
	for i := 1; i < len(notes); i++ {
		assert.True(t, notes[i-1].Start.Less(notes[i].Start), "not sorted at %d", i)
		assert.False(t, notes[i].Start.Less(notes[i-1].End()), "overlap at %d", i)
	}
}

func TestNotesInWindow(t *testing.T) {
	tr := New("", osc.NewSine())
	for _, s := range []int64{0, 2, 4, 6, 8} {
		require.NoError(t, tr.AddNote(note(Single(a4), whole(s), whole(1))))
	}
	starts := func(start, cutoff beat.Beat) []beat.Beat {
		var out []beat.Beat
		for n := range tr.NotesInWindow(start, cutoff) {
			out = append(out, n.Start)
		}
		return out
	}
	assert.Equal(t, []beat.Beat{whole(2), whole(4)}, starts(whole(2), whole(6)))
	assert.Equal(t, []beat.Beat{whole(4)}, starts(whole(3), whole(5)))
	assert.Empty(t, starts(whole(3), whole(4)))
	assert.Empty(t, starts(whole(9), whole(20)))
	assert.Len(t, starts(beat.Zero, whole(100)), 5)

	// restartable, and lazy over later inserts
	seq := tr.NotesInWindow(whole(0), whole(3))
	assert.Len(t, slices.Collect(seq), 2)
	require.NoError(t, tr.AddNote(note(Single(a4), whole(1), whole(1))))
	assert.Len(t, slices.Collect(seq), 3)

	var first []Note
	for n := range seq {
		first = append(first, n)
		break
	}
	assert.Len(t, first, 1)
}

func TestEndAndNotes(t *testing.T) {
	tr := New("bass", osc.NewSine())
	_, ok := tr.End()
	assert.False(t, ok)
	require.NoError(t, tr.AddNote(note(Single(a4), whole(3), beat.MustNew(3, 2))))
	end, ok := tr.End()
	assert.True(t, ok)
	assert.Equal(t, beat.MustNew(9, 2), end)
	assert.Equal(t, "bass", tr.Name())
}

func segment(start, cutoff beat.Beat, bpm float64) *mixer.Mixer {
	return mixer.New(nil, mixer.Props{Start: start, Cutoff: cutoff, SampleRate: 44100, BPM: bpm}, mixer.DefaultParams())
}

func TestRenderSingleNoteEnvelope(t *testing.T) {
	o := &constOsc{}
	o.values[0] = 1
	tr := New("", o)
	require.NoError(t, tr.AddNote(note(Single(a4), whole(0), whole(1))))
	m := segment(beat.Zero, whole(1), 120)
	require.NoError(t, tr.Render(m))

	s := m.Samples()
	require.Len(t, s, 22050)
	require.Len(t, o.calls, 22050)
	assert.Equal(t, int16(32767), s[0])
	assert.Equal(t, int16(16383), s[22049])
	assert.Equal(t, int16(16383), s[11025])
	for _, c := range o.calls {
		assert.Equal(t, 0, c.voice)
		assert.InDelta(t, 440, c.freq, 1e-9)
		assert.InDelta(t, 1.0/44100, c.dt, 1e-15)
	}
	for i := 11025; i < len(s); i++ {
		if s[i] > 16384 {
			t.Fatalf("sample %d = %d exceeds decay floor", i, s[i])
		}
	}
}

func TestRenderChordSumsThreeVoices(t *testing.T) {
	o := &constOsc{}
	o.values = [osc.MaxVoices]float64{0.3, 0.6, 0.9}
	tr := New("", o)
	c := Chord(pitch.New(pitch.F, 3), pitch.New(pitch.A, 3), pitch.New(pitch.C, 4))
	require.NoError(t, tr.AddNote(note(c, whole(0), whole(1))))
	m := segment(beat.Zero, whole(1), 120)
	require.NoError(t, tr.Render(m))

	sum := 0.3/3 + 0.6/3 + 0.9/3
	want := int16(32767 * sum)
	assert.InDelta(t, want, m.Samples()[0], 1)
	assert.InDelta(t, int16(float64(want)*0.5), m.Samples()[22049], 1)
	require.Len(t, o.calls, 3*22050)
	for i := 0; i < 3; i++ {
		assert.Equal(t, i, o.calls[i].voice)
	}
	assert.InDelta(t, pitch.New(pitch.C, 4).Freq(), o.calls[2].freq, 1e-9)
}

func TestRenderRejectsOtherChordArity(t *testing.T) {
	for _, size := range []int{0, 1, 2, 4} {
		ps := make([]pitch.Pitch, size)
		for i := range ps {
			ps[i] = a4
		}
		o := &constOsc{}
		tr := New("", o)
		require.NoError(t, tr.AddNote(note(Chord(ps...), whole(0), whole(1))))
		err := tr.Render(segment(beat.Zero, whole(1), 120))
		assert.ErrorIs(t, err, ErrUnsupportedChordArity, "size %d", size)
		assert.Empty(t, o.calls)
	}
}

func TestRenderOnlyNotesInSegment(t *testing.T) {
	o := &constOsc{}
	o.values[0] = 0.5
	tr := New("", o)
	require.NoError(t, tr.AddNote(note(Single(a4), whole(0), whole(1))))
	require.NoError(t, tr.AddNote(note(Single(a4), whole(4), whole(1))))
	m := segment(whole(4), whole(5), 60)
	require.NoError(t, tr.Render(m))
	assert.Len(t, o.calls, 44100)
	assert.Equal(t, int16(16383), m.Samples()[0])
}

func TestRenderUsesLevelAndEnvelope(t *testing.T) {
	o := &constOsc{}
	o.values[0] = 1
	tr := New("", o)
	tr.SetLevel(0.5)
	tr.SetEnvelope(Envelope{Floor: 1})
	require.NoError(t, tr.AddNote(note(Single(a4), whole(0), whole(1))))
	m := segment(beat.Zero, whole(1), 120)
	require.NoError(t, tr.Render(m))
	assert.Equal(t, int16(16383), m.Samples()[0])
	assert.Equal(t, int16(16383), m.Samples()[22049])
}

func TestRenderWithoutInstrument(t *testing.T) {
	tr := New("", nil)
	require.NoError(t, tr.AddNote(note(Single(a4), whole(0), whole(1))))
	assert.ErrorIs(t, tr.Render(segment(beat.Zero, whole(1), 120)), ErrNoInstrument)
	tr.Reset()
}

func TestEnvelopeGain(t *testing.T) {
	e := DefaultEnvelope()
	assert.Equal(t, 1.0, e.Gain(0, 100))
	assert.Equal(t, 0.75, e.Gain(25, 100))
	assert.Equal(t, 0.5, e.Gain(50, 100))
	assert.Equal(t, 0.5, e.Gain(99, 100))
	assert.Equal(t, 0.5, e.Gain(0, 0))
	assert.False(t, math.IsNaN(e.Gain(0, 0)))
}

func TestContentString(t *testing.T) {
	assert.Equal(t, "A4", Single(a4).String())
	assert.Equal(t, "[F3 A3 C4]", Chord(pitch.New(pitch.F, 3), pitch.New(pitch.A, 3), pitch.New(pitch.C, 4)).String())
	ps := []pitch.Pitch{a4}
	c := Chord(ps...)
	ps[0] = pitch.New(pitch.C, 1)
	assert.Equal(t, a4, c.Pitches()[0])
}
