package midifile

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cbegin/beatmix/internal/beat"
	"github.com/cbegin/beatmix/internal/pitch"
	"github.com/cbegin/beatmix/internal/track"
)

type rawNote struct {
	start, end int64
	key        uint8
}

type tickTempo struct {
	tick int64
	bpm  float64
}

type tickMeter struct {
	tick int64
	sig  beat.TimeSignature
}

// Read decodes an SMF. Notes that would overlap inside one part are moved to
// additional parts, so every returned part satisfies the track invariant.
func Read(r io.Reader) (Song, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return Song{}, fmt.Errorf("midifile: %w", err)
	}
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || mt == 0 {
		return Song{}, ErrTimeFormat
	}
	res := int64(mt)

	var (
		tempos []tickTempo
		meters []tickMeter
		song   Song
	)
	for ti, tr := range s.Tracks {
		var abs int64
		name := fmt.Sprintf("track %d", ti)
		open := map[[2]uint8][]int64{}
		byChannel := map[uint8][]rawNote{}
		for _, ev := range tr {
			abs += int64(ev.Delta)
			var (
				bpm          float64
				num, den     uint8
				cpt, dsqpq   uint8
				text         string
				ch, key, vel uint8
			)
			switch msg := ev.Message; {
			case msg.GetMetaTempo(&bpm):
				tempos = append(tempos, tickTempo{tick: abs, bpm: bpm})
			case msg.GetMetaTimeSig(&num, &den, &cpt, &dsqpq):
				meters = append(meters, tickMeter{tick: abs, sig: beat.TimeSignature{Beats: num, Unit: den}})
			case msg.GetMetaTrackName(&text):
				name = text
			case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
				k := [2]uint8{ch, key}
				open[k] = append(open[k], abs)
			case msg.GetNoteOn(&ch, &key, &vel), msg.GetNoteOff(&ch, &key, &vel):
				k := [2]uint8{ch, key}
				q := open[k]
				if len(q) == 0 {
					continue
				}
				open[k] = q[1:]
				if abs > q[0] {
					byChannel[ch] = append(byChannel[ch], rawNote{start: q[0], end: abs, key: key})
				}
			}
		}

		channels := make([]uint8, 0, len(byChannel))
		for ch := range byChannel {
			channels = append(channels, ch)
		}
		slices.Sort(channels)
		for _, ch := range channels {
			partName := name
			if len(channels) > 1 {
				partName = fmt.Sprintf("%s ch%d", name, ch+1)
			}
			parts, err := place(partName, fold(byChannel[ch], res))
			if err != nil {
				return Song{}, err
			}
			song.Parts = append(song.Parts, parts...)
		}
	}
	song.Tempos = tempoMap(tempos, meters, res)
	return song, nil
}

// fold turns groups of exactly three keys sharing start and end into chords.
func fold(raw []rawNote, res int64) []track.Note {
	slices.SortFunc(raw, func(a, b rawNote) int {
		return cmp.Or(cmp.Compare(a.start, b.start), cmp.Compare(a.end, b.end), cmp.Compare(a.key, b.key))
	})
	var notes []track.Note
	for i := 0; i < len(raw); {
		j := i + 1
		for j < len(raw) && raw[j].start == raw[i].start && raw[j].end == raw[i].end {
			j++
		}
		start := fromTicks(raw[i].start, res)
		length := fromTicks(raw[i].end-raw[i].start, res)
		if j-i == track.ChordSize {
			ps := make([]pitch.Pitch, 0, track.ChordSize)
			for _, rn := range raw[i:j] {
				ps = append(ps, pitch.FromMIDI(int(rn.key)))
			}
			notes = append(notes, track.NewNote(track.Chord(ps...), start, length))
		} else {
			for _, rn := range raw[i:j] {
				notes = append(notes, track.NewNote(track.Single(pitch.FromMIDI(int(rn.key))), start, length))
			}
		}
		i = j
	}
	return notes
}

// place deals notes into as few collision-free lanes as a first-fit pass
// finds.
func place(name string, notes []track.Note) ([]Part, error) {
	var lanes []*track.Track
	for _, n := range notes {
		placed := false
		for _, lane := range lanes {
			err := lane.AddNote(n)
			if err == nil {
				placed = true
				break
			}
			if !errors.Is(err, track.ErrNoteCollision) {
				return nil, err
			}
		}
		if placed {
			continue
		}
		lane := track.New(name, nil)
		if err := lane.AddNote(n); err != nil {
			return nil, err
		}
		lanes = append(lanes, lane)
	}
	parts := make([]Part, len(lanes))
	for i, lane := range lanes {
		parts[i] = Part{Name: name, Notes: lane.Notes()}
		if i > 0 {
			parts[i].Name = fmt.Sprintf("%s #%d", name, i+1)
		}
	}
	return parts, nil
}

// tempoMap merges tempo and meter events into tempo changes. The last event
// at a tick wins and a missing downbeat tempo defaults to 120 bpm.
func tempoMap(tempos []tickTempo, meters []tickMeter, res int64) []beat.TempoChange {
	slices.SortStableFunc(tempos, func(a, b tickTempo) int { return cmp.Compare(a.tick, b.tick) })
	slices.SortStableFunc(meters, func(a, b tickMeter) int { return cmp.Compare(a.tick, b.tick) })
	if len(tempos) == 0 || tempos[0].tick != 0 {
		tempos = append([]tickTempo{{tick: 0, bpm: defaultBPM}}, tempos...)
	}
	sigAt := func(tick int64) beat.TimeSignature {
		sig := beat.FourFour
		for _, m := range meters {
			if m.tick > tick {
				break
			}
			sig = m.sig
		}
		return sig
	}
	var out []beat.TempoChange
	for i, tt := range tempos {
		if i+1 < len(tempos) && tempos[i+1].tick == tt.tick {
			continue
		}
		out = append(out, beat.TempoChange{
			At:    fromTicks(tt.tick, res),
			Tempo: beat.Tempo{BPM: tt.bpm, Signature: sigAt(tt.tick)},
		})
	}
	return out
}
