package audio

import (
	"math"
	"sync"
	"sync/atomic"
)

// PCMSource plays a fixed buffer of 16-bit samples once, then reports
// Finished. The gain may be changed from any goroutine while playing.
type PCMSource struct {
	pcm      []int16
	pos      atomic.Int64
	gain     atomic.Uint64
	finished atomic.Bool
	onDone   func()
	doneOnce sync.Once
}

// NewPCMSource plays pcm at gain. onDone, if set, runs once on the audio
// thread when the last sample has been delivered.
func NewPCMSource(pcm []int16, gain float64, onDone func()) *PCMSource {
	s := &PCMSource{pcm: pcm, onDone: onDone}
	s.SetGain(gain)
	return s
}

func (s *PCMSource) SetGain(g float64) {
	if g < 0 {
		g = 0
	}
	s.gain.Store(math.Float64bits(g))
}

func (s *PCMSource) Gain() float64 { return math.Float64frombits(s.gain.Load()) }

// Position is the index of the next sample to be delivered.
func (s *PCMSource) Position() int { return int(s.pos.Load()) }

func (s *PCMSource) Process(dst []float32) {
	g := float32(s.Gain()) / 32768
	pos := int(s.pos.Load())
	n := copyScaled(dst, s.pcm[min(pos, len(s.pcm)):], g)
	clear(dst[n:])
	pos += n
	s.pos.Store(int64(pos))
	if pos >= len(s.pcm) {
		s.finished.Store(true)
		s.doneOnce.Do(func() {
			if s.onDone != nil {
				s.onDone()
			}
		})
	}
}

func (s *PCMSource) Finished() bool { return s.finished.Load() }

func copyScaled(dst []float32, src []int16, g float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float32(src[i]) * g
	}
	return n
}
