package beatmix

import "github.com/cbegin/beatmix/internal/mixer"

const DefaultSampleRate = 44100

// SegmentInfo describes a tempo segment after all tracks rendered into it.
type SegmentInfo struct {
	Index   int
	Start   Beat
	Cutoff  Beat
	Tempo   Tempo
	Samples int
}

type RenderOption func(*renderConfig)

type renderConfig struct {
	sampleRate int
	mixer      mixer.Params
	onSegment  func(SegmentInfo)
}

func defaultRenderConfig() renderConfig {
	return renderConfig{sampleRate: DefaultSampleRate, mixer: mixer.DefaultParams()}
}

func WithSampleRate(sampleRate int) RenderOption {
	return func(cfg *renderConfig) {
		cfg.sampleRate = sampleRate
	}
}

// WithPolicy selects what happens when mixed tracks overflow a sample.
// The default is Wrap.
func WithPolicy(p Policy) RenderOption {
	return func(cfg *renderConfig) {
		cfg.mixer.Policy = p
	}
}

// WithSegmentHook installs a callback run after each segment is mixed and
// before it is written to the sink.
func WithSegmentHook(fn func(SegmentInfo)) RenderOption {
	return func(cfg *renderConfig) {
		cfg.onSegment = fn
	}
}
