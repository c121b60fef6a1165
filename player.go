package beatmix

import (
	"errors"
	"sync"

	intaudio "github.com/cbegin/beatmix/internal/audio"
)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	volume float64
	render []RenderOption
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{volume: 1}
}

// WithMasterVolume sets the initial playback volume. 1.0 is unity.
func WithMasterVolume(volume float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.volume = max(volume, 0)
	}
}

// WithRenderOptions passes options through to Score.Render. The sample rate
// is always the player's.
func WithRenderOptions(opts ...RenderOption) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.render = append(cfg.render, opts...)
	}
}

// Player renders a score up front and streams it to the audio device.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	volume     float64
	render     []RenderOption
	source     *intaudio.PCMSource
	audio      *intaudio.Player
	done       chan struct{}
}

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Player{
		sampleRate: sampleRate,
		volume:     cfg.volume,
		render:     cfg.render,
	}, nil
}

// Play renders score and starts playback, replacing anything already playing.
func (p *Player) Play(score *Score) error {
	opts := append(append([]RenderOption{}, p.render...), WithSampleRate(p.sampleRate))
	pcm, err := RenderSamples(score, opts...)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	source := intaudio.NewPCMSource(pcm, p.MasterVolume(), func() { p.finish(done) })
	backend, err := intaudio.NewPlayer(p.sampleRate, source)
	if err != nil {
		return err
	}

	p.mu.Lock()
	// Signal any existing Wait() that the previous playback was replaced
	if p.done != nil {
		close(p.done)
	}
	prev := p.audio
	p.done = done
	p.source = source
	p.audio = backend
	p.mu.Unlock()

	// The previous backend is stopped outside the lock: its source may be
	// calling finish from the audio thread.
	if prev != nil {
		_ = prev.Stop()
	}
	backend.Play()
	return nil
}

// finish closes done if it still belongs to the current playback.
func (p *Player) finish(done chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == done {
		p.done = nil
		close(done)
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

func (p *Player) Stop() error {
	p.mu.Lock()
	a := p.audio
	p.audio = nil
	p.source = nil
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	p.mu.Unlock()
	if a == nil {
		return nil
	}
	return a.Stop()
}

// Wait blocks until the current playback ends or is stopped. It returns
// immediately if nothing is playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// SetMasterVolume sets runtime volume scalar. 1.0 is default.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	if p.source != nil {
		p.source.SetGain(volume)
	}
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// PlaybackPosition returns the current output position of the audio driver
// in samples. Returns 0 if not playing.
func (p *Player) PlaybackPosition() int64 {
	p.mu.Lock()
	a := p.audio
	p.mu.Unlock()
	if a == nil {
		return 0
	}
	return int64(a.Position().Seconds() * float64(p.sampleRate))
}
