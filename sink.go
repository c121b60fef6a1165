package beatmix

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Format declares the stream a sink receives.
type Format struct {
	SampleRate int
	BitDepth   int
	Channels   int
}

// Sink consumes rendered mono samples in index order. The slice passed to
// WriteSamples is reused after the call returns.
type Sink interface {
	WriteSamples(samples []Sample) error
}

// Opener is implemented by sinks that need the format before the first
// write. Render calls Open exactly once.
type Opener interface {
	Open(f Format) error
}

// SinkWriteError wraps an error returned by a sink.
type SinkWriteError struct {
	Segment int
	Err     error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("sink write (segment %d): %v", e.Segment, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }

// SliceSink collects samples in memory.
type SliceSink struct {
	Format  Format
	Samples []Sample
}

func (s *SliceSink) Open(f Format) error {
	s.Format = f
	return nil
}

func (s *SliceSink) WriteSamples(samples []Sample) error {
	s.Samples = append(s.Samples, samples...)
	return nil
}

// PCMSink writes raw little-endian 16-bit samples, e.g. for `| aplay -f S16_LE`.
type PCMSink struct {
	w io.Writer
}

func NewPCMSink(w io.Writer) *PCMSink { return &PCMSink{w: w} }

func (s *PCMSink) WriteSamples(samples []Sample) error {
	return binary.Write(s.w, binary.LittleEndian, samples)
}

var errSinkNotOpen = errors.New("wav sink: write before open")

// WAVSink encodes a 16-bit mono WAV. Close must be called to finish the
// header once rendering is done.
type WAVSink struct {
	w       io.WriteSeeker
	enc     *wav.Encoder
	buf     audio.IntBuffer
	written bool
}

func NewWAVSink(w io.WriteSeeker) *WAVSink { return &WAVSink{w: w} }

func (s *WAVSink) Open(f Format) error {
	if s.enc != nil {
		return errors.New("wav sink: already open")
	}
	s.enc = wav.NewEncoder(s.w, f.SampleRate, f.BitDepth, f.Channels, 1)
	s.buf.Format = &audio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate}
	s.buf.SourceBitDepth = f.BitDepth
	return nil
}

func (s *WAVSink) WriteSamples(samples []Sample) error {
	if s.enc == nil {
		return errSinkNotOpen
	}
	if cap(s.buf.Data) < len(samples) {
		s.buf.Data = make([]int, len(samples))
	}
	s.buf.Data = s.buf.Data[:len(samples)]
	for i, v := range samples {
		s.buf.Data[i] = int(v)
	}
	s.written = true
	return s.enc.Write(&s.buf)
}

func (s *WAVSink) Close() error {
	if s.enc == nil {
		return nil
	}
	// An empty render still gets a valid header.
	if !s.written {
		if err := s.WriteSamples(nil); err != nil {
			return err
		}
	}
	return s.enc.Close()
}
