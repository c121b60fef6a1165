package beatmix

import (
	"io"
	"os"
)

// RenderSamples renders score into memory.
func RenderSamples(score *Score, opts ...RenderOption) ([]Sample, error) {
	var sink SliceSink
	if err := score.Render(&sink, opts...); err != nil {
		return nil, err
	}
	return sink.Samples, nil
}

// RenderPCM writes score to w as raw little-endian 16-bit mono samples.
func RenderPCM(w io.Writer, score *Score, opts ...RenderOption) error {
	return score.Render(NewPCMSink(w), opts...)
}

// RenderWAVFile renders score into a 16-bit mono WAV file at path.
func RenderWAVFile(path string, score *Score, opts ...RenderOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	sink := NewWAVSink(f)
	if err := score.Render(sink, opts...); err != nil {
		return err
	}
	return sink.Close()
}
