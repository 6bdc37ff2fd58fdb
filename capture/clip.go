package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// DefaultSampleRate is used when Record is given a zero rate.
	DefaultSampleRate = 44100

	Channels = 1
	BitDepth = 16

	wavFormatPCM = 1
)

// Clip is a mono 16-bit PCM recording held in memory.
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Duration is the length of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// WriteWAV encodes the clip as a RIFF/WAVE stream. The encoder patches the
// header sizes on close, hence the io.WriteSeeker.
func (c *Clip) WriteWAV(w io.WriteSeeker) error {
	if c.SampleRate <= 0 {
		return errors.New("capture: clip has no sample rate")
	}
	data := make([]int, len(c.Samples))
	for i, s := range c.Samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: Channels, SampleRate: c.SampleRate},
		Data:           data,
		SourceBitDepth: BitDepth,
	}

	enc := wav.NewEncoder(w, c.SampleRate, BitDepth, Channels, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("capture: encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("capture: finish wav: %w", err)
	}
	return nil
}

// Save writes the clip to path as a WAV file.
func (c *Clip) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return c.WriteWAV(f)
}
