package capture

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

var (
	// ErrBusy is returned by Record while a recording is in progress.
	ErrBusy = errors.New("capture: already recording")
	// ErrInvalidDuration is returned for a non-positive duration.
	ErrInvalidDuration = errors.New("capture: duration must be a positive number of seconds")
)

// State is a recorder lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateComplete
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ProgressFunc observes capture progress.
type ProgressFunc func(elapsed, remaining time.Duration)

// Option configures a Recorder.
type Option func(*Recorder)

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Recorder) { r.onProgress = fn }
}

// WithProgressInterval sets how much audio is read between progress
// reports. Defaults to 100ms.
func WithProgressInterval(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.interval = d
		}
	}
}

// Recorder captures clips from a Device, one at a time.
type Recorder struct {
	device     Device
	onProgress ProgressFunc
	interval   time.Duration

	mu    sync.Mutex
	state State
	subs  []func(State)
}

// NewRecorder creates an idle recorder.
func NewRecorder(device Device, opts ...Option) *Recorder {
	r := &Recorder{device: device, interval: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe registers fn for every later state transition. Callbacks run
// on the recording goroutine and must not call Record.
func (r *Recorder) Subscribe(fn func(State)) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}

func (r *Recorder) transition(s State) {
	r.mu.Lock()
	r.state = s
	subs := append([]func(State){}, r.subs...)
	r.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

// Record captures durationSeconds of mono audio at sampleRate (44100 when
// zero) and blocks until the buffer is full or ctx is done. Device failures
// and short reads return *DeviceError; no partial clip is ever returned.
func (r *Recorder) Record(ctx context.Context, durationSeconds, sampleRate int) (*Clip, error) {
	if durationSeconds <= 0 {
		return nil, ErrInvalidDuration
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	r.mu.Lock()
	if r.state == StateRecording {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.state = StateRecording
	r.mu.Unlock()
	r.transition(StateRecording)

	clip, err := r.capture(ctx, durationSeconds, sampleRate)
	if err != nil {
		r.transition(StateError)
		return nil, err
	}
	r.transition(StateComplete)
	return clip, nil
}

func (r *Recorder) capture(ctx context.Context, durationSeconds, sampleRate int) (*Clip, error) {
	stream, err := r.device.Open(ctx, Format{SampleRate: sampleRate, Channels: Channels})
	if err != nil {
		var devErr *DeviceError
		if errors.As(err, &devErr) {
			return nil, err
		}
		return nil, &DeviceError{Op: "open", Err: err}
	}
	defer stream.Close()

	total := durationSeconds * sampleRate
	samples := make([]int16, total)
	chunk := int(r.interval.Seconds() * float64(sampleRate))
	if chunk < 1 {
		chunk = 1
	}
	raw := make([]byte, chunk*2)
	duration := time.Duration(durationSeconds) * time.Second

	for read := 0; read < total; {
		n := min(chunk, total-read)
		if _, err := io.ReadFull(stream, raw[:n*2]); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = fmt.Errorf("input ended after %d of %d samples", read, total)
			}
			return nil, &DeviceError{Op: "read", Err: err}
		}
		for i := 0; i < n; i++ {
			samples[read+i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		}
		read += n

		if r.onProgress != nil {
			elapsed := time.Duration(read) * time.Second / time.Duration(sampleRate)
			r.onProgress(elapsed, duration-elapsed)
		}
	}
	return &Clip{Samples: samples, SampleRate: sampleRate}, nil
}
