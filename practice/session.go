package practice

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/speakmate/capture"
	"github.com/kbukum/speakmate/logger"
)

// Recording duration bounds offered to the user, in seconds.
const (
	MinDuration     = 3
	MaxDuration     = 15
	DefaultDuration = 5
)

// ValidateDuration checks seconds against the offered bounds.
func ValidateDuration(seconds int) error {
	if seconds < MinDuration || seconds > MaxDuration {
		return fmt.Errorf("duration must be between %d and %d seconds (got: %d)", MinDuration, MaxDuration, seconds)
	}
	return nil
}

// Recorder captures a clip.
type Recorder interface {
	Record(ctx context.Context, durationSeconds, sampleRate int) (*capture.Clip, error)
}

// Sender uploads a WAV stream and returns the server's answer.
type Sender interface {
	Upload(ctx context.Context, wav io.Reader) (*Feedback, error)
}

// Report is the outcome of one exercise.
type Report struct {
	Transcript string
	Feedback   string
	Score      int
	Duration   int
}

// Session runs record, upload and render for one exercise.
type Session struct {
	recorder   Recorder
	sender     Sender
	renderer   Renderer
	cacheDir   string
	sampleRate int
	now        func() time.Time
	log        *logger.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithCacheDir sets where the clip is written before upload. Defaults to
// the OS temp dir.
func WithCacheDir(dir string) SessionOption {
	return func(s *Session) {
		if dir != "" {
			s.cacheDir = dir
		}
	}
}

// WithSampleRate overrides the capture rate.
func WithSampleRate(rate int) SessionOption {
	return func(s *Session) { s.sampleRate = rate }
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// NewSession wires a session.
func NewSession(rec Recorder, sender Sender, r Renderer, opts ...SessionOption) *Session {
	s := &Session{
		recorder:   rec,
		sender:     sender,
		renderer:   r,
		cacheDir:   os.TempDir(),
		sampleRate: capture.DefaultSampleRate,
		now:        time.Now,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run records durationSeconds of speech, uploads it and renders the
// result. The cached clip is removed whether or not the upload succeeds.
func (s *Session) Run(ctx context.Context, durationSeconds int) (*Report, error) {
	clip, err := s.recorder.Record(ctx, durationSeconds, s.sampleRate)
	if err != nil {
		s.renderer.Error(fmt.Sprintf("Recording error: %v", err))
		return nil, err
	}
	s.log.Debug("Clip recorded", logger.Fields(
		logger.FieldDuration, clip.Duration().Milliseconds(),
		"samples", len(clip.Samples),
	))

	path := filepath.Join(s.cacheDir, "audio_"+s.now().Format("20060102_150405")+".wav")
	if err := clip.Save(path); err != nil {
		_ = os.Remove(path)
		s.renderer.Error(fmt.Sprintf("Save error: %v", err))
		return nil, err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("Failed to remove cached clip", logger.ErrorFields("remove", err))
		}
	}()

	fb, err := s.upload(ctx, path)
	if err != nil {
		s.log.Error("Upload failed", logger.ErrorFields("upload", err))
		s.renderer.Error(ServerErrorMessage)
		return nil, err
	}

	report := &Report{
		Transcript: fb.Text,
		Feedback:   fb.Feedback,
		Score:      SpeakingScore(fb.Text, float64(durationSeconds)),
		Duration:   durationSeconds,
	}
	s.renderer.Result(report)
	return report, nil
}

func (s *Session) upload(ctx context.Context, path string) (*Feedback, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	defer f.Close()
	s.renderer.Analyzing()
	return s.sender.Upload(ctx, f)
}
