package coach

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	apperrors "github.com/kbukum/speakmate/errors"
	"github.com/kbukum/speakmate/httpclient"
	"github.com/kbukum/speakmate/llm"
	"github.com/kbukum/speakmate/logger"
	"github.com/kbukum/speakmate/observability"
	"github.com/kbukum/speakmate/provider"
	"github.com/kbukum/speakmate/resilience"
	"github.com/kbukum/speakmate/storage/local"
	"github.com/kbukum/speakmate/transcription"
)

const (
	stageTranscription = "transcription"
	stageFeedback      = "feedback"
)

// Result is the body of a successful /speak response.
type Result struct {
	Text     string `json:"text"`
	Feedback string `json:"feedback"`
}

// NoSpeech is returned when the transcript is empty.
func NoSpeech() *Result {
	return &Result{Text: NoSpeechText, Feedback: NoSpeechFeedback}
}

// Service runs the speak pipeline. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	cfg      Config
	scratch  *local.Scratch
	stt      provider.RequestResponse[transcription.Request, *transcription.Response]
	chat     provider.RequestResponse[llm.CompletionRequest, *llm.CompletionResponse]
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	log      *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records upload sizes, stage timings and errors.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService wires the pipeline. cfg should already have defaults applied.
func NewService(cfg Config, stt transcription.Provider, chat llm.Provider, scratch *local.Scratch, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		cfg:     cfg,
		scratch: scratch,
		log:     log.WithComponent("coach"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "speak",
		MaxConcurrent: cfg.MaxInFlight,
		MaxWait:       -1,
	})
	s.stt = decorate(transcription.AsRequestResponse(stt), stageTranscription, cfg, s.metrics, s.log)
	s.chat = decorate(llm.AsRequestResponse(chat), stageFeedback, cfg, s.metrics, s.log)
	return s
}

// decorate wraps a provider with tracing, logging, metrics and the upstream
// timeout, outermost first.
func decorate[I, O any](p provider.RequestResponse[I, O], stage string, cfg Config, m *observability.Metrics, log *logger.Logger) provider.RequestResponse[I, O] {
	mws := []provider.Middleware[I, O]{
		provider.WithTracing[I, O](stage),
		provider.WithLogging[I, O](log),
	}
	if m != nil {
		mws = append(mws, provider.WithMetrics[I, O](stage, m))
	}
	mws = append(mws, provider.WithTimeout[I, O](cfg.UpstreamTimeout))
	return provider.Chain(mws...)(p)
}

// Speak transcribes audio and asks for feedback on the transcript. An empty
// transcript short-circuits to NoSpeech without calling the language model.
// Errors are *errors.AppError.
func (s *Service) Speak(ctx context.Context, audio io.Reader, filename string) (*Result, error) {
	res, err := resilience.Run(ctx, s.bulkhead, func() (*Result, error) {
		return s.speak(ctx, audio, filename)
	})
	if err == nil {
		return res, nil
	}
	if !apperrors.IsAppError(err) {
		// Only the bulkhead returns plain errors here.
		err = classify("speak", err)
	}
	appErr, _ := apperrors.AsAppError(err)
	if s.metrics != nil {
		s.metrics.Error(ctx, string(appErr.Code), "coach")
	}
	return nil, appErr
}

func (s *Service) speak(ctx context.Context, audio io.Reader, filename string) (*Result, error) {
	log := s.log.WithContext(ctx)

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".wav"
	}
	limit := s.cfg.MaxUploadBytes()
	file, err := s.scratch.Stage(ctx, audio, limit, ext)
	if err != nil {
		return nil, stageError(ctx, err, limit)
	}
	defer func() {
		if err := file.Remove(); err != nil {
			log.Warn("Failed to remove upload", logger.ErrorFields("remove", err))
		}
	}()

	log.Info("Audio received", logger.Fields(
		logger.FieldFilename, filename,
		logger.FieldBytes, file.Size,
	))
	if s.metrics != nil {
		s.metrics.Upload(ctx, file.Size)
	}

	tr, err := s.stt.Execute(ctx, transcription.Request{
		AudioPath: file.Path,
		Language:  Language,
		Prompt:    TranscriptionPrompt,
	})
	if err != nil {
		return nil, classify(stageTranscription, err)
	}
	if tr == nil {
		return nil, apperrors.ExternalServiceError(stageTranscription, errors.New("empty response"))
	}

	text := strings.TrimSpace(tr.Text)
	if text == "" {
		log.Info("No speech detected", logger.Fields(logger.FieldFilename, filename))
		return NoSpeech(), nil
	}
	log.Info("Transcription complete", logger.Fields("transcript", text))

	feedback, err := llm.Complete(ctx, s.chat, llm.CompletionRequest{
		SystemPrompt: SystemPrompt,
		Temperature:  s.cfg.Temperature,
		MaxTokens:    s.cfg.MaxTokens,
	}, UserPrefix+text)
	if err != nil {
		return nil, classify(stageFeedback, err)
	}
	log.Info("Feedback generated", logger.Fields("feedback", feedback))

	return &Result{Text: text, Feedback: feedback}, nil
}

func stageError(ctx context.Context, err error, limit int64) error {
	var maxErr *http.MaxBytesError
	if errors.Is(err, local.ErrTooLarge) || errors.As(err, &maxErr) {
		return apperrors.PayloadTooLarge(limit).WithCause(err)
	}
	if ctx.Err() != nil {
		return classify("upload", err)
	}
	return apperrors.Internal(fmt.Errorf("failed to store upload: %w", err))
}

// classify maps a failed operation onto the error taxonomy: deadline
// overruns are timeouts, a vanished client is internal and anything else
// from an upstream is an external service error.
func classify(op string, err error) *apperrors.AppError {
	switch {
	case isTimeout(err):
		return apperrors.Timeout(op).WithCause(err)
	case errors.Is(err, context.Canceled):
		return apperrors.Internal(fmt.Errorf("%s canceled: %w", op, err))
	case op == stageTranscription || op == stageFeedback:
		return apperrors.ExternalServiceError(op, err)
	default:
		return apperrors.Wrap(err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || httpclient.IsTimeout(err) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Providers returns the transcription and language model providers. The
// decorated chains keep their backend's name and availability.
func (s *Service) Providers() []provider.Provider {
	return []provider.Provider{s.stt, s.chat}
}
