package coach

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/speakmate/errors"
	"github.com/kbukum/speakmate/logger"
)

// FieldAudio is the multipart part carrying the recording.
const FieldAudio = "audio_file"

var wavTypes = map[string]bool{
	"audio/wav":      true,
	"audio/x-wav":    true,
	"audio/wave":     true,
	"audio/vnd.wave": true,
}

// Speaker runs the pipeline for one upload.
type Speaker interface {
	Speak(ctx context.Context, audio io.Reader, filename string) (*Result, error)
}

// Handler serves the coach routes.
type Handler struct {
	speaker Speaker
	limit   int64
	log     *logger.Logger
}

// NewHandler creates the route handler. The welcome route never touches
// speaker.
func NewHandler(speaker Speaker, maxUpload int64, log *logger.Logger) *Handler {
	return &Handler{speaker: speaker, limit: maxUpload, log: log.WithComponent("coach")}
}

// RegisterRoutes mounts GET / and POST /speak.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Welcome)
	r.POST("/speak", h.Speak)
}

// Welcome answers the liveness payload the client checks.
func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": WelcomeMessage})
}

// Speak streams the audio_file part into the pipeline without buffering
// the whole form in memory.
func (h *Handler) Speak(c *gin.Context) {
	mr, err := c.Request.MultipartReader()
	if err != nil {
		h.fail(c, apperrors.InvalidInput(FieldAudio, "expected a multipart/form-data body with an audio_file part"))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			h.fail(c, apperrors.MissingField(FieldAudio))
			return
		}
		if err != nil {
			h.fail(c, h.readError(err))
			return
		}
		if part.FormName() != FieldAudio {
			part.Close()
			continue
		}

		filename := part.FileName()
		if filename == "" {
			part.Close()
			h.fail(c, apperrors.InvalidInput(FieldAudio, "audio_file must be a file upload"))
			return
		}
		ct := part.Header.Get("Content-Type")
		if !isWAV(ct, filename) {
			part.Close()
			h.fail(c, apperrors.UnsupportedMediaType(ct, "audio/wav"))
			return
		}

		res, err := h.speaker.Speak(c.Request.Context(), part, filename)
		part.Close()
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}
}

func (h *Handler) readError(err error) *apperrors.AppError {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.PayloadTooLarge(h.limit).WithCause(err)
	}
	return apperrors.InvalidInput(FieldAudio, "malformed multipart body").WithCause(err)
}

func (h *Handler) fail(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	fields := logger.Fields(
		"code", appErr.Code,
		logger.FieldStatus, appErr.HTTPStatus,
		logger.FieldError, appErr.Error(),
	)
	log := h.log.WithContext(c.Request.Context())
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("Speak request failed", fields)
	} else {
		log.Warn("Speak request rejected", fields)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// isWAV accepts the WAV media types, and octet-stream or untyped parts
// whose filename ends in .wav.
func isWAV(contentType, filename string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = ""
	}
	mt = strings.ToLower(mt)
	if wavTypes[mt] {
		return true
	}
	if mt == "" || mt == "application/octet-stream" {
		return strings.EqualFold(filepath.Ext(filename), ".wav")
	}
	return false
}
