package practice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/speakmate/httpclient"
)

const (
	// DefaultServerURL is where the coach server listens by default.
	DefaultServerURL = "http://localhost:8000"
	// DefaultUploadTimeout bounds one upload round trip.
	DefaultUploadTimeout = 30 * time.Second

	// ServerErrorMessage is shown for every failed upload.
	ServerErrorMessage = "❌ Server error. Please try again."
)

// Feedback is the server's answer for one clip.
type Feedback struct {
	Text     string `json:"text"`
	Feedback string `json:"feedback"`
}

// UploadError is a failed upload: a transport failure, a non-200 status or
// an unreadable body.
type UploadError struct {
	// StatusCode is 0 when no response arrived.
	StatusCode int
	// Detail is the server's {"detail"} message, when present.
	Detail string
	Err    error
}

func (e *UploadError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("upload failed with status %d: %s", e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("upload failed with status %d", e.StatusCode)
	default:
		return fmt.Sprintf("upload failed: %v", e.Err)
	}
}

func (e *UploadError) Unwrap() error { return e.Err }

// Uploader sends clips to the coach server.
type Uploader struct {
	client *httpclient.Client
}

// NewUploader creates an uploader for serverURL. A zero timeout uses
// DefaultUploadTimeout.
func NewUploader(serverURL string, timeout time.Duration) (*Uploader, error) {
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL:   strings.TrimRight(serverURL, "/"),
		Timeout:   timeout,
		UserAgent: "speakmate-client",
	})
	if err != nil {
		return nil, err
	}
	return &Uploader{client: client}, nil
}

// Upload posts wav as the audio_file part of POST /speak. It makes a
// single attempt.
func (u *Uploader) Upload(ctx context.Context, wav io.Reader) (*Feedback, error) {
	resp, err := u.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/speak",
		Body: &httpclient.MultipartBody{Files: []httpclient.FileField{{
			FieldName:   "audio_file",
			FileName:    "audio.wav",
			ContentType: "audio/wav",
			Reader:      wav,
		}}},
	})
	if err != nil {
		return nil, uploadError(resp, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, uploadError(resp, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var fb Feedback
	if err := json.Unmarshal(resp.Body, &fb); err != nil {
		return nil, &UploadError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &fb, nil
}

// Ping checks that the server answers GET /.
func (u *Uploader) Ping(ctx context.Context) error {
	resp, err := u.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		return uploadError(resp, err)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Message == "" {
		return &UploadError{StatusCode: resp.StatusCode, Err: errors.New("unexpected welcome payload")}
	}
	return nil
}

func uploadError(resp *httpclient.Response, err error) *UploadError {
	ue := &UploadError{Err: err}
	if resp == nil {
		ue.StatusCode = httpclient.StatusCode(err)
		return ue
	}
	ue.StatusCode = resp.StatusCode
	var body struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(resp.Body, &body) == nil {
		ue.Detail = body.Detail
	}
	return ue
}
