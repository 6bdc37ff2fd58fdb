package practice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/speakmate/capture"
)

func TestSpeakingScore(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		duration   float64
		want       int
	}{
		{"five words in five seconds", "the quick brown fox jumps", 5, 20},
		{"rounds half up", "one two three", 8, 8}, // 7.5
		{"capped at 100", strings.Repeat("word ", 40), 5, 100},
		{"extra whitespace", "  hello \n\t world  ", 4, 10},
		{"empty transcript", "", 5, 0},
		{"zero duration", "hello", 0, 0},
		{"negative duration", "hello", -3, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SpeakingScore(tc.transcript, tc.duration); got != tc.want {
				t.Errorf("SpeakingScore(%q, %v) = %d, want %d", tc.transcript, tc.duration, got, tc.want)
			}
		})
	}
}

func TestExamples(t *testing.T) {
	ex := Examples()
	want := []string{"Self Introduction", "Daily Routines", "Job Interview", "Travel"}
	if len(ex) != len(want) {
		t.Fatalf("got %d topics", len(ex))
	}
	for i, tp := range ex {
		if tp.Name != want[i] || len(tp.Sentences) != 3 {
			t.Errorf("topic %d = %q with %d sentences", i, tp.Name, len(tp.Sentences))
		}
	}

	ex[0].Sentences[0] = "changed"
	if Examples()[0].Sentences[0] == "changed" {
		t.Error("Examples must return a copy")
	}
}

func TestCategory(t *testing.T) {
	tp, ok := Category("  travel ")
	if !ok || tp.Name != "Travel" {
		t.Fatalf("Category = %+v, %v", tp, ok)
	}
	if tp.Sentences[0] != "I'd like to book a room for two nights, please." {
		t.Errorf("first sentence = %q", tp.Sentences[0])
	}
	if _, ok := Category("cooking"); ok {
		t.Error("unknown category should not match")
	}
}

func TestValidateDuration(t *testing.T) {
	for _, d := range []int{3, 5, 15} {
		if err := ValidateDuration(d); err != nil {
			t.Errorf("%d: %v", d, err)
		}
	}
	for _, d := range []int{0, 2, 16} {
		if ValidateDuration(d) == nil {
			t.Errorf("%d should be rejected", d)
		}
	}
}

// --- uploader ---

func TestUploader_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/speak" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		file, hdr, err := r.FormFile("audio_file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if hdr.Filename != "audio.wav" || hdr.Header.Get("Content-Type") != "audio/wav" || string(data) != "RIFFDATA" {
			t.Errorf("part = %q %q %q", hdr.Filename, hdr.Header.Get("Content-Type"), data)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "hello there", "feedback": "Great job!"})
	}))
	defer srv.Close()

	up, err := NewUploader(srv.URL+"/", 0)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := up.Upload(context.Background(), strings.NewReader("RIFFDATA"))
	if err != nil {
		t.Fatal(err)
	}
	if fb.Text != "hello there" || fb.Feedback != "Great job!" {
		t.Errorf("feedback = %+v", fb)
	}
}

func TestUploader_Failures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantDetail string
	}{
		{
			name: "server error with detail",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"detail":"transcription request failed"}`))
			},
			wantStatus: http.StatusBadGateway,
			wantDetail: "transcription request failed",
		},
		{
			name: "non-200 success",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			up, _ := NewUploader(srv.URL, time.Second)

			_, err := up.Upload(context.Background(), strings.NewReader("x"))
			var ue *UploadError
			if !errors.As(err, &ue) {
				t.Fatalf("err = %v (%T)", err, err)
			}
			if ue.StatusCode != tc.wantStatus || ue.Detail != tc.wantDetail {
				t.Errorf("upload error = %+v", ue)
			}
		})
	}
}

func TestUploader_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	up, _ := NewUploader(url, time.Second)
	_, err := up.Upload(context.Background(), strings.NewReader("x"))
	var ue *UploadError
	if !errors.As(err, &ue) || ue.StatusCode != 0 {
		t.Fatalf("err = %v", err)
	}
}

func TestUploader_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Welcome to AI English Teacher"}`))
	}))
	defer srv.Close()
	up, _ := NewUploader(srv.URL, time.Second)
	if err := up.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
}

// --- session ---

type fakeRecorder struct {
	clip *capture.Clip
	err  error
}

func (f *fakeRecorder) Record(context.Context, int, int) (*capture.Clip, error) {
	return f.clip, f.err
}

type fakeSender struct {
	fb       *Feedback
	err      error
	path     string
	received []byte
}

func (f *fakeSender) Upload(_ context.Context, wav io.Reader) (*Feedback, error) {
	if file, ok := wav.(*os.File); ok {
		f.path = file.Name()
	}
	f.received, _ = io.ReadAll(wav)
	return f.fb, f.err
}

type recordingRenderer struct {
	errors    []string
	result    *Report
	analyzing bool
}

func (r *recordingRenderer) State(capture.State)                       {}
func (r *recordingRenderer) Progress(elapsed, remaining time.Duration) {}
func (r *recordingRenderer) Analyzing()                                { r.analyzing = true }
func (r *recordingRenderer) Result(rep *Report)                        { r.result = rep }
func (r *recordingRenderer) Error(msg string)                          { r.errors = append(r.errors, msg) }

func testClip() *capture.Clip {
	return &capture.Clip{Samples: make([]int16, 800), SampleRate: 8000}
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

func TestSession_Success(t *testing.T) {
	dir := t.TempDir()
	sender := &fakeSender{fb: &Feedback{Text: "the quick brown fox jumps", Feedback: "Nice!"}}
	r := &recordingRenderer{}
	s := NewSession(&fakeRecorder{clip: testClip()}, sender, r, WithCacheDir(dir))
	s.now = fixedNow

	rep, err := s.Run(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Score != 20 || rep.Transcript != "the quick brown fox jumps" || rep.Feedback != "Nice!" {
		t.Errorf("report = %+v", rep)
	}
	if r.result != rep || !r.analyzing {
		t.Error("renderer should see analyzing and the result")
	}
	if !strings.HasSuffix(sender.path, "audio_20240309_140507.wav") {
		t.Errorf("cache path = %s", sender.path)
	}
	want := wavBytes(t, testClip())
	if !bytes.Equal(sender.received, want) {
		t.Error("uploaded bytes differ from the clip's WAV")
	}
	assertEmpty(t, dir)
}

func TestSession_UploadFailureRemovesClip(t *testing.T) {
	dir := t.TempDir()
	sender := &fakeSender{err: &UploadError{StatusCode: 500}}
	r := &recordingRenderer{}
	s := NewSession(&fakeRecorder{clip: testClip()}, sender, r, WithCacheDir(dir))

	if _, err := s.Run(context.Background(), 5); err == nil {
		t.Fatal("expected error")
	}
	if len(r.errors) != 1 || r.errors[0] != "❌ Server error. Please try again." {
		t.Errorf("errors = %v", r.errors)
	}
	if r.result != nil {
		t.Error("no result expected")
	}
	assertEmpty(t, dir)
}

func TestSession_RecordingFailure(t *testing.T) {
	dir := t.TempDir()
	sender := &fakeSender{}
	r := &recordingRenderer{}
	devErr := &capture.DeviceError{Op: "open", Err: errors.New("arecord not found")}
	s := NewSession(&fakeRecorder{err: devErr}, sender, r, WithCacheDir(dir))

	_, err := s.Run(context.Background(), 5)
	if !errors.Is(err, devErr) {
		t.Fatalf("err = %v", err)
	}
	if sender.path != "" {
		t.Error("nothing should be uploaded")
	}
	if len(r.errors) != 1 || !strings.Contains(r.errors[0], "arecord not found") {
		t.Errorf("errors = %v", r.errors)
	}
	assertEmpty(t, dir)
}

func wavBytes(t *testing.T, clip *capture.Clip) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "want.wav")
	if err := clip.Save(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func assertEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir not empty: %d entries", len(entries))
	}
}

// --- renderer ---

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalRenderer(&buf)
	r.State(capture.StateRecording)
	r.Progress(2*time.Second, 3*time.Second)
	r.State(capture.StateComplete)
	r.Result(&Report{Transcript: "hello", Feedback: "Well done", Score: 40})

	out := buf.String()
	for _, want := range []string{"Recording", "3 seconds remaining", "Your Speech:\nhello", "AI Feedback:\nWell done", "Speaking Score: 40%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(1, 4, 8); got != "[██░░░░░░]" {
		t.Errorf("bar = %s", got)
	}
	if got := progressBar(5, 4, 4); got != "[████]" {
		t.Errorf("overfull bar = %s", got)
	}
	if got := progressBar(1, 0, 2); got != "[░░]" {
		t.Errorf("zero total bar = %s", got)
	}
}
