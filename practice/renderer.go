package practice

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/speakmate/capture"
)

// Renderer presents a session. It observes; it never drives capture.
type Renderer interface {
	State(s capture.State)
	Progress(elapsed, remaining time.Duration)
	Analyzing()
	Result(r *Report)
	Error(msg string)
}

// TerminalRenderer writes a session to a terminal.
type TerminalRenderer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminalRenderer writes to out.
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{out: out}
}

func (t *TerminalRenderer) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *TerminalRenderer) State(s capture.State) {
	switch s {
	case capture.StateRecording:
		t.printf("🎙️  Recording... speak now!\n")
	case capture.StateComplete:
		t.printf("\r✅ Recording complete!%s\n", strings.Repeat(" ", 24))
	case capture.StateError:
		t.printf("\n")
	}
}

func (t *TerminalRenderer) Progress(elapsed, remaining time.Duration) {
	secs := int((remaining + time.Second - 1) / time.Second)
	t.printf("\r%s %d seconds remaining ", progressBar(int64(elapsed), int64(elapsed+remaining), 20), secs)
}

func (t *TerminalRenderer) Analyzing() {
	t.printf("🤖 AI is analyzing your speech...\n")
}

func (t *TerminalRenderer) Result(r *Report) {
	t.printf("✨ Analysis complete!\n\n")
	t.printf("### 🗣️ Your Speech:\n%s\n\n", r.Transcript)
	t.printf("### 📝 AI Feedback:\n%s\n\n", r.Feedback)
	t.printf("%s Speaking Score: %d%%\n", progressBar(int64(r.Score), 100, 20), r.Score)
}

func (t *TerminalRenderer) Error(msg string) {
	t.printf("%s\n", msg)
}

// Prompt echoes the text the student is about to read.
func (t *TerminalRenderer) Prompt(text string) {
	t.printf("### Your Text:\n%s\n\n", text)
}

// Topics prints example topics.
func (t *TerminalRenderer) Topics(topics ...Topic) {
	for _, tp := range topics {
		t.printf("📚 %s\n", tp.Name)
		for _, s := range tp.Sentences {
			t.printf("   • %s\n", s)
		}
		t.printf("\n")
	}
}

func progressBar(done, total int64, width int) string {
	filled := 0
	if total > 0 {
		filled = max(0, min(width, int(int64(width)*done/total)))
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
