package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Format describes the PCM stream a device must produce: signed 16-bit
// little-endian samples at SampleRate with Channels interleaved.
type Format struct {
	SampleRate int
	Channels   int
}

// Device opens a PCM input stream. Closing the stream releases the device.
type Device interface {
	Open(ctx context.Context, f Format) (io.ReadCloser, error)
}

// DeviceError is a capture failure with a message fit for the user.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device %s failed: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// CommandDevice records through an external program writing raw PCM to
// stdout, such as arecord (ALSA) or rec (SoX).
type CommandDevice struct {
	// Command is the program name or path.
	Command string
	// Args builds the program arguments for a format.
	Args func(f Format) []string
	// LookPath resolves Command. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// DefaultDevice returns arecord on Linux and SoX's rec elsewhere.
func DefaultDevice() *CommandDevice {
	if runtime.GOOS == "linux" {
		return ARecord()
	}
	return SoxRec()
}

// ARecord records from the default ALSA capture device.
func ARecord() *CommandDevice {
	return &CommandDevice{
		Command: "arecord",
		Args: func(f Format) []string {
			return []string{"-q", "-t", "raw", "-f", "S16_LE",
				"-c", strconv.Itoa(f.Channels), "-r", strconv.Itoa(f.SampleRate)}
		},
	}
}

// SoxRec records from the default input with SoX.
func SoxRec() *CommandDevice {
	return &CommandDevice{
		Command: "rec",
		Args: func(f Format) []string {
			return []string{"-q", "-t", "raw", "-e", "signed-integer", "-b", "16", "-L",
				"-c", strconv.Itoa(f.Channels), "-r", strconv.Itoa(f.SampleRate), "-"}
		},
	}
}

// Open starts the recorder process. The process is killed when ctx is done
// or the stream is closed.
func (d *CommandDevice) Open(ctx context.Context, f Format) (io.ReadCloser, error) {
	lookPath := d.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(d.Command)
	if err != nil {
		return nil, &DeviceError{Op: "open", Err: fmt.Errorf("%s not found; install it to record audio", d.Command)}
	}

	cmd := exec.CommandContext(ctx, path, d.Args(f)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &DeviceError{Op: "open", Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &DeviceError{Op: "open", Err: err}
	}
	return &commandStream{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

type commandStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer

	once    sync.Once
	waitErr error
}

// Read passes stdout through. At end of stream the process is reaped and
// anything it wrote to stderr becomes the error.
func (s *commandStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if err != io.EOF {
		return n, err
	}
	s.wait()
	if msg := strings.TrimSpace(s.stderr.String()); msg != "" {
		return n, fmt.Errorf("%s: %s", s.cmd.Path, msg)
	}
	if s.waitErr != nil {
		return n, s.waitErr
	}
	return n, io.EOF
}

// Close stops the process and reaps it.
func (s *commandStream) Close() error {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	s.wait()
	return nil
}

func (s *commandStream) wait() {
	s.once.Do(func() { s.waitErr = s.cmd.Wait() })
}
