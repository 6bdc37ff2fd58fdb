package transcription

// Request holds parameters for one transcription call.
type Request struct {
	// AudioPath is a file on local disk. Providers read it; they never
	// delete it.
	AudioPath string `json:"audio_path"`
	// Language is an ISO-639-1 hint such as "en".
	Language string `json:"language,omitempty"`
	// Prompt primes the model with domain context.
	Prompt string `json:"prompt,omitempty"`
	// Model overrides the provider's configured model.
	Model string `json:"model,omitempty"`
}

// Response is a transcription result. Text is empty when no speech was
// recognized.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio length in seconds, when the backend reports it.
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Segment is a time-aligned part of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
