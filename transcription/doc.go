// Package transcription defines the speech-to-text provider contract.
//
// Backends:
//
//   - transcription/openai: hosted Whisper through the OpenAI API
//   - transcription/whisper: a self-hosted faster-whisper HTTP sidecar
//
// AsRequestResponse lifts a Provider into the provider middleware chain.
package transcription
