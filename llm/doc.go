// Package llm defines the chat-completion provider contract used to
// generate coaching feedback.
//
// Backends:
//
//   - llm/openai: the OpenAI chat completions API
//   - llm/ollama: a local Ollama server
//
// Complete is the one-shot helper for a system instruction plus a single
// user turn.
package llm
