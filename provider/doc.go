// Package provider models an upstream AI backend as a named request/response
// call and decorates it with cross-cutting middleware.
//
//	stt := provider.Chain(
//	    provider.WithLogging[transcription.Request, *transcription.Response](log),
//	    provider.WithTracing[transcription.Request, *transcription.Response]("coach"),
//	    provider.WithTimeout[transcription.Request, *transcription.Response](60*time.Second),
//	)(transcription.AsRequestResponse(openaiSTT))
//
// Middleware never retries; a failed Execute is returned to the caller as is.
package provider
