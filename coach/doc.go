// Package coach implements the speech practice endpoint: an uploaded WAV
// clip is transcribed, the transcript is sent to a language model with a
// fixed teacher instruction and both results go back to the student.
//
//	POST /speak   multipart audio_file -> {"text": ..., "feedback": ...}
//	GET  /        {"message": "Welcome to AI English Teacher"}
//
// Errors leave as an HTTP status with a {"detail": ...} body.
package coach
