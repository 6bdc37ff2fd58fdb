// Package practice is the client side of a speaking exercise: it records a
// clip, uploads it to the coach server and renders the transcript, the
// feedback and a speaking score.
package practice
