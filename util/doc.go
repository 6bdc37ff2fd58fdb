// Package util holds small helpers shared by configuration and logging:
// human-readable byte sizes and secret masking.
package util
