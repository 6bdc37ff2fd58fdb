// Package capture records mono 16-bit speech clips from the default input
// device and encodes them as WAV.
//
// A Recorder moves through Idle, Recording and then Complete or Error, and
// publishes every transition to its subscribers. Renderers observe those
// states; they never drive them.
package capture
