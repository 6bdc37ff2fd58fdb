package practice

import (
	"math"
	"strings"
)

// SpeakingScore rates speech rate on a 0-100 scale: twenty points per word
// per second, capped at 100. A non-positive duration scores 0.
func SpeakingScore(transcript string, durationSeconds float64) int {
	if durationSeconds <= 0 {
		return 0
	}
	words := len(strings.Fields(transcript))
	return min(100, int(math.Round(float64(words)/durationSeconds*20)))
}
