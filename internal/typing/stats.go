// Package typing computes typing-test metrics and fraud indicators from candidate input.
package typing

import (
	"math"
	"time"
)

// charsPerWord is the standard word length used for WPM
const charsPerWord = 5

// Stats holds the real-time metrics of a typing attempt
type Stats struct {
	CorrectChars    int `json:"correct_chars"`
	Errors          int `json:"errors"`
	CharactersTyped int `json:"characters_typed"`
	WPM             int `json:"wpm"`
	Accuracy        int `json:"accuracy"`
}

// ComputeStats compares input against reference character by character, up to the
// shorter of the two, and derives WPM and accuracy.
func ComputeStats(input, reference string, elapsed time.Duration) Stats {
	typed := []rune(input)
	ref := []rune(reference)

	stats := Stats{CharactersTyped: len(typed)}

	n := min(len(typed), len(ref))
	for i := 0; i < n; i++ {
		if typed[i] == ref[i] {
			stats.CorrectChars++
		} else {
			stats.Errors++
		}
	}

	stats.WPM = wordsPerMinute(stats.CorrectChars, elapsed)
	stats.Accuracy = accuracy(stats.CorrectChars, len(typed))
	return stats
}

func wordsPerMinute(correctChars int, elapsed time.Duration) int {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	return int(math.Round((float64(correctChars) / charsPerWord) / minutes))
}

// accuracy is 100 before anything is typed
func accuracy(correctChars, typed int) int {
	if typed == 0 {
		return 100
	}
	return int(math.Round(float64(correctChars) / float64(typed) * 100))
}
