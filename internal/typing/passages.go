package typing

import "math/rand/v2"

var passages = []string{
	"The quick brown fox jumps over the lazy dog while the patient farmer watches from the porch. " +
		"Every morning he writes a short list of chores and checks them off one by one before noon. " +
		"Good habits are built from small steps repeated daily, not from grand plans made once a year.",
	"Software teams ship reliable systems by writing small changes, reviewing each other's work, " +
		"and measuring what happens in production. When something breaks, they fix the cause and " +
		"write down what they learned so the same mistake is less likely to happen again.",
	"A clear message respects the reader's time. Lead with the point, support it with one or two " +
		"concrete facts, and end with the action you need. Long sentences hide ideas; short ones " +
		"carry them. Read your draft aloud once before you send it to anyone.",
}

// Passages returns the built-in reference texts
func Passages() []string {
	out := make([]string, len(passages))
	copy(out, passages)
	return out
}

// ReferenceText picks a reference passage. A nil rng returns the first passage.
func ReferenceText(rng *rand.Rand) string {
	if rng == nil {
		return passages[0]
	}
	return passages[rng.IntN(len(passages))]
}
