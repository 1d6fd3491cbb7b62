// Package interview allocates, generates, navigates and scores AI interview questions.
package interview

import (
	"math"

	"github.com/jonathan/assessment-engine/internal/types"
)

// Allocation is the number of questions drawn from each category
type Allocation map[types.Category]int

// Total returns the number of allocated questions
func (a Allocation) Total() int {
	total := 0
	for _, n := range a {
		total += n
	}
	return total
}

// Allocate splits n questions across categories by percentage. Each category is rounded
// independently, so the total can differ slightly from n. Categories that round to zero
// are left out.
func Allocate(n int, distribution types.Distribution) Allocation {
	alloc := make(Allocation)
	if n <= 0 {
		return alloc
	}
	for _, category := range types.Categories {
		pct := distribution[category]
		if pct <= 0 {
			continue
		}
		count := int(math.Round(float64(pct) * float64(n) / 100))
		if count > 0 {
			alloc[category] = count
		}
	}
	return alloc
}
