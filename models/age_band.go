package models

import "fmt"

// AgeBand is one fixed bucket from the age-classification catalogue.
// Users are grouped into bands (not raw ages) so cohorts stay large
// enough to be meaningful and small enough to be relatable.
type AgeBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultAgeBands is the ordered, non-overlapping catalogue spanning ages 6-99.
// The classifier takes the band list at construction so tests can inject
// their own; nothing in the engine reads this variable directly.
var DefaultAgeBands = []AgeBand{
	{Min: 6, Max: 12},
	{Min: 13, Max: 17},
	{Min: 18, Max: 24},
	{Min: 25, Max: 34},
	{Min: 35, Max: 44},
	{Min: 45, Max: 54},
	{Min: 55, Max: 64},
	{Min: 65, Max: 99},
}

// Contains reports whether the given age range fits entirely inside the band.
func (b AgeBand) Contains(ageMin, ageMax int) bool {
	return ageMin >= b.Min && ageMax <= b.Max
}

// Overlap returns the number of ages shared between the band and the
// given range (0 when they are disjoint).
func (b AgeBand) Overlap(ageMin, ageMax int) int {
	lo := ageMin
	if b.Min > lo {
		lo = b.Min
	}
	hi := ageMax
	if b.Max < hi {
		hi = b.Max
	}
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

func (b AgeBand) String() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}
