package services

import "interest-insights-system/models"

// AgeCohortClassifier maps a member's age range onto one band from a fixed,
// ordered catalogue. The band list is injected at construction (tests use
// custom bands); it is never mutated after that.
type AgeCohortClassifier struct {
	bands []models.AgeBand
}

func NewAgeCohortClassifier(bands []models.AgeBand) *AgeCohortClassifier {
	if len(bands) == 0 {
		bands = models.DefaultAgeBands
	}
	return &AgeCohortClassifier{bands: bands}
}

// Bands returns the catalogue the classifier was built with.
func (c *AgeCohortClassifier) Bands() []models.AgeBand {
	return c.bands
}

// Classify returns the first band that fully contains the given range.
// When no band contains it, the band with the largest overlap wins, ties
// going to the earlier band in catalogue order. Never fails: all-zero
// overlaps fall back to the first band.
func (c *AgeCohortClassifier) Classify(ageRangeMin, ageRangeMax int) models.AgeBand {
	for _, band := range c.bands {
		if band.Contains(ageRangeMin, ageRangeMax) {
			return band
		}
	}

	best := c.bands[0]
	bestOverlap := 0
	for _, band := range c.bands {
		if overlap := band.Overlap(ageRangeMin, ageRangeMax); overlap > bestOverlap {
			best = band
			bestOverlap = overlap
		}
	}
	return best
}
