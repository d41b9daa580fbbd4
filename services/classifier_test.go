package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interest-insights-system/models"
)

func TestClassifyContainedRange(t *testing.T) {
	classifier := NewAgeCohortClassifier(nil)

	// Every band must classify ranges fully inside it to exactly itself.
	for _, band := range models.DefaultAgeBands {
		assert.Equal(t, band, classifier.Classify(band.Min, band.Max), "full band %s", band)
		assert.Equal(t, band, classifier.Classify(band.Min, band.Min), "left edge of %s", band)
		assert.Equal(t, band, classifier.Classify(band.Max, band.Max), "right edge of %s", band)
	}
}

func TestClassifyOverlapFallback(t *testing.T) {
	classifier := NewAgeCohortClassifier(nil)

	// 10-14 spans (6,12) and (13,17): overlap 3 vs 2, first band wins on size.
	assert.Equal(t, models.AgeBand{Min: 6, Max: 12}, classifier.Classify(10, 14))

	// 11-19 spans three bands: (6,12) overlap 2, (13,17) overlap 5, (18,24) overlap 2.
	assert.Equal(t, models.AgeBand{Min: 13, Max: 17}, classifier.Classify(11, 19))

	// 12-18 overlaps (6,12) by 1, (13,17) by 5, (18,24) by 1.
	assert.Equal(t, models.AgeBand{Min: 13, Max: 17}, classifier.Classify(12, 18))
}

func TestClassifyOverlapTieBreaksEarlier(t *testing.T) {
	bands := []models.AgeBand{
		{Min: 10, Max: 19},
		{Min: 20, Max: 29},
	}
	classifier := NewAgeCohortClassifier(bands)

	// 15-24 overlaps both bands by exactly 5: earlier band wins.
	assert.Equal(t, bands[0], classifier.Classify(15, 24))
}

func TestClassifyNoOverlapDefaultsToFirstBand(t *testing.T) {
	classifier := NewAgeCohortClassifier(nil)

	// An out-of-catalogue range still classifies (never fails).
	assert.Equal(t, models.DefaultAgeBands[0], classifier.Classify(1, 3))
	assert.Equal(t, models.DefaultAgeBands[0], classifier.Classify(150, 200))
}

func TestClassifierUsesInjectedBands(t *testing.T) {
	custom := []models.AgeBand{{Min: 0, Max: 49}, {Min: 50, Max: 120}}
	classifier := NewAgeCohortClassifier(custom)

	require.Equal(t, custom, classifier.Bands())
	assert.Equal(t, custom[1], classifier.Classify(60, 70))
}
