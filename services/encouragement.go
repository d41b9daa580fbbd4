package services

import (
	"fmt"
	"strings"

	"interest-insights-system/models"
)

// ageGroupNoun picks the noun used to describe the cohort in messages.
func ageGroupNoun(band models.AgeBand) string {
	switch {
	case band.Max <= 12:
		return "kids"
	case band.Max <= 18:
		return "teens"
	default:
		return "people"
	}
}

// commitmentAdjective maps a commitment level to the adjective used in messages.
func commitmentAdjective(intent models.CommitmentLevel) string {
	switch intent {
	case models.CommitmentCasual:
		return "casual"
	case models.CommitmentAverage:
		return "regular"
	case models.CommitmentInvested:
		return "dedicated"
	case models.CommitmentCompetitive:
		return "competitive"
	default:
		return "regular"
	}
}

// ComposeEncouragement builds the motivational line shown next to a
// comparison. Deterministic: the same inputs always produce the same string
// (the dashboard caches these client-side).
func ComposeEncouragement(percentile int, intent models.CommitmentLevel, category string, band models.AgeBand) string {
	noun := ageGroupNoun(band)
	adjective := commitmentAdjective(intent)
	topic := strings.ToLower(category)

	switch {
	case percentile >= 90:
		return fmt.Sprintf("Amazing! You're ahead of %d%% of %s %s aged %d-%d who enjoy %s. Keep leading the way!",
			percentile, adjective, noun, band.Min, band.Max, topic)
	case percentile >= 75:
		return fmt.Sprintf("Great progress! You're doing better than %d%% of %s %s aged %d-%d in %s.",
			percentile, adjective, noun, band.Min, band.Max, topic)
	case percentile >= 50:
		return fmt.Sprintf("Solid work! You're ahead of %d%% of %s %s aged %d-%d who practice %s. Keep it up!",
			percentile, adjective, noun, band.Min, band.Max, topic)
	case percentile >= 25:
		return fmt.Sprintf("You're building momentum in %s! Keep practicing and you'll climb past more %s %s aged %d-%d.",
			topic, adjective, noun, band.Min, band.Max)
	default:
		return fmt.Sprintf("Every expert started somewhere! Stick with %s and you'll catch up to other %s %s aged %d-%d.",
			topic, adjective, noun, band.Min, band.Max)
	}
}
