package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interest-insights-system/models"
)

func seedMusicCohort(novices, intermediates int) *fakeRoster {
	roster := &fakeRoster{}
	for i := 0; i < novices; i++ {
		roster.members = append(roster.members, fakeMember{
			userID: "novice", ageMin: 7, ageMax: 9, optedIn: true,
			category: "Music", slug: "music",
			level: models.SkillNovice, intent: models.CommitmentCasual,
		})
	}
	for i := 0; i < intermediates; i++ {
		roster.members = append(roster.members, fakeMember{
			userID: "intermediate", ageMin: 10, ageMax: 12, optedIn: true,
			category: "Music", slug: "music",
			level: models.SkillIntermediate, intent: models.CommitmentCasual,
		})
	}
	return roster
}

func TestRecomputeSeedDistribution(t *testing.T) {
	// 150 novices and 80 intermediates in the 6-12 casual Music cohort.
	roster := seedMusicCohort(150, 80)
	store := newFakeStatsStore()
	maintainer := NewCohortStatsMaintainer(roster, store)
	band := models.AgeBand{Min: 6, Max: 12}

	require.NoError(t, maintainer.Recompute(band, "music", models.CommitmentCasual))

	rows, err := store.Query(band, "music", models.CommitmentCasual)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, models.SkillNovice, rows[0].SkillLevel)
	assert.Equal(t, 150, rows[0].UserCount)
	assert.Equal(t, 0, rows[0].Percentile) // nobody strictly below the lowest level
	assert.Equal(t, 230, rows[0].TotalCohortSize)

	assert.Equal(t, models.SkillIntermediate, rows[1].SkillLevel)
	assert.Equal(t, 80, rows[1].UserCount)
	assert.Equal(t, 65, rows[1].Percentile) // round(150/230*100)
	assert.Equal(t, 230, rows[1].TotalCohortSize)
}

func TestRecomputeRowCountsSumToCohortSize(t *testing.T) {
	roster := seedMusicCohort(37, 12)
	roster.members = append(roster.members, fakeMember{
		userID: "expert", ageMin: 6, ageMax: 12, optedIn: true,
		category: "Music", slug: "music",
		level: models.SkillExpert, intent: models.CommitmentCasual,
	})
	store := newFakeStatsStore()
	maintainer := NewCohortStatsMaintainer(roster, store)
	band := models.AgeBand{Min: 6, Max: 12}

	require.NoError(t, maintainer.Recompute(band, "music", models.CommitmentCasual))

	rows, err := store.Query(band, "music", models.CommitmentCasual)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	sum := 0
	for _, row := range rows {
		sum += row.UserCount
		assert.Equal(t, 50, row.TotalCohortSize, "every row carries the cohort total")
	}
	assert.Equal(t, 50, sum, "per-level counts partition the cohort")
}

func TestRecomputeIsIdempotent(t *testing.T) {
	roster := seedMusicCohort(150, 80)
	store := newFakeStatsStore()
	maintainer := NewCohortStatsMaintainer(roster, store)
	band := models.AgeBand{Min: 6, Max: 12}

	require.NoError(t, maintainer.Recompute(band, "music", models.CommitmentCasual))
	first, err := store.Query(band, "music", models.CommitmentCasual)
	require.NoError(t, err)

	require.NoError(t, maintainer.Recompute(band, "music", models.CommitmentCasual))
	second, err := store.Query(band, "music", models.CommitmentCasual)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		// UpdatedAt moves with each run; every stored datum must not.
		first[i].UpdatedAt = second[i].UpdatedAt
		assert.Equal(t, first[i], second[i])
	}
}

func TestRecomputeEmptyCohortWritesNothing(t *testing.T) {
	roster := &fakeRoster{}
	store := newFakeStatsStore()
	maintainer := NewCohortStatsMaintainer(roster, store)

	require.NoError(t, maintainer.Recompute(models.AgeBand{Min: 18, Max: 24}, "chess", models.CommitmentInvested))
	assert.Zero(t, store.upsertCalls, "no opted-in members must produce no rows")
}

func TestRecomputeExcludesOptedOutMembers(t *testing.T) {
	roster := seedMusicCohort(3, 0)
	roster.members = append(roster.members, fakeMember{
		userID: "private", ageMin: 8, ageMax: 10, optedIn: false,
		category: "Music", slug: "music",
		level: models.SkillExpert, intent: models.CommitmentCasual,
	})
	store := newFakeStatsStore()
	maintainer := NewCohortStatsMaintainer(roster, store)
	band := models.AgeBand{Min: 6, Max: 12}

	require.NoError(t, maintainer.Recompute(band, "music", models.CommitmentCasual))

	rows, err := store.Query(band, "music", models.CommitmentCasual)
	require.NoError(t, err)
	require.Len(t, rows, 1, "the opted-out expert must not appear")
	assert.Equal(t, models.SkillNovice, rows[0].SkillLevel)
	assert.Equal(t, 3, rows[0].TotalCohortSize)
}

func TestRecomputePropagatesStorageErrors(t *testing.T) {
	roster := seedMusicCohort(5, 5)
	store := newFakeStatsStore()
	store.upsertErr = errors.New("connection reset")
	maintainer := NewCohortStatsMaintainer(roster, store)

	err := maintainer.Recompute(models.AgeBand{Min: 6, Max: 12}, "music", models.CommitmentCasual)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")
}
