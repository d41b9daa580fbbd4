package services

import (
	"errors"
	"sort"

	"interest-insights-system/models"
)

// fakeMember pairs a member profile with one interest, mirroring what the
// roster join sees.
type fakeMember struct {
	userID   string
	ageMin   int
	ageMax   int
	optedIn  bool
	category string
	slug     string
	level    models.SkillLevel
	intent   models.CommitmentLevel
}

// fakeRoster implements CohortRoster in memory with the same semantics the
// SQL implementation has: only opted-in members whose age range is contained
// in the band are counted.
type fakeRoster struct {
	members         []fakeMember
	levelCountsErr  error
	distinctErr     error
	levelCountCalls int
}

func (r *fakeRoster) LevelCounts(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) ([]LevelCount, error) {
	r.levelCountCalls++
	if r.levelCountsErr != nil {
		return nil, r.levelCountsErr
	}
	byLevel := map[models.SkillLevel]int{}
	for _, m := range r.members {
		if !m.optedIn || m.slug != categorySlug || m.intent != intent {
			continue
		}
		if !band.Contains(m.ageMin, m.ageMax) {
			continue
		}
		byLevel[m.level]++
	}
	counts := make([]LevelCount, 0, len(byLevel))
	for level, count := range byLevel {
		counts = append(counts, LevelCount{Level: level, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Level < counts[j].Level })
	return counts, nil
}

func (r *fakeRoster) DistinctCohorts() ([]RawCohortTuple, error) {
	if r.distinctErr != nil {
		return nil, r.distinctErr
	}
	seen := map[RawCohortTuple]bool{}
	var tuples []RawCohortTuple
	for _, m := range r.members {
		if !m.optedIn {
			continue
		}
		t := RawCohortTuple{
			AgeRangeMin:  m.ageMin,
			AgeRangeMax:  m.ageMax,
			CategorySlug: m.slug,
			IntentLevel:  m.intent,
		}
		if !seen[t] {
			seen[t] = true
			tuples = append(tuples, t)
		}
	}
	return tuples, nil
}

func (r *fakeRoster) MemberInterest(externalUserID, categorySlug string) (*models.FamilyMember, *models.UserInterest, error) {
	var member *models.FamilyMember
	for _, m := range r.members {
		if m.userID != externalUserID {
			continue
		}
		if member == nil {
			member = &models.FamilyMember{
				ExternalUserID:       m.userID,
				AgeRangeMin:          m.ageMin,
				AgeRangeMax:          m.ageMax,
				AllowPeerComparisons: m.optedIn,
			}
		}
		if m.slug == categorySlug {
			return member, &models.UserInterest{
				ExternalUserID: m.userID,
				Category:       m.category,
				CategorySlug:   m.slug,
				CurrentLevel:   m.level,
				IntentLevel:    m.intent,
			}, nil
		}
	}
	return member, nil, nil
}

func (r *fakeRoster) MemberInterests(externalUserID string) ([]models.UserInterest, error) {
	var interests []models.UserInterest
	for _, m := range r.members {
		if m.userID != externalUserID {
			continue
		}
		interests = append(interests, models.UserInterest{
			ExternalUserID: m.userID,
			Category:       m.category,
			CategorySlug:   m.slug,
			CurrentLevel:   m.level,
			IntentLevel:    m.intent,
		})
	}
	return interests, nil
}

type statsKey struct {
	ageMin int
	ageMax int
	slug   string
	intent models.CommitmentLevel
	level  models.SkillLevel
}

// fakeStatsStore implements CohortStatsStore over a map, counting calls so
// tests can assert on side effects.
type fakeStatsStore struct {
	rows        map[statsKey]models.CohortStats
	upsertErr   error
	queryErr    error
	upsertCalls int
	queryCalls  int
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{rows: map[statsKey]models.CohortStats{}}
}

func (s *fakeStatsStore) Upsert(entry *models.CohortStats) error {
	s.upsertCalls++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	key := statsKey{entry.AgeRangeMin, entry.AgeRangeMax, entry.CategorySlug, entry.IntentLevel, entry.SkillLevel}
	s.rows[key] = *entry
	return nil
}

func (s *fakeStatsStore) Query(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) ([]models.CohortStats, error) {
	s.queryCalls++
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var out []models.CohortStats
	for key, row := range s.rows {
		if key.ageMin == band.Min && key.ageMax == band.Max && key.slug == categorySlug && key.intent == intent {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillLevel < out[j].SkillLevel })
	return out, nil
}

// fakeRecomputer stands in for the maintainer in bulk-job tests.
type fakeRecomputer struct {
	calls   []CohortKey
	failOn  *CohortKey
	failErr error
}

func (f *fakeRecomputer) Recompute(band models.AgeBand, categorySlug string, intent models.CommitmentLevel) error {
	key := CohortKey{Band: band, CategorySlug: categorySlug, IntentLevel: intent}
	f.calls = append(f.calls, key)
	if f.failOn != nil && key == *f.failOn {
		if f.failErr != nil {
			return f.failErr
		}
		return errors.New("recompute failed")
	}
	return nil
}
