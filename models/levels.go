package models

import "fmt"

// SkillLevel is the ordinal self-assessed proficiency for one interest.
type SkillLevel int

const (
	SkillNovice       SkillLevel = 1
	SkillIntermediate SkillLevel = 2
	SkillAdvanced     SkillLevel = 3
	SkillExpert       SkillLevel = 4
)

// ParseSkillLevel validates a raw stored level. Storage rows are parsed
// once at the boundary — nothing deeper in the call graph trusts raw ints.
func ParseSkillLevel(raw int) (SkillLevel, error) {
	if raw < int(SkillNovice) || raw > int(SkillExpert) {
		return 0, fmt.Errorf("invalid skill level %d (want 1-4)", raw)
	}
	return SkillLevel(raw), nil
}

func (l SkillLevel) String() string {
	switch l {
	case SkillNovice:
		return "novice"
	case SkillIntermediate:
		return "intermediate"
	case SkillAdvanced:
		return "advanced"
	case SkillExpert:
		return "expert"
	default:
		return fmt.Sprintf("skill(%d)", int(l))
	}
}

// CommitmentLevel is how seriously a user pursues an interest. It is an
// unordered label used only as a cohort partition key.
type CommitmentLevel string

const (
	CommitmentCasual      CommitmentLevel = "casual"
	CommitmentAverage     CommitmentLevel = "average"
	CommitmentInvested    CommitmentLevel = "invested"
	CommitmentCompetitive CommitmentLevel = "competitive"
)

// ParseCommitmentLevel validates a raw stored commitment label.
func ParseCommitmentLevel(raw string) (CommitmentLevel, error) {
	switch CommitmentLevel(raw) {
	case CommitmentCasual, CommitmentAverage, CommitmentInvested, CommitmentCompetitive:
		return CommitmentLevel(raw), nil
	default:
		return "", fmt.Errorf("invalid commitment level %q", raw)
	}
}
