package service

import (
	"math"
	"slices"
	"strings"

	"github.com/symptom-checker-server/internal/domain"
)

// Multipliers applied on top of the match score.
const (
	MorePrevalentAgeFactor = 1.3
	LessPrevalentAgeFactor = 0.7
	GenderFactor           = 1.2
	SeverityFactor         = 1.2
	DurationMatchFactor    = 1.1
	DurationMismatchFactor = 0.9

	// MaxConfidence caps every reported confidence.
	MaxConfidence = 95
)

// AgeBracketFor maps an age in years to its bracket. Negative ages are unknown.
func AgeBracketFor(age int) domain.AgeBracket {
	switch {
	case age < 0:
		return domain.AgeUnknown
	case age < 13:
		return domain.AgeChild
	case age < 25:
		return domain.AgeYoungAdult
	case age < 45:
		return domain.AgeAdult
	case age < 65:
		return domain.AgeMiddleAged
	default:
		return domain.AgeElderly
	}
}

// profileBracket returns the bracket for an optional age.
func profileBracket(age *int) domain.AgeBracket {
	if age == nil {
		return domain.AgeUnknown
	}
	return AgeBracketFor(*age)
}

// Demographics is the breakdown of the demographic multiplier.
type Demographics struct {
	Factor        float64
	GenderApplied bool
}

// DemographicMultiplier combines the age and gender prevalence adjustments.
// The two age checks are independent; an unknown bracket matches neither.
func DemographicMultiplier(condition *domain.Condition, age *int, gender string) Demographics {
	d := Demographics{Factor: 1.0}

	if bracket := profileBracket(age); bracket != domain.AgeUnknown {
		if slices.Contains(condition.AgeAffinity.MorePrevalentIn, bracket) {
			d.Factor *= MorePrevalentAgeFactor
		}
		if slices.Contains(condition.AgeAffinity.LessPrevalentIn, bracket) {
			d.Factor *= LessPrevalentAgeFactor
		}
	}

	if g := strings.ToLower(strings.TrimSpace(gender)); g != "" {
		for _, affinity := range condition.GenderAffinity.MorePrevalentIn {
			if strings.EqualFold(affinity, g) {
				d.Factor *= GenderFactor
				d.GenderApplied = true
				break
			}
		}
	}
	return d
}

// SeverityMultiplier rewards conditions that present at the reported severity.
func SeverityMultiplier(condition *domain.Condition, severity domain.Severity) float64 {
	if slices.Contains(condition.ApplicableSeverities, severity) {
		return SeverityFactor
	}
	return 1.0
}

// DurationMultiplier rewards conditions whose acute or chronic profile fits the
// reported duration and penalizes the rest, including unknown buckets.
func DurationMultiplier(condition *domain.Condition, duration domain.DurationBucket) float64 {
	switch {
	case duration.IsAcute() && condition.DurationProfile.IsAcute:
		return DurationMatchFactor
	case duration.IsChronic() && condition.DurationProfile.IsChronic:
		return DurationMatchFactor
	default:
		return DurationMismatchFactor
	}
}

// Confidence applies the multipliers to a match score, caps it and rounds it.
func Confidence(score, demographic, severity, duration float64) int {
	adjusted := math.Min(score*demographic*severity*duration, MaxConfidence)
	return int(math.Round(math.Max(adjusted, 0)))
}
