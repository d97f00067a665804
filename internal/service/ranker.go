package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/knowledge"
)

const (
	// MaxResults bounds the ranked list.
	MaxResults = 5
	// RelevanceThreshold is the match score a condition must exceed to be listed.
	RelevanceThreshold = 10.0
	// ageRiskThreshold is the age above which elderly-prevalent conditions are flagged.
	ageRiskThreshold = 50

	ageRiskFactor = "Age-related risk factor"
)

// AnalyzeSymptoms scores every condition in kb against the profile and returns
// at most MaxResults candidates by descending confidence. Equal confidences
// keep catalog declaration order. The result is owned by the caller.
func AnalyzeSymptoms(kb *knowledge.Base, profile domain.PatientProfile) []domain.AnalysisResult {
	symptoms := NormalizeSymptoms(kb, profile.Symptoms())
	results := make([]domain.AnalysisResult, 0, MaxResults)

	for _, condition := range kb.Conditions() {
		match := ScoreCondition(kb, condition, symptoms)
		if match.Score <= RelevanceThreshold {
			continue
		}

		demographics := DemographicMultiplier(condition, profile.Age, profile.Gender)
		confidence := Confidence(
			match.Score,
			demographics.Factor,
			SeverityMultiplier(condition, profile.Severity),
			DurationMultiplier(condition, profile.Duration),
		)

		results = append(results, domain.AnalysisResult{
			Condition:        condition,
			Confidence:       confidence,
			Band:             domain.BandFor(confidence),
			MatchingSymptoms: match.MatchingSymptoms,
			RiskFactors:      riskFactors(condition, profile, demographics),
		})
	}

	slices.SortStableFunc(results, func(a, b domain.AnalysisResult) int {
		return b.Confidence - a.Confidence
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

func riskFactors(condition *domain.Condition, profile domain.PatientProfile, demographics Demographics) []string {
	factors := []string{}
	if demographics.GenderApplied {
		factors = append(factors, fmt.Sprintf("More common in %ss", strings.ToLower(strings.TrimSpace(profile.Gender))))
	}
	if profile.Age != nil && *profile.Age > ageRiskThreshold &&
		slices.Contains(condition.AgeAffinity.MorePrevalentIn, domain.AgeElderly) {
		factors = append(factors, ageRiskFactor)
	}
	return factors
}
