package service

import (
	"slices"

	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/knowledge"
)

// Symptom weights in the raw match score.
const (
	CommonSymptomWeight = 3.0
	RareSymptomWeight   = 1.5
)

// SymptomMatch is the outcome of scoring one condition.
type SymptomMatch struct {
	// Raw is the summed weight of the matching symptoms.
	Raw float64
	// Score is Raw as a percentage of the condition's maximum possible weight.
	Score            float64
	MatchingSymptoms []string
}

// ScoreCondition computes the weighted symptom overlap of condition with the
// reported symptoms. Every report is scored, so a repeated symptom adds its
// weight again and is listed again. A condition with no symptoms scores 0.
func ScoreCondition(kb *knowledge.Base, condition *domain.Condition, symptoms []string) SymptomMatch {
	match := SymptomMatch{MatchingSymptoms: []string{}}

	for _, label := range symptoms {
		key := NormalizeSymptom(kb, label)
		if key == "" {
			continue
		}
		switch {
		case slices.Contains(condition.CommonSymptoms, key):
			match.Raw += CommonSymptomWeight
			match.MatchingSymptoms = append(match.MatchingSymptoms, key)
		case slices.Contains(condition.RareSymptoms, key):
			match.Raw += RareSymptomWeight
			match.MatchingSymptoms = append(match.MatchingSymptoms, key)
		}
	}

	maxScore := float64(len(condition.CommonSymptoms))*CommonSymptomWeight +
		float64(len(condition.RareSymptoms))*RareSymptomWeight
	if maxScore > 0 {
		match.Score = match.Raw / maxScore * 100
	}
	return match
}
