package service

import (
	"slices"

	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/knowledge"
)

// Recommendation urgencies. Higher sorts first.
const (
	UrgencySelfCare     = 1
	UrgencyMonitor      = 2
	UrgencyConsult      = 3
	UrgencySeeDoctor24h = 4
	UrgencyEmergency    = 5

	// emergencyConfidence is the confidence above which a cardiovascular or
	// pneumonia top result escalates to an emergency.
	emergencyConfidence = 80

	pneumoniaName = "Pneumonia"
)

// RecommendationRule is one step of the recommendation sequence. Applies sees
// the top-ranked result and the profile; Build produces the recommendation.
type RecommendationRule struct {
	Code    string
	Applies func(top domain.AnalysisResult, profile domain.PatientProfile) bool
	Build   func(top domain.AnalysisResult) domain.Recommendation
}

var fallbackRecommendation = domain.Recommendation{
	Type:        domain.RecommendationSeeDoctor,
	Title:       "Consult Healthcare Provider",
	Description: "Your symptoms don't match common patterns. Please consult a healthcare provider for proper evaluation.",
	Urgency:     UrgencyConsult,
}

var selfCareGuidance = map[string]string{
	"Tension Headache":  "Rest, hydration, stress management, and over-the-counter pain relievers",
	"Common Cold":       "Rest, fluids, throat lozenges, and symptom management",
	"Allergic Reaction": "Avoid triggers, antihistamines, and monitor for worsening symptoms",
}

const defaultSelfCareGuidance = "Rest, hydration, and symptom monitoring"

// recommendationRules are evaluated in order against the top result. Every
// rule that applies contributes one recommendation.
var recommendationRules = []RecommendationRule{
	{
		Code: "EMERGENCY",
		Applies: func(top domain.AnalysisResult, _ domain.PatientProfile) bool {
			if top.Condition.Urgency == domain.UrgencyEmergency {
				return true
			}
			return top.Confidence > emergencyConfidence &&
				(top.Condition.Category == knowledge.CategoryCardiovascular || top.Condition.Name == pneumoniaName)
		},
		Build: fixed(domain.Recommendation{
			Type:        domain.RecommendationEmergency,
			Title:       "Seek Immediate Medical Attention",
			Description: "Your symptoms may indicate a serious condition requiring immediate medical care.",
			Urgency:     UrgencyEmergency,
		}),
	},
	{
		Code: "SEE_DOCTOR_24H",
		Applies: func(top domain.AnalysisResult, profile domain.PatientProfile) bool {
			return top.Condition.Urgency == domain.UrgencyHigh || profile.Severity == domain.SeverityVerySevere
		},
		Build: fixed(domain.Recommendation{
			Type:        domain.RecommendationSeeDoctor,
			Title:       "See Doctor Within 24 Hours",
			Description: "Your symptoms warrant prompt medical evaluation and treatment.",
			Urgency:     UrgencySeeDoctor24h,
		}),
	},
	{
		Code: "SELF_CARE",
		Applies: func(top domain.AnalysisResult, profile domain.PatientProfile) bool {
			return top.Condition.Urgency == domain.UrgencyLow && profile.Severity != domain.SeveritySevere
		},
		Build: func(top domain.AnalysisResult) domain.Recommendation {
			guidance, ok := selfCareGuidance[top.Condition.Name]
			if !ok {
				guidance = defaultSelfCareGuidance
			}
			return domain.Recommendation{
				Type:        domain.RecommendationSelfCare,
				Title:       "Self-Care Measures",
				Description: guidance,
				Urgency:     UrgencySelfCare,
			}
		},
	},
	{
		Code:    "MONITOR",
		Applies: func(domain.AnalysisResult, domain.PatientProfile) bool { return true },
		Build: fixed(domain.Recommendation{
			Type:        domain.RecommendationMonitor,
			Title:       "Monitor Symptoms",
			Description: "Keep track of symptom changes, triggers, and severity. Seek medical care if symptoms worsen or persist.",
			Urgency:     UrgencyMonitor,
		}),
	},
	{
		Code: "MENTAL_HEALTH",
		Applies: func(top domain.AnalysisResult, _ domain.PatientProfile) bool {
			return top.Condition.Category == knowledge.CategoryMentalHealth
		},
		Build: fixed(domain.Recommendation{
			Type:        domain.RecommendationSeeDoctor,
			Title:       "Consider Mental Health Support",
			Description: "Speak with a healthcare provider about mental health resources and treatment options.",
			Urgency:     UrgencyConsult,
		}),
	},
}

func fixed(r domain.Recommendation) func(domain.AnalysisResult) domain.Recommendation {
	return func(domain.AnalysisResult) domain.Recommendation { return r }
}

// GenerateRecommendations derives next actions from the top-ranked result and
// the profile, most urgent first. An empty ranking yields a single
// consult-a-provider recommendation.
func GenerateRecommendations(results []domain.AnalysisResult, profile domain.PatientProfile) []domain.Recommendation {
	if len(results) == 0 || results[0].Condition == nil {
		return []domain.Recommendation{fallbackRecommendation}
	}

	top := results[0]
	recommendations := make([]domain.Recommendation, 0, len(recommendationRules))
	for _, rule := range recommendationRules {
		if rule.Applies(top, profile) {
			recommendations = append(recommendations, rule.Build(top))
		}
	}

	slices.SortStableFunc(recommendations, func(a, b domain.Recommendation) int {
		return b.Urgency - a.Urgency
	})
	return recommendations
}

// HasEmergency reports whether any recommendation is an emergency.
func HasEmergency(recommendations []domain.Recommendation) bool {
	return slices.ContainsFunc(recommendations, func(r domain.Recommendation) bool {
		return r.Type == domain.RecommendationEmergency
	})
}
