package knowledge

import "github.com/symptom-checker-server/internal/domain"

// Condition categories referenced by recommendation rules.
const (
	CategoryNeurological     = "Neurological"
	CategoryRespiratory      = "Respiratory"
	CategoryGastrointestinal = "Gastrointestinal"
	CategoryMentalHealth     = "Mental Health"
	CategoryCardiovascular   = "Cardiovascular"
	CategoryMusculoskeletal  = "Musculoskeletal"
	CategoryImmunological    = "Immunological"
)

// defaultConditions is the compiled-in catalog. Declaration order is the
// tie-break order for equal confidences.
var defaultConditions = []domain.Condition{
	{
		Name:           "Tension Headache",
		Category:       CategoryNeurological,
		CommonSymptoms: []string{"headache", "muscle aches", "fatigue", "stress"},
		RareSymptoms:   []string{"nausea", "dizziness"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeAdult, domain.AgeMiddleAged},
			LessPrevalentIn: []domain.AgeBracket{domain.AgeChild, domain.AgeElderly},
		},
		GenderAffinity:       domain.GenderAffinity{MorePrevalentIn: []string{domain.GenderFemale}},
		ApplicableSeverities: []domain.Severity{domain.SeverityMild, domain.SeverityModerate},
		DurationProfile:      domain.DurationProfile{IsAcute: true, IsChronic: true},
		Description:          "Most common type of headache, often caused by stress, poor posture, or muscle tension",
		Urgency:              domain.UrgencyLow,
	},
	{
		Name:           "Migraine",
		Category:       CategoryNeurological,
		CommonSymptoms: []string{"headache", "nausea", "dizziness", "fatigue"},
		RareSymptoms:   []string{"vision changes", "sensitivity to light"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeYoungAdult, domain.AgeAdult},
			LessPrevalentIn: []domain.AgeBracket{domain.AgeElderly},
		},
		GenderAffinity:       domain.GenderAffinity{MorePrevalentIn: []string{domain.GenderFemale}},
		ApplicableSeverities: []domain.Severity{domain.SeverityModerate, domain.SeveritySevere},
		DurationProfile:      domain.DurationProfile{IsAcute: true},
		Description:          "Severe headache often accompanied by nausea and sensitivity to light and sound",
		Urgency:              domain.UrgencyMedium,
	},
	{
		Name:           "Common Cold",
		Category:       CategoryRespiratory,
		CommonSymptoms: []string{"cough", "sore throat", "fatigue", "runny nose"},
		RareSymptoms:   []string{"fever", "headache", "muscle aches"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeChild, domain.AgeAdult},
		},
		ApplicableSeverities: []domain.Severity{domain.SeverityMild, domain.SeverityModerate},
		DurationProfile:      domain.DurationProfile{IsAcute: true},
		Description:          "Viral upper respiratory infection with nasal congestion and throat irritation",
		Urgency:              domain.UrgencyLow,
	},
	{
		Name:           "Influenza",
		Category:       CategoryRespiratory,
		CommonSymptoms: []string{"fever", "cough", "fatigue", "muscle aches", "headache"},
		RareSymptoms:   []string{"nausea", "diarrhea"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeChild, domain.AgeElderly},
		},
		ApplicableSeverities: []domain.Severity{domain.SeverityModerate, domain.SeveritySevere},
		DurationProfile:      domain.DurationProfile{IsAcute: true},
		Description:          "Viral infection affecting the respiratory system with systemic symptoms",
		Urgency:              domain.UrgencyMedium,
	},
	{
		Name:           "Gastroenteritis",
		Category:       CategoryGastrointestinal,
		CommonSymptoms: []string{"nausea", "abdominal pain", "diarrhea", "fatigue"},
		RareSymptoms:   []string{"fever", "headache", "muscle aches"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeChild, domain.AgeAdult},
		},
		ApplicableSeverities: []domain.Severity{domain.SeverityMild, domain.SeverityModerate, domain.SeveritySevere},
		DurationProfile:      domain.DurationProfile{IsAcute: true},
		Description:          "Inflammation of stomach and intestines, often caused by infection or food poisoning",
		Urgency:              domain.UrgencyMedium,
	},
	{
		Name:           "Anxiety Disorder",
		Category:       CategoryMentalHealth,
		CommonSymptoms: []string{"fatigue", "dizziness", "chest pain", "shortness of breath"},
		RareSymptoms:   []string{"nausea", "headache", "muscle aches"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeYoungAdult, domain.AgeAdult},
			LessPrevalentIn: []domain.AgeBracket{domain.AgeChild, domain.AgeElderly},
		},
		GenderAffinity:       domain.GenderAffinity{MorePrevalentIn: []string{domain.GenderFemale}},
		ApplicableSeverities: []domain.Severity{domain.SeverityMild, domain.SeverityModerate, domain.SeveritySevere},
		DurationProfile:      domain.DurationProfile{IsChronic: true},
		Description:          "Mental health condition characterized by excessive worry and physical symptoms",
		Urgency:              domain.UrgencyMedium,
	},
	{
		Name:           "Hypertension",
		Category:       CategoryCardiovascular,
		CommonSymptoms: []string{"headache", "dizziness", "fatigue"},
		RareSymptoms:   []string{"chest pain", "shortness of breath", "nausea"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeMiddleAged, domain.AgeElderly},
			LessPrevalentIn: []domain.AgeBracket{domain.AgeChild, domain.AgeYoungAdult},
		},
		GenderAffinity:       domain.GenderAffinity{MorePrevalentIn: []string{domain.GenderMale}},
		ApplicableSeverities: []domain.Severity{domain.SeverityMild, domain.SeverityModerate, domain.SeveritySevere},
		DurationProfile:      domain.DurationProfile{IsChronic: true},
		Description:          "High blood pressure that can lead to serious cardiovascular complications",
		Urgency:              domain.UrgencyMedium,
	},
	{
		Name:           "Pneumonia",
		Category:       CategoryRespiratory,
		CommonSymptoms: []string{"cough", "fever", "chest pain", "shortness of breath", "fatigue"},
		RareSymptoms:   []string{"nausea", "diarrhea", "confusion"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeChild, domain.AgeElderly},
		},
		ApplicableSeverities: []domain.Severity{domain.SeverityModerate, domain.SeveritySevere, domain.SeverityVerySevere},
		DurationProfile:      domain.DurationProfile{IsAcute: true},
		Description:          "Infection that inflames air sacs in one or both lungs",
		Urgency:              domain.UrgencyHigh,
	},
	{
		Name:           "Fibromyalgia",
		Category:       CategoryMusculoskeletal,
		CommonSymptoms: []string{"muscle aches", "joint pain", "fatigue", "back pain"},
		RareSymptoms:   []string{"headache", "dizziness", "nausea"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeAdult, domain.AgeMiddleAged},
			LessPrevalentIn: []domain.AgeBracket{domain.AgeChild, domain.AgeElderly},
		},
		GenderAffinity:       domain.GenderAffinity{MorePrevalentIn: []string{domain.GenderFemale}},
		ApplicableSeverities: []domain.Severity{domain.SeverityModerate, domain.SeveritySevere},
		DurationProfile:      domain.DurationProfile{IsChronic: true},
		Description:          "Chronic condition characterized by widespread musculoskeletal pain",
		Urgency:              domain.UrgencyMedium,
	},
	{
		Name:           "Allergic Reaction",
		Category:       CategoryImmunological,
		CommonSymptoms: []string{"skin rash", "dizziness", "nausea"},
		RareSymptoms:   []string{"shortness of breath", "chest pain", "swelling"},
		AgeAffinity: domain.AgeAffinity{
			MorePrevalentIn: []domain.AgeBracket{domain.AgeChild, domain.AgeAdult},
		},
		ApplicableSeverities: []domain.Severity{domain.SeverityMild, domain.SeverityModerate, domain.SeveritySevere, domain.SeverityVerySevere},
		DurationProfile:      domain.DurationProfile{IsAcute: true},
		Description:          "Immune system response to allergens causing various symptoms",
		Urgency:              domain.UrgencyMedium,
	},
}
