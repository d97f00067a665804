package domain

import (
	"strings"
	"time"
)

// MaxAge is the upper bound accepted for a reported age.
const MaxAge = 150

// PatientProfile is one submission to the checker. It is never persisted.
type PatientProfile struct {
	// Age in years. Nil when the client did not supply a usable value.
	Age                *int           `json:"age,omitempty"`
	Gender             string         `json:"gender,omitempty"`
	PrimarySymptom     string         `json:"primary_symptom"`
	Duration           DurationBucket `json:"duration"`
	Severity           Severity       `json:"severity"`
	AdditionalSymptoms []string       `json:"additional_symptoms,omitempty"`
	Description        string         `json:"description,omitempty"`
}

// Symptoms returns the primary symptom followed by the additional ones, in
// submission order. Duplicates are kept.
func (p PatientProfile) Symptoms() []string {
	symptoms := make([]string, 0, len(p.AdditionalSymptoms)+1)
	symptoms = append(symptoms, p.PrimarySymptom)
	return append(symptoms, p.AdditionalSymptoms...)
}

// Validate checks a profile received from a client. The analysis functions
// tolerate incomplete profiles; the outer surfaces call this first.
func (p PatientProfile) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(p.PrimarySymptom) == "" {
		errs = append(errs, NewValidationError("primary_symptom", "primary symptom is required", p.PrimarySymptom))
	}
	if !p.Duration.IsValid() {
		errs = append(errs, NewValidationError("duration", "duration must be one of less-than-day, 1-3-days, 4-7-days, 1-2-weeks, more-than-2-weeks", p.Duration))
	}
	if !p.Severity.IsValid() {
		errs = append(errs, NewValidationError("severity", "severity must be one of mild, moderate, severe, very-severe", p.Severity))
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > MaxAge) {
		errs = append(errs, NewValidationError("age", "age must be between 0 and 150", *p.Age))
	}
	if p.Gender != "" && !IsKnownGender(p.Gender) {
		errs = append(errs, NewValidationError("gender", "gender must be one of male, female, other, prefer-not-to-say", p.Gender))
	}
	for i, s := range p.AdditionalSymptoms {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, NewValidationError("additional_symptoms", "additional symptoms must not be blank", i))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AgeAffinity lists the age brackets in which a condition is more or less
// prevalent than baseline.
type AgeAffinity struct {
	MorePrevalentIn []AgeBracket `json:"more_prevalent_in,omitempty" yaml:"more_prevalent_in,omitempty"`
	LessPrevalentIn []AgeBracket `json:"less_prevalent_in,omitempty" yaml:"less_prevalent_in,omitempty"`
}

// GenderAffinity lists the genders in which a condition is more prevalent.
type GenderAffinity struct {
	MorePrevalentIn []string `json:"more_prevalent_in,omitempty" yaml:"more_prevalent_in,omitempty"`
}

// DurationProfile says whether a condition presents acutely, chronically or both.
type DurationProfile struct {
	IsAcute   bool `json:"is_acute" yaml:"is_acute"`
	IsChronic bool `json:"is_chronic" yaml:"is_chronic"`
}

// Condition is a static knowledge-base record.
type Condition struct {
	Name                 string          `json:"name" yaml:"name"`
	Category             string          `json:"category" yaml:"category"`
	CommonSymptoms       []string        `json:"common_symptoms" yaml:"common_symptoms"`
	RareSymptoms         []string        `json:"rare_symptoms" yaml:"rare_symptoms"`
	AgeAffinity          AgeAffinity     `json:"age_affinity" yaml:"age_affinity"`
	GenderAffinity       GenderAffinity  `json:"gender_affinity" yaml:"gender_affinity"`
	ApplicableSeverities []Severity      `json:"applicable_severities" yaml:"applicable_severities"`
	DurationProfile      DurationProfile `json:"duration_profile" yaml:"duration_profile"`
	Description          string          `json:"description" yaml:"description"`
	Urgency              Urgency         `json:"urgency" yaml:"urgency"`
}

// AnalysisResult is one ranked candidate condition.
type AnalysisResult struct {
	// Condition points into the knowledge base and must not be modified.
	Condition        *Condition     `json:"condition"`
	Confidence       int            `json:"confidence"`
	Band             ConfidenceBand `json:"band"`
	MatchingSymptoms []string       `json:"matching_symptoms"`
	RiskFactors      []string       `json:"risk_factors"`
}

// Recommendation is a suggested next action. Urgency is a sort key, higher
// meaning more pressing.
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Urgency     int                `json:"urgency"`
}

// ConditionScore names a ranked condition by name, for callers that already
// hold results from an earlier analysis.
type ConditionScore struct {
	Condition  string `json:"condition"`
	Confidence int    `json:"confidence"`
}

// AnalysisReport is what the outer surfaces return for one analysis.
type AnalysisReport struct {
	AnalysisID      string           `json:"analysis_id"`
	Results         []AnalysisResult `json:"results"`
	Recommendations []Recommendation `json:"recommendations"`
	Emergency       bool             `json:"emergency"`
	Disclaimer      string           `json:"disclaimer"`
	ProcessingTime  time.Duration    `json:"processing_time"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// Disclaimer accompanies every analysis report.
const Disclaimer = "This symptom checker is for educational purposes only and is not a substitute " +
	"for professional medical advice, diagnosis, or treatment. Always seek the advice of a qualified " +
	"healthcare provider with any questions about a medical condition. If you think you may have a " +
	"medical emergency, call your local emergency number immediately."
