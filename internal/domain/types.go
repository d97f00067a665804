// Package domain contains the core entities of the symptom checker: the patient
// profile submitted for analysis, the static condition records of the knowledge
// base, and the ranked results and recommendations produced from them.
//
// The checker is an educational triage aid. Nothing in this package models a
// clinical diagnosis.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Severity is the self-reported intensity of the symptoms.
type Severity string

const (
	SeverityMild       Severity = "mild"
	SeverityModerate   Severity = "moderate"
	SeveritySevere     Severity = "severe"
	SeverityVerySevere Severity = "very-severe"
)

// DurationBucket is how long the symptoms have been present.
type DurationBucket string

const (
	DurationLessThanDay      DurationBucket = "less-than-day"
	DurationOneToThreeDays   DurationBucket = "1-3-days"
	DurationFourToSevenDays  DurationBucket = "4-7-days"
	DurationOneToTwoWeeks    DurationBucket = "1-2-weeks"
	DurationMoreThanTwoWeeks DurationBucket = "more-than-2-weeks"
)

// Urgency is the intrinsic urgency of a condition in the knowledge base.
type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

// RecommendationType classifies the next action suggested to the user.
type RecommendationType string

const (
	RecommendationSelfCare  RecommendationType = "self-care"
	RecommendationMonitor   RecommendationType = "monitor"
	RecommendationSeeDoctor RecommendationType = "see-doctor"
	RecommendationEmergency RecommendationType = "emergency"
)

// AgeBracket is the coarse age group used for prevalence adjustments.
type AgeBracket string

const (
	AgeChild      AgeBracket = "child"
	AgeYoungAdult AgeBracket = "young-adult"
	AgeAdult      AgeBracket = "adult"
	AgeMiddleAged AgeBracket = "middle-aged"
	AgeElderly    AgeBracket = "elderly"
	// AgeUnknown is used when the age is missing or negative. It matches no
	// prevalence list.
	AgeUnknown AgeBracket = ""
)

// Gender values accepted from clients. Condition affinities may name any of them.
const (
	GenderMale           = "male"
	GenderFemale         = "female"
	GenderOther          = "other"
	GenderPreferNotToSay = "prefer-not-to-say"
)

// ConfidenceBand groups a confidence value for display.
type ConfidenceBand string

const (
	BandHigh     ConfidenceBand = "high"
	BandElevated ConfidenceBand = "elevated"
	BandModerate ConfidenceBand = "moderate"
	BandLow      ConfidenceBand = "low"
)

var (
	ErrNotFound                  = errors.New("not found")
	ErrInvalidSeverity           = errors.New("invalid severity")
	ErrInvalidDuration           = errors.New("invalid duration")
	ErrInvalidUrgency            = errors.New("invalid urgency")
	ErrInvalidAgeBracket         = errors.New("invalid age bracket")
	ErrInvalidRecommendationType = errors.New("invalid recommendation type")
	ErrUnknownCondition          = errors.New("unknown condition")
)

// AllSeverities lists severities from least to most intense.
func AllSeverities() []Severity {
	return []Severity{SeverityMild, SeverityModerate, SeveritySevere, SeverityVerySevere}
}

// IsValid reports whether s is one of the known severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityVerySevere:
		return true
	default:
		return false
	}
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity converts free text into a Severity.
func ParseSeverity(value string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, value)
	}
	return s, nil
}

// AllDurations lists duration buckets from shortest to longest.
func AllDurations() []DurationBucket {
	return []DurationBucket{
		DurationLessThanDay,
		DurationOneToThreeDays,
		DurationFourToSevenDays,
		DurationOneToTwoWeeks,
		DurationMoreThanTwoWeeks,
	}
}

// IsValid reports whether d is one of the known duration buckets.
func (d DurationBucket) IsValid() bool {
	return d.IsAcute() || d.IsChronic()
}

// IsAcute reports whether the symptoms have lasted at most a week.
func (d DurationBucket) IsAcute() bool {
	switch d {
	case DurationLessThanDay, DurationOneToThreeDays, DurationFourToSevenDays:
		return true
	default:
		return false
	}
}

// IsChronic reports whether the symptoms have lasted longer than a week.
func (d DurationBucket) IsChronic() bool {
	switch d {
	case DurationOneToTwoWeeks, DurationMoreThanTwoWeeks:
		return true
	default:
		return false
	}
}

func (d DurationBucket) String() string {
	return string(d)
}

// ParseDuration converts free text into a DurationBucket.
func ParseDuration(value string) (DurationBucket, error) {
	d := DurationBucket(strings.ToLower(strings.TrimSpace(value)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDuration, value)
	}
	return d, nil
}

// IsValid reports whether u is one of the known urgency levels.
func (u Urgency) IsValid() bool {
	return u.Rank() > 0
}

// Rank orders urgencies: low=1 through emergency=4. Unknown values rank 0.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	case UrgencyEmergency:
		return 4
	default:
		return 0
	}
}

func (u Urgency) String() string {
	return string(u)
}

// ParseUrgency converts free text into an Urgency.
func ParseUrgency(value string) (Urgency, error) {
	u := Urgency(strings.ToLower(strings.TrimSpace(value)))
	if !u.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUrgency, value)
	}
	return u, nil
}

// IsValid reports whether t is one of the known recommendation types.
func (t RecommendationType) IsValid() bool {
	switch t {
	case RecommendationSelfCare, RecommendationMonitor, RecommendationSeeDoctor, RecommendationEmergency:
		return true
	default:
		return false
	}
}

func (t RecommendationType) String() string {
	return string(t)
}

// AllAgeBrackets lists the known brackets from youngest to oldest.
func AllAgeBrackets() []AgeBracket {
	return []AgeBracket{AgeChild, AgeYoungAdult, AgeAdult, AgeMiddleAged, AgeElderly}
}

// IsValid reports whether b is a known bracket. AgeUnknown is not valid.
func (b AgeBracket) IsValid() bool {
	switch b {
	case AgeChild, AgeYoungAdult, AgeAdult, AgeMiddleAged, AgeElderly:
		return true
	default:
		return false
	}
}

func (b AgeBracket) String() string {
	if b == AgeUnknown {
		return "unknown"
	}
	return string(b)
}

// IsKnownGender reports whether g is one of the gender values offered to clients.
func IsKnownGender(g string) bool {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	default:
		return false
	}
}

// BandFor maps a confidence percentage to its display band.
func BandFor(confidence int) ConfidenceBand {
	switch {
	case confidence >= 80:
		return BandHigh
	case confidence >= 60:
		return BandElevated
	case confidence >= 40:
		return BandModerate
	default:
		return BandLow
	}
}
