package domain

import (
	"errors"
	"testing"
)

func TestSeverityIsValid(t *testing.T) {
	tests := []struct {
		name     string
		value    Severity
		expected bool
	}{
		{"Mild", SeverityMild, true},
		{"Moderate", SeverityModerate, true},
		{"Severe", SeveritySevere, true},
		{"Very severe", SeverityVerySevere, true},
		{"Empty", Severity(""), false},
		{"Unknown", Severity("extreme"), false},
		{"Wrong case", Severity("Mild"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsValid(); got != tt.expected {
				t.Errorf("Severity(%q).IsValid() = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("  Very-Severe ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != SeverityVerySevere {
		t.Errorf("Expected %s, got %s", SeverityVerySevere, s)
	}

	if _, err := ParseSeverity("terrible"); !errors.Is(err, ErrInvalidSeverity) {
		t.Errorf("Expected ErrInvalidSeverity, got %v", err)
	}
}

func TestDurationBucketClassification(t *testing.T) {
	tests := []struct {
		value   DurationBucket
		acute   bool
		chronic bool
	}{
		{DurationLessThanDay, true, false},
		{DurationOneToThreeDays, true, false},
		{DurationFourToSevenDays, true, false},
		{DurationOneToTwoWeeks, false, true},
		{DurationMoreThanTwoWeeks, false, true},
		{DurationBucket("a-month"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			if tt.value.IsAcute() != tt.acute {
				t.Errorf("IsAcute() = %v, want %v", tt.value.IsAcute(), tt.acute)
			}
			if tt.value.IsChronic() != tt.chronic {
				t.Errorf("IsChronic() = %v, want %v", tt.value.IsChronic(), tt.chronic)
			}
			if tt.value.IsValid() != (tt.acute || tt.chronic) {
				t.Errorf("IsValid() = %v", tt.value.IsValid())
			}
		})
	}

	for _, d := range AllDurations() {
		if !d.IsValid() {
			t.Errorf("AllDurations contains invalid bucket %q", d)
		}
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("1-2-WEEKS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != DurationOneToTwoWeeks {
		t.Errorf("Expected %s, got %s", DurationOneToTwoWeeks, d)
	}
	if _, err := ParseDuration("forever"); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("Expected ErrInvalidDuration, got %v", err)
	}
}

func TestUrgencyRank(t *testing.T) {
	ordered := []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("%s should rank above %s", ordered[i], ordered[i-1])
		}
	}
	if Urgency("critical").Rank() != 0 || Urgency("critical").IsValid() {
		t.Error("unknown urgency should rank 0 and be invalid")
	}
	if _, err := ParseUrgency("HIGH"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRecommendationTypeIsValid(t *testing.T) {
	for _, rt := range []RecommendationType{RecommendationSelfCare, RecommendationMonitor, RecommendationSeeDoctor, RecommendationEmergency} {
		if !rt.IsValid() {
			t.Errorf("%s should be valid", rt)
		}
	}
	if RecommendationType("hospital").IsValid() {
		t.Error("hospital should not be a valid recommendation type")
	}
}

func TestAgeBracketString(t *testing.T) {
	if AgeUnknown.String() != "unknown" {
		t.Errorf("Expected unknown, got %s", AgeUnknown.String())
	}
	if AgeUnknown.IsValid() {
		t.Error("AgeUnknown must not be valid")
	}
	for _, b := range AllAgeBrackets() {
		if !b.IsValid() {
			t.Errorf("%s should be valid", b)
		}
	}
}

func TestIsKnownGender(t *testing.T) {
	for _, g := range []string{"male", "Female", " other ", "prefer-not-to-say"} {
		if !IsKnownGender(g) {
			t.Errorf("%q should be known", g)
		}
	}
	if IsKnownGender("") || IsKnownGender("robot") {
		t.Error("empty and unknown genders should not be known")
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		confidence int
		expected   ConfidenceBand
	}{
		{95, BandHigh},
		{80, BandHigh},
		{79, BandElevated},
		{60, BandElevated},
		{59, BandModerate},
		{40, BandModerate},
		{39, BandLow},
		{0, BandLow},
	}
	for _, tt := range tests {
		if got := BandFor(tt.confidence); got != tt.expected {
			t.Errorf("BandFor(%d) = %s, want %s", tt.confidence, got, tt.expected)
		}
	}
}
