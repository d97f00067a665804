package domain

import (
	"errors"
	"testing"
	"time"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		message   string
		details   string
		requestID string
	}{
		{
			name:      "Basic error",
			code:      ErrCodeInvalidInput,
			message:   "Malformed request body",
			details:   "unexpected end of JSON input",
			requestID: "req-123",
		},
		{
			name:      "Storage error",
			code:      ErrCodeStorage,
			message:   "Feedback store unavailable",
			details:   "database is locked",
			requestID: "req-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(tt.code, tt.message, tt.details, tt.requestID)

			if err.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, err.Code)
			}
			if err.Message != tt.message {
				t.Errorf("Expected message %s, got %s", tt.message, err.Message)
			}
			if err.Details != tt.details {
				t.Errorf("Expected details %s, got %s", tt.details, err.Details)
			}
			if err.RequestID != tt.requestID {
				t.Errorf("Expected requestID %s, got %s", tt.requestID, err.RequestID)
			}
			if time.Since(err.Timestamp) > time.Minute {
				t.Errorf("Timestamp should be recent, got %v", err.Timestamp)
			}

			expectedError := tt.code + ": " + tt.message
			if err.Error() != expectedError {
				t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("severity", "severity must be one of mild, moderate, severe, very-severe", "awful")

	expected := "validation error for field 'severity': severity must be one of mild, moderate, severe, very-severe"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}

func intPtr(v int) *int { return &v }

func TestPatientProfileValidate(t *testing.T) {
	valid := PatientProfile{
		Age:            intPtr(35),
		Gender:         "female",
		PrimarySymptom: "headache",
		Duration:       DurationOneToThreeDays,
		Severity:       SeverityModerate,
	}

	t.Run("Valid profile", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Missing age and gender are allowed", func(t *testing.T) {
		p := valid
		p.Age = nil
		p.Gender = ""
		if err := p.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Every invalid field is reported", func(t *testing.T) {
		p := PatientProfile{
			Age:                intPtr(-4),
			Gender:             "robot",
			PrimarySymptom:     "  ",
			Duration:           "forever",
			Severity:           "awful",
			AdditionalSymptoms: []string{"cough", ""},
		}
		err := p.Validate()

		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Expected ValidationErrors, got %T", err)
		}
		want := []string{"primary_symptom", "duration", "severity", "age", "gender", "additional_symptoms"}
		got := verrs.Fields()
		if len(got) != len(want) {
			t.Fatalf("Expected fields %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("field %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})
}

func TestPatientProfileSymptoms(t *testing.T) {
	p := PatientProfile{PrimarySymptom: "fever", AdditionalSymptoms: []string{"cough", "fever"}}
	got := p.Symptoms()
	want := []string{"fever", "cough", "fever"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
}
