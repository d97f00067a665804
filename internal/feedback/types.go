// Package feedback stores anonymous usefulness feedback on analyses. Entries
// are keyed by analysis ID and never carry demographics or symptoms.
package feedback

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/symptom-checker-server/internal/domain"
)

// Rating bounds and the longest note accepted.
const (
	MinRating     = 1
	MaxRating     = 5
	MaxNoteLength = 2000
)

// Feedback is one user's verdict on an analysis.
type Feedback struct {
	ID                  int64     `json:"id,omitempty"`
	AnalysisID          string    `json:"analysis_id"`
	SuggestedCondition  string    `json:"suggested_condition,omitempty"`  // Top result shown to the user
	SuggestedConfidence int       `json:"suggested_confidence,omitempty"` // Its confidence
	ConfirmedCondition  string    `json:"confirmed_condition,omitempty"`  // What a clinician later confirmed, if known
	Rating              int       `json:"rating"`
	UserAgreed          bool      `json:"user_agreed"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Validate checks the fields a store relies on.
func (f *Feedback) Validate() error {
	var errs domain.ValidationErrors
	if _, err := uuid.Parse(f.AnalysisID); err != nil {
		errs = append(errs, domain.NewValidationError("analysis_id", "analysis_id must be a UUID", f.AnalysisID))
	}
	if f.Rating < MinRating || f.Rating > MaxRating {
		errs = append(errs, domain.NewValidationError("rating", "rating must be between 1 and 5", f.Rating))
	}
	if f.SuggestedConfidence < 0 || f.SuggestedConfidence > 95 {
		errs = append(errs, domain.NewValidationError("suggested_confidence", "suggested_confidence must be between 0 and 95", f.SuggestedConfidence))
	}
	if len(f.Notes) > MaxNoteLength {
		errs = append(errs, domain.NewValidationError("notes", "notes must be at most 2000 characters", len(f.Notes)))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ConditionStats aggregates feedback for one suggested condition.
type ConditionStats struct {
	Condition     string  `json:"condition"`
	Count         int64   `json:"count"`
	AgreementRate float64 `json:"agreement_rate"`
	AverageRating float64 `json:"average_rating"`
}

// Stats summarizes all stored feedback.
type Stats struct {
	Total         int64             `json:"total"`
	AgreementRate float64           `json:"agreement_rate"`
	AverageRating float64           `json:"average_rating"`
	ByCondition   []*ConditionStats `json:"by_condition"`
}

// Store defines the interface for feedback storage operations.
type Store interface {
	// Save stores or updates feedback. A second save for the same analysis
	// replaces the first and keeps its ID and CreatedAt.
	Save(ctx context.Context, feedback *Feedback) error

	// Get retrieves feedback for an analysis. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, analysisID string) (*Feedback, error)

	// List returns feedback entries newest first.
	List(ctx context.Context, limit, offset int) ([]*Feedback, error)

	Count(ctx context.Context) (int64, error)

	// Delete removes a feedback entry by ID. Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, id int64) error

	// Stats aggregates ratings and agreement, overall and per suggested condition.
	Stats(ctx context.Context) (*Stats, error)

	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports feedback from a JSON reader. Entries whose analysis
	// already has feedback are skipped.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	Ping(ctx context.Context) error
	Close() error
}

// FeedbackExport represents the JSON export format.
type FeedbackExport struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Count      int         `json:"count"`
	Feedback   []*Feedback `json:"feedback"`
}
