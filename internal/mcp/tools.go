package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/feedback"
	"github.com/symptom-checker-server/internal/service"
)

// AnalyzeSymptomsParams defines parameters for the analyze_symptoms tool
type AnalyzeSymptomsParams struct {
	Age                *int     `json:"age,omitempty" jsonschema:"age in years, 0 to 150"`
	Gender             string   `json:"gender,omitempty" jsonschema:"male, female, other or prefer-not-to-say"`
	PrimarySymptom     string   `json:"primary_symptom" jsonschema:"the main symptom in the patient's words"`
	Duration           string   `json:"duration" jsonschema:"less-than-day, 1-3-days, 4-7-days, 1-2-weeks or more-than-2-weeks"`
	Severity           string   `json:"severity" jsonschema:"mild, moderate, severe or very-severe"`
	AdditionalSymptoms []string `json:"additional_symptoms,omitempty" jsonschema:"other symptoms present"`
	Description        string   `json:"description,omitempty" jsonschema:"free-text notes; not used for scoring"`
}

func (p AnalyzeSymptomsParams) profile() domain.PatientProfile {
	return domain.PatientProfile{
		Age:                p.Age,
		Gender:             strings.ToLower(strings.TrimSpace(p.Gender)),
		PrimarySymptom:     p.PrimarySymptom,
		Duration:           domain.DurationBucket(strings.TrimSpace(p.Duration)),
		Severity:           domain.Severity(strings.TrimSpace(p.Severity)),
		AdditionalSymptoms: p.AdditionalSymptoms,
		Description:        p.Description,
	}
}

// AnalyzeSymptomsResult defines the result of analyze_symptoms
type AnalyzeSymptomsResult struct {
	*domain.AnalysisReport
	ProcessingTime string `json:"processing_time"`
}

// GenerateRecommendationsParams defines parameters for the generate_recommendations tool
type GenerateRecommendationsParams struct {
	Severity string                  `json:"severity,omitempty" jsonschema:"mild, moderate, severe or very-severe"`
	Results  []domain.ConditionScore `json:"results" jsonschema:"ranked conditions, highest confidence first"`
}

// GenerateRecommendationsResult defines the result of generate_recommendations
type GenerateRecommendationsResult struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Emergency       bool                    `json:"emergency"`
	Disclaimer      string                  `json:"disclaimer"`
}

// NormalizeSymptomParams defines parameters for the normalize_symptom tool
type NormalizeSymptomParams struct {
	Symptoms []string `json:"symptoms" jsonschema:"symptom labels to normalize"`
}

// NormalizeSymptomResult defines the result of normalize_symptom
type NormalizeSymptomResult struct {
	Normalized []service.Normalization `json:"normalized"`
}

// ListConditionsParams defines parameters for the list_conditions tool
type ListConditionsParams struct {
	Category string `json:"category,omitempty" jsonschema:"restrict to one category, e.g. Respiratory"`
}

// ListConditionsResult defines the result of list_conditions
type ListConditionsResult struct {
	Count      int                 `json:"count"`
	Categories []string            `json:"categories"`
	Conditions []*domain.Condition `json:"conditions"`
}

// SubmitFeedbackParams defines parameters for the submit_feedback tool
type SubmitFeedbackParams struct {
	AnalysisID          string `json:"analysis_id" jsonschema:"the analysis_id returned by analyze_symptoms"`
	SuggestedCondition  string `json:"suggested_condition,omitempty" jsonschema:"the top condition the analysis suggested"`
	SuggestedConfidence int    `json:"suggested_confidence,omitempty" jsonschema:"the confidence of the suggested condition"`
	ConfirmedCondition  string `json:"confirmed_condition,omitempty" jsonschema:"the condition later confirmed, if known"`
	Rating              int    `json:"rating" jsonschema:"usefulness rating from 1 to 5"`
	UserAgreed          bool   `json:"user_agreed" jsonschema:"whether the suggestion matched"`
	Notes               string `json:"notes,omitempty" jsonschema:"optional notes"`
}

// SubmitFeedbackResult defines the result of submit_feedback and query_feedback
type SubmitFeedbackResult struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Feedback *feedback.Feedback `json:"feedback,omitempty"`
}

// QueryFeedbackParams defines parameters for the query_feedback tool
type QueryFeedbackParams struct {
	AnalysisID string `json:"analysis_id" jsonschema:"the analysis to look up"`
}

// FeedbackStatsParams takes no parameters.
type FeedbackStatsParams struct{}

// ExportFeedbackParams takes no parameters.
type ExportFeedbackParams struct{}

// ExportFeedbackResult defines the result of export_feedback
type ExportFeedbackResult struct {
	Success  bool   `json:"success"`
	FilePath string `json:"file_path"`
	Count    int64  `json:"count"`
	Message  string `json:"message"`
}

func (s *Server) handleAnalyzeSymptoms(ctx context.Context, _ *mcp.CallToolRequest, params AnalyzeSymptomsParams) (*mcp.CallToolResult, any, error) {
	report, err := s.svc.Analyze(ctx, params.profile())
	if err != nil {
		return s.createErrorResult("Invalid patient profile", err), nil, nil
	}
	return s.createJSONResult(AnalyzeSymptomsResult{
		AnalysisReport: report,
		ProcessingTime: report.ProcessingTime.String(),
	})
}

func (s *Server) handleGenerateRecommendations(ctx context.Context, _ *mcp.CallToolRequest, params GenerateRecommendationsParams) (*mcp.CallToolResult, any, error) {
	profile := domain.PatientProfile{Severity: domain.Severity(strings.TrimSpace(params.Severity))}
	recs, err := s.svc.Recommend(ctx, profile, params.Results)
	if err != nil {
		return s.createErrorResult("Invalid recommendation request", err), nil, nil
	}
	return s.createJSONResult(GenerateRecommendationsResult{
		Recommendations: recs,
		Emergency:       service.HasEmergency(recs),
		Disclaimer:      domain.Disclaimer,
	})
}

func (s *Server) handleNormalizeSymptom(_ context.Context, _ *mcp.CallToolRequest, params NormalizeSymptomParams) (*mcp.CallToolResult, any, error) {
	if len(params.Symptoms) == 0 {
		return s.createErrorResult("Missing required parameter", errors.New("symptoms is required")), nil, nil
	}
	result := NormalizeSymptomResult{Normalized: make([]service.Normalization, 0, len(params.Symptoms))}
	for _, label := range params.Symptoms {
		result.Normalized = append(result.Normalized, s.svc.Normalize(label))
	}
	return s.createJSONResult(result)
}

func (s *Server) handleListConditions(_ context.Context, _ *mcp.CallToolRequest, params ListConditionsParams) (*mcp.CallToolResult, any, error) {
	conditions := s.svc.Conditions(params.Category)
	return s.createJSONResult(ListConditionsResult{
		Count:      len(conditions),
		Categories: s.svc.Knowledge().Categories(),
		Conditions: conditions,
	})
}

func (s *Server) handleSubmitFeedback(ctx context.Context, _ *mcp.CallToolRequest, params SubmitFeedbackParams) (*mcp.CallToolResult, any, error) {
	fb := &feedback.Feedback{
		AnalysisID:          strings.TrimSpace(params.AnalysisID),
		SuggestedCondition:  strings.TrimSpace(params.SuggestedCondition),
		SuggestedConfidence: params.SuggestedConfidence,
		ConfirmedCondition:  strings.TrimSpace(params.ConfirmedCondition),
		Rating:              params.Rating,
		UserAgreed:          params.UserAgreed,
		Notes:               params.Notes,
	}
	if err := s.feedback.Save(ctx, fb); err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return s.createErrorResult("Invalid feedback", err), nil, nil
		}
		s.logger.WithError(err).Error("Failed to save feedback")
		return s.createErrorResult("Failed to save feedback", err), nil, nil
	}

	s.logger.WithField("analysis_id", fb.AnalysisID).Info("Feedback recorded")
	return s.createJSONResult(SubmitFeedbackResult{
		Success:  true,
		Message:  "Feedback recorded",
		Feedback: fb,
	})
}

func (s *Server) handleQueryFeedback(ctx context.Context, _ *mcp.CallToolRequest, params QueryFeedbackParams) (*mcp.CallToolResult, any, error) {
	analysisID := strings.TrimSpace(params.AnalysisID)
	if analysisID == "" {
		return s.createErrorResult("Missing required parameter", errors.New("analysis_id is required")), nil, nil
	}

	fb, err := s.feedback.Get(ctx, analysisID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.createJSONResult(SubmitFeedbackResult{Message: "No feedback found for this analysis"})
	case err != nil:
		s.logger.WithError(err).Error("Failed to query feedback")
		return s.createErrorResult("Failed to query feedback", err), nil, nil
	}
	return s.createJSONResult(SubmitFeedbackResult{
		Success:  true,
		Message:  "Found feedback for this analysis",
		Feedback: fb,
	})
}

func (s *Server) handleFeedbackStats(ctx context.Context, _ *mcp.CallToolRequest, _ FeedbackStatsParams) (*mcp.CallToolResult, any, error) {
	stats, err := s.feedback.Stats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute feedback statistics")
		return s.createErrorResult("Failed to compute feedback statistics", err), nil, nil
	}
	return s.createJSONResult(stats)
}

func (s *Server) handleExportFeedback(ctx context.Context, _ *mcp.CallToolRequest, _ ExportFeedbackParams) (*mcp.CallToolResult, any, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return s.createErrorResult("Failed to create export directory", err), nil, nil
	}

	filename := fmt.Sprintf("feedback_export_%s.json", time.Now().UTC().Format("20060102_150405.000"))
	filePath := filepath.Join(s.exportDir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return s.createErrorResult("Failed to create export file", err), nil, nil
	}
	defer file.Close()

	if err := s.feedback.ExportJSON(ctx, file); err != nil {
		s.logger.WithError(err).Error("Failed to export feedback")
		return s.createErrorResult("Failed to export feedback", err), nil, nil
	}

	count, err := s.feedback.Count(ctx)
	if err != nil {
		return s.createErrorResult("Failed to count feedback", err), nil, nil
	}
	return s.createJSONResult(ExportFeedbackResult{
		Success:  true,
		FilePath: filePath,
		Count:    count,
		Message:  fmt.Sprintf("Exported %d feedback entries to %s", count, filePath),
	})
}

// createJSONResult renders v as the text content of a successful result.
func (s *Server) createJSONResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s.createErrorResult("Failed to encode result", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// createErrorResult creates a standardized error result for tool calls
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
