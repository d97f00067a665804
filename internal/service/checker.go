package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/symptom-checker-server/internal/cache"
	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/knowledge"
)

// SymptomCheckerService wraps the analysis engine for the HTTP, MCP and CLI
// surfaces. It validates input, caches outputs and logs. It never records
// profile contents.
type SymptomCheckerService struct {
	logger *logrus.Logger
	kb     *knowledge.Base
	cache  cache.Cache
	now    func() time.Time
}

// Option configures a SymptomCheckerService.
type Option func(*SymptomCheckerService)

// WithCache enables output caching.
func WithCache(c cache.Cache) Option {
	return func(s *SymptomCheckerService) {
		s.cache = c
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *SymptomCheckerService) {
		s.now = now
	}
}

// NewSymptomCheckerService creates a service over kb.
func NewSymptomCheckerService(logger *logrus.Logger, kb *knowledge.Base, opts ...Option) *SymptomCheckerService {
	s := &SymptomCheckerService{
		logger: logger,
		kb:     kb,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Knowledge returns the knowledge base the service scores against.
func (s *SymptomCheckerService) Knowledge() *knowledge.Base {
	return s.kb
}

// Analyze validates the profile, ranks candidate conditions and derives
// recommendations. Every call gets a fresh analysis ID, cached or not.
func (s *SymptomCheckerService) Analyze(ctx context.Context, profile domain.PatientProfile) (*domain.AnalysisReport, error) {
	start := s.now()
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"symptom_count": len(profile.AdditionalSymptoms) + 1,
		"has_age":       profile.Age != nil,
	}).Debug("Starting symptom analysis")

	key := s.cacheKey(profile)
	results, recommendations, cached := s.lookup(ctx, key)
	if !cached {
		results = AnalyzeSymptoms(s.kb, profile)
		recommendations = GenerateRecommendations(results, profile)
		s.store(ctx, key, results, recommendations)
	}

	report := &domain.AnalysisReport{
		AnalysisID:      uuid.New().String(),
		Results:         results,
		Recommendations: recommendations,
		Emergency:       HasEmergency(recommendations),
		Disclaimer:      domain.Disclaimer,
		GeneratedAt:     s.now().UTC(),
	}
	report.ProcessingTime = s.now().Sub(start)

	fields := logrus.Fields{
		"analysis_id":     report.AnalysisID,
		"result_count":    len(results),
		"emergency":       report.Emergency,
		"cache_hit":       cached,
		"processing_time": report.ProcessingTime,
	}
	if len(results) > 0 {
		fields["top_condition"] = results[0].Condition.Name
		fields["top_confidence"] = results[0].Confidence
	}
	s.logger.WithFields(fields).Info("Symptom analysis completed")

	return report, nil
}

// Recommend derives recommendations for results a caller already holds, named
// by condition. Names are resolved against the knowledge base.
func (s *SymptomCheckerService) Recommend(_ context.Context, profile domain.PatientProfile, scores []domain.ConditionScore) ([]domain.Recommendation, error) {
	var errs domain.ValidationErrors
	if profile.Severity != "" && !profile.Severity.IsValid() {
		errs = append(errs, domain.NewValidationError("severity", "severity must be one of mild, moderate, severe, very-severe", profile.Severity))
	}

	results := make([]domain.AnalysisResult, 0, len(scores))
	for i, score := range scores {
		condition, ok := s.kb.Condition(score.Condition)
		if !ok {
			errs = append(errs, domain.NewValidationError(fmt.Sprintf("results[%d].condition", i),
				fmt.Sprintf("%v: %s", domain.ErrUnknownCondition, score.Condition), score.Condition))
			continue
		}
		if score.Confidence < 0 || score.Confidence > MaxConfidence {
			errs = append(errs, domain.NewValidationError(fmt.Sprintf("results[%d].confidence", i),
				"confidence must be between 0 and 95", score.Confidence))
			continue
		}
		results = append(results, domain.AnalysisResult{
			Condition:  condition,
			Confidence: score.Confidence,
			Band:       domain.BandFor(score.Confidence),
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	recommendations := GenerateRecommendations(results, profile)
	s.logger.WithFields(logrus.Fields{
		"result_count":         len(results),
		"recommendation_count": len(recommendations),
	}).Debug("Generated recommendations")
	return recommendations, nil
}

// Normalization is the outcome of normalizing one label.
type Normalization struct {
	Input     string `json:"input"`
	Canonical string `json:"canonical"`
	Matched   bool   `json:"matched"`
}

// Normalize maps label to its canonical key and reports whether the key is
// one the knowledge base knows.
func (s *SymptomCheckerService) Normalize(label string) Normalization {
	key := NormalizeSymptom(s.kb, label)
	return Normalization{Input: label, Canonical: key, Matched: s.kb.IsCanonical(key)}
}

// Conditions lists catalog records, optionally restricted to one category.
func (s *SymptomCheckerService) Conditions(category string) []*domain.Condition {
	if strings.TrimSpace(category) == "" {
		return s.kb.Conditions()
	}
	return s.kb.ConditionsInCategory(category)
}

// Condition looks one record up by name.
func (s *SymptomCheckerService) Condition(name string) (*domain.Condition, error) {
	c, ok := s.kb.Condition(name)
	if !ok {
		return nil, fmt.Errorf("condition %q: %w", name, domain.ErrNotFound)
	}
	return c, nil
}

// CacheStats reports cache counters, or zeros when caching is off.
func (s *SymptomCheckerService) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.Stats()
}

// cacheKey digests everything that determines the output: the catalog, the
// demographics, severity, duration and the normalized symptoms in order.
// Description is not an input to scoring and is left out.
func (s *SymptomCheckerService) cacheKey(profile domain.PatientProfile) string {
	age := "-"
	if profile.Age != nil {
		age = strconv.Itoa(*profile.Age)
	}
	parts := []string{
		s.kb.Fingerprint(),
		age,
		strings.ToLower(strings.TrimSpace(profile.Gender)),
		string(profile.Severity),
		string(profile.Duration),
	}
	parts = append(parts, NormalizeSymptoms(s.kb, profile.Symptoms())...)

	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

type cachedResult struct {
	Condition        string   `json:"condition"`
	Confidence       int      `json:"confidence"`
	MatchingSymptoms []string `json:"matching_symptoms"`
	RiskFactors      []string `json:"risk_factors"`
}

type cachedAnalysis struct {
	Results         []cachedResult          `json:"results"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

func (s *SymptomCheckerService) lookup(ctx context.Context, key string) ([]domain.AnalysisResult, []domain.Recommendation, bool) {
	if s.cache == nil {
		return nil, nil, false
	}
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, nil, false
	}

	var entry cachedAnalysis
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.WithError(err).Warn("Discarding undecodable cache entry")
		return nil, nil, false
	}

	results := make([]domain.AnalysisResult, 0, len(entry.Results))
	for _, r := range entry.Results {
		condition, ok := s.kb.Condition(r.Condition)
		if !ok {
			return nil, nil, false
		}
		results = append(results, domain.AnalysisResult{
			Condition:        condition,
			Confidence:       r.Confidence,
			Band:             domain.BandFor(r.Confidence),
			MatchingSymptoms: r.MatchingSymptoms,
			RiskFactors:      r.RiskFactors,
		})
	}
	return results, entry.Recommendations, true
}

func (s *SymptomCheckerService) store(ctx context.Context, key string, results []domain.AnalysisResult, recommendations []domain.Recommendation) {
	if s.cache == nil {
		return
	}
	entry := cachedAnalysis{
		Results:         make([]cachedResult, 0, len(results)),
		Recommendations: recommendations,
	}
	for _, r := range results {
		entry.Results = append(entry.Results, cachedResult{
			Condition:        r.Condition.Name,
			Confidence:       r.Confidence,
			MatchingSymptoms: r.MatchingSymptoms,
			RiskFactors:      r.RiskFactors,
		})
	}

	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode analysis for cache")
		return
	}
	s.cache.Set(ctx, key, data)
}
