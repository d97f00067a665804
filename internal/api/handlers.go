package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/feedback"
	"github.com/symptom-checker-server/internal/middleware"
	"github.com/symptom-checker-server/internal/service"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
	readyTimeout    = 2 * time.Second
)

type analysisResponse struct {
	*domain.AnalysisReport
	ProcessingTime string `json:"processing_time"`
}

type recommendationsRequest struct {
	Profile domain.PatientProfile   `json:"profile"`
	Results []domain.ConditionScore `json:"results"`
}

type symptomEntry struct {
	Key       string   `json:"key"`
	Variants  []string `json:"variants"`
	QuickPick bool     `json:"quick_pick"`
}

type feedbackRequest struct {
	AnalysisID          string `json:"analysis_id"`
	SuggestedCondition  string `json:"suggested_condition"`
	SuggestedConfidence int    `json:"suggested_confidence"`
	ConfirmedCondition  string `json:"confirmed_condition"`
	Rating              int    `json:"rating"`
	UserAgreed          bool   `json:"user_agreed"`
	Notes               string `json:"notes"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   domain.Version,
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleReady(c *gin.Context) {
	checks := gin.H{}
	status := http.StatusOK

	kb := s.svc.Knowledge()
	checks["knowledge_base"] = gin.H{
		"status":      "ok",
		"conditions":  len(kb.Conditions()),
		"fingerprint": kb.Fingerprint(),
	}

	if s.feedback == nil {
		checks["feedback_store"] = gin.H{"status": "disabled"}
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := s.feedback.Ping(ctx); err != nil {
			s.logger.WithError(err).Warn("Feedback store ping failed")
			checks["feedback_store"] = gin.H{"status": "unavailable"}
			status = http.StatusServiceUnavailable
		} else {
			checks["feedback_store"] = gin.H{"status": "ok"}
		}
	}

	stats := s.svc.CacheStats()
	checks["cache"] = gin.H{"hits": stats.Hits, "misses": stats.Misses, "hit_ratio": stats.HitRatio()}

	overall := "ready"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": checks})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var profile domain.PatientProfile
	if !s.bind(c, &profile) {
		return
	}

	report, err := s.svc.Analyze(c.Request.Context(), profile)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysisResponse{
		AnalysisReport: report,
		ProcessingTime: report.ProcessingTime.String(),
	})
}

func (s *Server) handleRecommendations(c *gin.Context) {
	var req recommendationsRequest
	if !s.bind(c, &req) {
		return
	}

	recs, err := s.svc.Recommend(c.Request.Context(), req.Profile, req.Results)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"emergency":       service.HasEmergency(recs),
	})
}

func (s *Server) handleListConditions(c *gin.Context) {
	conditions := s.svc.Conditions(c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"conditions": conditions,
		"count":      len(conditions),
		"categories": s.svc.Knowledge().Categories(),
	})
}

func (s *Server) handleGetCondition(c *gin.Context) {
	condition, err := s.svc.Condition(c.Param("name"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, condition)
}

func (s *Server) handleListSymptoms(c *gin.Context) {
	kb := s.svc.Knowledge()
	picks := make(map[string]bool)
	for _, k := range kb.QuickPicks() {
		picks[k] = true
	}

	synonyms := kb.Synonyms()
	entries := make([]symptomEntry, 0, len(synonyms))
	for _, syn := range synonyms {
		entries = append(entries, symptomEntry{Key: syn.Key, Variants: syn.Variants, QuickPick: picks[syn.Key]})
	}
	c.JSON(http.StatusOK, gin.H{"symptoms": entries, "count": len(entries)})
}

func (s *Server) handleNormalizeSymptom(c *gin.Context) {
	label, ok := c.GetQuery("label")
	if !ok {
		middleware.Abort(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "query parameter 'label' is required", "")
		return
	}
	c.JSON(http.StatusOK, s.svc.Normalize(label))
}

func (s *Server) handleSubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if !s.bind(c, &req) {
		return
	}

	fb := &feedback.Feedback{
		AnalysisID:          req.AnalysisID,
		SuggestedCondition:  req.SuggestedCondition,
		SuggestedConfidence: req.SuggestedConfidence,
		ConfirmedCondition:  req.ConfirmedCondition,
		Rating:              req.Rating,
		UserAgreed:          req.UserAgreed,
		Notes:               req.Notes,
	}
	if err := s.feedback.Save(c.Request.Context(), fb); err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"analysis_id": fb.AnalysisID,
		"rating":      fb.Rating,
		"user_agreed": fb.UserAgreed,
	}).Info("Feedback recorded")
	c.JSON(http.StatusCreated, fb)
}

func (s *Server) handleListFeedback(c *gin.Context) {
	limit, ok := s.queryInt(c, "limit", defaultPageSize, 1, maxPageSize)
	if !ok {
		return
	}
	offset, ok := s.queryInt(c, "offset", 0, 0, int(^uint(0)>>1))
	if !ok {
		return
	}

	ctx := c.Request.Context()
	entries, err := s.feedback.List(ctx, limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	total, err := s.feedback.Count(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []*feedback.Feedback{}
	}
	c.JSON(http.StatusOK, gin.H{
		"feedback": entries,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (s *Server) handleGetFeedback(c *gin.Context) {
	fb, err := s.feedback.Get(c.Request.Context(), c.Param("analysis_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fb)
}

func (s *Server) handleFeedbackStats(c *gin.Context) {
	stats, err := s.feedback.Stats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// bind decodes the JSON body into dst, answering 413 or 400 on failure.
func (s *Server) bind(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		middleware.Abort(c, http.StatusRequestEntityTooLarge, domain.ErrCodeInvalidInput, "request body too large", "")
		return false
	}
	middleware.Abort(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "malformed JSON body", err.Error())
	return false
}

func (s *Server) queryInt(c *gin.Context, name string, def, lo, hi int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		middleware.Abort(c, http.StatusBadRequest, domain.ErrCodeInvalidInput,
			"query parameter '"+name+"' is out of range", raw)
		return 0, false
	}
	return n, true
}

// respondError maps service and store errors onto HTTP statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	requestID := c.GetString(middleware.CorrelationIDKey)

	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, domain.ErrorResponse{
			Error:  domain.NewAPIError(domain.ErrCodeValidation, "request failed validation", "", requestID),
			Fields: verrs,
		})
	case errors.Is(err, domain.ErrNotFound):
		middleware.Abort(c, http.StatusNotFound, domain.ErrCodeNotFound, err.Error(), "")
	case errors.Is(err, context.DeadlineExceeded):
		middleware.Abort(c, http.StatusGatewayTimeout, domain.ErrCodeUnavailable, "request timeout", "")
	default:
		s.logger.WithError(err).WithField("correlation_id", requestID).Error("Request failed")
		middleware.Abort(c, http.StatusInternalServerError, domain.ErrCodeStorage, "internal error", "")
	}
}
