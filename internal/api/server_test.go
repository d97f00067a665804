package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/feedback"
	"github.com/symptom-checker-server/internal/knowledge"
	"github.com/symptom-checker-server/internal/service"
)

type stubConfig struct {
	cfg *domain.Config
}

func (s *stubConfig) GetConfig() *domain.Config                 { return s.cfg }
func (s *stubConfig) GetServerConfig() *domain.ServerConfig     { return &s.cfg.Server }
func (s *stubConfig) GetCacheConfig() *domain.CacheConfig       { return &s.cfg.Cache }
func (s *stubConfig) GetFeedbackConfig() *domain.FeedbackConfig { return &s.cfg.Feedback }
func (s *stubConfig) Validate() error                           { return nil }

func testConfig() *domain.Config {
	return &domain.Config{
		Server: domain.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   64 * 1024,
			CORSOrigins:    []string{"*"},
		},
		Logging: domain.LoggingConfig{Level: "info"},
	}
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, fb *feedback.Feedback) error {
	return m.Called(ctx, fb).Error(0)
}

func (m *mockStore) Get(ctx context.Context, analysisID string) (*feedback.Feedback, error) {
	args := m.Called(ctx, analysisID)
	fb, _ := args.Get(0).(*feedback.Feedback)
	return fb, args.Error(1)
}

func (m *mockStore) List(ctx context.Context, limit, offset int) ([]*feedback.Feedback, error) {
	args := m.Called(ctx, limit, offset)
	list, _ := args.Get(0).([]*feedback.Feedback)
	return list, args.Error(1)
}

func (m *mockStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Stats(ctx context.Context) (*feedback.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*feedback.Stats)
	return stats, args.Error(1)
}

func (m *mockStore) ExportJSON(ctx context.Context, w io.Writer) error {
	return m.Called(ctx, w).Error(0)
}

func (m *mockStore) ImportJSON(ctx context.Context, r io.Reader) (int, int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

func newTestServer(cfg *domain.Config, store feedback.Store) *Server {
	logger, _ := test.NewNullLogger()
	svc := service.NewSymptomCheckerService(logger, knowledge.Default())
	return NewServer(&stubConfig{cfg: cfg}, svc, store, logger)
}

type ServerSuite struct {
	suite.Suite
	store  *mockStore
	server *Server
}

func (s *ServerSuite) SetupTest() {
	s.store = &mockStore{}
	s.server = newTestServer(testConfig(), s.store)
}

func (s *ServerSuite) TearDownTest() {
	s.store.AssertExpectations(s.T())
}

func (s *ServerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	return w
}

func (s *ServerSuite) decode(w *httptest.ResponseRecorder, dst any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func (s *ServerSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)

	var body map[string]any
	s.decode(w, &body)
	s.Equal("healthy", body["status"])
	s.Equal(domain.Version, body["version"])
	s.NotEmpty(w.Header().Get("X-Correlation-ID"))
	s.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
}

func (s *ServerSuite) TestReady() {
	s.store.On("Ping", mock.Anything).Return(nil).Once()
	w := s.do(http.MethodGet, "/ready", nil)
	s.Equal(http.StatusOK, w.Code)

	s.store.On("Ping", mock.Anything).Return(errors.New("disk gone")).Once()
	w = s.do(http.MethodGet, "/ready", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status string                    `json:"status"`
		Checks map[string]map[string]any `json:"checks"`
	}
	s.decode(w, &body)
	s.Equal("degraded", body.Status)
	s.Equal("unavailable", body.Checks["feedback_store"]["status"])
	s.Equal(float64(10), body.Checks["knowledge_base"]["conditions"])
}

func (s *ServerSuite) TestAnalyze() {
	w := s.do(http.MethodPost, "/api/v1/analyze", map[string]any{
		"age":                 30,
		"gender":              "female",
		"primary_symptom":     "Headache",
		"duration":            "1-3-days",
		"severity":            "moderate",
		"additional_symptoms": []string{"nausea", "fatigue"},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var body struct {
		AnalysisID string `json:"analysis_id"`
		Results    []struct {
			Condition struct {
				Name string `json:"name"`
			} `json:"condition"`
			Confidence int    `json:"confidence"`
			Band       string `json:"band"`
		} `json:"results"`
		Recommendations []domain.Recommendation `json:"recommendations"`
		Emergency       bool                    `json:"emergency"`
		Disclaimer      string                  `json:"disclaimer"`
		ProcessingTime  string                  `json:"processing_time"`
	}
	s.decode(w, &body)

	_, err := uuid.Parse(body.AnalysisID)
	s.NoError(err)
	s.Require().Len(body.Results, 5)
	s.Equal("Tension Headache", body.Results[0].Condition.Name)
	s.Equal(95, body.Results[0].Confidence)
	s.Equal("high", body.Results[0].Band)
	s.False(body.Emergency)
	s.Equal(domain.Disclaimer, body.Disclaimer)
	s.NotEmpty(body.ProcessingTime)
	s.Equal(domain.RecommendationMonitor, body.Recommendations[0].Type)
}

func (s *ServerSuite) TestAnalyzeEmergency() {
	w := s.do(http.MethodPost, "/api/v1/analyze", map[string]any{
		"age":                 70,
		"gender":              "male",
		"primary_symptom":     "cough",
		"duration":            "1-3-days",
		"severity":            "severe",
		"additional_symptoms": []string{"fever", "chest pain", "shortness of breath", "fatigue"},
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var body map[string]any
	s.decode(w, &body)
	s.Equal(true, body["emergency"])
}

func (s *ServerSuite) TestAnalyzeValidation() {
	w := s.do(http.MethodPost, "/api/v1/analyze", map[string]any{"primary_symptom": "cough"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	var resp domain.ErrorResponse
	s.decode(w, &resp)
	s.Equal(domain.ErrCodeValidation, resp.Error.Code)
	s.Equal([]string{"duration", "severity"}, resp.Fields.Fields())
	s.Equal(w.Header().Get("X-Correlation-ID"), resp.Error.RequestID)
}

func (s *ServerSuite) TestAnalyzeMalformed() {
	w := s.do(http.MethodPost, "/api/v1/analyze", "{not json")
	s.Equal(http.StatusBadRequest, w.Code)

	var resp domain.ErrorResponse
	s.decode(w, &resp)
	s.Equal(domain.ErrCodeInvalidInput, resp.Error.Code)
}

func (s *ServerSuite) TestRecommendations() {
	w := s.do(http.MethodPost, "/api/v1/recommendations", map[string]any{
		"profile": map[string]any{"severity": "moderate"},
		"results": []map[string]any{{"condition": "Pneumonia", "confidence": 85}},
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Recommendations []domain.Recommendation `json:"recommendations"`
		Emergency       bool                    `json:"emergency"`
	}
	s.decode(w, &body)
	s.True(body.Emergency)
	s.Equal(domain.RecommendationEmergency, body.Recommendations[0].Type)

	w = s.do(http.MethodPost, "/api/v1/recommendations", map[string]any{
		"results": []map[string]any{{"condition": "Scurvy", "confidence": 50}},
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *ServerSuite) TestConditions() {
	w := s.do(http.MethodGet, "/api/v1/conditions", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list struct {
		Count      int      `json:"count"`
		Categories []string `json:"categories"`
	}
	s.decode(w, &list)
	s.Equal(10, list.Count)
	s.Contains(list.Categories, "Respiratory")

	w = s.do(http.MethodGet, "/api/v1/conditions?category=Neurological", nil)
	s.decode(w, &list)
	s.Equal(2, list.Count)

	w = s.do(http.MethodGet, "/api/v1/conditions/tension%20headache", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var condition domain.Condition
	s.decode(w, &condition)
	s.Equal("Tension Headache", condition.Name)

	w = s.do(http.MethodGet, "/api/v1/conditions/Scurvy", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ServerSuite) TestSymptoms() {
	w := s.do(http.MethodGet, "/api/v1/symptoms", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Symptoms []symptomEntry `json:"symptoms"`
	}
	s.decode(w, &body)
	s.Equal("headache", body.Symptoms[0].Key)
	picks := 0
	for _, e := range body.Symptoms {
		if e.QuickPick {
			picks++
		}
	}
	s.Equal(knowledge.QuickPickCount, picks)

	w = s.do(http.MethodGet, "/api/v1/symptoms/normalize?label=Pyrexia", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var n service.Normalization
	s.decode(w, &n)
	s.Equal(service.Normalization{Input: "Pyrexia", Canonical: "fever", Matched: true}, n)

	w = s.do(http.MethodGet, "/api/v1/symptoms/normalize", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ServerSuite) TestSubmitFeedback() {
	id := uuid.NewString()
	s.store.On("Save", mock.Anything, mock.MatchedBy(func(fb *feedback.Feedback) bool {
		return fb.AnalysisID == id && fb.Rating == 4 && fb.UserAgreed
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*feedback.Feedback).ID = 11
	}).Return(nil).Once()

	w := s.do(http.MethodPost, "/api/v1/feedback", map[string]any{
		"analysis_id":         id,
		"suggested_condition": "Migraine",
		"rating":              4,
		"user_agreed":         true,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	var fb feedback.Feedback
	s.decode(w, &fb)
	s.Equal(int64(11), fb.ID)
}

func (s *ServerSuite) TestSubmitFeedbackErrors() {
	verrs := domain.ValidationErrors{domain.NewValidationError("rating", "rating must be between 1 and 5", 0)}
	s.store.On("Save", mock.Anything, mock.Anything).Return(verrs).Once()
	w := s.do(http.MethodPost, "/api/v1/feedback", map[string]any{"analysis_id": "x"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	s.store.On("Save", mock.Anything, mock.Anything).Return(errors.New("database is locked")).Once()
	w = s.do(http.MethodPost, "/api/v1/feedback", map[string]any{"analysis_id": "x"})
	s.Equal(http.StatusInternalServerError, w.Code)
	s.NotContains(w.Body.String(), "locked")
}

func (s *ServerSuite) TestListFeedback() {
	entries := []*feedback.Feedback{{ID: 1, AnalysisID: uuid.NewString(), Rating: 5}}
	s.store.On("List", mock.Anything, 10, 5).Return(entries, nil).Once()
	s.store.On("Count", mock.Anything).Return(int64(6), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/feedback?limit=10&offset=5", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Feedback []*feedback.Feedback `json:"feedback"`
		Total    int64                `json:"total"`
		Limit    int                  `json:"limit"`
	}
	s.decode(w, &body)
	s.Len(body.Feedback, 1)
	s.Equal(int64(6), body.Total)
	s.Equal(10, body.Limit)

	w = s.do(http.MethodGet, "/api/v1/feedback?limit=0", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodGet, "/api/v1/feedback?offset=-1", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ServerSuite) TestGetFeedback() {
	id := uuid.NewString()
	s.store.On("Get", mock.Anything, id).Return(&feedback.Feedback{AnalysisID: id, Rating: 2}, nil).Once()
	w := s.do(http.MethodGet, "/api/v1/feedback/"+id, nil)
	s.Equal(http.StatusOK, w.Code)

	missing := uuid.NewString()
	s.store.On("Get", mock.Anything, missing).
		Return(nil, fmt.Errorf("feedback for analysis %s: %w", missing, domain.ErrNotFound)).Once()
	w = s.do(http.MethodGet, "/api/v1/feedback/"+missing, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ServerSuite) TestFeedbackStats() {
	s.store.On("Stats", mock.Anything).Return(&feedback.Stats{Total: 3, AverageRating: 4}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/feedback/stats", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var stats feedback.Stats
	s.decode(w, &stats)
	s.Equal(int64(3), stats.Total)
}

func (s *ServerSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func TestFeedbackRoutesWithoutStore(t *testing.T) {
	server := newTestServer(testConfig(), nil)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/feedback", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"disabled"`)
}

func TestBodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 32
	server := newTestServer(cfg, nil)

	body := `{"primary_symptom":"headache","duration":"1-3-days","severity":"moderate"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1}
	server := newTestServer(cfg, nil)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestStartAndShutdown(t *testing.T) {
	server := newTestServer(testConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func init() {
	gin.SetMode(gin.TestMode)
}
