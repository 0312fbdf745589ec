package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"agri-advisor/internal/middleware"
	"agri-advisor/internal/model"
	"agri-advisor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRecommendationService is a mock implementation of RecommendationService for testing
type mockRecommendationService struct {
	resp *service.GenerateResponse
	recs []model.Recommendation
	err  error

	gotCaller service.Identity
	gotReq    service.GenerateRequest
}

func (m *mockRecommendationService) Generate(ctx context.Context, caller service.Identity, req service.GenerateRequest) (*service.GenerateResponse, error) {
	m.gotCaller = caller
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockRecommendationService) ListForUser(userID uint) ([]model.Recommendation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recs, nil
}

func (m *mockRecommendationService) ListAll() ([]model.Recommendation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recs, nil
}

// fakeIdentity injects a caller the way the auth middleware would.
func fakeIdentity(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func setupRecommendationRouter(ctrl *RecommendationController, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/v1", fakeIdentity(userID, "farmer"))
	{
		v1.POST("/recommendations", ctrl.Generate)
		v1.GET("/recommendations", ctrl.ListMine)
		v1.POST("/spoilage/simulate", ctrl.Simulate)
	}
	return r
}

func TestGenerate_Success(t *testing.T) {
	score := 82
	mockService := &mockRecommendationService{
		resp: &service.GenerateResponse{
			Recommendation: model.Recommendation{
				SuggestedMandi:  "Azadpur Mandi",
				HarvestWindow:   "3-7 days",
				SpoilageRisk:    0.31,
				PredictedProfit: 198600,
				PredictedPrice:  2000,
				SoilScore:       &score,
			},
			PreservationActions: []model.PreservationAction{
				{ActionName: "Temperature Control"},
			},
		},
	}
	ctrl := NewRecommendationController(mockService, slog.Default())
	router := setupRecommendationRouter(ctrl, 42)

	body := []byte(`{"crop_id": 1, "region": "Delhi", "quantity": 100}`)
	req, _ := http.NewRequest("POST", "/v1/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(42), mockService.gotCaller.UserID)
	assert.Equal(t, uint(1), mockService.gotReq.CropID)

	var resp service.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Azadpur Mandi", resp.SuggestedMandi)
	assert.Equal(t, 0.31, resp.SpoilageRisk)
	assert.Len(t, resp.PreservationActions, 1)
}

func TestGenerate_MissingCropID(t *testing.T) {
	ctrl := NewRecommendationController(&mockRecommendationService{}, slog.Default())
	router := setupRecommendationRouter(ctrl, 42)

	req, _ := http.NewRequest("POST", "/v1/recommendations", bytes.NewReader([]byte(`{"quantity": 50}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_ServiceValidationError(t *testing.T) {
	mockService := &mockRecommendationService{err: service.ErrValidation}
	ctrl := NewRecommendationController(mockService, slog.Default())
	router := setupRecommendationRouter(ctrl, 42)

	req, _ := http.NewRequest("POST", "/v1/recommendations", bytes.NewReader([]byte(`{"crop_id": 99}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_InternalErrorIsGeneric(t *testing.T) {
	mockService := &mockRecommendationService{err: assert.AnError}
	ctrl := NewRecommendationController(mockService, slog.Default())
	router := setupRecommendationRouter(ctrl, 42)

	req, _ := http.NewRequest("POST", "/v1/recommendations", bytes.NewReader([]byte(`{"crop_id": 1}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error(), "internal detail must stay server-side")
}

func TestListMine(t *testing.T) {
	mockService := &mockRecommendationService{
		recs: []model.Recommendation{
			{UserID: 42, SuggestedMandi: "Pune APMC"},
			{UserID: 42, SuggestedMandi: "Nearest Mandi"},
		},
	}
	ctrl := NewRecommendationController(mockService, slog.Default())
	router := setupRecommendationRouter(ctrl, 42)

	req, _ := http.NewRequest("GET", "/v1/recommendations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recommendations []model.Recommendation `json:"recommendations"`
		Count           int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestSimulate(t *testing.T) {
	ctrl := NewRecommendationController(&mockRecommendationService{}, slog.Default())
	router := setupRecommendationRouter(ctrl, 42)

	body := []byte(`{"crop_type": "Tomato", "quantity": 100, "storage_temp": 35, "storage_humidity": 85, "transit_hours": 15}`)
	req, _ := http.NewRequest("POST", "/v1/spoilage/simulate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RiskLevel            string  `json:"risk_level"`
		FinalSpoilagePercent float64 `json:"final_spoilage_percent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CRITICAL", resp.RiskLevel)
	assert.Greater(t, resp.FinalSpoilagePercent, 50.0)
}
