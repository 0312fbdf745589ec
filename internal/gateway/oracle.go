package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"agri-advisor/internal/model"
	"agri-advisor/internal/soil"
	"agri-advisor/internal/spoilage"
)

// OracleRequest is the payload sent to the external ML service.
type OracleRequest struct {
	CropID      uint                       `json:"crop_id"`
	Region      string                     `json:"region"`
	Quantity    float64                    `json:"quantity"`
	Soil        soil.Measurements          `json:"soil"`
	Storage     spoilage.StorageConditions `json:"storage"`
	Weather     []model.WeatherData        `json:"weather"`
	MandiPrices []model.MarketPrice        `json:"mandi_prices"`
}

// OracleSuggestion is what the ML service may offer. Every field is
// optional; a suggestion without a mandi is unusable.
type OracleSuggestion struct {
	SuggestedMandi  string   `json:"suggested_mandi"`
	HarvestWindow   string   `json:"harvest_window"`
	SpoilageRisk    *float64 `json:"spoilage_risk,omitempty"`
	PredictedProfit float64  `json:"predicted_profit"`
	PredictedPrice  float64  `json:"predicted_price"`
	ExplanationText string   `json:"explanation_text"`
}

// OracleClient consults the optional ML service. The oracle is untrusted for
// availability: every failure collapses to "no opinion" and is never
// propagated.
type OracleClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOracleClient creates an oracle client. An empty baseURL disables the
// oracle entirely.
func NewOracleClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *OracleClient {
	return &OracleClient{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

// Recommend asks the oracle for a suggestion. Returns nil when the oracle is
// unconfigured, unreachable, errors, or answers with garbage.
func (c *OracleClient) Recommend(ctx context.Context, req OracleRequest) *OracleSuggestion {
	if c.baseURL == "" {
		return nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		c.logger.Warn("oracle request marshal failed", "error", err.Error())
		return nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommend", bytes.NewReader(body))
	if err != nil {
		return nil
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("oracle unreachable, falling back to heuristics", "error", err.Error())
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("oracle answered with error status", "status", resp.StatusCode)
		return nil
	}

	var suggestion OracleSuggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		c.logger.Warn("oracle payload undecodable", "error", err.Error())
		return nil
	}
	return &suggestion
}
