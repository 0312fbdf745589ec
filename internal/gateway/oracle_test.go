package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleRecommend_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommend", r.URL.Path)

		var req OracleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, uint(3), req.CropID)
		assert.Equal(t, "Nagpur", req.Region)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"suggested_mandi":"Azadpur Mandi","harvest_window":"2-4 days","spoilage_risk":0.3,"predicted_profit":185000,"predicted_price":2100,"explanation_text":"High demand expected."}`))
	}))
	defer srv.Close()

	c := NewOracleClient(srv.URL, srv.Client(), testLogger())
	got := c.Recommend(context.Background(), OracleRequest{CropID: 3, Region: "Nagpur", Quantity: 100})

	require.NotNil(t, got)
	assert.Equal(t, "Azadpur Mandi", got.SuggestedMandi)
	require.NotNil(t, got.SpoilageRisk)
	assert.Equal(t, 0.3, *got.SpoilageRisk)
	assert.Equal(t, 2100.0, got.PredictedPrice)
}

func TestOracleRecommend_NoOpinionCases(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		c := NewOracleClient("", http.DefaultClient, testLogger())
		assert.Nil(t, c.Recommend(context.Background(), OracleRequest{}))
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewOracleClient(srv.URL, srv.Client(), testLogger())
		assert.Nil(t, c.Recommend(context.Background(), OracleRequest{}))
	})

	t.Run("garbage payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json at all"))
		}))
		defer srv.Close()

		c := NewOracleClient(srv.URL, srv.Client(), testLogger())
		assert.Nil(t, c.Recommend(context.Background(), OracleRequest{}))
	})

	t.Run("unreachable host", func(t *testing.T) {
		c := NewOracleClient("http://127.0.0.1:1", &http.Client{Timeout: 200 * time.Millisecond}, testLogger())
		assert.Nil(t, c.Recommend(context.Background(), OracleRequest{}))
	})
}
