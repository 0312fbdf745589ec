package gateway

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agri-advisor/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func newTestMandiGateway(apiKey, baseURL string) *MandiGateway {
	return NewMandiGateway(
		cache.NewMemoryStore(),
		&http.Client{Timeout: time.Second},
		apiKey,
		baseURL,
		rand.New(rand.NewSource(42)),
		testLogger(),
	)
}

func TestFetchPrices_NoKeyServesSyntheticData(t *testing.T) {
	g := newTestMandiGateway("", "")

	feed := g.FetchPrices(context.Background(), MandiParams{Crop: "wheat", State: "Maharashtra"})
	require.Len(t, feed.Records, 5)

	for _, r := range feed.Records {
		assert.Equal(t, "Maharashtra", r.State)
		assert.Equal(t, "wheat", r.Commodity)
		// Base price 2750 with bounded ±300 variation.
		assert.InDelta(t, 2750, r.ModalPrice, 300)
		require.NotNil(t, r.Distance)
		assert.GreaterOrEqual(t, *r.Distance, 30.0)
		assert.LessOrEqual(t, *r.Distance, 110.0)
		assert.GreaterOrEqual(t, r.Arrival, 100.0)
	}
}

func TestFetchPrices_SyntheticIsSeedDeterministic(t *testing.T) {
	a := newTestMandiGateway("", "")
	b := newTestMandiGateway("", "")

	feedA := a.FetchPrices(context.Background(), MandiParams{Crop: "onion"})
	feedB := b.FetchPrices(context.Background(), MandiParams{Crop: "onion"})
	assert.Equal(t, feedA.Records, feedB.Records)
}

func TestFetchPrices_UnknownCropUsesFallbackBase(t *testing.T) {
	g := newTestMandiGateway("", "")
	feed := g.FetchPrices(context.Background(), MandiParams{Crop: "dragonfruit"})
	require.NotEmpty(t, feed.Records)
	assert.InDelta(t, 3000, feed.Records[0].ModalPrice, 300)
}

func TestFetchPrices_ProviderSuccessIsCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "Wheat", r.URL.Query().Get("filters[commodity]"), "crop name must pass through the synonym map")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records":[{"market":"Karnal APMC","commodity":"Wheat","modal_price":2800,"arrival":320,"arrival_date":"2025-06-01","state":"Haryana","district":"Karnal"}]}`))
	}))
	defer srv.Close()

	g := newTestMandiGateway("test-key", srv.URL)
	ctx := context.Background()

	feed := g.FetchPrices(ctx, MandiParams{Crop: "wheat", State: "Haryana"})
	require.Len(t, feed.Records, 1)
	assert.Equal(t, "Karnal APMC", feed.Records[0].Market)

	// Second identical fetch is served from cache.
	g.FetchPrices(ctx, MandiParams{Crop: "wheat", State: "Haryana"})
	assert.Equal(t, 1, calls)
}

func TestFetchPrices_ProviderFailureFallsThroughToSynthetic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := newTestMandiGateway("test-key", srv.URL)
	feed := g.FetchPrices(context.Background(), MandiParams{Crop: "rice"})
	assert.Len(t, feed.Records, 5, "provider failure must never surface; synthetic data is the terminal fallback")
}

func TestNormalizePrices(t *testing.T) {
	g := newTestMandiGateway("", "")

	t.Run("empty payload normalizes to empty sequence", func(t *testing.T) {
		assert.Empty(t, g.NormalizePrices(RawPriceFeed{}))
	})

	t.Run("provider fields map to canonical shape", func(t *testing.T) {
		d := 40.0
		raw := RawPriceFeed{Records: []RawPriceRecord{
			{Market: "Vashi APMC", Commodity: "Tomato", ModalPrice: 2200, Arrival: 150, ArrivalDate: "2025-06-01", State: "Maharashtra", District: "Thane", Distance: &d},
		}}
		prices := g.NormalizePrices(raw)
		require.Len(t, prices, 1)
		assert.Equal(t, "Vashi APMC", prices[0].MandiName)
		assert.Equal(t, "Tomato", prices[0].CropName)
		assert.Equal(t, 2200.0, prices[0].Price)
		assert.Equal(t, 150.0, prices[0].ArrivalVolume)
		assert.Equal(t, 2025, prices[0].PriceDate.Year())
		require.NotNil(t, prices[0].DistanceKm)
		assert.Equal(t, 40.0, *prices[0].DistanceKm)
	})

	t.Run("min price backs up a missing modal price", func(t *testing.T) {
		raw := RawPriceFeed{Records: []RawPriceRecord{{Market: "X", MinPrice: 1900}}}
		prices := g.NormalizePrices(raw)
		require.Len(t, prices, 1)
		assert.Equal(t, 1900.0, prices[0].Price)
	})

	t.Run("market_name backs up a missing market field", func(t *testing.T) {
		raw := RawPriceFeed{Records: []RawPriceRecord{{MarketName: "Fallback Mandi", ModalPrice: 100}}}
		prices := g.NormalizePrices(raw)
		require.Len(t, prices, 1)
		assert.Equal(t, "Fallback Mandi", prices[0].MandiName)
	})

	t.Run("missing distance is synthesized in band", func(t *testing.T) {
		raw := RawPriceFeed{Records: []RawPriceRecord{{Market: "X", ModalPrice: 100}}}
		prices := g.NormalizePrices(raw)
		require.NotNil(t, prices[0].DistanceKm)
		assert.GreaterOrEqual(t, *prices[0].DistanceKm, 30.0)
		assert.LessOrEqual(t, *prices[0].DistanceKm, 110.0)
	})
}
