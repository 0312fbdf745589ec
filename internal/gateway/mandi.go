package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agri-advisor/internal/cache"
	"agri-advisor/internal/model"
)

const mandiCacheTTL = 30 * time.Minute

// cropSynonyms maps our crop names to the provider's commodity vocabulary.
var cropSynonyms = map[string]string{
	"tomato":      "Tomato",
	"onion":       "Onion",
	"potato":      "Potato",
	"wheat":       "Wheat",
	"rice":        "Rice",
	"cotton":      "Cotton",
	"soybean":     "Soybean",
	"orange":      "Orange",
	"pomegranate": "Pomegranate",
	"maize":       "Maize",
	"gram":        "Gram",
	"mustard":     "Mustard",
}

// basePrices are representative per-quintal prices used by the synthetic
// fallback feed.
var basePrices = map[string]float64{
	"cotton":    6200,
	"soybean":   4600,
	"wheat":     2750,
	"rice":      3100,
	"tomato":    2200,
	"onion":     1650,
	"potato":    1400,
	"orange":    4500,
	"sugarcane": 3500,
	"gram":      5400,
	"maize":     2100,
	"mustard":   5100,
}

const fallbackBasePrice = 3000

type mockMarket struct {
	market   string
	district string
}

// Five representative districts per covered state, with a default set for
// everywhere else.
var mockMarkets = map[string][]mockMarket{
	"maharashtra": {
		{"Nagpur APMC", "Nagpur"},
		{"Pune APMC", "Pune"},
		{"Nashik Mandi", "Nashik"},
		{"Amravati APMC", "Amravati"},
		{"Solapur Mandi", "Solapur"},
	},
	"madhya pradesh": {
		{"Indore Mandi", "Indore"},
		{"Bhopal APMC", "Bhopal"},
		{"Ujjain Mandi", "Ujjain"},
		{"Dewas Market", "Dewas"},
		{"Ratlam APMC", "Ratlam"},
	},
	"gujarat": {
		{"Ahmedabad APMC", "Ahmedabad"},
		{"Rajkot Mandi", "Rajkot"},
		{"Surat APMC", "Surat"},
		{"Anand Market", "Anand"},
		{"Junagadh Mandi", "Junagadh"},
	},
	"punjab": {
		{"Ludhiana APMC", "Ludhiana"},
		{"Amritsar Mandi", "Amritsar"},
		{"Bathinda Market", "Bathinda"},
		{"Patiala APMC", "Patiala"},
		{"Jalandhar Mandi", "Jalandhar"},
	},
}

var defaultMockMarkets = []mockMarket{
	{"Vashi APMC", "Thane"},
	{"Azadpur Mandi", "Delhi"},
	{"Lasalgaon Mandi", "Nashik"},
	{"Indore Mandi", "Indore"},
	{"Karnal APMC", "Karnal"},
}

// RawPriceFeed is the provider-shaped payload, cached as-is.
type RawPriceFeed struct {
	Records []RawPriceRecord `json:"records"`
}

// RawPriceRecord carries the provider's field names; normalization maps them
// to the canonical MarketPrice shape.
type RawPriceRecord struct {
	Market      string   `json:"market"`
	MarketName  string   `json:"market_name,omitempty"`
	Commodity   string   `json:"commodity"`
	ModalPrice  float64  `json:"modal_price"`
	MinPrice    float64  `json:"min_price"`
	MaxPrice    float64  `json:"max_price"`
	Arrival     float64  `json:"arrival"`
	ArrivalDate string   `json:"arrival_date"`
	State       string   `json:"state"`
	District    string   `json:"district"`
	Distance    *float64 `json:"distance,omitempty"`
}

// MandiParams identify one price query.
type MandiParams struct {
	Crop   string
	State  string
	Market string
}

// MandiGateway fetches live mandi prices with a synthetic-data terminal
// fallback, so it never fails its caller.
type MandiGateway struct {
	store      cache.Store
	httpClient *http.Client
	apiKey     string
	baseURL    string
	rng        *rand.Rand
	now        func() time.Time
	logger     *slog.Logger
}

// NewMandiGateway creates a market gateway. An empty apiKey means the
// provider is never called and every fetch serves synthetic data. The random
// source is injectable so synthetic feeds are reproducible under test.
func NewMandiGateway(store cache.Store, httpClient *http.Client, apiKey, baseURL string, rng *rand.Rand, logger *slog.Logger) *MandiGateway {
	return &MandiGateway{
		store:      store,
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    baseURL,
		rng:        rng,
		now:        time.Now,
		logger:     logger,
	}
}

// FetchPrices returns the raw price feed for the given query: cached if
// fresh, live from the provider when configured, synthetic otherwise. The
// synthetic path is the guaranteed terminal fallback.
func (g *MandiGateway) FetchPrices(ctx context.Context, p MandiParams) RawPriceFeed {
	key := fmt.Sprintf("mandi:%s:%s:%s", p.Crop, p.State, p.Market)

	var cached RawPriceFeed
	if found, err := g.store.Get(ctx, key, &cached); err == nil && found {
		g.logger.Debug("mandi cache hit", "crop", p.Crop, "state", p.State)
		return cached
	}

	if g.apiKey != "" {
		feed, err := g.fetchFromProvider(ctx, p)
		if err == nil {
			if err := g.store.Set(ctx, key, feed, mandiCacheTTL); err != nil {
				g.logger.Warn("mandi cache write failed", "error", err.Error())
			}
			return feed
		}
		g.logger.Warn("mandi provider unavailable, serving synthetic data",
			"crop", p.Crop,
			"state", p.State,
			"error", err.Error(),
		)
	}

	return g.syntheticFeed(p)
}

func (g *MandiGateway) fetchFromProvider(ctx context.Context, p MandiParams) (RawPriceFeed, error) {
	params := url.Values{}
	params.Set("api-key", g.apiKey)
	params.Set("format", "json")
	params.Set("limit", "500")
	if p.Crop != "" {
		commodity := p.Crop
		if mapped, ok := cropSynonyms[strings.ToLower(p.Crop)]; ok {
			commodity = mapped
		}
		params.Set("filters[commodity]", commodity)
	}
	if p.State != "" {
		params.Set("filters[state]", p.State)
	}
	if p.Market != "" {
		params.Set("filters[market]", p.Market)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return RawPriceFeed{}, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return RawPriceFeed{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RawPriceFeed{}, fmt.Errorf("mandi provider returned status %d", resp.StatusCode)
	}

	var feed RawPriceFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return RawPriceFeed{}, fmt.Errorf("decode mandi payload: %w", err)
	}
	return feed, nil
}

// syntheticFeed builds five plausible markets around a per-crop base price
// with bounded pseudo-random variation.
func (g *MandiGateway) syntheticFeed(p MandiParams) RawPriceFeed {
	markets := defaultMockMarkets
	state := strings.TrimSpace(p.State)
	if set, ok := mockMarkets[strings.ToLower(state)]; ok {
		markets = set
	} else if state == "" {
		state = "Maharashtra"
	}

	basePrice := float64(fallbackBasePrice)
	if base, ok := basePrices[strings.ToLower(p.Crop)]; ok {
		basePrice = base
	}

	commodity := p.Crop
	if commodity == "" {
		commodity = "Mixed"
	}

	today := g.now().Format("2006-01-02")
	records := make([]RawPriceRecord, 0, len(markets))
	for _, m := range markets {
		variation := float64(g.rng.Intn(601) - 300)
		distance := float64(30 + g.rng.Intn(81))
		price := basePrice + variation
		records = append(records, RawPriceRecord{
			Market:      m.market,
			Commodity:   commodity,
			ModalPrice:  price,
			MinPrice:    price - 150,
			MaxPrice:    price + 150,
			Arrival:     float64(100 + g.rng.Intn(400)),
			ArrivalDate: today,
			State:       state,
			District:    m.district,
			Distance:    &distance,
		})
	}
	return RawPriceFeed{Records: records}
}

// NormalizePrices maps the provider shape to canonical MarketPrice records.
// A payload without a record list normalizes to an empty sequence. Records
// lacking a distance get one synthesized in the 30-110 km band.
func (g *MandiGateway) NormalizePrices(raw RawPriceFeed) []model.MarketPrice {
	if len(raw.Records) == 0 {
		return []model.MarketPrice{}
	}

	prices := make([]model.MarketPrice, 0, len(raw.Records))
	for _, r := range raw.Records {
		name := r.Market
		if name == "" {
			name = r.MarketName
		}

		price := r.ModalPrice
		if price == 0 {
			price = r.MinPrice
		}
		if price == 0 {
			price = r.MaxPrice
		}

		distance := r.Distance
		if distance == nil {
			d := float64(30 + g.rng.Intn(81))
			distance = &d
		}

		priceDate := g.now()
		for _, layout := range []string{"2006-01-02", "02/01/2006"} {
			if t, err := time.Parse(layout, r.ArrivalDate); err == nil {
				priceDate = t
				break
			}
		}

		prices = append(prices, model.MarketPrice{
			MandiName:     name,
			CropName:      r.Commodity,
			Price:         price,
			ArrivalVolume: r.Arrival,
			PriceDate:     priceDate,
			State:         r.State,
			District:      r.District,
			DistanceKm:    distance,
		})
	}
	return prices
}
