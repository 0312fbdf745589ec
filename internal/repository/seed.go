package repository

import (
	"fmt"
	"math/rand"
	"time"

	"agri-advisor/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedRepository handles database seeding operations
type SeedRepository struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeedRepository creates a new seed repository
func NewSeedRepository(db *gorm.DB, rng *rand.Rand) *SeedRepository {
	return &SeedRepository{db: db, rng: rng}
}

// SeedDatabase seeds crops, users, preservation actions, and a month of
// mandi price history so recommendations have something to score against.
func (s *SeedRepository) SeedDatabase() error {
	if err := s.clearExistingData(); err != nil {
		return fmt.Errorf("failed to clear existing data: %w", err)
	}

	crops, err := s.createCrops()
	if err != nil {
		return fmt.Errorf("failed to create crops: %w", err)
	}

	if err := s.createUsers(); err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}

	if err := s.createPreservationActions(); err != nil {
		return fmt.Errorf("failed to create preservation actions: %w", err)
	}

	priceCount, err := s.createMandiPrices(crops)
	if err != nil {
		return fmt.Errorf("failed to create mandi prices: %w", err)
	}

	fmt.Printf("✓ Seeded database successfully:\n")
	fmt.Printf("  - Crops: %d\n", len(crops))
	fmt.Printf("  - Mandi price records: %d\n", priceCount)

	return nil
}

func (s *SeedRepository) clearExistingData() error {
	for _, table := range []string{"recommendations", "mandi_prices", "weather_data", "preservation_actions", "crops", "users"} {
		if err := s.db.Exec("TRUNCATE TABLE " + table + " CASCADE").Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedRepository) createCrops() ([]model.Crop, error) {
	crops := []model.Crop{
		{Name: "Wheat", OptimalPHRange: "6.0-7.0", OptimalNRange: "40-60", OptimalPRange: "20-40", OptimalKRange: "20-30"},
		{Name: "Rice", OptimalPHRange: "5.5-7.0", OptimalNRange: "50-80", OptimalPRange: "25-50", OptimalKRange: "30-50"},
		{Name: "Cotton", OptimalPHRange: "5.5-8.0", OptimalNRange: "50-100", OptimalPRange: "25-50", OptimalKRange: "30-60"},
		{Name: "Sugarcane", OptimalPHRange: "6.0-7.5", OptimalNRange: "150-200", OptimalPRange: "50-100", OptimalKRange: "80-120"},
		{Name: "Onion", OptimalPHRange: "6.0-7.0", OptimalNRange: "40-60", OptimalPRange: "20-40", OptimalKRange: "30-50"},
		{Name: "Tomato", OptimalPHRange: "6.0-6.8", OptimalNRange: "50-80", OptimalPRange: "25-50", OptimalKRange: "30-60"},
		{Name: "Potato", OptimalPHRange: "5.5-6.5", OptimalNRange: "60-100", OptimalPRange: "30-60", OptimalKRange: "40-80"},
		{Name: "Maize", OptimalPHRange: "5.5-7.0", OptimalNRange: "60-80", OptimalPRange: "30-50", OptimalKRange: "30-40"},
	}

	if err := s.db.Create(&crops).Error; err != nil {
		return nil, err
	}
	return crops, nil
}

func (s *SeedRepository) createUsers() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []model.User{
		{Name: "Demo Farmer", Email: "farmer@agriadvisor.dev", Password: string(hash), Role: "farmer", Region: "Maharashtra"},
		{Name: "Demo Admin", Email: "admin@agriadvisor.dev", Password: string(hash), Role: "admin", Region: "Delhi"},
		{Name: "Demo Trader", Email: "trader@agriadvisor.dev", Password: string(hash), Role: "trader", Region: "Maharashtra"},
	}
	return s.db.Create(&users).Error
}

func (s *SeedRepository) createPreservationActions() error {
	actions := []model.PreservationAction{
		{ActionName: "Temperature Control", Description: "Maintain storage temperature between 4-10°C to slow bacterial growth", CostScore: 3, EffectivenessScore: 5},
		{ActionName: "Humidity Management", Description: "Keep humidity at 40-60% to prevent mold and fungal growth", CostScore: 2, EffectivenessScore: 4},
		{ActionName: "Ventilation", Description: "Ensure proper air circulation to reduce moisture buildup", CostScore: 2, EffectivenessScore: 4},
		{ActionName: "Modified Atmosphere Packaging", Description: "Use sealed bags with controlled O2/CO2 levels", CostScore: 4, EffectivenessScore: 5},
		{ActionName: "Pre-cooling", Description: "Rapidly cool produce after harvest to remove field heat", CostScore: 4, EffectivenessScore: 5},
		{ActionName: "Ethylene Absorbers", Description: "Use potassium permanganate sachets to absorb ethylene gas", CostScore: 3, EffectivenessScore: 4},
		{ActionName: "UV Treatment", Description: "Brief UV exposure to kill surface pathogens", CostScore: 3, EffectivenessScore: 3},
		{ActionName: "Organic Coatings", Description: "Apply edible wax coatings to reduce water loss", CostScore: 2, EffectivenessScore: 3},
	}
	return s.db.Create(&actions).Error
}

// createMandiPrices generates 30 days of history per crop across a handful
// of mandis with bounded random walk around a base price.
func (s *SeedRepository) createMandiPrices(crops []model.Crop) (int, error) {
	mandis := []struct {
		name     string
		state    string
		district string
		distance float64
	}{
		{"Vashi APMC", "Maharashtra", "Thane", 25},
		{"Azadpur Mandi", "Delhi", "Delhi", 50},
		{"Lasalgaon Mandi", "Maharashtra", "Nashik", 30},
		{"Indore Mandi", "Madhya Pradesh", "Indore", 85},
		{"Karnal APMC", "Haryana", "Karnal", 110},
	}

	basePrices := map[string]float64{
		"Wheat": 2750, "Rice": 3100, "Cotton": 6200, "Sugarcane": 3500,
		"Onion": 1650, "Tomato": 2200, "Potato": 1400, "Maize": 2100,
	}

	start := time.Now().AddDate(0, 0, -30)
	batch := make([]model.MarketPrice, 0, 100)
	total := 0

	for day := 0; day < 30; day++ {
		date := start.AddDate(0, 0, day)
		for _, crop := range crops {
			base := basePrices[crop.Name]
			if base == 0 {
				base = 3000
			}
			// One or two quotes per crop per day.
			quotes := 1 + s.rng.Intn(2)
			for q := 0; q < quotes; q++ {
				m := mandis[s.rng.Intn(len(mandis))]
				distance := m.distance
				price := base + float64(s.rng.Intn(601)-300)
				batch = append(batch, model.MarketPrice{
					MandiName:     m.name,
					CropID:        crop.ID,
					CropName:      crop.Name,
					Price:         price,
					ArrivalVolume: float64(100 + s.rng.Intn(400)),
					PriceDate:     date,
					State:         m.state,
					District:      m.district,
					DistanceKm:    &distance,
				})
				total++

				if len(batch) >= 100 {
					if err := s.db.Create(&batch).Error; err != nil {
						return 0, err
					}
					batch = batch[:0]
				}
			}
		}
	}

	if len(batch) > 0 {
		if err := s.db.Create(&batch).Error; err != nil {
			return 0, err
		}
	}
	return total, nil
}
