package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform account (farmer, trader, or admin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name     string `gorm:"not null;size:255" json:"name"`
	Email    string `gorm:"not null;uniqueIndex;size:255" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"size:32;default:farmer" json:"role"`
	Region   string `gorm:"size:255" json:"region"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Crop is immutable reference data: a crop and its optimal soil chemistry.
// Each range is free text containing two numbers, e.g. "6.0-7.5".
type Crop struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name           string `gorm:"not null;uniqueIndex;size:255" json:"name"`
	OptimalPHRange string `gorm:"size:64;column:optimal_ph_range" json:"optimal_ph_range"`
	OptimalNRange  string `gorm:"size:64;column:optimal_n_range" json:"optimal_n_range"`
	OptimalPRange  string `gorm:"size:64;column:optimal_p_range" json:"optimal_p_range"`
	OptimalKRange  string `gorm:"size:64;column:optimal_k_range" json:"optimal_k_range"`
}

// TableName specifies the table name for Crop
func (Crop) TableName() string {
	return "crops"
}

// MarketPrice is a mandi price observation, either persisted history or an
// ephemeral live fetch (ID zero, never saved).
type MarketPrice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	MandiName     string    `gorm:"not null;index;size:255" json:"mandi_name"`
	CropID        uint      `gorm:"index" json:"crop_id"`
	CropName      string    `gorm:"size:255" json:"crop_name"`
	Price         float64   `gorm:"type:decimal(10,2);not null" json:"price"` // currency per quintal
	ArrivalVolume float64   `gorm:"type:decimal(10,2)" json:"arrival_volume"`
	PriceDate     time.Time `gorm:"not null;index" json:"price_date"`
	State         string    `gorm:"size:255" json:"state"`
	District      string    `gorm:"size:255" json:"district"`
	DistanceKm    *float64  `gorm:"type:decimal(10,2)" json:"distance_km,omitempty"` // advisory, estimated when absent
}

// TableName specifies the table name for MarketPrice
func (MarketPrice) TableName() string {
	return "mandi_prices"
}

// WeatherData is one daily observation for a region. Seven of these, ordered
// by date, form the forecast window the spoilage model consumes.
type WeatherData struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Region       string    `gorm:"not null;index;size:255" json:"region"`
	ForecastDate time.Time `gorm:"not null;index" json:"forecast_date"`
	Temperature  float64   `gorm:"type:decimal(5,2)" json:"temperature"`
	Rainfall     float64   `gorm:"type:decimal(6,2)" json:"rainfall"`
	Humidity     float64   `gorm:"type:decimal(5,2)" json:"humidity"`
}

// TableName specifies the table name for WeatherData
func (WeatherData) TableName() string {
	return "weather_data"
}

// PreservationAction is a post-harvest handling measure, ranked for display
// by effectiveness/cost ratio.
type PreservationAction struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ActionName         string `gorm:"not null;size:255" json:"action_name"`
	Description        string `gorm:"type:text" json:"description"`
	CostScore          int    `gorm:"not null" json:"cost_score"`
	EffectivenessScore int    `gorm:"not null" json:"effectiveness_score"`
}

// TableName specifies the table name for PreservationAction
func (PreservationAction) TableName() string {
	return "preservation_actions"
}

// Recommendation is the persisted output of one orchestration run. Written
// exactly once, immutable thereafter, owned by the requesting user.
type Recommendation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID          uint    `gorm:"not null;index" json:"user_id"`
	CropID          uint    `gorm:"not null;index" json:"crop_id"`
	SuggestedMandi  string  `gorm:"not null;size:255" json:"suggested_mandi"`
	HarvestWindow   string  `gorm:"size:64" json:"harvest_window"`
	SpoilageRisk    float64 `gorm:"type:decimal(4,2);not null" json:"spoilage_risk"` // always within [0,1]
	PredictedProfit float64 `gorm:"type:decimal(12,2)" json:"predicted_profit"`
	PredictedPrice  float64 `gorm:"type:decimal(10,2)" json:"predicted_price"`
	ExplanationText string  `gorm:"type:text" json:"explanation_text"`
	SoilScore       *int    `json:"soil_score,omitempty"` // integer percent, nil when unassessed

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Crop Crop `gorm:"foreignKey:CropID" json:"crop,omitempty"`
}

// TableName specifies the table name for Recommendation
func (Recommendation) TableName() string {
	return "recommendations"
}
