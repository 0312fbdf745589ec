package repository

import (
	"agri-advisor/internal/model"

	"gorm.io/gorm"
)

// RecommendationRepository is the append-only persistence sink for
// recommendations; rows are never updated after creation.
type RecommendationRepository interface {
	Create(rec *model.Recommendation) error
	ListForUser(userID uint) ([]model.Recommendation, error)
	ListAll() ([]model.Recommendation, error)
}

// recommendationRepository implements RecommendationRepository
type recommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) Create(rec *model.Recommendation) error {
	return r.db.Create(rec).Error
}

func (r *recommendationRepository) ListForUser(userID uint) ([]model.Recommendation, error) {
	var recs []model.Recommendation
	err := r.db.
		Preload("Crop").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&recs).Error
	return recs, err
}

func (r *recommendationRepository) ListAll() ([]model.Recommendation, error) {
	var recs []model.Recommendation
	err := r.db.
		Preload("Crop").
		Preload("User").
		Order("id DESC").
		Find(&recs).Error
	return recs, err
}
