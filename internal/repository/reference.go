package repository

import (
	"agri-advisor/internal/model"

	"gorm.io/gorm"
)

// ReferenceRepository serves the read-mostly reference tables: crops, users,
// and preservation actions.
type ReferenceRepository interface {
	CropByID(id uint) (*model.Crop, error)
	ListCrops() ([]model.Crop, error)
	CreateCrop(crop *model.Crop) error
	UpdateCrop(crop *model.Crop) error
	DeleteCrop(id uint) error

	UserByID(id uint) (*model.User, error)
	UserByEmail(email string) (*model.User, error)
	CreateUser(user *model.User) error

	RankedPreservationActions() ([]model.PreservationAction, error)
	CreatePreservationAction(action *model.PreservationAction) error
}

// referenceRepository implements ReferenceRepository
type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) CropByID(id uint) (*model.Crop, error) {
	var crop model.Crop
	if err := r.db.First(&crop, id).Error; err != nil {
		return nil, err
	}
	return &crop, nil
}

func (r *referenceRepository) ListCrops() ([]model.Crop, error) {
	var crops []model.Crop
	err := r.db.Order("name ASC").Find(&crops).Error
	return crops, err
}

func (r *referenceRepository) CreateCrop(crop *model.Crop) error {
	return r.db.Create(crop).Error
}

func (r *referenceRepository) UpdateCrop(crop *model.Crop) error {
	return r.db.Save(crop).Error
}

func (r *referenceRepository) DeleteCrop(id uint) error {
	return r.db.Delete(&model.Crop{}, id).Error
}

func (r *referenceRepository) UserByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *referenceRepository) UserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *referenceRepository) CreateUser(user *model.User) error {
	return r.db.Create(user).Error
}

// RankedPreservationActions orders actions by effectiveness/cost ratio
// descending, effectiveness as the tie-break.
func (r *referenceRepository) RankedPreservationActions() ([]model.PreservationAction, error) {
	var actions []model.PreservationAction
	err := r.db.Raw(`
		SELECT *,
		       (effectiveness_score::float / NULLIF(cost_score, 0)) AS value_score
		FROM preservation_actions
		WHERE deleted_at IS NULL
		ORDER BY value_score DESC, effectiveness_score DESC`).
		Scan(&actions).Error
	return actions, err
}

func (r *referenceRepository) CreatePreservationAction(action *model.PreservationAction) error {
	return r.db.Create(action).Error
}
