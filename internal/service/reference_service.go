package service

import (
	"errors"
	"fmt"

	"agri-advisor/internal/model"
	"agri-advisor/internal/repository"

	"gorm.io/gorm"
)

// ReferenceService manages the reference tables: crops and preservation
// actions.
type ReferenceService interface {
	ListCrops() ([]model.Crop, error)
	CropByID(id uint) (*model.Crop, error)
	CreateCrop(crop *model.Crop) error
	UpdateCrop(id uint, crop *model.Crop) error
	DeleteCrop(id uint) error

	ListPreservationActions() ([]model.PreservationAction, error)
	CreatePreservationAction(action *model.PreservationAction) error
}

// referenceService implements ReferenceService
type referenceService struct {
	refRepo repository.ReferenceRepository
}

// NewReferenceService creates a new reference service
func NewReferenceService(refRepo repository.ReferenceRepository) ReferenceService {
	return &referenceService{refRepo: refRepo}
}

func (s *referenceService) ListCrops() ([]model.Crop, error) {
	return s.refRepo.ListCrops()
}

func (s *referenceService) CropByID(id uint) (*model.Crop, error) {
	crop, err := s.refRepo.CropByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: crop %d", ErrNotFound, id)
		}
		return nil, err
	}
	return crop, nil
}

func (s *referenceService) CreateCrop(crop *model.Crop) error {
	if crop.Name == "" {
		return fmt.Errorf("%w: crop name is required", ErrValidation)
	}
	return s.refRepo.CreateCrop(crop)
}

func (s *referenceService) UpdateCrop(id uint, crop *model.Crop) error {
	existing, err := s.CropByID(id)
	if err != nil {
		return err
	}

	existing.Name = crop.Name
	existing.OptimalPHRange = crop.OptimalPHRange
	existing.OptimalNRange = crop.OptimalNRange
	existing.OptimalPRange = crop.OptimalPRange
	existing.OptimalKRange = crop.OptimalKRange
	if err := s.refRepo.UpdateCrop(existing); err != nil {
		return err
	}
	*crop = *existing
	return nil
}

func (s *referenceService) DeleteCrop(id uint) error {
	if _, err := s.CropByID(id); err != nil {
		return err
	}
	return s.refRepo.DeleteCrop(id)
}

// ListPreservationActions returns all actions ranked by effectiveness/cost
// ratio, best value first.
func (s *referenceService) ListPreservationActions() ([]model.PreservationAction, error) {
	return s.refRepo.RankedPreservationActions()
}

func (s *referenceService) CreatePreservationAction(action *model.PreservationAction) error {
	if action.ActionName == "" {
		return fmt.Errorf("%w: action name is required", ErrValidation)
	}
	if action.CostScore < 1 || action.EffectivenessScore < 1 {
		return fmt.Errorf("%w: cost and effectiveness scores must be positive", ErrValidation)
	}
	return s.refRepo.CreatePreservationAction(action)
}
