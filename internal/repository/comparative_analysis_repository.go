package repository

import (
	"errors"

	"github.com/lshigami/Sifaka/internal/model"
	"gorm.io/gorm"
)

type ComparativeAnalysisRepository interface {
	Create(analysis *model.ComparativeAnalysis) error
	FindByID(id uint) (*model.ComparativeAnalysis, error)
}

type comparativeAnalysisRepository struct {
	db *gorm.DB
}

func NewComparativeAnalysisRepository(db *gorm.DB) ComparativeAnalysisRepository {
	return &comparativeAnalysisRepository{db: db}
}

func (r *comparativeAnalysisRepository) Create(analysis *model.ComparativeAnalysis) error {
	return r.db.Create(analysis).Error
}

func (r *comparativeAnalysisRepository) FindByID(id uint) (*model.ComparativeAnalysis, error) {
	var analysis model.ComparativeAnalysis
	err := r.db.First(&analysis, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}
