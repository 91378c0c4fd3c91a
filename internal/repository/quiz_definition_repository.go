package repository

import (
	"errors"

	"github.com/lshigami/Sifaka/internal/model"
	"gorm.io/gorm"
)

type QuizDefinitionRepository interface {
	Create(def *model.QuizDefinition) error
	Update(def *model.QuizDefinition) error
	// FindByID returns (nil, nil) when the id is unknown so callers can
	// render a not-found state instead of treating it as a failure.
	FindByID(id uint) (*model.QuizDefinition, error)
	FindBySlug(slug string) (*model.QuizDefinition, error)
	FindAllPublished() ([]model.QuizDefinition, error)
}

type quizDefinitionRepository struct {
	db *gorm.DB
}

func NewQuizDefinitionRepository(db *gorm.DB) QuizDefinitionRepository {
	return &quizDefinitionRepository{db: db}
}

func (r *quizDefinitionRepository) Create(def *model.QuizDefinition) error {
	// GORM creates associated questions and subtest configs in one go.
	return r.db.Create(def).Error
}

func (r *quizDefinitionRepository) Update(def *model.QuizDefinition) error {
	return r.db.Save(def).Error
}

func (r *quizDefinitionRepository) FindByID(id uint) (*model.QuizDefinition, error) {
	var def model.QuizDefinition
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_in_quiz ASC")
		}).
		Preload("SubtestConfigs").
		First(&def, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *quizDefinitionRepository) FindBySlug(slug string) (*model.QuizDefinition, error) {
	var def model.QuizDefinition
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_in_quiz ASC")
		}).
		Preload("SubtestConfigs").
		Where("slug = ?", slug).
		First(&def).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *quizDefinitionRepository) FindAllPublished() ([]model.QuizDefinition, error) {
	var defs []model.QuizDefinition
	err := r.db.
		Where("status = ?", model.StatusPublished).
		Order("created_at DESC").
		Find(&defs).Error
	return defs, err
}
