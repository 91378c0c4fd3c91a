package repository

import (
	"errors"

	"github.com/lshigami/Sifaka/internal/model"
	"gorm.io/gorm"
)

type QuizResultRepository interface {
	Create(result *model.QuizResult) error
	FindByID(id uint) (*model.QuizResult, error)
	FindAllByUser(userID uint) ([]model.QuizResult, error)
}

type quizResultRepository struct {
	db *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) QuizResultRepository {
	return &quizResultRepository{db: db}
}

func (r *quizResultRepository) Create(result *model.QuizResult) error {
	return r.db.Create(result).Error
}

func (r *quizResultRepository) FindByID(id uint) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.db.First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *quizResultRepository) FindAllByUser(userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.db.
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}
