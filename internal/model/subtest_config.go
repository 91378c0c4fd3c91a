package model

import (
	"time"

	"gorm.io/gorm"
)

// SubtestConfig attaches a conditional follow-up quiz to a definition.
// The subtest dispatches when the category score reaches Threshold
// (inclusive). Threshold lives on the 4-point answer scale.
type SubtestConfig struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	QuizDefinitionID uint    `json:"quiz_definition_id" gorm:"not null;index"`
	SubtestSlug      string  `json:"subtest_slug" gorm:"not null"`
	CategoryKey      string  `json:"category_key" gorm:"not null"`
	Threshold        float64 `json:"threshold" gorm:"not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
