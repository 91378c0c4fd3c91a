package model

import (
	"time"

	"gorm.io/gorm"
)

// Question belongs to a QuizDefinition. Weight shapes the qualitative
// emphasis in the analysis request, never the numeric category mean.
type Question struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	QuizDefinitionID uint    `json:"quiz_definition_id" gorm:"not null;index"`
	Text             string  `json:"text" gorm:"type:text;not null"`
	Weight           float64 `json:"weight" gorm:"not null;default:1"`
	Example          *string `json:"example,omitempty" gorm:"type:text"`
	ThemeKey         *string `json:"theme_key,omitempty"`
	OrderInQuiz      int     `json:"order_in_quiz" gorm:"not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
