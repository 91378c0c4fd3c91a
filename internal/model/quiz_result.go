package model

import (
	"time"

	"gorm.io/gorm"
)

// AnsweredQuestion is one question/answer pair as recorded at
// completion time.
type AnsweredQuestion struct {
	Text   string  `json:"text"`
	Answer int     `json:"answer"`
	Weight float64 `json:"weight"`
}

// ReportData is the frozen body of an issued report. Settings is a
// snapshot taken at completion; later edits to the QuizDefinition never
// reach it.
type ReportData struct {
	Summary  string               `json:"summary"`
	Answers  []AnsweredQuestion   `json:"answers"`
	Analysis string               `json:"analysis"`
	Scores   map[string]float64   `json:"scores"`
	Settings PresentationSettings `json:"settings"`
}

// QuizResult is the durable record of a completed quiz. UserID stays
// nil until the result is claimed.
type QuizResult struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	UserID           *uint      `json:"user_id,omitempty" gorm:"index"`
	QuizDefinitionID uint       `json:"quiz_definition_id" gorm:"not null;index"`
	Title            string     `json:"title" gorm:"not null"`
	Subject          string     `json:"subject,omitempty"`
	CompletedAt      time.Time  `json:"completed_at" gorm:"not null"`
	ScoreSummary     string     `json:"score_summary"`
	ReportData       ReportData `json:"report_data" gorm:"serializer:json"`
	IsShared         bool       `json:"is_shared" gorm:"not null;default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
