package model

import (
	"time"

	"gorm.io/gorm"
)

// Audience values a definition can target.
const (
	AudienceTeen1214          = "teen-12-14"
	AudienceTeen1518          = "teen-15-18"
	AudienceAdult             = "adult"
	AudienceParentOfChild1214 = "parent-about-child-12-14"
	AudienceParentOfChild1518 = "parent-about-child-15-18"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// PresentationSettings steer how a synthesized report is rendered.
// A copy of these is frozen into every issued QuizResult.
type PresentationSettings struct {
	DetailLevel     string `json:"detail_level"`
	ShowChart       bool   `json:"show_chart"`
	ShowParentalCTA bool   `json:"show_parental_cta"`
}

type QuizDefinition struct {
	ID        uint                 `gorm:"primarykey" json:"id"`
	Slug      string               `json:"slug" gorm:"not null;uniqueIndex"`
	Title     string               `json:"title" gorm:"not null"`
	Audience  string               `json:"audience" gorm:"not null"`
	Category  string               `json:"category" gorm:"not null;index"`
	Status    string               `json:"status" gorm:"not null;default:'draft'"`
	FocusTags []string             `json:"focus_tags,omitempty" gorm:"serializer:json"`
	Settings  PresentationSettings `json:"settings" gorm:"embedded;embeddedPrefix:settings_"`

	Questions      []Question      `json:"questions,omitempty" gorm:"foreignKey:QuizDefinitionID"`
	SubtestConfigs []SubtestConfig `json:"subtest_configs,omitempty" gorm:"foreignKey:QuizDefinitionID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
