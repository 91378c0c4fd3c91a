package model

import (
	"time"

	"gorm.io/gorm"
)

// ComparativeSections is the AI-generated body of a perception-gap
// report. Every item is attributed to the perspective it came from.
type ComparativeSections struct {
	PerceptionGaps  []string `json:"perception_gaps"`
	SharedStrengths []string `json:"shared_strengths"`
	BlindSpots      []string `json:"blind_spots"`
	ActionPlan      string   `json:"action_plan"`
}

// ComparativeAnalysis contrasts a parent-authored and a child-authored
// QuizResult about the same subject. Regenerated, never mutated, when a
// source result is replaced.
type ComparativeAnalysis struct {
	ID             uint                `gorm:"primarykey" json:"id"`
	ParentResultID uint                `json:"parent_result_id" gorm:"not null;index"`
	ChildResultID  uint                `json:"child_result_id" gorm:"not null;index"`
	Subject        string              `json:"subject" gorm:"not null"`
	Sections       ComparativeSections `json:"sections" gorm:"serializer:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
