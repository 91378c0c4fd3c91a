package dto

import (
	"time"

	"github.com/lshigami/Sifaka/internal/model"
)

// QuizSubmitDTO is a full answer set for one quiz. Answers align 1:1
// with the quiz's ordered questions; 0 means unanswered and fails the
// completeness gate.
type QuizSubmitDTO struct {
	SessionID string `json:"session_id" binding:"required"`
	Subject   string `json:"subject"`
	Answers   []int  `json:"answers" binding:"required"`
	// UserID is set when the submitter is already signed in; the result
	// is then persisted directly instead of held for the session.
	UserID *uint `json:"user_id"`
	// Email, when present for an anonymous submitter, additionally
	// creates an emailed pending claim.
	Email string `json:"email"`
}

// SubtestRefDTO names a follow-up quiz the client should offer next.
type SubtestRefDTO struct {
	Slug        string  `json:"slug"`
	CategoryKey string  `json:"category_key"`
	Threshold   float64 `json:"threshold"`
}

// QuizResultDTO is the durable result as returned to clients.
type QuizResultDTO struct {
	ID           uint             `json:"id"`
	UserID       *uint            `json:"user_id,omitempty"`
	Title        string           `json:"title"`
	Subject      string           `json:"subject,omitempty"`
	CompletedAt  time.Time        `json:"completed_at"`
	ScoreSummary string           `json:"score_summary"`
	ReportData   model.ReportData `json:"report_data"`
	IsShared     bool             `json:"is_shared"`
}

// SubmissionOutcomeDTO is the response to a quiz submission.
type SubmissionOutcomeDTO struct {
	Result       QuizResultDTO   `json:"result"`
	NextSubtests []SubtestRefDTO `json:"next_subtests"`
	// ClaimToken is set only for anonymous submissions that asked for an
	// email claim.
	ClaimToken string `json:"claim_token,omitempty"`
}

// SessionClaimDTO attaches the session's held result to an account.
type SessionClaimDTO struct {
	SessionID string `json:"session_id" binding:"required"`
	UserID    uint   `json:"user_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// TokenClaimDTO resolves an emailed pending claim.
type TokenClaimDTO struct {
	Token  string `json:"token" binding:"required"`
	UserID uint   `json:"user_id" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
}

// MergeRequestDTO asks for a comparative analysis of two results.
type MergeRequestDTO struct {
	ParentResultID uint `json:"parent_result_id" binding:"required"`
	ChildResultID  uint `json:"child_result_id" binding:"required"`
}
