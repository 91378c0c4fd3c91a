package model

import (
	"time"
)

// PendingClaim bridges an anonymously completed result to an account
// created later, possibly from another device. The token is single-use;
// consumed claims are kept (ConsumedAt set) for audit until retention
// cleanup removes them. SessionID links the claim to the session hold
// carrying the same result, so claiming through one path invalidates
// the other.
type PendingClaim struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Email      string     `json:"email" gorm:"not null;index"`
	SessionID  string     `json:"session_id,omitempty" gorm:"index"`
	ClaimToken string     `json:"claim_token" gorm:"not null;uniqueIndex"`
	Payload    QuizResult `json:"payload" gorm:"serializer:json"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}
