package service

import "errors"

// Claim errors. All terminal for that claim attempt; none of them ever
// falls back to creating a duplicate result.
var (
	ErrClaimNotFound    = errors.New("claim not found")
	ErrClaimExpired     = errors.New("claim has expired")
	ErrClaimAlreadyUsed = errors.New("claim was already used")
	ErrNothingToClaim   = errors.New("nothing to claim for this session")
)

// ErrSubjectMismatch means the two results handed to Merge do not talk
// about the same subject.
var ErrSubjectMismatch = errors.New("results reference different subjects")
