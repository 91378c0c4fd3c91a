package repository

import (
	"errors"
	"time"

	"github.com/lshigami/Sifaka/internal/model"
	"gorm.io/gorm"
)

type PendingClaimRepository interface {
	Create(claim *model.PendingClaim) error
	FindByToken(token string) (*model.PendingClaim, error)
	// FindOpenBySession lists the session's unconsumed claims.
	FindOpenBySession(sessionID string) ([]model.PendingClaim, error)
	// Consume flips the claim to consumed if and only if it has not been
	// consumed yet. Returns false when another request won the race.
	Consume(id uint, at time.Time) (bool, error)
}

type pendingClaimRepository struct {
	db *gorm.DB
}

func NewPendingClaimRepository(db *gorm.DB) PendingClaimRepository {
	return &pendingClaimRepository{db: db}
}

func (r *pendingClaimRepository) Create(claim *model.PendingClaim) error {
	return r.db.Create(claim).Error
}

func (r *pendingClaimRepository) FindByToken(token string) (*model.PendingClaim, error) {
	var claim model.PendingClaim
	err := r.db.Where("claim_token = ?", token).First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *pendingClaimRepository) FindOpenBySession(sessionID string) ([]model.PendingClaim, error) {
	var claims []model.PendingClaim
	err := r.db.
		Where("session_id = ? AND consumed_at IS NULL", sessionID).
		Find(&claims).Error
	return claims, err
}

func (r *pendingClaimRepository) Consume(id uint, at time.Time) (bool, error) {
	// Conditional update doubles as the compare-and-swap: two concurrent
	// claims for the same token serialize here, and exactly one sees
	// RowsAffected == 1.
	res := r.db.Model(&model.PendingClaim{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
