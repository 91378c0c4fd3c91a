package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Sifaka/internal/model"
	"github.com/lshigami/Sifaka/internal/repository"
	"github.com/rs/zerolog/log"
)

// Identity is the account a held or pending result gets attached to.
type Identity struct {
	UserID uint
	Email  string
}

// SessionHoldStore keeps at most one unclaimed result per session. The
// storage medium is injectable; the default is in-memory.
type SessionHoldStore interface {
	Put(sessionID string, result *model.QuizResult)
	Get(sessionID string) (*model.QuizResult, bool)
	Delete(sessionID string)
}

type memorySessionHoldStore struct {
	mu   sync.Mutex
	held map[string]*model.QuizResult
}

func NewMemorySessionHoldStore() SessionHoldStore {
	return &memorySessionHoldStore{held: make(map[string]*model.QuizResult)}
}

func (s *memorySessionHoldStore) Put(sessionID string, result *model.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[sessionID] = result
}

func (s *memorySessionHoldStore) Get(sessionID string) (*model.QuizResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.held[sessionID]
	return result, ok
}

func (s *memorySessionHoldStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, sessionID)
}

// OwnershipService moves results between "session-held, unowned" and
// "persisted, user-owned". A result is never in both states at once.
type OwnershipService interface {
	// HoldForSession stores the result keyed to the session only,
	// overwriting any prior held result for that session.
	HoldForSession(sessionID string, result *model.QuizResult)
	// ClaimSession re-keys the session's held result to the user and
	// persists it. Consumed exactly once per hold.
	ClaimSession(sessionID string, identity Identity) (*model.QuizResult, error)
	// CreatePendingClaim parks a result behind an emailed single-use
	// token, for users who sign up later from another device. The claim
	// stays linked to the session whose hold carries the same result.
	CreatePendingClaim(email, sessionID string, result *model.QuizResult) (*model.PendingClaim, error)
	// ClaimByToken resolves a pending claim into a user-owned result.
	ClaimByToken(token string, identity Identity) (*model.QuizResult, error)
	// GetResult reads a persisted result by id; (nil, nil) when unknown.
	GetResult(id uint) (*model.QuizResult, error)
}

type ownershipService struct {
	holds      SessionHoldStore
	resultRepo repository.QuizResultRepository
	claimRepo  repository.PendingClaimRepository
	claimTTL   time.Duration
	now        func() time.Time
}

func NewOwnershipService(
	holds SessionHoldStore,
	resultRepo repository.QuizResultRepository,
	claimRepo repository.PendingClaimRepository,
	claimTTL time.Duration,
) OwnershipService {
	return &ownershipService{
		holds:      holds,
		resultRepo: resultRepo,
		claimRepo:  claimRepo,
		claimTTL:   claimTTL,
		now:        time.Now,
	}
}

func (s *ownershipService) HoldForSession(sessionID string, result *model.QuizResult) {
	s.holds.Put(sessionID, result)
	log.Info().Str("sessionID", sessionID).Str("quiz", result.Title).Msg("Result held for anonymous session")
}

func (s *ownershipService) ClaimSession(sessionID string, identity Identity) (*model.QuizResult, error) {
	held, ok := s.holds.Get(sessionID)
	if !ok {
		return nil, ErrNothingToClaim
	}

	result := *held
	userID := identity.UserID
	result.UserID = &userID

	// Persist first, clear the hold after. If the write fails the hold
	// stays untouched and the claim can be retried.
	if err := s.resultRepo.Create(&result); err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to persist claimed session result")
		return nil, fmt.Errorf("failed to persist claimed result: %w", err)
	}
	s.holds.Delete(sessionID)
	s.releaseClaimsFor(sessionID, held)

	log.Info().Str("sessionID", sessionID).Uint("userID", identity.UserID).Uint("resultID", result.ID).Msg("Session result claimed")
	return &result, nil
}

// releaseClaimsFor consumes any open emailed claim carrying the result
// that was just claimed through the session path, so its token cannot
// mint a second durable copy.
func (s *ownershipService) releaseClaimsFor(sessionID string, result *model.QuizResult) {
	claims, err := s.claimRepo.FindOpenBySession(sessionID)
	if err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to look up pending claims for claimed session")
		return
	}
	for _, claim := range claims {
		if !sameResult(&claim.Payload, result) {
			continue
		}
		if _, err := s.claimRepo.Consume(claim.ID, s.now()); err != nil {
			log.Error().Err(err).Uint("claimID", claim.ID).Msg("Failed to consume pending claim after session claim")
		}
	}
}

// sameResult matches an unpersisted result against a claim payload.
// Neither side has a database id yet, so identity is the definition
// plus the completion instant.
func sameResult(a, b *model.QuizResult) bool {
	return a.QuizDefinitionID == b.QuizDefinitionID && a.CompletedAt.Equal(b.CompletedAt)
}

func (s *ownershipService) CreatePendingClaim(email, sessionID string, result *model.QuizResult) (*model.PendingClaim, error) {
	now := s.now()
	claim := &model.PendingClaim{
		Email:      email,
		SessionID:  sessionID,
		ClaimToken: uuid.NewString(),
		Payload:    *result,
		ExpiresAt:  now.Add(s.claimTTL),
	}
	if err := s.claimRepo.Create(claim); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to create pending claim")
		return nil, fmt.Errorf("failed to create pending claim: %w", err)
	}
	return claim, nil
}

func (s *ownershipService) ClaimByToken(token string, identity Identity) (*model.QuizResult, error) {
	claim, err := s.claimRepo.FindByToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up claim: %w", err)
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}
	if claim.ConsumedAt != nil {
		return nil, ErrClaimAlreadyUsed
	}
	if s.now().After(claim.ExpiresAt) {
		return nil, ErrClaimExpired
	}

	// Compare-and-swap on the consumed flag. Of two concurrent claims
	// exactly one wins; the loser sees the claim as already used rather
	// than duplicating the result.
	won, err := s.claimRepo.Consume(claim.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to consume claim: %w", err)
	}
	if !won {
		return nil, ErrClaimAlreadyUsed
	}

	result := claim.Payload
	userID := identity.UserID
	result.UserID = &userID
	result.ID = 0 // persisted fresh under the claiming user

	if err := s.resultRepo.Create(&result); err != nil {
		log.Error().Err(err).Str("token", token).Msg("Failed to persist result from pending claim")
		return nil, fmt.Errorf("failed to persist claimed result: %w", err)
	}

	// The session hold carrying this same result is now redundant; drop
	// it so a later session claim cannot persist a duplicate. A newer
	// held result for the session is left alone.
	if claim.SessionID != "" {
		if held, ok := s.holds.Get(claim.SessionID); ok && sameResult(held, &claim.Payload) {
			s.holds.Delete(claim.SessionID)
		}
	}

	log.Info().Uint("userID", identity.UserID).Uint("resultID", result.ID).Msg("Pending claim resolved")
	return &result, nil
}

func (s *ownershipService) GetResult(id uint) (*model.QuizResult, error) {
	return s.resultRepo.FindByID(id)
}
