package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Sifaka/internal/dto"
	"github.com/lshigami/Sifaka/internal/repository"
	"github.com/lshigami/Sifaka/internal/scoring"
	"github.com/rs/zerolog/log"
)

// ErrQuizNotFound is returned when a submission names an unknown or
// unpublished quiz.
var ErrQuizNotFound = errors.New("quiz not found")

// SubmissionService runs the full per-request pipeline: definition
// lookup, scoring, subtest dispatch, report synthesis, ownership.
// Quizzes in one session are always scored sequentially, never in
// parallel.
type SubmissionService interface {
	Submit(ctx context.Context, quizSlug string, req dto.QuizSubmitDTO) (*dto.SubmissionOutcomeDTO, error)
}

// sessionTracker keeps the per-session quiz flow state machines.
// Single writer per session is assumed; the map itself is guarded.
type sessionTracker struct {
	mu       sync.Mutex
	sessions map[string]*scoring.Session
}

func newSessionTracker() *sessionTracker {
	return &sessionTracker{sessions: make(map[string]*scoring.Session)}
}

func (t *sessionTracker) get(sessionID string) *scoring.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, ok := t.sessions[sessionID]
	if !ok {
		sess = scoring.NewSession()
		t.sessions[sessionID] = sess
	}
	return sess
}

func (t *sessionTracker) drop(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, sessionID)
}

type submissionService struct {
	catalog    CatalogService
	synthesis  SynthesisService
	ownership  OwnershipService
	resultRepo repository.QuizResultRepository
	tracker    *sessionTracker
}

func NewSubmissionService(
	catalog CatalogService,
	synthesis SynthesisService,
	ownership OwnershipService,
	resultRepo repository.QuizResultRepository,
) SubmissionService {
	return &submissionService{
		catalog:    catalog,
		synthesis:  synthesis,
		ownership:  ownership,
		resultRepo: resultRepo,
		tracker:    newSessionTracker(),
	}
}

func (s *submissionService) Submit(ctx context.Context, quizSlug string, req dto.QuizSubmitDTO) (*dto.SubmissionOutcomeDTO, error) {
	def, err := s.catalog.GetBySlug(quizSlug)
	if err != nil {
		return nil, fmt.Errorf("error fetching quiz %q: %w", quizSlug, err)
	}
	if def == nil {
		return nil, ErrQuizNotFound
	}

	sess := s.tracker.get(req.SessionID)
	if err := sess.Begin(def.Slug); err != nil {
		return nil, err
	}

	scores, err := scoring.Score(def, req.Answers)
	if err != nil {
		// Rejected answer sets are corrected and resubmitted; the session
		// must not be left stuck.
		sess.Abort()
		return nil, err
	}
	if err := sess.MarkScored(); err != nil {
		return nil, err
	}

	refs := scoring.NextSubtests(def, scores)
	if len(refs) > 0 {
		// The cycle guard runs before any subtest is offered and before
		// the expensive synthesis call; a dispatch into an already
		// completed quiz fails the whole submission.
		if err := sess.ValidateDispatch(refs); err != nil {
			log.Error().Err(err).Str("quiz", def.Slug).Msg("Subtest dispatch rejected")
			return nil, err
		}
	}
	if err := sess.BeginSynthesis(); err != nil {
		return nil, err
	}

	result, err := s.synthesis.Synthesize(ctx, def, req.Answers, scores, req.Subject)
	if err != nil {
		// Boundary failures are retryable: rewind the session so the same
		// quiz can be submitted again.
		sess.Abort()
		return nil, err
	}

	// Only now does the quiz count as completed for cycle-guard purposes.
	if len(refs) > 0 {
		if err := sess.Dispatch(refs); err != nil {
			return nil, err
		}
	} else {
		if err := sess.Complete(); err != nil {
			return nil, err
		}
		s.tracker.drop(req.SessionID)
	}

	outcome := &dto.SubmissionOutcomeDTO{
		NextSubtests: make([]dto.SubtestRefDTO, len(refs)),
	}
	for i, ref := range refs {
		outcome.NextSubtests[i] = dto.SubtestRefDTO(ref)
	}

	if req.UserID != nil {
		// Signed-in submitter: the result is user-owned from the start.
		result.UserID = req.UserID
		if err := s.resultRepo.Create(result); err != nil {
			log.Error().Err(err).Str("quiz", def.Slug).Msg("Failed to persist result for signed-in user")
			return nil, fmt.Errorf("failed to persist result: %w", err)
		}
	} else {
		s.ownership.HoldForSession(req.SessionID, result)
		if req.Email != "" {
			claim, err := s.ownership.CreatePendingClaim(req.Email, req.SessionID, result)
			if err != nil {
				return nil, err
			}
			outcome.ClaimToken = claim.ClaimToken
		}
	}

	if err := copier.Copy(&outcome.Result, result); err != nil {
		log.Error().Err(err).Msg("Error copying result to DTO")
		return nil, fmt.Errorf("error preparing submission response: %w", err)
	}
	return outcome, nil
}
