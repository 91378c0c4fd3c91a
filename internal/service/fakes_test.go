package service

import (
	"context"
	"sync"
	"time"

	"github.com/lshigami/Sifaka/internal/model"
)

// fakeAnalysisService records the requests it receives and replies with
// canned payloads or errors.
type fakeAnalysisService struct {
	mu sync.Mutex

	analysisResp *AnalysisResponse
	analysisErr  error
	lastRequest  *AnalysisRequest

	comparativeResp *model.ComparativeSections
	comparativeErr  error
	lastComparative *ComparativeRequest
}

func (f *fakeAnalysisService) GenerateAnalysis(ctx context.Context, req *AnalysisRequest) (*AnalysisResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRequest = req
	if f.analysisErr != nil {
		return nil, f.analysisErr
	}
	return f.analysisResp, nil
}

func (f *fakeAnalysisService) GenerateComparative(ctx context.Context, req *ComparativeRequest) (*model.ComparativeSections, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastComparative = req
	if f.comparativeErr != nil {
		return nil, f.comparativeErr
	}
	return f.comparativeResp, nil
}

// fakeResultRepo is an in-memory QuizResultRepository.
type fakeResultRepo struct {
	mu      sync.Mutex
	nextID  uint
	results map[uint]model.QuizResult
	err     error
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[uint]model.QuizResult)}
}

func (r *fakeResultRepo) Create(result *model.QuizResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	result.ID = r.nextID
	r.results[result.ID] = *result
	return nil
}

func (r *fakeResultRepo) FindByID(id uint) (*model.QuizResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[id]
	if !ok {
		return nil, nil
	}
	return &result, nil
}

func (r *fakeResultRepo) FindAllByUser(userID uint) ([]model.QuizResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.QuizResult
	for _, result := range r.results {
		if result.UserID != nil && *result.UserID == userID {
			out = append(out, result)
		}
	}
	return out, nil
}

// fakeClaimRepo is an in-memory PendingClaimRepository with the same
// compare-and-swap consume semantics as the real one.
type fakeClaimRepo struct {
	mu     sync.Mutex
	nextID uint
	claims map[uint]*model.PendingClaim
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{claims: make(map[uint]*model.PendingClaim)}
}

func (r *fakeClaimRepo) Create(claim *model.PendingClaim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	claim.ID = r.nextID
	stored := *claim
	r.claims[claim.ID] = &stored
	return nil
}

func (r *fakeClaimRepo) FindByToken(token string) (*model.PendingClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, claim := range r.claims {
		if claim.ClaimToken == token {
			copied := *claim
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeClaimRepo) FindOpenBySession(sessionID string) ([]model.PendingClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PendingClaim
	for _, claim := range r.claims {
		if claim.SessionID == sessionID && claim.ConsumedAt == nil {
			out = append(out, *claim)
		}
	}
	return out, nil
}

func (r *fakeClaimRepo) Consume(id uint, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	claim, ok := r.claims[id]
	if !ok || claim.ConsumedAt != nil {
		return false, nil
	}
	claim.ConsumedAt = &at
	return true, nil
}

// fakeComparativeRepo is an in-memory ComparativeAnalysisRepository.
type fakeComparativeRepo struct {
	mu       sync.Mutex
	nextID   uint
	analyses map[uint]model.ComparativeAnalysis
}

func newFakeComparativeRepo() *fakeComparativeRepo {
	return &fakeComparativeRepo{analyses: make(map[uint]model.ComparativeAnalysis)}
}

func (r *fakeComparativeRepo) Create(analysis *model.ComparativeAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	analysis.ID = r.nextID
	r.analyses[analysis.ID] = *analysis
	return nil
}

func (r *fakeComparativeRepo) FindByID(id uint) (*model.ComparativeAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.analyses[id]
	if !ok {
		return nil, nil
	}
	return &analysis, nil
}
