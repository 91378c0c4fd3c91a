package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/Sifaka/internal/model"
	"github.com/lshigami/Sifaka/internal/repository"
	"github.com/rs/zerolog/log"
)

// MergeService combines a parent-authored and a child-authored result
// about the same subject into one perception-gap report. Every call
// regenerates; freshness beats staleness since either source may have
// been re-synthesized.
type MergeService interface {
	Merge(ctx context.Context, parentResult, childResult *model.QuizResult) (*model.ComparativeAnalysis, error)
	GetAnalysis(id uint) (*model.ComparativeAnalysis, error)
}

type mergeService struct {
	analysis     AnalysisService
	analysisRepo repository.ComparativeAnalysisRepository
	timeout      time.Duration
}

func NewMergeService(analysis AnalysisService, analysisRepo repository.ComparativeAnalysisRepository, timeout time.Duration) MergeService {
	return &mergeService{analysis: analysis, analysisRepo: analysisRepo, timeout: timeout}
}

func (s *mergeService) Merge(ctx context.Context, parentResult, childResult *model.QuizResult) (*model.ComparativeAnalysis, error) {
	parentSubject := strings.TrimSpace(parentResult.Subject)
	childSubject := strings.TrimSpace(childResult.Subject)
	if parentSubject == "" || !strings.EqualFold(parentSubject, childSubject) {
		return nil, ErrSubjectMismatch
	}

	req := &ComparativeRequest{
		Subject: parentSubject,
		Parent:  perspectiveFromResult("parent", parentResult),
		Child:   perspectiveFromResult("child", childResult),
	}

	boundaryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sections, err := s.analysis.GenerateComparative(boundaryCtx, req)
	if err != nil {
		log.Error().Err(err).Uint("parentResultID", parentResult.ID).Uint("childResultID", childResult.ID).Msg("Comparative analysis boundary call failed")
		return nil, err
	}

	analysis := &model.ComparativeAnalysis{
		ParentResultID: parentResult.ID,
		ChildResultID:  childResult.ID,
		Subject:        parentSubject,
		Sections:       *sections,
	}
	if err := s.analysisRepo.Create(analysis); err != nil {
		log.Error().Err(err).Msg("Failed to persist comparative analysis")
		return nil, fmt.Errorf("failed to persist comparative analysis: %w", err)
	}
	return analysis, nil
}

func (s *mergeService) GetAnalysis(id uint) (*model.ComparativeAnalysis, error) {
	return s.analysisRepo.FindByID(id)
}

func perspectiveFromResult(label string, result *model.QuizResult) Perspective {
	return Perspective{
		Label:     label,
		QuizTitle: result.Title,
		Scores:    result.ReportData.Scores,
		Answers:   result.ReportData.Answers,
	}
}
