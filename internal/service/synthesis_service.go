package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/Sifaka/internal/model"
	"github.com/lshigami/Sifaka/internal/scoring"
	"github.com/rs/zerolog/log"
)

// SynthesisService assembles the analysis request, invokes the
// boundary, and builds the final QuizResult. It never persists;
// ownership of the result is the OwnershipService's concern.
type SynthesisService interface {
	Synthesize(ctx context.Context, def *model.QuizDefinition, answers []int, scores *scoring.ScoreVector, subject string) (*model.QuizResult, error)
}

type synthesisService struct {
	analysis AnalysisService
	timeout  time.Duration
}

func NewSynthesisService(analysis AnalysisService, timeout time.Duration) SynthesisService {
	return &synthesisService{analysis: analysis, timeout: timeout}
}

func (s *synthesisService) Synthesize(ctx context.Context, def *model.QuizDefinition, answers []int, scores *scoring.ScoreVector, subject string) (*model.QuizResult, error) {
	completedAt := time.Now()

	// Settings are copied out of the definition here and frozen into the
	// report. Later edits to the definition must not touch this result.
	settings := def.Settings

	answered := make([]model.AnsweredQuestion, len(def.Questions))
	for i, q := range def.Questions {
		answered[i] = model.AnsweredQuestion{
			Text:   q.Text,
			Answer: answers[i],
			Weight: q.Weight,
		}
	}

	req := &AnalysisRequest{
		QuizTitle:  def.Title,
		Audience:   def.Audience,
		Subject:    subject,
		Scores:     scores.Categories,
		Answers:    answered,
		FocusFlags: scores.FocusFlags,
		Settings:   settings,
	}

	boundaryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.analysis.GenerateAnalysis(boundaryCtx, req)
	if err != nil {
		// No automatic retry: the boundary call is expensive and not
		// idempotent from our point of view. The typed cause tells the
		// caller whether offering a retry is safe.
		log.Error().Err(err).Str("quiz", def.Slug).Msg("Analysis boundary call failed")
		return nil, err
	}

	return &model.QuizResult{
		QuizDefinitionID: def.ID,
		Title:            def.Title,
		Subject:          subject,
		CompletedAt:      completedAt,
		ScoreSummary:     scoreSummary(scores),
		ReportData: model.ReportData{
			Summary:  resp.Summary,
			Answers:  answered,
			Analysis: resp.Analysis,
			Scores:   scores.Categories,
			Settings: settings,
		},
	}, nil
}

func scoreSummary(scores *scoring.ScoreVector) string {
	return fmt.Sprintf("Avg. score: %.1f/4", scoring.OverallMean(scores))
}
