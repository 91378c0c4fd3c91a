package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/Sifaka/internal/model"
	"github.com/lshigami/Sifaka/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthesisFixture() (*model.QuizDefinition, []int, *scoring.ScoreVector) {
	def := &model.QuizDefinition{
		ID:       7,
		Slug:     "focus-check",
		Title:    "Focus Check",
		Audience: model.AudienceTeen1518,
		Category: "focus",
		Settings: model.PresentationSettings{
			DetailLevel:     "full",
			ShowChart:       true,
			ShowParentalCTA: true,
		},
		Questions: []model.Question{
			{Text: "I lose track of instructions", Weight: 2, OrderInQuiz: 1},
			{Text: "I start things I do not finish", Weight: 1, OrderInQuiz: 2},
			{Text: "I fidget when I have to sit still", Weight: 1, OrderInQuiz: 3},
		},
	}
	answers := []int{2, 3, 4}
	scores := &scoring.ScoreVector{
		Categories: map[string]float64{"focus": 3.0},
		FocusFlags: []string{"adhd-friendly"},
	}
	return def, answers, scores
}

func TestSynthesize_BuildsFullRequestAndResult(t *testing.T) {
	def, answers, scores := synthesisFixture()
	fake := &fakeAnalysisService{
		analysisResp: &AnalysisResponse{Summary: "Focused enough", Analysis: "Long analysis text"},
	}
	svc := NewSynthesisService(fake, time.Second)

	result, err := svc.Synthesize(context.Background(), def, answers, scores, "Robin")
	require.NoError(t, err)

	// Every question/answer pair reaches the boundary, with its weight.
	require.NotNil(t, fake.lastRequest)
	require.Len(t, fake.lastRequest.Answers, 3)
	assert.Equal(t, "I lose track of instructions", fake.lastRequest.Answers[0].Text)
	assert.Equal(t, 2, fake.lastRequest.Answers[0].Answer)
	assert.Equal(t, 2.0, fake.lastRequest.Answers[0].Weight)
	assert.Equal(t, "Robin", fake.lastRequest.Subject)
	assert.Equal(t, []string{"adhd-friendly"}, fake.lastRequest.FocusFlags)

	assert.Equal(t, uint(7), result.QuizDefinitionID)
	assert.Nil(t, result.UserID, "synthesis never assigns ownership")
	assert.Equal(t, "Avg. score: 3.0/4", result.ScoreSummary)
	assert.Equal(t, "Long analysis text", result.ReportData.Analysis)
	assert.Equal(t, "Focused enough", result.ReportData.Summary)
	assert.Len(t, result.ReportData.Answers, 3)
}

func TestSynthesize_SettingsAreFrozen(t *testing.T) {
	def, answers, scores := synthesisFixture()
	fake := &fakeAnalysisService{analysisResp: &AnalysisResponse{Analysis: "text"}}
	svc := NewSynthesisService(fake, time.Second)

	result, err := svc.Synthesize(context.Background(), def, answers, scores, "")
	require.NoError(t, err)

	// Edit the definition after the report was issued.
	def.Settings.DetailLevel = "brief"
	def.Settings.ShowChart = false
	def.Settings.ShowParentalCTA = false

	assert.Equal(t, "full", result.ReportData.Settings.DetailLevel)
	assert.True(t, result.ReportData.Settings.ShowChart)
	assert.True(t, result.ReportData.Settings.ShowParentalCTA)
}

func TestSynthesize_BoundaryFailureSurfacesCause(t *testing.T) {
	def, answers, scores := synthesisFixture()
	cases := []struct {
		name  string
		cause AnalysisCause
	}{
		{"timeout", CauseTimeout},
		{"rejected", CauseRejected},
		{"unreachable", CauseUnreachable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fake := &fakeAnalysisService{
				analysisErr: &AnalysisError{Cause: c.cause, Err: errors.New("boundary failed")},
			}
			svc := NewSynthesisService(fake, time.Second)

			result, err := svc.Synthesize(context.Background(), def, answers, scores, "")
			require.Nil(t, result)

			var analysisErr *AnalysisError
			require.ErrorAs(t, err, &analysisErr)
			assert.Equal(t, c.cause, analysisErr.Cause)
		})
	}
}
