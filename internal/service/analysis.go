package service

import (
	"context"
	"fmt"

	"github.com/lshigami/Sifaka/internal/model"
)

// AnalysisRequest is the full contract sent to the external analysis
// boundary. Answers are never truncated; the model needs the complete
// context.
type AnalysisRequest struct {
	QuizTitle  string                     `json:"quiz_title"`
	Audience   string                     `json:"audience"`
	Subject    string                     `json:"subject,omitempty"`
	Scores     map[string]float64         `json:"scores"`
	Answers    []model.AnsweredQuestion   `json:"answers"`
	FocusFlags []string                   `json:"focus_flags"`
	Settings   model.PresentationSettings `json:"settings"`
}

// AnalysisResponse is the structured success payload from the boundary.
type AnalysisResponse struct {
	Summary  string `json:"summary"`
	Analysis string `json:"analysis"`
}

// Perspective is one side of a comparative request, explicitly labeled
// so downstream text generation can attribute every observation.
type Perspective struct {
	Label     string                   `json:"label"` // "parent" or "child"
	QuizTitle string                   `json:"quiz_title"`
	Scores    map[string]float64       `json:"scores"`
	Answers   []model.AnsweredQuestion `json:"answers"`
}

// ComparativeRequest carries both answer sets side by side. The two
// perspectives are never blended into one undifferentiated set.
type ComparativeRequest struct {
	Subject string      `json:"subject"`
	Parent  Perspective `json:"parent"`
	Child   Perspective `json:"child"`
}

// AnalysisService is the single capability this core consumes from the
// external analysis boundary. Implementations are opaque: structured
// request in, structured text out, or a typed failure.
type AnalysisService interface {
	GenerateAnalysis(ctx context.Context, req *AnalysisRequest) (*AnalysisResponse, error)
	GenerateComparative(ctx context.Context, req *ComparativeRequest) (*model.ComparativeSections, error)
}

// AnalysisCause classifies boundary failures so callers can offer
// "try again" only where a retry is safe.
type AnalysisCause string

const (
	CauseTimeout     AnalysisCause = "timeout"     // safe to retry
	CauseRejected    AnalysisCause = "rejected"    // boundary refused or returned garbage; usually not retryable
	CauseUnreachable AnalysisCause = "unreachable" // transport failure
)

// AnalysisError wraps any failure of the analysis boundary. Synthesis
// never retries on its own; the cause tells the caller whether a
// user-facing retry makes sense.
type AnalysisError struct {
	Cause AnalysisCause
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis synthesis failed (%s): %v", e.Cause, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
