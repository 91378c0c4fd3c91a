package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Sifaka/config"
	"github.com/lshigami/Sifaka/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type geminiAnalysisService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiAnalysisService(cfg *config.Config) (AnalysisService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Analysis service will be non-functional.")
		return &geminiAnalysisService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	generativeModel := client.GenerativeModel("gemini-1.5-flash")
	return &geminiAnalysisService{client: generativeModel, cfg: cfg}, nil
}

var answerLabels = map[int]string{
	1: "never",
	2: "sometimes",
	3: "often",
	4: "almost always",
}

func (s *geminiAnalysisService) GenerateAnalysis(ctx context.Context, req *AnalysisRequest) (*AnalysisResponse, error) {
	if s.client == nil {
		return nil, &AnalysisError{Cause: CauseUnreachable, Err: errors.New("gemini client not initialized")}
	}

	var b strings.Builder
	b.WriteString("You are a youth coach writing an encouraging, non-clinical report about a self-report questionnaire.\n")
	b.WriteString("This is not a diagnosis. Write directly to the reader in warm, plain language.\n\n")
	b.WriteString(fmt.Sprintf("Questionnaire: %s\nAudience: %s\n", req.QuizTitle, req.Audience))
	if req.Subject != "" {
		b.WriteString(fmt.Sprintf("The questionnaire is about: %s\n", req.Subject))
	}
	if len(req.FocusFlags) > 0 {
		b.WriteString(fmt.Sprintf("Focus areas to keep in mind: %s\n", strings.Join(req.FocusFlags, ", ")))
	}

	b.WriteString("\nCategory scores on a 1.0-4.0 scale (1 = never, 4 = almost always):\n")
	for category, score := range req.Scores {
		b.WriteString(fmt.Sprintf("- %s: %.1f\n", category, score))
	}

	b.WriteString("\nAll answers, with their question weights. Higher-weight questions deserve more attention in your commentary:\n")
	for _, a := range req.Answers {
		b.WriteString(fmt.Sprintf("- %q -> %s (weight %.1f)\n", a.Text, answerLabels[a.Answer], a.Weight))
	}

	switch req.Settings.DetailLevel {
	case "brief":
		b.WriteString("\nKeep the analysis short: two or three paragraphs.\n")
	default:
		b.WriteString("\nWrite a thorough analysis: strengths first, then areas to explore, then practical suggestions.\n")
	}
	if req.Settings.ShowParentalCTA {
		b.WriteString("Close with a short, friendly suggestion to discuss the outcome with a parent or trusted adult.\n")
	}

	b.WriteString(`
Format your response strictly as:
Summary: [one-sentence summary of the overall picture]
Analysis:
[your full analysis text]
`)

	raw, err := s.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	sections := parseLabeledSections(raw, []string{"Summary", "Analysis"})
	analysis := sections["Analysis"]
	if analysis == "" {
		log.Warn().Str("raw", raw).Msg("Gemini response missing Analysis section")
		return nil, &AnalysisError{Cause: CauseRejected, Err: errors.New("response missing analysis section")}
	}
	return &AnalysisResponse{
		Summary:  sections["Summary"],
		Analysis: analysis,
	}, nil
}

func (s *geminiAnalysisService) GenerateComparative(ctx context.Context, req *ComparativeRequest) (*model.ComparativeSections, error) {
	if s.client == nil {
		return nil, &AnalysisError{Cause: CauseUnreachable, Err: errors.New("gemini client not initialized")}
	}

	var b strings.Builder
	b.WriteString("You are a family coach comparing two questionnaire reports about the same young person: one filled in by a parent, one by the child.\n")
	b.WriteString(fmt.Sprintf("The subject of both reports is %s.\n", req.Subject))
	b.WriteString("Attribute every observation to its source perspective. Never merge the two views into one anonymous finding.\n\n")

	writePerspective(&b, req.Parent)
	writePerspective(&b, req.Child)

	b.WriteString(`
Format your response strictly as:
Perception gaps:
- [one item per line, each naming which perspective sees what]
Shared strengths:
- [one item per line]
Blind spots:
- [one item per line, each naming the perspective that misses it]
Action plan:
[a short, concrete plan the family can follow]
`)

	raw, err := s.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	sections := parseLabeledSections(raw, []string{"Perception gaps", "Shared strengths", "Blind spots", "Action plan"})
	actionPlan := strings.TrimSpace(sections["Action plan"])
	if actionPlan == "" {
		log.Warn().Str("raw", raw).Msg("Gemini comparative response missing action plan")
		return nil, &AnalysisError{Cause: CauseRejected, Err: errors.New("response missing action plan section")}
	}
	return &model.ComparativeSections{
		PerceptionGaps:  splitBullets(sections["Perception gaps"]),
		SharedStrengths: splitBullets(sections["Shared strengths"]),
		BlindSpots:      splitBullets(sections["Blind spots"]),
		ActionPlan:      actionPlan,
	}, nil
}

func writePerspective(b *strings.Builder, p Perspective) {
	label := p.Label
	if label == "" {
		label = "unlabeled"
	}
	b.WriteString(fmt.Sprintf("%s perspective (%s):\n", strings.ToUpper(label[:1])+label[1:], p.QuizTitle))
	b.WriteString("Scores (1.0-4.0):\n")
	for category, score := range p.Scores {
		b.WriteString(fmt.Sprintf("- %s: %.1f\n", category, score))
	}
	b.WriteString("Answers:\n")
	for _, a := range p.Answers {
		b.WriteString(fmt.Sprintf("- %q -> %s\n", a.Text, answerLabels[a.Answer]))
	}
	b.WriteString("\n")
}

// generate runs a single Gemini call and classifies failures so the
// caller can distinguish a retryable timeout from a rejection.
func (s *geminiAnalysisService) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		cause := CauseUnreachable
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			cause = CauseTimeout
		}
		log.Error().Err(err).Str("cause", string(cause)).Msg("Gemini API error")
		return "", &AnalysisError{Cause: cause, Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", &AnalysisError{Cause: CauseRejected, Err: errors.New("gemini returned no content")}
	}

	var full strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			full.WriteString(string(txt))
		}
	}
	if full.Len() == 0 {
		return "", &AnalysisError{Cause: CauseRejected, Err: errors.New("gemini returned no text content")}
	}
	return full.String(), nil
}

// parseLabeledSections splits a response into the given "Label:"
// sections. The model does not always keep the prompted ordering, so
// marks are sorted by position before slicing. Missing labels yield
// empty strings.
func parseLabeledSections(raw string, labels []string) map[string]string {
	type mark struct {
		label string
		start int // index just past "Label:"
		pos   int // index of "Label:"
	}
	var marks []mark
	for _, label := range labels {
		prefix := label + ":"
		idx := strings.Index(raw, prefix)
		if idx == -1 {
			continue
		}
		marks = append(marks, mark{label: label, start: idx + len(prefix), pos: idx})
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].pos < marks[j].pos })

	sections := make(map[string]string, len(labels))
	for i, m := range marks {
		end := len(raw)
		if i+1 < len(marks) {
			end = marks[i+1].pos
		}
		sections[m.label] = strings.TrimSpace(raw[m.start:end])
	}
	return sections
}

// splitBullets turns a "- item" block into a slice of items.
func splitBullets(block string) []string {
	var items []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
