package scoring

import (
	"errors"
	"sort"

	"github.com/lshigami/Sifaka/internal/model"
)

// Answer scale bounds. 0 means unanswered.
const (
	AnswerMin        = 1
	AnswerMax        = 4
	AnswerUnanswered = 0
)

// ErrIncompleteAnswers is returned when any question in the answer set
// is unanswered or outside the 1..4 scale. No partial vector is ever
// produced.
var ErrIncompleteAnswers = errors.New("answer set is incomplete")

// ScoreVector holds per-category means on the raw 1.0-4.0 scale plus
// the normalized focus-flag vector of the definition.
type ScoreVector struct {
	Categories map[string]float64 `json:"categories"`
	FocusFlags []string           `json:"focus_flags"`
}

// focusVocabulary maps authored focus tags to their normalized form.
// Tags already in normalized form map to themselves. Anything unknown
// becomes FlagGeneral instead of being dropped.
const FlagGeneral = "general"

var focusVocabulary = map[string]string{
	"adhd":              "adhd-friendly",
	"adhd-friendly":     "adhd-friendly",
	"hsp":               "hsp-friendly",
	"hsp-friendly":      "hsp-friendly",
	"autism":            "autism-friendly",
	"autism-friendly":   "autism-friendly",
	"anxiety":           "anxiety-aware",
	"anxiety-aware":     "anxiety-aware",
	"gifted":            "gifted-aware",
	"gifted-aware":      "gifted-aware",
	"screen-time":       "screen-time-aware",
	"screen-time-aware": "screen-time-aware",
}

// Score turns a complete answer set into per-category means and the
// focus-flag vector. Weights are deliberately left out of the mean so
// the displayed scale stays a plain 1.0-4.0 average; they travel with
// the answers into the analysis request instead.
//
// Pure and deterministic: same definition and answers always yield an
// identical vector.
func Score(def *model.QuizDefinition, answers []int) (*ScoreVector, error) {
	if len(answers) != len(def.Questions) {
		return nil, ErrIncompleteAnswers
	}
	for _, a := range answers {
		if a < AnswerMin || a > AnswerMax {
			return nil, ErrIncompleteAnswers
		}
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, q := range def.Questions {
		key := def.Category
		if q.ThemeKey != nil && *q.ThemeKey != "" {
			key = *q.ThemeKey
		}
		sums[key] += float64(answers[i])
		counts[key]++
	}

	categories := make(map[string]float64, len(sums))
	for key, sum := range sums {
		categories[key] = sum / float64(counts[key])
	}

	return &ScoreVector{
		Categories: categories,
		FocusFlags: NormalizeFocusTags(def.FocusTags),
	}, nil
}

// NormalizeFocusTags maps authored tags through the fixed vocabulary,
// deduplicates, and sorts for a stable vector.
func NormalizeFocusTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	flags := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized, ok := focusVocabulary[tag]
		if !ok {
			normalized = FlagGeneral
		}
		if !seen[normalized] {
			seen[normalized] = true
			flags = append(flags, normalized)
		}
	}
	sort.Strings(flags)
	return flags
}

// OverallMean averages all category means, for the human-readable
// score summary on a result.
func OverallMean(v *ScoreVector) float64 {
	if len(v.Categories) == 0 {
		return 0
	}
	total := 0.0
	for _, score := range v.Categories {
		total += score
	}
	return total / float64(len(v.Categories))
}
