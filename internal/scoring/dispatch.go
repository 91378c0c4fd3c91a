package scoring

import (
	"github.com/lshigami/Sifaka/internal/model"
)

// SubtestRef points at a follow-up definition to offer next. The
// dispatcher never fetches definitions itself; callers resolve the
// slug against the catalog.
type SubtestRef struct {
	Slug        string  `json:"slug"`
	CategoryKey string  `json:"category_key"`
	Threshold   float64 `json:"threshold"`
}

// NextSubtests returns every subtest whose category score meets its
// threshold. The comparison is inclusive: a score exactly at the
// threshold dispatches. A definition without subtest configs is a
// terminal state and yields an empty list.
func NextSubtests(def *model.QuizDefinition, scores *ScoreVector) []SubtestRef {
	refs := make([]SubtestRef, 0, len(def.SubtestConfigs))
	for _, cfg := range def.SubtestConfigs {
		score, ok := scores.Categories[cfg.CategoryKey]
		if !ok {
			continue
		}
		if score >= cfg.Threshold {
			refs = append(refs, SubtestRef{
				Slug:        cfg.SubtestSlug,
				CategoryKey: cfg.CategoryKey,
				Threshold:   cfg.Threshold,
			})
		}
	}
	return refs
}
