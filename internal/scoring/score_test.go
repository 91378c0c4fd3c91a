package scoring

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lshigami/Sifaka/internal/model"
)

func defWithWeights(weights ...float64) *model.QuizDefinition {
	def := &model.QuizDefinition{
		Slug:     "focus-check",
		Category: "focus",
	}
	for i, w := range weights {
		def.Questions = append(def.Questions, model.Question{
			Text:        "q",
			Weight:      w,
			OrderInQuiz: i + 1,
		})
	}
	return def
}

func TestScore_WeightsDoNotAffectMean(t *testing.T) {
	// Weights shape the analysis commentary, never the displayed mean.
	def := defWithWeights(1, 1, 2)
	vector, err := Score(def, []int{2, 3, 4})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got := vector.Categories["focus"]; got != 3.0 {
		t.Fatalf("Categories[focus]=%v, want 3.0", got)
	}
}

func TestScore_IncompleteAnswers(t *testing.T) {
	def := defWithWeights(1, 1, 1)
	cases := []struct {
		name    string
		answers []int
	}{
		{"unanswered entry", []int{2, 0, 3}},
		{"too few answers", []int{2, 3}},
		{"too many answers", []int{2, 3, 4, 1}},
		{"below scale", []int{2, -1, 3}},
		{"above scale", []int{2, 5, 3}},
		{"empty", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			vector, err := Score(def, c.answers)
			if !errors.Is(err, ErrIncompleteAnswers) {
				t.Fatalf("err=%v, want ErrIncompleteAnswers", err)
			}
			if vector != nil {
				t.Fatalf("got partial vector %+v, want nil", vector)
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	def := defWithWeights(1, 2, 3, 1)
	def.FocusTags = []string{"adhd", "mystery-tag", "hsp"}
	answers := []int{1, 4, 2, 3}

	first, err := Score(def, answers)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	second, err := Score(def, answers)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Score is not deterministic: %+v vs %+v", first, second)
	}
}

func TestScore_ThematicGrouping(t *testing.T) {
	social := "social"
	sleep := "sleep"
	def := &model.QuizDefinition{
		Slug:     "wellbeing",
		Category: "wellbeing",
		Questions: []model.Question{
			{Text: "q1", Weight: 1, ThemeKey: &social, OrderInQuiz: 1},
			{Text: "q2", Weight: 1, ThemeKey: &social, OrderInQuiz: 2},
			{Text: "q3", Weight: 1, ThemeKey: &sleep, OrderInQuiz: 3},
			{Text: "q4", Weight: 1, OrderInQuiz: 4}, // falls back to quiz category
		},
	}

	vector, err := Score(def, []int{2, 4, 1, 3})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	want := map[string]float64{
		"social":    3.0,
		"sleep":     1.0,
		"wellbeing": 3.0,
	}
	if !reflect.DeepEqual(vector.Categories, want) {
		t.Fatalf("Categories=%v, want %v", vector.Categories, want)
	}
}

func TestNormalizeFocusTags(t *testing.T) {
	cases := []struct {
		name string
		tags []string
		want []string
	}{
		{"known raw tags", []string{"adhd", "hsp"}, []string{"adhd-friendly", "hsp-friendly"}},
		{"already normalized", []string{"adhd-friendly"}, []string{"adhd-friendly"}},
		{"unknown maps to general", []string{"left-handed"}, []string{"general"}},
		{"unknowns collapse to one general", []string{"x", "y"}, []string{"general"}},
		{"dedup and sort", []string{"hsp", "adhd", "hsp-friendly"}, []string{"adhd-friendly", "hsp-friendly"}},
		{"empty", nil, []string{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeFocusTags(c.tags); !reflect.DeepEqual(got, c.want) {
				t.Fatalf("NormalizeFocusTags(%v)=%v, want %v", c.tags, got, c.want)
			}
		})
	}
}

func TestOverallMean(t *testing.T) {
	v := &ScoreVector{Categories: map[string]float64{"a": 2.0, "b": 4.0}}
	if got := OverallMean(v); got != 3.0 {
		t.Fatalf("OverallMean=%v, want 3.0", got)
	}
	empty := &ScoreVector{Categories: map[string]float64{}}
	if got := OverallMean(empty); got != 0 {
		t.Fatalf("OverallMean(empty)=%v, want 0", got)
	}
}
