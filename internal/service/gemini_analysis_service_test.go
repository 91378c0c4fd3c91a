package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabeledSections(t *testing.T) {
	raw := `Summary: Overall things look balanced.
Analysis:
A longer stretch of text
over multiple lines.`

	sections := parseLabeledSections(raw, []string{"Summary", "Analysis"})
	assert.Equal(t, "Overall things look balanced.", sections["Summary"])
	assert.Equal(t, "A longer stretch of text\nover multiple lines.", sections["Analysis"])
}

func TestParseLabeledSections_ReorderedSections(t *testing.T) {
	// The model does not always honor the prompted section order.
	raw := `Analysis:
The long analysis came first this time.
Summary: One line at the end.`

	sections := parseLabeledSections(raw, []string{"Summary", "Analysis"})
	assert.Equal(t, "The long analysis came first this time.", sections["Analysis"])
	assert.Equal(t, "One line at the end.", sections["Summary"])
}

func TestParseLabeledSections_MissingLabel(t *testing.T) {
	raw := "Analysis:\nonly the analysis came back"
	sections := parseLabeledSections(raw, []string{"Summary", "Analysis"})
	assert.Empty(t, sections["Summary"])
	assert.Equal(t, "only the analysis came back", sections["Analysis"])
}

func TestParseLabeledSections_ComparativeLayout(t *testing.T) {
	raw := `Perception gaps:
- The parent sees more restlessness than the teen reports
Shared strengths:
- Both mention steady routines
Blind spots:
Action plan:
Try a weekly check-in.`

	sections := parseLabeledSections(raw, []string{"Perception gaps", "Shared strengths", "Blind spots", "Action plan"})
	assert.Equal(t, []string{"The parent sees more restlessness than the teen reports"}, splitBullets(sections["Perception gaps"]))
	assert.Equal(t, []string{"Both mention steady routines"}, splitBullets(sections["Shared strengths"]))
	assert.Empty(t, splitBullets(sections["Blind spots"]))
	assert.Equal(t, "Try a weekly check-in.", sections["Action plan"])
}

func TestSplitBullets(t *testing.T) {
	cases := []struct {
		name  string
		block string
		want  []string
	}{
		{"dash bullets", "- first\n- second", []string{"first", "second"}},
		{"star bullets", "* first\n* second", []string{"first", "second"}},
		{"blank lines dropped", "- first\n\n- second\n", []string{"first", "second"}},
		{"empty block", "", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, splitBullets(c.block))
		})
	}
}
