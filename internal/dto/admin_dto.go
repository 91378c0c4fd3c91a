package dto

// QuestionCreateDTO is used within QuizDefinitionCreateDTO.
type QuestionCreateDTO struct {
	Text        string   `json:"text" binding:"required"`
	Weight      *float64 `json:"weight" binding:"omitempty,gte=0,lte=5"`
	Example     *string  `json:"example"`
	ThemeKey    *string  `json:"theme_key"`
	OrderInQuiz int      `json:"order_in_quiz" binding:"required,min=1"`
}

// SubtestConfigCreateDTO attaches a conditional follow-up. Threshold
// must sit on the 4-point answer scale.
type SubtestConfigCreateDTO struct {
	SubtestSlug string  `json:"subtest_slug" binding:"required"`
	CategoryKey string  `json:"category_key" binding:"required"`
	Threshold   float64 `json:"threshold" binding:"gte=0,lte=4"`
}

// SettingsDTO holds the presentation directives of a definition.
type SettingsDTO struct {
	DetailLevel     string `json:"detail_level" binding:"omitempty,oneof=brief full"`
	ShowChart       bool   `json:"show_chart"`
	ShowParentalCTA bool   `json:"show_parental_cta"`
}

// QuizDefinitionCreateDTO is for admins authoring a new definition.
type QuizDefinitionCreateDTO struct {
	Slug           string                   `json:"slug" binding:"required"`
	Title          string                   `json:"title" binding:"required"`
	Audience       string                   `json:"audience" binding:"required,oneof=teen-12-14 teen-15-18 adult parent-about-child-12-14 parent-about-child-15-18"`
	Category       string                   `json:"category" binding:"required"`
	FocusTags      []string                 `json:"focus_tags"`
	Settings       SettingsDTO              `json:"settings"`
	Questions      []QuestionCreateDTO      `json:"questions" binding:"required,min=1,dive"`
	SubtestConfigs []SubtestConfigCreateDTO `json:"subtest_configs" binding:"omitempty,dive"`
}
