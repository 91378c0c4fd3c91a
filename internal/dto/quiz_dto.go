package dto

import "time"

// QuizSummaryDTO lists a published quiz in the catalog.
type QuizSummaryDTO struct {
	ID        uint      `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Audience  string    `json:"audience"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionDTO is a question as shown to the person taking the quiz.
type QuestionDTO struct {
	ID          uint    `json:"id"`
	Text        string  `json:"text"`
	Example     *string `json:"example,omitempty"`
	OrderInQuiz int     `json:"order_in_quiz"`
}

// QuizDetailDTO is the full definition a client needs to render a quiz.
type QuizDetailDTO struct {
	ID        uint          `json:"id"`
	Slug      string        `json:"slug"`
	Title     string        `json:"title"`
	Audience  string        `json:"audience"`
	Category  string        `json:"category"`
	Questions []QuestionDTO `json:"questions"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
