package dto

import "time"

// QuestionResponseDTO is the full question object served by GET /questions/{id}.
type QuestionResponseDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Difficulty  string    `json:"difficulty"`
	IsMandatory bool      `json:"is_mandatory"`
	YearList    string    `json:"year_list,omitempty"`
	ExamType    string    `json:"exam_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QuestionIDListDTO is shared by the frequent-question and weak-question
// endpoints; an empty list is a valid response, not an error.
type QuestionIDListDTO struct {
	QuestionIDs []uint `json:"question_ids"`
}
