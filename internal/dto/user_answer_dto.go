package dto

import "time"

// UserAnswerItemDTO is one answered question inside a submission batch.
type UserAnswerItemDTO struct {
	QuestionID uint `json:"question_id" binding:"required"`
	AnswerID   int  `json:"answer_id"`
	Status     bool `json:"status"`
}

// SubmitUserAnswersDTO is the request body for POST /user-answers.
type SubmitUserAnswersDTO struct {
	UserID    string              `json:"user_id" binding:"required"`
	ExamType  string              `json:"exam_type" binding:"required"`
	Questions []UserAnswerItemDTO `json:"questions" binding:"required,dive"`
}

// UserStatDTO is one performance snapshot.
type UserStatDTO struct {
	ID           uint      `json:"id"`
	UserID       string    `json:"user_id"`
	TotalScore   float64   `json:"total_score"`
	CorrectCount int       `json:"correct_count"`
	WrongCount   int       `json:"wrong_count"`
	ExamType     string    `json:"exam_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmitUserAnswersResponseDTO returns the persisted answer ids plus the new
// snapshot and, when present, the best and most recent prior snapshots.
type SubmitUserAnswersResponseDTO struct {
	UserAnswerIDs  []uint       `json:"user_answer_ids"`
	NewUserStat    UserStatDTO  `json:"new_user_stat"`
	MaxUserStat    *UserStatDTO `json:"max_user_stat,omitempty"`
	BeforeUserStat *UserStatDTO `json:"before_user_stat,omitempty"`
}

// UserStatHistoryDTO is the body of GET /user-stats/{user_id}.
type UserStatHistoryDTO struct {
	UserID   string        `json:"user_id"`
	ExamType string        `json:"exam_type"`
	Stats    []UserStatDTO `json:"stats"`
}
