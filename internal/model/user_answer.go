package model

import "time"

// UserAnswer records one answered question within a submission batch.
// Append-only; rows are never updated or deleted.
type UserAnswer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     string    `json:"user_id" gorm:"size:50;not null;index"`
	QuestionID uint      `json:"question_id" gorm:"not null"`
	AnswerID   int       `json:"answer_id" gorm:"not null"` // selected option index, caller-defined
	Status     bool      `json:"status" gorm:"not null"`    // correct (true) or incorrect (false)
	ExamType   string    `json:"exam_type" gorm:"size:50;not null;index"`
	CreatedAt  time.Time `json:"created_at"`
}
