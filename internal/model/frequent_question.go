package model

import "time"

// FrequentQuestion carries the precomputed frequency score of a question for
// one exam type. Unique per (question_id, exam_type); the weekly batch
// upserts rows rather than duplicating them.
type FrequentQuestion struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_frequent_question_exam"`
	FinalScore float64   `json:"final_score" gorm:"not null"` // in [0,1]
	ExamType   string    `json:"exam_type" gorm:"size:50;not null;index;uniqueIndex:idx_frequent_question_exam"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
