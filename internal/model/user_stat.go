package model

import "time"

// UserStat is a per-submission-batch performance snapshot. History is the
// ordered sequence of snapshots per (user_id, exam_type), not a running total.
type UserStat struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       string    `json:"user_id" gorm:"size:50;not null;index"`
	TotalScore   float64   `json:"total_score" gorm:"not null;default:0"` // 0-100
	CorrectCount int       `json:"correct_count" gorm:"not null;default:0"`
	WrongCount   int       `json:"wrong_count" gorm:"not null;default:0"`
	ExamType     string    `json:"exam_type" gorm:"size:50;not null;index"`
	CreatedAt    time.Time `json:"created_at"`
}
