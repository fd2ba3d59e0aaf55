package model

import "time"

// Difficulty values stored on Question rows.
const (
	DifficultyLow  = "LOW"
	DifficultyMid  = "MID"
	DifficultyHigh = "HIGH"
)

// Question is an imported exam problem. Rows are created by the ingestion
// pipeline and are read-only from the API's perspective.
type Question struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Body        string    `json:"body" gorm:"type:text;not null"` // markdown, as extracted by ingestion
	Difficulty  string    `json:"difficulty" gorm:"size:50;not null"`
	IsMandatory bool      `json:"is_mandatory" gorm:"default:false"`
	YearList    string    `json:"year_list,omitempty" gorm:"size:255"` // comma-separated years, e.g. "2021,2022"
	ExamType    string    `json:"exam_type" gorm:"size:50;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
