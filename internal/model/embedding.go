package model

import (
	"time"

	"gorm.io/datatypes"
)

// Embedding type tags written by the ingestion pipeline.
const (
	EmbeddingTypeText       = "text"
	EmbeddingTypeImage      = "image"
	EmbeddingTypeMultimodal = "multimodal image"
)

// Embedding stores one fixed-length vector for similarity search. The link
// back to a Question is best-effort via the file-name convention; no foreign
// key is enforced.
type Embedding struct {
	ID            uint              `gorm:"primarykey" json:"id"`
	FileName      string            `json:"file_name" gorm:"type:text;not null"`
	ImagePath     string            `json:"image_path,omitempty" gorm:"type:text"`
	TextContent   string            `json:"text_content,omitempty" gorm:"type:text"`
	EmbeddingType string            `json:"embedding_type" gorm:"type:text;not null"`
	Embedding     Vector            `json:"embedding"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
