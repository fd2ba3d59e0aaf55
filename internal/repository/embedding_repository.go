package repository

import (
	"github.com/knakai/examprep/internal/model"
	"gorm.io/gorm"
)

// SimilarEmbedding is a nearest-neighbour hit with its cosine distance.
type SimilarEmbedding struct {
	model.Embedding
	Distance float64
}

type EmbeddingRepository interface {
	// Upsert replaces any prior row with the same (file_name, embedding_type)
	// so re-running the pipeline on a file does not accumulate duplicates.
	Upsert(emb *model.Embedding) error
	FindByFileName(fileName string) ([]model.Embedding, error)
	// FindNearest runs a cosine-distance nearest-neighbour query via the
	// pgvector `<=>` operator. embeddingType "" means all types.
	FindNearest(query model.Vector, embeddingType string, limit int) ([]SimilarEmbedding, error)
}

type embeddingRepository struct {
	db *gorm.DB
}

func NewEmbeddingRepository(db *gorm.DB) EmbeddingRepository {
	return &embeddingRepository{db: db}
}

func (r *embeddingRepository) Upsert(emb *model.Embedding) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("file_name = ? AND embedding_type = ?", emb.FileName, emb.EmbeddingType).
			Delete(&model.Embedding{}).Error
		if err != nil {
			return err
		}
		return tx.Create(emb).Error
	})
}

func (r *embeddingRepository) FindByFileName(fileName string) ([]model.Embedding, error) {
	var rows []model.Embedding
	if err := r.db.Where("file_name = ?", fileName).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *embeddingRepository) FindNearest(query model.Vector, embeddingType string, limit int) ([]SimilarEmbedding, error) {
	literal, err := query.Value()
	if err != nil {
		return nil, err
	}

	q := r.db.Model(&model.Embedding{}).
		Select("*, embedding <=> ? AS distance", literal).
		Where("embedding IS NOT NULL")
	if embeddingType != "" {
		q = q.Where("embedding_type = ?", embeddingType)
	}

	var rows []SimilarEmbedding
	if err := q.Order("distance ASC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
