package repository

import (
	"github.com/knakai/examprep/internal/model"
	"gorm.io/gorm"
)

type FrequentQuestionRepository interface {
	// FindTopByExamType returns frequent questions ordered by final_score
	// descending, excluding the given question ids.
	FindTopByExamType(examType string, excludeQuestionIDs []uint, limit int) ([]model.FrequentQuestion, error)
	// Upsert overwrites final_score for an existing (question_id, exam_type)
	// pair, or inserts a new row. Runs on tx so the admin batch stays atomic.
	Upsert(tx *gorm.DB, fq *model.FrequentQuestion) error
}

type frequentQuestionRepository struct {
	db *gorm.DB
}

func NewFrequentQuestionRepository(db *gorm.DB) FrequentQuestionRepository {
	return &frequentQuestionRepository{db: db}
}

func (r *frequentQuestionRepository) FindTopByExamType(examType string, excludeQuestionIDs []uint, limit int) ([]model.FrequentQuestion, error) {
	query := r.db.Where("exam_type = ?", examType)
	if len(excludeQuestionIDs) > 0 {
		query = query.Where("question_id NOT IN ?", excludeQuestionIDs)
	}

	var rows []model.FrequentQuestion
	if err := query.Order("final_score DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *frequentQuestionRepository) Upsert(tx *gorm.DB, fq *model.FrequentQuestion) error {
	var existing model.FrequentQuestion
	err := tx.Where("question_id = ? AND exam_type = ?", fq.QuestionID, fq.ExamType).First(&existing).Error
	switch {
	case err == nil:
		existing.FinalScore = fq.FinalScore
		return tx.Save(&existing).Error
	case err == gorm.ErrRecordNotFound:
		return tx.Create(fq).Error
	default:
		return err
	}
}
