package repository

import (
	"github.com/knakai/examprep/internal/model"
	"gorm.io/gorm"
)

// IncorrectCount is one row of the grouped wrong-answer aggregation that
// feeds the weak-question shortlist.
type IncorrectCount struct {
	QuestionID     uint
	IncorrectCount int64
}

type UserAnswerRepository interface {
	// CreateOnTx inserts one answer row within the submission transaction.
	CreateOnTx(tx *gorm.DB, answer *model.UserAnswer) error
	// FindRecentQuestionIDs returns the question ids of the user's most
	// recent answers for the exam type, newest first.
	FindRecentQuestionIDs(userID, examType string, limit int) ([]uint, error)
	// CountIncorrectByQuestion groups the user's wrong answers by question,
	// ordered by incorrect count descending.
	CountIncorrectByQuestion(userID, examType string, limit int) ([]IncorrectCount, error)
}

type userAnswerRepository struct {
	db *gorm.DB
}

func NewUserAnswerRepository(db *gorm.DB) UserAnswerRepository {
	return &userAnswerRepository{db: db}
}

func (r *userAnswerRepository) CreateOnTx(tx *gorm.DB, answer *model.UserAnswer) error {
	return tx.Create(answer).Error
}

func (r *userAnswerRepository) FindRecentQuestionIDs(userID, examType string, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.UserAnswer{}).
		Where("user_id = ? AND exam_type = ?", userID, examType).
		Order("created_at DESC").
		Limit(limit).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userAnswerRepository) CountIncorrectByQuestion(userID, examType string, limit int) ([]IncorrectCount, error) {
	var rows []IncorrectCount
	err := r.db.Model(&model.UserAnswer{}).
		Select("question_id, COUNT(id) AS incorrect_count").
		Where("user_id = ? AND exam_type = ? AND status = ?", userID, examType, false).
		Group("question_id").
		Order("incorrect_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
