package repository

import (
	"github.com/knakai/examprep/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	FindHighDifficulty(examType string, limit int) ([]model.Question, error)
	FindByTitle(title string) (*model.Question, error)
	Update(question *model.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// FindHighDifficulty is the weak-question fallback pool: HIGH-difficulty
// questions for the exam type, ordered by id ascending.
func (r *questionRepository) FindHighDifficulty(examType string, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("exam_type = ? AND difficulty = ?", examType, model.DifficultyHigh).
		Order("id ASC").
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// FindByTitle is used by the markdown importer to upsert by derived title.
func (r *questionRepository) FindByTitle(title string) (*model.Question, error) {
	var question model.Question
	if err := r.db.Where("title = ?", title).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}
