package repository

import (
	"github.com/knakai/examprep/internal/model"
	"gorm.io/gorm"
)

type UserStatRepository interface {
	// FindByUserAndExamType returns all snapshots for the pair, newest first.
	FindByUserAndExamType(userID, examType string) ([]model.UserStat, error)
	// CreateOnTx inserts the batch snapshot within the submission transaction.
	CreateOnTx(tx *gorm.DB, stat *model.UserStat) error
}

type userStatRepository struct {
	db *gorm.DB
}

func NewUserStatRepository(db *gorm.DB) UserStatRepository {
	return &userStatRepository{db: db}
}

func (r *userStatRepository) FindByUserAndExamType(userID, examType string) ([]model.UserStat, error) {
	var stats []model.UserStat
	err := r.db.Where("user_id = ? AND exam_type = ?", userID, examType).
		Order("created_at DESC").
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *userStatRepository) CreateOnTx(tx *gorm.DB, stat *model.UserStat) error {
	return tx.Create(stat).Error
}
