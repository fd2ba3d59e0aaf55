package service

import (
	"fmt"
	"testing"

	"github.com/knakai/examprep/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Question{},
		&model.FrequentQuestion{},
		&model.UserAnswer{},
		&model.UserStat{},
	)
	require.NoError(t, err)
	return db
}

func createQuestion(t *testing.T, db *gorm.DB, difficulty string, mandatory bool, examType string) model.Question {
	t.Helper()
	q := model.Question{
		Title:       fmt.Sprintf("q-%s-%v-%d", difficulty, mandatory, questionSeq(db)),
		Body:        "body",
		Difficulty:  difficulty,
		IsMandatory: mandatory,
		ExamType:    examType,
	}
	require.NoError(t, db.Create(&q).Error)
	return q
}

func questionSeq(db *gorm.DB) int64 {
	var n int64
	db.Model(&model.Question{}).Count(&n)
	return n
}
