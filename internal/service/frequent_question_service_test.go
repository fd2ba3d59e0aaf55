package service

import (
	"testing"
	"time"

	"github.com/knakai/examprep/internal/dto"
	"github.com/knakai/examprep/internal/model"
	"github.com/knakai/examprep/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFrequentService(db *gorm.DB) FrequentQuestionService {
	return NewFrequentQuestionService(
		db,
		repository.NewFrequentQuestionRepository(db),
		repository.NewUserAnswerRepository(db),
		repository.NewQuestionRepository(db),
	)
}

func seedFrequent(t *testing.T, db *gorm.DB, questionID uint, score float64, examType string) {
	t.Helper()
	fq := model.FrequentQuestion{QuestionID: questionID, FinalScore: score, ExamType: examType}
	require.NoError(t, db.Create(&fq).Error)
}

func TestGetFrequentQuestions_OrdersByScore(t *testing.T) {
	db := setupTestDB(t)
	q1 := createQuestion(t, db, model.DifficultyMid, false, "math")
	q2 := createQuestion(t, db, model.DifficultyMid, false, "math")
	q3 := createQuestion(t, db, model.DifficultyMid, false, "math")

	seedFrequent(t, db, q1.ID, 0.3, "math")
	seedFrequent(t, db, q2.ID, 0.9, "math")
	seedFrequent(t, db, q3.ID, 0.6, "math")

	ids, err := newFrequentService(db).GetFrequentQuestions("user-1", "math", 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{q2.ID, q3.ID}, ids)
}

func TestGetFrequentQuestions_ExcludesRecentlyAnswered(t *testing.T) {
	db := setupTestDB(t)
	q1 := createQuestion(t, db, model.DifficultyMid, false, "math")
	q2 := createQuestion(t, db, model.DifficultyMid, false, "math")

	seedFrequent(t, db, q1.ID, 0.9, "math")
	seedFrequent(t, db, q2.ID, 0.5, "math")

	answer := model.UserAnswer{
		UserID:     "user-1",
		QuestionID: q1.ID,
		AnswerID:   1,
		Status:     true,
		ExamType:   "math",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&answer).Error)

	ids, err := newFrequentService(db).GetFrequentQuestions("user-1", "math", 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{q2.ID}, ids)

	// Another user's history does not hide questions.
	ids, err = newFrequentService(db).GetFrequentQuestions("user-2", "math", 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{q1.ID, q2.ID}, ids)
}

func TestReplaceFrequentQuestions_SkipsUnknownQuestions(t *testing.T) {
	db := setupTestDB(t)
	q1 := createQuestion(t, db, model.DifficultyMid, false, "math")

	updated, err := newFrequentService(db).ReplaceFrequentQuestions([]dto.FrequentQuestionItemDTO{
		{QuestionID: q1.ID, FinalScore: 0.7, ExamType: "math"},
		{QuestionID: 9999, FinalScore: 0.4, ExamType: "math"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	var count int64
	db.Model(&model.FrequentQuestion{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestReplaceFrequentQuestions_UpsertsExistingRows(t *testing.T) {
	db := setupTestDB(t)
	q1 := createQuestion(t, db, model.DifficultyMid, false, "math")
	seedFrequent(t, db, q1.ID, 0.2, "math")

	updated, err := newFrequentService(db).ReplaceFrequentQuestions([]dto.FrequentQuestionItemDTO{
		{QuestionID: q1.ID, FinalScore: 0.8, ExamType: "math"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	var rows []model.FrequentQuestion
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.8, rows[0].FinalScore)
}
