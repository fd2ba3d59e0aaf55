package service

import (
	"github.com/knakai/examprep/internal/dto"
	"github.com/knakai/examprep/internal/model"
	"github.com/knakai/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// recentAnswerWindow is how many of the user's latest answers are excluded
// from frequent-question recommendations so the list keeps rotating.
const recentAnswerWindow = 20

type FrequentQuestionService interface {
	// GetFrequentQuestions returns up to limit question ids by descending
	// frequency score, skipping questions the user answered recently.
	GetFrequentQuestions(userID, examType string, limit int) ([]uint, error)
	// ReplaceFrequentQuestions applies the weekly batch. Items referencing
	// unknown questions are skipped; the returned count is rows written.
	ReplaceFrequentQuestions(items []dto.FrequentQuestionItemDTO) (int, error)
}

type frequentQuestionService struct {
	db           *gorm.DB
	frequentRepo repository.FrequentQuestionRepository
	answerRepo   repository.UserAnswerRepository
	questionRepo repository.QuestionRepository
}

func NewFrequentQuestionService(
	db *gorm.DB,
	frequentRepo repository.FrequentQuestionRepository,
	answerRepo repository.UserAnswerRepository,
	questionRepo repository.QuestionRepository,
) FrequentQuestionService {
	return &frequentQuestionService{
		db:           db,
		frequentRepo: frequentRepo,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
	}
}

func (s *frequentQuestionService) GetFrequentQuestions(userID, examType string, limit int) ([]uint, error) {
	recentIDs, err := s.answerRepo.FindRecentQuestionIDs(userID, examType, recentAnswerWindow)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Failed to load recent answers")
		return nil, err
	}

	rows, err := s.frequentRepo.FindTopByExamType(examType, recentIDs, limit)
	if err != nil {
		log.Error().Err(err).Str("examType", examType).Msg("Failed to load frequent questions")
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.QuestionID)
	}
	return ids, nil
}

func (s *frequentQuestionService) ReplaceFrequentQuestions(items []dto.FrequentQuestionItemDTO) (int, error) {
	ids := make([]uint, 0, len(items))
	seen := map[uint]bool{}
	for _, item := range items {
		if !seen[item.QuestionID] {
			seen[item.QuestionID] = true
			ids = append(ids, item.QuestionID)
		}
	}

	known, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return 0, err
	}
	exists := map[uint]bool{}
	for _, q := range known {
		exists[q.ID] = true
	}

	updated := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if !exists[item.QuestionID] {
				log.Warn().Uint("questionID", item.QuestionID).Msg("Skipping frequent-question item for unknown question")
				continue
			}
			fq := model.FrequentQuestion{
				QuestionID: item.QuestionID,
				FinalScore: item.FinalScore,
				ExamType:   item.ExamType,
			}
			if err := s.frequentRepo.Upsert(tx, &fq); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Frequent-question batch failed")
		return 0, err
	}
	return updated, nil
}
