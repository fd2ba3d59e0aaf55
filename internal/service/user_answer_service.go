package service

import (
	"github.com/jinzhu/copier"
	"github.com/knakai/examprep/internal/dto"
	"github.com/knakai/examprep/internal/model"
	"github.com/knakai/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UserAnswerService interface {
	// SubmitAnswers persists one answer batch and its score snapshot in a
	// single transaction. Answers referencing unknown questions are dropped
	// silently and excluded from scoring.
	SubmitAnswers(req dto.SubmitUserAnswersDTO) (*dto.SubmitUserAnswersResponseDTO, error)
	// GetUserStats returns the user's snapshot history, newest first.
	GetUserStats(userID, examType string) (*dto.UserStatHistoryDTO, error)
}

type userAnswerService struct {
	db           *gorm.DB
	answerRepo   repository.UserAnswerRepository
	statRepo     repository.UserStatRepository
	questionRepo repository.QuestionRepository
}

func NewUserAnswerService(
	db *gorm.DB,
	answerRepo repository.UserAnswerRepository,
	statRepo repository.UserStatRepository,
	questionRepo repository.QuestionRepository,
) UserAnswerService {
	return &userAnswerService{
		db:           db,
		answerRepo:   answerRepo,
		statRepo:     statRepo,
		questionRepo: questionRepo,
	}
}

func (s *userAnswerService) SubmitAnswers(req dto.SubmitUserAnswersDTO) (*dto.SubmitUserAnswersResponseDTO, error) {
	priorStats, err := s.statRepo.FindByUserAndExamType(req.UserID, req.ExamType)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(req.Questions))
	for _, item := range req.Questions {
		ids = append(ids, item.QuestionID)
	}
	known, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(known))
	for _, q := range known {
		byID[q.ID] = q
	}

	var (
		answerIDs []uint
		scored    []ScoredAnswer
		newStat   model.UserStat
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Questions {
			q, ok := byID[item.QuestionID]
			if !ok {
				log.Warn().Uint("questionID", item.QuestionID).Str("userID", req.UserID).
					Msg("Dropping answer for unknown question")
				continue
			}

			answer := model.UserAnswer{
				UserID:     req.UserID,
				QuestionID: item.QuestionID,
				AnswerID:   item.AnswerID,
				Status:     item.Status,
				ExamType:   req.ExamType,
			}
			if err := s.answerRepo.CreateOnTx(tx, &answer); err != nil {
				return err
			}
			answerIDs = append(answerIDs, answer.ID)
			scored = append(scored, ScoredAnswer{Question: q, Correct: item.Status})
		}

		correct, wrong := 0, 0
		for _, a := range scored {
			if a.Correct {
				correct++
			} else {
				wrong++
			}
		}
		newStat = model.UserStat{
			UserID:       req.UserID,
			TotalScore:   ComputeSessionScore(scored),
			CorrectCount: correct,
			WrongCount:   wrong,
			ExamType:     req.ExamType,
		}
		return s.statRepo.CreateOnTx(tx, &newStat)
	})
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("Answer submission failed")
		return nil, err
	}

	resp := dto.SubmitUserAnswersResponseDTO{UserAnswerIDs: answerIDs}
	copier.Copy(&resp.NewUserStat, &newStat)
	if len(priorStats) > 0 {
		before := priorStats[0]
		maxStat := priorStats[0]
		for _, st := range priorStats[1:] {
			if st.TotalScore > maxStat.TotalScore {
				maxStat = st
			}
		}

		var beforeDTO, maxDTO dto.UserStatDTO
		copier.Copy(&beforeDTO, &before)
		copier.Copy(&maxDTO, &maxStat)
		resp.MaxUserStat = &maxDTO
		if before.ID != newStat.ID {
			resp.BeforeUserStat = &beforeDTO
		}
	}
	return &resp, nil
}

func (s *userAnswerService) GetUserStats(userID, examType string) (*dto.UserStatHistoryDTO, error) {
	stats, err := s.statRepo.FindByUserAndExamType(userID, examType)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Failed to load user stats")
		return nil, err
	}

	resp := dto.UserStatHistoryDTO{
		UserID:   userID,
		ExamType: examType,
		Stats:    []dto.UserStatDTO{},
	}
	copier.Copy(&resp.Stats, &stats)
	return &resp, nil
}
