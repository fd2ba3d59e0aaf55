package service

import (
	"sort"

	"github.com/knakai/examprep/internal/model"
	"github.com/knakai/examprep/internal/repository"
	"github.com/rs/zerolog/log"
)

type WeakQuestionService interface {
	// GetWeakQuestions recommends questions the user keeps getting wrong.
	// Users with no wrong answers yet get HIGH-difficulty questions instead.
	GetWeakQuestions(userID, examType string, limit int) ([]uint, error)
}

type weakQuestionService struct {
	answerRepo   repository.UserAnswerRepository
	questionRepo repository.QuestionRepository
}

func NewWeakQuestionService(answerRepo repository.UserAnswerRepository, questionRepo repository.QuestionRepository) WeakQuestionService {
	return &weakQuestionService{answerRepo: answerRepo, questionRepo: questionRepo}
}

// Ranking runs in two phases: shortlist 2*limit questions by incorrect-answer
// count, then reorder the shortlist by a difficulty/mandatory priority and
// take limit. The count ordering survives as the tie-break because the second
// sort is stable.
func (s *weakQuestionService) GetWeakQuestions(userID, examType string, limit int) ([]uint, error) {
	counts, err := s.answerRepo.CountIncorrectByQuestion(userID, examType, 2*limit)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Failed to aggregate incorrect answers")
		return nil, err
	}

	if len(counts) == 0 {
		questions, err := s.questionRepo.FindHighDifficulty(examType, limit)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(questions))
		for _, q := range questions {
			ids = append(ids, q.ID)
		}
		return ids, nil
	}

	shortlistIDs := make([]uint, 0, len(counts))
	for _, c := range counts {
		shortlistIDs = append(shortlistIDs, c.QuestionID)
	}
	questions, err := s.questionRepo.FindByIDs(shortlistIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	type ranked struct {
		id       uint
		priority int
	}
	// Questions deleted since they were answered drop out here.
	rankedList := make([]ranked, 0, len(counts))
	for _, c := range counts {
		q, ok := byID[c.QuestionID]
		if !ok {
			continue
		}
		rankedList = append(rankedList, ranked{id: q.ID, priority: weakPriority(q)})
	}

	sort.SliceStable(rankedList, func(i, j int) bool {
		return rankedList[i].priority > rankedList[j].priority
	})

	if len(rankedList) > limit {
		rankedList = rankedList[:limit]
	}
	ids := make([]uint, 0, len(rankedList))
	for _, r := range rankedList {
		ids = append(ids, r.id)
	}
	return ids, nil
}

func weakPriority(q model.Question) int {
	rank := 2
	switch q.Difficulty {
	case model.DifficultyLow:
		rank = 1
	case model.DifficultyMid:
		rank = 2
	case model.DifficultyHigh:
		rank = 3
	}
	if q.IsMandatory {
		rank *= 2
	}
	return rank
}
