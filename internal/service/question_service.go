package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/knakai/examprep/internal/dto"
	"github.com/knakai/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuestionService interface {
	GetQuestion(id uint) (*dto.QuestionResponseDTO, error)
}

type questionService struct {
	repo repository.QuestionRepository
}

func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{repo: repo}
}

func (s *questionService) GetQuestion(id uint) (*dto.QuestionResponseDTO, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to load question")
		return nil, err
	}

	var resp dto.QuestionResponseDTO
	copier.Copy(&resp, question)
	return &resp, nil
}
