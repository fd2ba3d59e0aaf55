package service

import (
	"testing"

	"github.com/knakai/examprep/internal/model"
	"github.com/stretchr/testify/assert"
)

func q(difficulty string, mandatory bool) model.Question {
	return model.Question{Difficulty: difficulty, IsMandatory: mandatory}
}

func TestAnswerWeight(t *testing.T) {
	assert.InDelta(t, 0.8, AnswerWeight(q(model.DifficultyLow, false)), 1e-9)
	assert.InDelta(t, 1.0, AnswerWeight(q(model.DifficultyMid, false)), 1e-9)
	assert.InDelta(t, 1.2, AnswerWeight(q(model.DifficultyHigh, false)), 1e-9)
	assert.InDelta(t, 1.8, AnswerWeight(q(model.DifficultyHigh, true)), 1e-9)
	assert.InDelta(t, 1.5, AnswerWeight(q(model.DifficultyMid, true)), 1e-9)

	// Unknown difficulty strings count as MID weight.
	assert.InDelta(t, 1.0, AnswerWeight(q("EXTREME", false)), 1e-9)
}

func TestComputeSessionScore_EmptyBatch(t *testing.T) {
	assert.Equal(t, 0.0, ComputeSessionScore(nil))
	assert.Equal(t, 0.0, ComputeSessionScore([]ScoredAnswer{}))
}

func TestComputeSessionScore_UniformWeights(t *testing.T) {
	// Both MID non-mandatory, one correct: base and weighted agree at 50.
	score := ComputeSessionScore([]ScoredAnswer{
		{Question: q(model.DifficultyMid, false), Correct: true},
		{Question: q(model.DifficultyMid, false), Correct: false},
	})
	assert.Equal(t, 50.0, score)
}

func TestComputeSessionScore_WeightedBlend(t *testing.T) {
	// Correct HIGH mandatory (1.8) against incorrect LOW (0.8):
	// base=50, weighted=100*1.8/2.6, final rounds to 61.54.
	score := ComputeSessionScore([]ScoredAnswer{
		{Question: q(model.DifficultyHigh, true), Correct: true},
		{Question: q(model.DifficultyLow, false), Correct: false},
	})
	assert.Equal(t, 61.54, score)
}

func TestComputeSessionScore_Bounds(t *testing.T) {
	allCorrect := []ScoredAnswer{
		{Question: q(model.DifficultyLow, false), Correct: true},
		{Question: q(model.DifficultyHigh, true), Correct: true},
	}
	assert.Equal(t, 100.0, ComputeSessionScore(allCorrect))

	allWrong := []ScoredAnswer{
		{Question: q(model.DifficultyLow, false), Correct: false},
		{Question: q(model.DifficultyHigh, true), Correct: false},
	}
	assert.Equal(t, 0.0, ComputeSessionScore(allWrong))
}

func TestComputeSessionScore_HardCorrectOutscoresEasyCorrect(t *testing.T) {
	hardCorrect := ComputeSessionScore([]ScoredAnswer{
		{Question: q(model.DifficultyHigh, false), Correct: true},
		{Question: q(model.DifficultyLow, false), Correct: false},
	})
	easyCorrect := ComputeSessionScore([]ScoredAnswer{
		{Question: q(model.DifficultyHigh, false), Correct: false},
		{Question: q(model.DifficultyLow, false), Correct: true},
	})
	assert.Greater(t, hardCorrect, easyCorrect)
}
