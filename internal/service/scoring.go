package service

import (
	"math"

	"github.com/knakai/examprep/internal/model"
)

// ScoredAnswer pairs a resolved question with the correctness of the
// caller's answer to it.
type ScoredAnswer struct {
	Question model.Question
	Correct  bool
}

// AnswerWeight is the difficulty weight of one question. Unknown difficulty
// strings fall back to the MID weight; mandatory questions count half again.
func AnswerWeight(q model.Question) float64 {
	var w float64
	switch q.Difficulty {
	case model.DifficultyLow:
		w = 0.8
	case model.DifficultyMid:
		w = 1.0
	case model.DifficultyHigh:
		w = 1.2
	default:
		w = 1.0
	}
	if q.IsMandatory {
		w *= 1.5
	}
	return w
}

// ComputeSessionScore blends the plain accuracy ratio with the
// difficulty-weighted ratio (40/60) on a 0-100 scale, rounded to two
// decimals. An empty batch scores 0.
func ComputeSessionScore(answers []ScoredAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}

	correct := 0
	var weightTotal, weightCorrect float64
	for _, a := range answers {
		w := AnswerWeight(a.Question)
		weightTotal += w
		if a.Correct {
			correct++
			weightCorrect += w
		}
	}

	base := 100 * float64(correct) / float64(len(answers))
	weighted := 0.0
	if weightTotal > 0 {
		weighted = 100 * weightCorrect / weightTotal
	}

	final := 0.4*base + 0.6*weighted
	return math.Round(final*100) / 100
}
