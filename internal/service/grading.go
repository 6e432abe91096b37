package service

import (
	"corp_lms_backend/internal/model"
	"math"
)

// scoreObjective gives full weight for the correct option and zero otherwise.
// There is no partial credit and no negative marking.
func scoreObjective(q *model.Question, selectedOptionID string) float64 {
	if selectedOptionID != "" && selectedOptionID == q.CorrectAnswer {
		return q.Weight
	}
	return 0
}

// clampManualScore bounds a reviewer-assigned score to [0, weight]. The 0.5
// step is a UI convention; the server only enforces the range.
func clampManualScore(score, weight float64) float64 {
	if score < 0 {
		return 0
	}
	if score > weight {
		return weight
	}
	return score
}

// finalPercentage computes round(100 * earned / total), with a zero-weight
// guard so an empty quiz never divides by zero.
func finalPercentage(autoScore, manualScore, totalWeight float64) int {
	if totalWeight <= 0 {
		return 0
	}
	return int(math.Round(100 * (autoScore + manualScore) / totalWeight))
}

// quizWeights splits a quiz's total weight into the auto-gradable and
// manually graded portions.
func quizWeights(questions []model.Question) (objective, manual float64) {
	for _, q := range questions {
		if q.Type.IsObjective() {
			objective += q.Weight
		} else {
			manual += q.Weight
		}
	}
	return objective, manual
}
