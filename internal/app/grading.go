package app

import "blurt-quest-service/internal/domain"

// gradeResult is the outcome of scoring one submission.
type gradeResult struct {
	Correct   int
	Points    int
	Passed    bool
	Threshold float64
}

// gradeSubmission scores answers positionally against the level's question
// set. Points accumulate for correct answers only. The pass threshold is
// 60% of the question count with a non-strict comparison, so 3/5 passes.
func gradeSubmission(questions []domain.Question, answers []int) (gradeResult, error) {
	if len(answers) != len(questions) {
		return gradeResult{}, domain.ErrAnswerCountMismatch
	}

	result := gradeResult{Threshold: float64(len(questions)) * domain.PassRatio}
	for i, q := range questions {
		if answers[i] == q.CorrectAnswer {
			result.Correct++
			result.Points += q.Points
		}
	}
	result.Passed = float64(result.Correct) >= result.Threshold
	return result, nil
}
