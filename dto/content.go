package dto

import "github.com/guardianlock/guardian_api/model"

// ChallengeSetResponse carries at most one non-nil list depending on the
// requested kind. Fallback reports whether the built-in set was used because
// the generator was unavailable.
type ChallengeSetResponse struct {
	Kind      model.ChallengeKind       `json:"kind"`
	Fallback  bool                      `json:"fallback"`
	Questions []model.QuizQuestion      `json:"questions,omitempty"`
	Readings  []model.ReadingChallenge  `json:"readings,omitempty"`
	Spellings []model.SpellingChallenge `json:"spellings,omitempty"`
	Problems  []model.MathProblem       `json:"problems,omitempty"`
}
