package model

type ChallengeKind string

const (
	ChallengeGeneralKnowledge ChallengeKind = "general"
	ChallengeMathQuiz         ChallengeKind = "math_quiz"
	ChallengeReading          ChallengeKind = "reading"
	ChallengeSpelling         ChallengeKind = "spelling"
	ChallengeMathProblems     ChallengeKind = "math"
)

func (k ChallengeKind) Valid() bool {
	switch k {
	case ChallengeGeneralKnowledge, ChallengeMathQuiz, ChallengeReading, ChallengeSpelling, ChallengeMathProblems:
		return true
	}
	return false
}

type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

type ReadingChallenge struct {
	Title              string   `json:"title"`
	Story              string   `json:"story"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

type SpellingChallenge struct {
	Word            string `json:"word"`
	Hint            string `json:"hint"`
	ContextSentence string `json:"contextSentence"`
}

type MathProblem struct {
	Question string  `json:"question"`
	Answer   float64 `json:"answer"`
}
