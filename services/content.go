package services

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"context"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
)

// ContentService is the boundary to the external challenge generator. Every
// kind degrades to a deterministic built-in set when the generator is
// unconfigured, slow or failing, so the unlock flow stays completable
// offline. Generator trouble is never surfaced as an error.
type ContentService struct {
	appContext.DefaultService

	client  *openai.Client
	model   string
	timeout time.Duration
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *appContext.Context) error {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		svc.client = openai.NewClient(key)
	}
	svc.model = os.Getenv("OPENAI_MODEL")
	if svc.model == "" {
		svc.model = openai.GPT4oMini
	}
	svc.timeout = 30 * time.Second
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	if svc.client == nil {
		log.Warn("No OPENAI_API_KEY set, challenge generation uses built-in fallback sets")
	}
	return nil
}

// Generate produces a challenge set of the given kind, scaled to the child's
// age. Unknown kinds yield an empty set rather than an error.
func (svc *ContentService) Generate(kind model.ChallengeKind, age, count int) *dto.ChallengeSetResponse {
	if count <= 0 {
		count = 20
	}
	resp := &dto.ChallengeSetResponse{Kind: kind}

	switch kind {
	case model.ChallengeGeneralKnowledge:
		resp.Questions, resp.Fallback = svc.quizQuestions(generalKnowledgePrompt(age, count), fallbackGeneralKnowledge, count)
	case model.ChallengeMathQuiz:
		resp.Questions, resp.Fallback = svc.quizQuestions(mathQuizPrompt(age, count), fallbackMathQuiz, count)
	case model.ChallengeReading:
		resp.Readings, resp.Fallback = generate(svc, readingPrompt(age, count), fallbackReading, count)
	case model.ChallengeSpelling:
		resp.Spellings, resp.Fallback = generate(svc, spellingPrompt(age, count), fallbackSpelling, count)
	case model.ChallengeMathProblems:
		resp.Problems, resp.Fallback = generate(svc, mathProblemsPrompt(age, count), fallbackMathProblems, count)
	default:
		log.WithField("kind", kind).Warn("Ignoring unknown challenge kind")
	}

	if resp.Fallback {
		challengeFallbackTotal.Inc()
	}
	return resp
}

// UnlockQuiz builds the unlock challenge: half general knowledge, half math,
// shuffled together and truncated to the configured count.
func (svc *ContentService) UnlockQuiz(age, count int) []model.QuizQuestion {
	if count <= 0 {
		count = 40
	}
	gkCount := (count + 1) / 2
	mathCount := count / 2

	gk, _ := svc.quizQuestions(generalKnowledgePrompt(age, gkCount), fallbackGeneralKnowledge, gkCount)
	math, _ := svc.quizQuestions(mathQuizPrompt(age, mathCount), fallbackMathQuiz, mathCount)

	combined := append(gk, math...)
	rand.Shuffle(len(combined), func(i, j int) {
		combined[i], combined[j] = combined[j], combined[i]
	})
	if len(combined) > count {
		combined = combined[:count]
	}
	return combined
}

func (svc *ContentService) quizQuestions(prompt string, fallback func(i int) model.QuizQuestion, count int) ([]model.QuizQuestion, bool) {
	return generate(svc, prompt, fallback, count)
}

// generate asks the model for {"items":[...]} and parses it into the typed
// list; any failure fills the set from the deterministic fallback instead.
func generate[T any](svc *ContentService, prompt string, fallback func(i int) T, count int) ([]T, bool) {
	if svc.client != nil {
		if items, err := complete[T](svc, prompt); err != nil {
			log.WithError(err).Warn("Challenge generation failed, using fallback set")
		} else if len(items) > 0 {
			if len(items) > count {
				items = items[:count]
			}
			return items, false
		}
	}

	items := make([]T, count)
	for i := range items {
		items[i] = fallback(i)
	}
	return items, true
}

func complete[T any](svc *ContentService, prompt string) ([]T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), svc.timeout)
	defer cancel()

	resp, err := svc.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: svc.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You generate age-appropriate learning content for children. Respond with a single JSON object of the form {\"items\": [...]} and nothing else."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion")
	}

	var parsed struct {
		Items []T `json:"items"`
	}
	if err := sonic.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, err
	}
	return parsed.Items, nil
}

func generalKnowledgePrompt(age, count int) string {
	return fmt.Sprintf(`Generate %d distinct, fun, multiple-choice trivia questions suitable for a %d year old child.
Topics can include science, history, geography, space, and nature.
Each item has fields: question (string), options (array of 4 strings), correctAnswerIndex (number 0-3), explanation (string).`, count, age)
}

func mathQuizPrompt(age, count int) string {
	return fmt.Sprintf(`Generate %d distinct multiple-choice math word problems or equations suitable for a %d year old child.
Ensure the difficulty is appropriate.
Each item has fields: question (string), options (array of 4 strings), correctAnswerIndex (number 0-3), explanation (string).`, count, age)
}

func readingPrompt(age, count int) string {
	return fmt.Sprintf(`Generate %d distinct, short reading comprehension tasks suitable for a %d year old child.
Each task must have a title, a short text appropriate for the age, and one multiple-choice question about it.
Each item has fields: title, story, question, options (array of 4 strings), correctAnswerIndex (number 0-3).`, count, age)
}

func spellingPrompt(age, count int) string {
	return fmt.Sprintf(`Generate %d distinct spelling words suitable for a %d year old child.
Each item has fields: word (string), hint (string - definition), contextSentence (string - using the word).`, count, age)
}

func mathProblemsPrompt(age, count int) string {
	return fmt.Sprintf(`Generate %d different math problems suitable for a %d year old child.
Ensure the difficulty matches the age (e.g. simple addition for young kids, algebra for teens).
The answer must be a number.
Each item has fields: question (string), answer (number).`, count, age)
}

func fallbackGeneralKnowledge(i int) model.QuizQuestion {
	return model.QuizQuestion{
		Question:           fmt.Sprintf("GK Q%d: What is the capital of France?", i+1),
		Options:            []string{"Paris", "London", "Berlin", "Madrid"},
		CorrectAnswerIndex: 0,
		Explanation:        "Paris is the capital of France.",
	}
}

func fallbackMathQuiz(i int) model.QuizQuestion {
	return model.QuizQuestion{
		Question:           fmt.Sprintf("Math Q%d: What is %d + %d?", i+1, i+2, i+3),
		Options:            []string{fmt.Sprint(i + 5), fmt.Sprint(i + 4), fmt.Sprint(i + 6), fmt.Sprint(i + 7)},
		CorrectAnswerIndex: 0,
		Explanation:        fmt.Sprintf("%d + %d equals %d.", i+2, i+3, i+5),
	}
}

var fallbackStories = []model.ReadingChallenge{
	{
		Title:              "The Lost Kite",
		Story:              "Maya's red kite slipped from her hands and sailed over the park fence. She followed it past the pond until it snagged in an old oak tree, where a friendly neighbor helped her shake it loose.",
		Question:           "Where did Maya's kite end up?",
		Options:            []string{"In an oak tree", "In the pond", "On the roof", "Under a bench"},
		CorrectAnswerIndex: 0,
	},
	{
		Title:              "A Trip to the Moon",
		Story:              "Astronauts travel to space in rockets. The Moon is much closer to Earth than the Sun, yet the journey still takes about three days because the Moon is hundreds of thousands of kilometers away.",
		Question:           "About how long does the journey to the Moon take?",
		Options:            []string{"Three days", "Three hours", "Three weeks", "Three months"},
		CorrectAnswerIndex: 0,
	},
	{
		Title:              "The Busy Bees",
		Story:              "Bees visit flowers to collect nectar, which they turn into honey back at the hive. While they work, pollen sticks to their legs and gets carried from flower to flower, helping plants make seeds.",
		Question:           "What do bees collect from flowers?",
		Options:            []string{"Nectar", "Leaves", "Seeds", "Water"},
		CorrectAnswerIndex: 0,
	},
}

func fallbackReading(i int) model.ReadingChallenge {
	return fallbackStories[i%len(fallbackStories)]
}

var fallbackWords = []model.SpellingChallenge{
	{Word: "because", Hint: "For the reason that", ContextSentence: "We stayed inside because it was raining."},
	{Word: "friend", Hint: "A person you like and trust", ContextSentence: "My best friend lives next door."},
	{Word: "together", Hint: "With each other", ContextSentence: "The team worked together on the project."},
	{Word: "beautiful", Hint: "Very pretty to look at", ContextSentence: "The sunset was beautiful tonight."},
	{Word: "different", Hint: "Not the same", ContextSentence: "Every snowflake is different."},
}

func fallbackSpelling(i int) model.SpellingChallenge {
	return fallbackWords[i%len(fallbackWords)]
}

func fallbackMathProblems(i int) model.MathProblem {
	return model.MathProblem{
		Question: fmt.Sprintf("What is %d + %d?", i+2, i+3),
		Answer:   float64(i + 5),
	}
}
