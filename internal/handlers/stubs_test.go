package handlers

import (
	"context"
	"errors"

	"quizforge-backend/internal/models"
)

type stubGenerator struct {
	questions []models.Question
	err       error
	lastReq   models.GenerationRequest
	calls     int
}

func (s *stubGenerator) Generate(ctx context.Context, req models.GenerationRequest) ([]models.Question, error) {
	s.calls++
	s.lastReq = req
	return s.questions, s.err
}

type stubAssembler struct {
	questions []models.Question
	lastReq   models.GenerationRequest
	lastSeed  []string
	calls     int
}

func (s *stubAssembler) AssembleUnique(ctx context.Context, req models.GenerationRequest, seed []string) []models.Question {
	s.calls++
	s.lastReq = req
	s.lastSeed = seed
	if s.questions == nil {
		return []models.Question{}
	}
	return s.questions
}

type stubExtractor struct {
	text string
	err  error
	data []byte
}

func (s *stubExtractor) ExtractPDF(data []byte) (string, error) {
	s.data = data
	return s.text, s.err
}

type stubCorpus struct {
	known       []string
	err         error
	added       []models.Question
	addedTopics [][]string
	lookups     [][]string
}

func (s *stubCorpus) KnownQuestions(ctx context.Context, topics []string) ([]string, error) {
	s.lookups = append(s.lookups, topics)
	return s.known, s.err
}

func (s *stubCorpus) AddQuestions(ctx context.Context, topics []string, questions []models.Question) error {
	s.added = append(s.added, questions...)
	s.addedTopics = append(s.addedTopics, topics)
	return s.err
}

type stubSummarizer struct {
	perTopic      map[string]string
	summary       string
	longTerm      string
	perTopicCalls int
	summaryCalls  int
	longTermCalls int
}

func (s *stubSummarizer) PerTopic(ctx context.Context, correct, wrong []models.AnsweredItem) map[string]string {
	s.perTopicCalls++
	return s.perTopic
}

func (s *stubSummarizer) Summary(ctx context.Context, correct, wrong []models.AnsweredItem) string {
	s.summaryCalls++
	return s.summary
}

func (s *stubSummarizer) LongTerm(ctx context.Context, allCorrect, allWrong []models.AnsweredItem) string {
	s.longTermCalls++
	return s.longTerm
}

func (s *stubSummarizer) calls() int {
	return s.perTopicCalls + s.summaryCalls + s.longTermCalls
}

type stubHistory struct {
	correct       []models.AnsweredItem
	wrong         []models.AnsweredItem
	err           error
	lastCandidate string
	recorded      int
}

func (s *stubHistory) GetAnswers(ctx context.Context, candidate string) ([]models.AnsweredItem, []models.AnsweredItem, error) {
	s.lastCandidate = candidate
	return s.correct, s.wrong, s.err
}

func (s *stubHistory) RecordAnswers(ctx context.Context, candidate string, correct, wrong []models.AnsweredItem) error {
	s.lastCandidate = candidate
	if s.err != nil {
		return s.err
	}
	s.recorded += len(correct) + len(wrong)
	return nil
}

var errStore = errors.New("store unavailable")

func sampleQuestions(texts ...string) []models.Question {
	out := make([]models.Question, len(texts))
	for i, text := range texts {
		out[i] = models.Question{
			ID:            text,
			Type:          models.QuestionTypeMCQ,
			Topic:         "SQL",
			Question:      text,
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "a",
			Explanation:   "because",
		}
	}
	return out
}
