package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"quizforge-backend/internal/models"
)

const (
	TopicFeedbackApology    = "Sorry, an error occurred while generating feedback for this topic."
	SummaryFeedbackApology  = "Sorry, an error occurred while generating feedback."
	LongTermFeedbackApology = "Sorry, an error occurred while analyzing the performance history."
)

type FeedbackService struct {
	completer Completer
	pacing    time.Duration
}

func NewFeedbackService(completer Completer, pacing time.Duration) *FeedbackService {
	return &FeedbackService{completer: completer, pacing: pacing}
}

// GroupByTopic partitions answers by topic, keeping first-seen topic order.
func GroupByTopic(correct, wrong []models.AnsweredItem) ([]string, map[string]*models.TopicPerformance) {
	var order []string
	groups := make(map[string]*models.TopicPerformance)

	get := func(topic string) *models.TopicPerformance {
		perf, ok := groups[topic]
		if !ok {
			perf = &models.TopicPerformance{}
			groups[topic] = perf
			order = append(order, topic)
		}
		return perf
	}

	for _, item := range correct {
		perf := get(item.TopicName())
		perf.Correct = append(perf.Correct, item)
	}
	for _, item := range wrong {
		perf := get(item.TopicName())
		perf.Wrong = append(perf.Wrong, item)
	}
	return order, groups
}

// PerTopic issues one completion per topic, one at a time, paced by a
// limiter. A failed topic gets TopicFeedbackApology; the others still run.
func (s *FeedbackService) PerTopic(ctx context.Context, correct, wrong []models.AnsweredItem) map[string]string {
	order, groups := GroupByTopic(correct, wrong)
	result := make(map[string]string, len(order))

	limit := rate.Inf
	if s.pacing > 0 {
		limit = rate.Every(s.pacing)
	}
	limiter := rate.NewLimiter(limit, 1)

	for _, topic := range order {
		if err := limiter.Wait(ctx); err != nil {
			log.Printf("feedback: pacing aborted at topic %q: %v", topic, err)
			result[topic] = TopicFeedbackApology
			continue
		}

		perf := groups[topic]
		text, err := s.completer.Complete(ctx, buildTopicFeedbackPrompt(topic, perf))
		if err != nil || strings.TrimSpace(text) == "" {
			log.Printf("feedback: topic %q (correct=%d, wrong=%d) failed: %v", topic, len(perf.Correct), len(perf.Wrong), err)
			result[topic] = TopicFeedbackApology
			continue
		}
		result[topic] = strings.TrimSpace(text)
	}
	return result
}

// Summary returns one short, balanced paragraph for a single quiz.
func (s *FeedbackService) Summary(ctx context.Context, correct, wrong []models.AnsweredItem) string {
	text, err := s.completer.Complete(ctx, buildSummaryFeedbackPrompt(correct, wrong))
	if err != nil || strings.TrimSpace(text) == "" {
		log.Printf("feedback: summary (correct=%d, wrong=%d) failed: %v", len(correct), len(wrong), err)
		return SummaryFeedbackApology
	}
	return strings.TrimSpace(text)
}

// LongTerm analyzes a candidate's entire answer history in one completion.
func (s *FeedbackService) LongTerm(ctx context.Context, allCorrect, allWrong []models.AnsweredItem) string {
	text, err := s.completer.Complete(ctx, buildLongTermFeedbackPrompt(allCorrect, allWrong))
	if err != nil || strings.TrimSpace(text) == "" {
		log.Printf("feedback: long-term (correct=%d, wrong=%d) failed: %v", len(allCorrect), len(allWrong), err)
		return LongTermFeedbackApology
	}
	return strings.TrimSpace(text)
}

func buildTopicFeedbackPrompt(topic string, perf *models.TopicPerformance) string {
	var b strings.Builder
	b.WriteString("You are a helpful AI teaching assistant. A student has just finished a quiz.\n")
	b.WriteString(fmt.Sprintf("Focus only on the topic %q.\n\n", topic))
	b.WriteString("Questions they answered CORRECTLY on this topic:\n")
	b.WriteString(indentJSON(perf.Correct))
	b.WriteString("\n\nQuestions they answered INCORRECTLY on this topic:\n")
	b.WriteString(indentJSON(perf.Wrong))
	b.WriteString("\n\nGive encouraging, specific feedback for this topic: name what they understand and the one concept to review next. Keep it under 25 words. Address the student as 'you'. Return plain text only.\n")
	return b.String()
}

func buildSummaryFeedbackPrompt(correct, wrong []models.AnsweredItem) string {
	var b strings.Builder
	b.WriteString("You are a helpful AI teaching assistant. A student has just finished a quiz.\n\n")
	b.WriteString("Here are the questions they answered CORRECTLY:\n")
	b.WriteString(indentJSON(correct))
	b.WriteString("\n\nHere are the questions they answered INCORRECTLY:\n")
	b.WriteString(indentJSON(wrong))
	b.WriteString(`

Your task is to provide feedback that is both encouraging and helpful. Follow these rules:
1. Acknowledge their strengths based on the topics of the correct answers.
2. Briefly point out 1-2 topics they could improve on, based on the wrong answers.
3. Keep the entire feedback short, positive, and under 75 words.
`)
	return b.String()
}

func buildLongTermFeedbackPrompt(allCorrect, allWrong []models.AnsweredItem) string {
	var b strings.Builder
	b.WriteString("You are an expert data analyst and programming tutor. You are analyzing a student's entire quiz history to give them personalized feedback.\n\n")
	b.WriteString("Address the user directly using 'you' and 'your'.\n\n")
	b.WriteString("STRENGTHS (questions they answered correctly):\n")
	b.WriteString(indentJSON(allCorrect))
	b.WriteString("\n\nWEAKNESSES (questions they answered incorrectly):\n")
	b.WriteString(indentJSON(allWrong))
	b.WriteString("\n\nBased on this complete history, provide a concise, balanced summary under 90 words. Start by praising their specific, recurring strengths. Then, identify the 1-2 most critical concepts they need to review to improve.\n")
	return b.String()
}

func indentJSON(items []models.AnsweredItem) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}
