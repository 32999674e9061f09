package handlers

import (
	"strings"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/services"
)

const (
	defaultNumQuestions    = 5
	defaultPDFNumQuestions = 10
	defaultPDFDifficulty   = "Medium"
	maxNumQuestions        = 50
)

// parseQuestionTypes lower-cases and de-duplicates the requested tags.
// An empty list means mcq only; an unknown tag is a validation error.
func parseQuestionTypes(raw []string) ([]models.QuestionType, map[string]string) {
	var types []models.QuestionType
	seen := make(map[models.QuestionType]bool)
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		t := models.QuestionType(s)
		if !t.Valid() {
			return nil, map[string]string{"question_types": "Unsupported question type: " + s}
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		types = []models.QuestionType{models.QuestionTypeMCQ}
	}
	return types, nil
}

func buildGenerationRequest(topics []string, difficulty string, count int, rawTypes []string, requireTopics bool) (models.GenerationRequest, *services.ValidationError) {
	fields := make(map[string]string)

	if requireTopics && len(topics) == 0 {
		fields["topic"] = "Topic is required"
	}
	difficulty = strings.TrimSpace(difficulty)
	if difficulty == "" {
		fields["difficulty"] = "Difficulty is required"
	}
	if count <= 0 || count > maxNumQuestions {
		fields["num_questions"] = "Number of questions must be between 1 and 50"
	}
	types, typeErr := parseQuestionTypes(rawTypes)
	for k, v := range typeErr {
		fields[k] = v
	}

	if len(fields) > 0 {
		return models.GenerationRequest{}, &services.ValidationError{Fields: fields}
	}

	return models.GenerationRequest{
		Topics:        topics,
		Difficulty:    difficulty,
		Count:         count,
		QuestionTypes: types,
	}, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cleanTexts(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
