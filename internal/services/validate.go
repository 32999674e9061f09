package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quizforge-backend/internal/models"
)

// requiredFields lists the keys each question type must carry.
var requiredFields = map[models.QuestionType][]string{
	models.QuestionTypeMCQ:       {"topic", "question", "options", "correct_answer", "explanation"},
	models.QuestionTypeTrueFalse: {"topic", "question", "options", "correct_answer", "explanation"},
	models.QuestionTypeFillBlank: {"topic", "question_parts", "correct_answer", "explanation"},
}

var trueFalseOptions = []string{"True", "False"}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ValidateQuestions keeps the elements of a JSON array that satisfy their
// declared type's shape. Invalid elements are dropped without error; an
// empty result is not an error. Only a payload that is not an array fails.
func ValidateQuestions(payload json.RawMessage) ([]models.Question, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array: %v", ErrInvalidJSON, err)
	}

	valid := make([]models.Question, 0, len(items))
	for _, item := range items {
		q, ok := validateQuestion(item)
		if !ok {
			continue
		}
		valid = append(valid, q)
	}
	return valid, nil
}

func validateQuestion(item json.RawMessage) (models.Question, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return models.Question{}, false
	}

	var tag string
	if raw, ok := fields["type"]; !ok || json.Unmarshal(raw, &tag) != nil {
		return models.Question{}, false
	}
	qType := models.QuestionType(strings.TrimSpace(tag))
	required, known := requiredFields[qType]
	if !known {
		return models.Question{}, false
	}
	for _, key := range required {
		if raw, ok := fields[key]; !ok || isJSONNull(raw) {
			return models.Question{}, false
		}
	}

	var q models.Question
	if err := json.Unmarshal(item, &q); err != nil {
		return models.Question{}, false
	}
	q.Type = qType
	q.Topic = strings.TrimSpace(q.Topic)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	if q.Topic == "" || q.CorrectAnswer == "" {
		return models.Question{}, false
	}

	switch qType {
	case models.QuestionTypeMCQ:
		if strings.TrimSpace(q.Question) == "" || len(q.Options) != 4 {
			return models.Question{}, false
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return models.Question{}, false
			}
		}
		if !containsOption(q.Options, q.CorrectAnswer) {
			return models.Question{}, false
		}
		q.QuestionParts = nil

	case models.QuestionTypeTrueFalse:
		if strings.TrimSpace(q.Question) == "" || len(q.Options) != 2 {
			return models.Question{}, false
		}
		for i, opt := range q.Options {
			if !strings.EqualFold(strings.TrimSpace(opt), trueFalseOptions[i]) {
				return models.Question{}, false
			}
		}
		answer := canonicalTrueFalse(q.CorrectAnswer)
		if answer == "" {
			return models.Question{}, false
		}
		q.Options = append([]string(nil), trueFalseOptions...)
		q.CorrectAnswer = answer
		q.QuestionParts = nil

	case models.QuestionTypeFillBlank:
		if len(q.QuestionParts) < 2 {
			return models.Question{}, false
		}
		q.Options = nil
	}

	q.ID = uuid.NewString()
	q.Attempted = false
	return q, true
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if strings.TrimSpace(opt) == answer {
			return true
		}
	}
	return false
}

func canonicalTrueFalse(answer string) string {
	for _, opt := range trueFalseOptions {
		if strings.EqualFold(answer, opt) {
			return opt
		}
	}
	return ""
}
