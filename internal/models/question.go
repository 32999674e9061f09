package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "mcq"
	QuestionTypeTrueFalse QuestionType = "true_false"
	QuestionTypeFillBlank QuestionType = "fill_in_the_blank"
)

// KnownQuestionTypes lists the tags the validator accepts, in prompt order.
var KnownQuestionTypes = []QuestionType{QuestionTypeMCQ, QuestionTypeTrueFalse, QuestionTypeFillBlank}

func (t QuestionType) Valid() bool {
	for _, k := range KnownQuestionTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Question is a tagged union over the three question types. Options is only
// set for mcq/true_false, QuestionParts only for fill_in_the_blank.
type Question struct {
	ID            string       `json:"id,omitempty"`
	Type          QuestionType `json:"type"`
	Topic         string       `json:"topic"`
	Question      string       `json:"question,omitempty"`
	QuestionParts []string     `json:"question_parts,omitempty"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Attempted     bool         `json:"attempted"`
}

// Text returns the text used to compare questions for duplication.
func (q Question) Text() string {
	if q.Type == QuestionTypeFillBlank {
		return strings.Join(q.QuestionParts, "____")
	}
	return q.Question
}

type DuplicateVerdict struct {
	IsDuplicate bool    `json:"is_duplicate"`
	DuplicateOf *string `json:"duplicate_of"`
	Reason      string  `json:"reason"`
}

type GenerationRequest struct {
	Topics        []string       `json:"topics"`
	Difficulty    string         `json:"difficulty"`
	Count         int            `json:"count"`
	QuestionTypes []QuestionType `json:"question_types"`

	// SourceText grounds generation in an uploaded document instead of topics.
	SourceText string `json:"-"`
}

// TopicList accepts either a single string or an array of strings.
type TopicList []string

func (t *TopicList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if s := strings.TrimSpace(single); s != "" {
			*t = TopicList{s}
		} else {
			*t = nil
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("topic must be a string or an array of strings")
	}
	out := make(TopicList, 0, len(many))
	seen := make(map[string]bool, len(many))
	for _, s := range many {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	*t = out
	return nil
}
