package models

import "strings"

const DefaultTopic = "General"

// AnsweredItem is a question as the client returns it after the user answered.
type AnsweredItem struct {
	Type          QuestionType `json:"type,omitempty"`
	Topic         string       `json:"topic,omitempty"`
	Question      string       `json:"question,omitempty"`
	QuestionParts []string     `json:"question_parts,omitempty"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	UserAnswer    string       `json:"user_answer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
}

// TopicName returns the item's topic, or DefaultTopic when absent.
func (a AnsweredItem) TopicName() string {
	if t := strings.TrimSpace(a.Topic); t != "" {
		return t
	}
	return DefaultTopic
}

type TopicPerformance struct {
	Correct []AnsweredItem `json:"correct"`
	Wrong   []AnsweredItem `json:"wrong"`
}
