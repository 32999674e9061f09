package models

type GenerateQuizRequest struct {
	Topic          TopicList `json:"topic"`
	Difficulty     string    `json:"difficulty"`
	NumQuestions   *int      `json:"num_questions"`
	QuestionTypes  []string  `json:"question_types"`
	KnownQuestions []string  `json:"known_questions"`
	Deduplicate    *bool     `json:"deduplicate"`
}

type GenerateFromPDFResponse struct {
	Questions []Question `json:"questions"`
}

type FeedbackRequest struct {
	CorrectAnswers *[]AnsweredItem `json:"correct_answers"`
	WrongAnswers   *[]AnsweredItem `json:"wrong_answers"`
	Mode           string          `json:"mode"`
}

type LongTermFeedbackRequest struct {
	CandidateName string `json:"candidate_name"`
}

type RecordAnswersRequest struct {
	CandidateName  string         `json:"candidate_name"`
	CorrectAnswers []AnsweredItem `json:"correct_answers"`
	WrongAnswers   []AnsweredItem `json:"wrong_answers"`
}

// FeedbackResponse carries either a single text or a topic -> text mapping.
type FeedbackResponse struct {
	Feedback interface{} `json:"feedback"`
}

// ErrorResponse is the caller-facing failure envelope.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}
