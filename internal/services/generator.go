package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"quizforge-backend/internal/models"
)

// QuestionGenerator produces candidate questions for a request.
type QuestionGenerator interface {
	Generate(ctx context.Context, req models.GenerationRequest) ([]models.Question, error)
}

type QuizGenerator struct {
	completer          Completer
	maxCompletionBytes int
	maxDocumentChars   int
}

func NewQuizGenerator(completer Completer, maxCompletionBytes, maxDocumentChars int) *QuizGenerator {
	return &QuizGenerator{
		completer:          completer,
		maxCompletionBytes: maxCompletionBytes,
		maxDocumentChars:   maxDocumentChars,
	}
}

// Generate issues a single completion and returns the validated questions.
// The returned count may differ from req.Count; an empty slice is not an error.
func (g *QuizGenerator) Generate(ctx context.Context, req models.GenerationRequest) ([]models.Question, error) {
	prompt := buildQuizPrompt(req, g.maxDocumentChars)

	rawText, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		log.Printf("generate: completion failed (topics=%v, count=%d): %v", req.Topics, req.Count, err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	payload, err := ExtractJSON(rawText, JSONArray, g.maxCompletionBytes)
	if err != nil {
		log.Printf("generate: could not extract question array (topics=%v): %v; raw=%q", req.Topics, err, truncate(rawText, 500))
		return nil, err
	}

	questions, err := ValidateQuestions(payload)
	if err != nil {
		log.Printf("generate: payload is not a question array (topics=%v): %v", req.Topics, err)
		return nil, err
	}

	if dropped := countArrayItems(payload) - len(questions); dropped > 0 {
		log.Printf("generate: dropped %d invalid question(s)", dropped)
	}
	return questions, nil
}

func buildQuizPrompt(req models.GenerationRequest, maxDocumentChars int) string {
	var b strings.Builder

	typeLabels := make([]string, len(req.QuestionTypes))
	for i, t := range req.QuestionTypes {
		typeLabels[i] = string(t)
	}

	b.WriteString("You are an expert technical interviewer. Your most important task is to generate questions in various formats and to include a \"type\" field in every single object.\n")
	if req.SourceText != "" {
		b.WriteString(fmt.Sprintf("Your task is to generate %d total questions based only on the document content below.\n", req.Count))
		if len(req.Topics) > 0 {
			b.WriteString(fmt.Sprintf("Focus on these topics: %s.\n", strings.Join(req.Topics, ", ")))
		} else {
			b.WriteString("Use the document's main subjects as the question topics.\n")
		}
	} else {
		b.WriteString(fmt.Sprintf("Your task is to generate %d total questions covering the following topics: %s.\n", req.Count, strings.Join(req.Topics, ", ")))
	}
	b.WriteString(fmt.Sprintf("The difficulty for all questions should be %s.\n", req.Difficulty))
	b.WriteString(fmt.Sprintf("The questions should be %s.\n", strings.Join(typeLabels, ", ")))
	b.WriteString("Distribute the questions as evenly as possible across all topics.\n\n")

	b.WriteString(`Generate a JSON array of question objects. Each object MUST have a "type" field. Adhere strictly to the following formats:

1. For "mcq" type:
   {"type": "mcq", "topic": "...", "question": "...", "options": ["...", "...", "...", "..."], "correct_answer": "...", "explanation": "..."}

2. For "true_false" type:
   {"type": "true_false", "topic": "...", "question": "...", "options": ["True", "False"], "correct_answer": "...", "explanation": "..."}

3. For "fill_in_the_blank" type:
   {"type": "fill_in_the_blank", "topic": "...", "question_parts": ["start of sentence ", " end of sentence."], "correct_answer": "word", "explanation": "..."}

The correct_answer must be copied exactly from one of the options for "mcq" and "true_false".

IMPORTANT: Format your entire output as a single, valid JSON array of objects. Do not include any text or formatting outside of the JSON array.
`)

	if req.SourceText != "" {
		content := req.SourceText
		if maxDocumentChars > 0 {
			content = firstRunes(strings.ToValidUTF8(content, ""), maxDocumentChars)
		}
		b.WriteString("\n---CONTENT---\n")
		b.WriteString(content)
		b.WriteString("\n---END---\n")
	}

	return b.String()
}

func countArrayItems(payload []byte) int {
	var items []interface{}
	if err := json.Unmarshal(payload, &items); err != nil {
		return 0
	}
	return len(items)
}

// firstRunes returns at most n characters of s.
func firstRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func truncate(s string, n int) string {
	if cut := firstRunes(s, n); len(cut) < len(s) {
		return cut + "..."
	}
	return s
}
