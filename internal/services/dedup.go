package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"quizforge-backend/internal/models"
)

// UncertaintyPolicy decides the verdict when a duplicate check cannot finish.
type UncertaintyPolicy int

const (
	// AllowOnUncertainty treats an undecidable candidate as unique. A failed
	// check never blocks quiz generation; false negatives are accepted.
	AllowOnUncertainty UncertaintyPolicy = iota
	// RejectOnUncertainty treats an undecidable candidate as a duplicate.
	RejectOnUncertainty
)

func (p UncertaintyPolicy) String() string {
	if p == RejectOnUncertainty {
		return "reject-on-uncertainty"
	}
	return "allow-on-uncertainty"
}

// DuplicateChecker classifies one candidate against known question texts.
type DuplicateChecker interface {
	CheckDuplicate(ctx context.Context, candidate models.Question, known []string) models.DuplicateVerdict
}

type DuplicateClassifier struct {
	completer          Completer
	policy             UncertaintyPolicy
	maxCompletionBytes int
}

func NewDuplicateClassifier(completer Completer, policy UncertaintyPolicy, maxCompletionBytes int) *DuplicateClassifier {
	return &DuplicateClassifier{
		completer:          completer,
		policy:             policy,
		maxCompletionBytes: maxCompletionBytes,
	}
}

// CheckDuplicate compares only question texts. Any transport, extraction, or
// verdict-shape failure resolves through the configured policy.
func (c *DuplicateClassifier) CheckDuplicate(ctx context.Context, candidate models.Question, known []string) models.DuplicateVerdict {
	if len(known) == 0 {
		return models.DuplicateVerdict{IsDuplicate: false, Reason: "No existing questions to compare against."}
	}

	prompt := buildDuplicatePrompt(candidate.Text(), known)

	rawText, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return c.uncertain(candidate, err)
	}

	payload, err := ExtractJSON(rawText, JSONObject, c.maxCompletionBytes)
	if err != nil {
		return c.uncertain(candidate, err)
	}

	var parsed struct {
		IsDuplicate *bool   `json:"is_duplicate"`
		DuplicateOf *string `json:"duplicate_of"`
		Reason      string  `json:"reason"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return c.uncertain(candidate, fmt.Errorf("%w: %v", ErrInvalidJSON, err))
	}
	if parsed.IsDuplicate == nil {
		return c.uncertain(candidate, fmt.Errorf("%w: verdict has no is_duplicate flag", ErrMalformedResponse))
	}

	verdict := models.DuplicateVerdict{
		IsDuplicate: *parsed.IsDuplicate,
		Reason:      parsed.Reason,
	}
	if verdict.IsDuplicate && parsed.DuplicateOf != nil && strings.TrimSpace(*parsed.DuplicateOf) != "" {
		verdict.DuplicateOf = parsed.DuplicateOf
	}
	return verdict
}

func (c *DuplicateClassifier) uncertain(candidate models.Question, cause error) models.DuplicateVerdict {
	log.Printf("duplicate check: failed for %q (%s): %v", truncate(candidate.Text(), 120), c.policy, cause)
	return models.DuplicateVerdict{
		IsDuplicate: c.policy == RejectOnUncertainty,
		Reason:      fmt.Sprintf("AI check failed (%s).", c.policy),
	}
}

func buildDuplicatePrompt(candidateText string, known []string) string {
	knownJSON, _ := json.MarshalIndent(known, "", "  ")
	candidateJSON, _ := json.Marshal(candidateText)

	var b strings.Builder
	b.WriteString("You are a quality assurance expert for a technical quiz platform. Compare the \"New Question\" to the \"List of Existing Questions\".\n\n")
	b.WriteString("Your task is to determine if the New Question is a semantic duplicate of any question in the existing list. A duplicate is a question that tests the exact same core knowledge, even if worded differently.\n\n")
	b.WriteString("New Question:\n")
	b.Write(candidateJSON)
	b.WriteString("\n\nList of Existing Questions:\n")
	b.Write(knownJSON)
	b.WriteString(`

Respond ONLY with a single JSON object with the following format:
{
  "is_duplicate": boolean,
  "duplicate_of": "text of the duplicate question or null",
  "reason": "brief explanation"
}
`)
	return b.String()
}
