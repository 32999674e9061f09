package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"quizforge-backend/internal/models"
)

const (
	FirstQuizMessage       = "Welcome! Take your first quiz and we'll start tracking your strengths and areas to improve."
	PerfectScoreMessage    = "Congratulations! You answered every question correctly. Keep up the great work!"
	NoHistoryMessage       = "Welcome! Complete a few quizzes so we can analyze your performance history and give you personalized feedback."
	feedbackModeSummary    = "summary"
	missingAnswersMessage  = "Missing 'correct_answers' or 'wrong_answers' in request"
	missingCandidateReason = "Missing 'candidate_name' in request"
)

type feedbackSummarizer interface {
	PerTopic(ctx context.Context, correct, wrong []models.AnsweredItem) map[string]string
	Summary(ctx context.Context, correct, wrong []models.AnsweredItem) string
	LongTerm(ctx context.Context, allCorrect, allWrong []models.AnsweredItem) string
}

type historyStore interface {
	GetAnswers(ctx context.Context, candidate string) ([]models.AnsweredItem, []models.AnsweredItem, error)
	RecordAnswers(ctx context.Context, candidate string, correct, wrong []models.AnsweredItem) error
}

type FeedbackHandler struct {
	summarizer feedbackSummarizer
	history    historyStore
}

func NewFeedbackHandler(summarizer feedbackSummarizer, history historyStore) *FeedbackHandler {
	return &FeedbackHandler{summarizer: summarizer, history: history}
}

// GetFeedback answers with per-topic advice, or a single paragraph in summary mode.
func (h *FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request: No data provided", r))
		return
	}
	if req.CorrectAnswers == nil || req.WrongAnswers == nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", missingAnswersMessage, r))
		return
	}

	correct, wrong := *req.CorrectAnswers, *req.WrongAnswers
	switch {
	case len(correct) == 0 && len(wrong) == 0:
		writeJSON(w, http.StatusOK, models.FeedbackResponse{Feedback: FirstQuizMessage})
		return
	case len(wrong) == 0:
		writeJSON(w, http.StatusOK, models.FeedbackResponse{Feedback: PerfectScoreMessage})
		return
	}

	if strings.EqualFold(strings.TrimSpace(req.Mode), feedbackModeSummary) {
		writeJSON(w, http.StatusOK, models.FeedbackResponse{Feedback: h.summarizer.Summary(r.Context(), correct, wrong)})
		return
	}
	writeJSON(w, http.StatusOK, models.FeedbackResponse{Feedback: h.summarizer.PerTopic(r.Context(), correct, wrong)})
}

func (h *FeedbackHandler) GetLongTermFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.LongTermFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request: No data provided", r))
		return
	}
	candidate := strings.TrimSpace(req.CandidateName)
	if candidate == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", missingCandidateReason, r))
		return
	}

	correct, wrong, err := h.history.GetAnswers(r.Context(), candidate)
	if err != nil {
		log.Printf("⚠️ Failed to load history for %s: %v", candidate, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to retrieve performance history", r))
		return
	}
	if len(correct) == 0 && len(wrong) == 0 {
		writeJSON(w, http.StatusOK, models.FeedbackResponse{Feedback: NoHistoryMessage})
		return
	}

	writeJSON(w, http.StatusOK, models.FeedbackResponse{Feedback: h.summarizer.LongTerm(r.Context(), correct, wrong)})
}

func (h *FeedbackHandler) RecordAnswers(w http.ResponseWriter, r *http.Request) {
	var req models.RecordAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request: No data provided", r))
		return
	}
	candidate := strings.TrimSpace(req.CandidateName)
	if candidate == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", missingCandidateReason, r))
		return
	}

	if err := h.history.RecordAnswers(r.Context(), candidate, req.CorrectAnswers, req.WrongAnswers); err != nil {
		log.Printf("⚠️ Failed to record answers for %s: %v", candidate, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record answers", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Answers recorded",
		"recorded": len(req.CorrectAnswers) + len(req.WrongAnswers),
	})
}
