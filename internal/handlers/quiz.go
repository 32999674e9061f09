package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/services"
)

const generationFailedMessage = "Failed to generate quiz questions from the AI model."

type questionGenerator interface {
	Generate(ctx context.Context, req models.GenerationRequest) ([]models.Question, error)
}

type uniqueAssembler interface {
	AssembleUnique(ctx context.Context, req models.GenerationRequest, seed []string) []models.Question
}

type documentExtractor interface {
	ExtractPDF(data []byte) (string, error)
}

// CorpusStore remembers handed-out question texts per topic. Optional.
type CorpusStore interface {
	KnownQuestions(ctx context.Context, topics []string) ([]string, error)
	AddQuestions(ctx context.Context, topics []string, questions []models.Question) error
}

type QuizHandler struct {
	generator      questionGenerator
	assembler      uniqueAssembler
	extractor      documentExtractor
	corpus         CorpusStore
	maxUploadBytes int64
}

func NewQuizHandler(generator questionGenerator, assembler uniqueAssembler, extractor documentExtractor, corpus CorpusStore, maxUploadBytes int64) *QuizHandler {
	return &QuizHandler{
		generator:      generator,
		assembler:      assembler,
		extractor:      extractor,
		corpus:         corpus,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *QuizHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request: No data provided", r))
		return
	}

	count := defaultNumQuestions
	if req.NumQuestions != nil {
		count = *req.NumQuestions
	}

	genReq, vErr := buildGenerationRequest(req.Topic, req.Difficulty, count, req.QuestionTypes, true)
	if vErr != nil {
		message := "Invalid quiz request"
		if _, ok := vErr.Fields["topic"]; ok {
			message = "Missing 'topic' or 'difficulty' in request"
		} else if _, ok := vErr.Fields["difficulty"]; ok {
			message = "Missing 'topic' or 'difficulty' in request"
		}
		handleValidationError(w, r, vErr, message)
		return
	}

	deduplicate := req.Deduplicate == nil || *req.Deduplicate

	var questions []models.Question
	if deduplicate {
		seed := h.seedCorpus(r.Context(), genReq.Topics, req.KnownQuestions)
		questions = h.assembler.AssembleUnique(r.Context(), genReq, seed)
	} else {
		var err error
		questions, err = h.generator.Generate(r.Context(), genReq)
		if err != nil {
			log.Printf("⚠️ Quiz generation failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResp("GENERATION_FAILED", generationFailedMessage, r))
			return
		}
	}

	if len(questions) == 0 {
		writeJSON(w, http.StatusInternalServerError, errorResp("GENERATION_FAILED", generationFailedMessage, r))
		return
	}

	h.remember(r.Context(), genReq.Topics, questions)
	writeJSON(w, http.StatusOK, questions)
}

func (h *QuizHandler) GenerateFromPDF(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "PDF file is too large", r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "PDF file is too large", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No PDF file provided", r))
		return
	}

	file, _, err := r.FormFile("pdf_file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No PDF file provided", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not read uploaded file", r))
		return
	}

	count := defaultPDFNumQuestions
	if raw := strings.TrimSpace(r.FormValue("num_questions")); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			count = 0
		}
	}
	difficulty := r.FormValue("difficulty")
	if strings.TrimSpace(difficulty) == "" {
		difficulty = defaultPDFDifficulty
	}

	genReq, vErr := buildGenerationRequest(splitCSV(r.FormValue("topic")), difficulty, count, splitCSV(r.FormValue("question_types")), false)
	if vErr != nil {
		handleValidationError(w, r, vErr, "Invalid quiz request")
		return
	}

	text, err := h.extractor.ExtractPDF(data)
	if err != nil {
		if errors.Is(err, services.ErrNoExtractableText) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResp("NO_TEXT", "Could not extract any text from the PDF", r))
			return
		}
		log.Printf("⚠️ PDF extraction failed: %v", err)
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_PDF", "Could not read the uploaded PDF", r))
		return
	}
	genReq.SourceText = text

	questions, err := h.generator.Generate(r.Context(), genReq)
	if err != nil {
		log.Printf("⚠️ Document quiz generation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("GENERATION_FAILED", generationFailedMessage, r))
		return
	}
	if len(questions) == 0 {
		writeJSON(w, http.StatusInternalServerError, errorResp("GENERATION_FAILED", generationFailedMessage, r))
		return
	}

	h.remember(r.Context(), genReq.Topics, questions)
	writeJSON(w, http.StatusOK, models.GenerateFromPDFResponse{Questions: questions})
}

// seedCorpus merges caller-supplied texts with the stored corpus. A store
// failure degrades to the caller's texts alone.
func (h *QuizHandler) seedCorpus(ctx context.Context, topics []string, supplied []string) []string {
	seed := cleanTexts(supplied)
	if h.corpus == nil {
		return seed
	}

	stored, err := h.corpus.KnownQuestions(ctx, topics)
	if err != nil {
		log.Printf("⚠️ Corpus lookup failed, continuing without it: %v", err)
		return seed
	}

	seen := make(map[string]bool, len(seed))
	for _, s := range seed {
		seen[s] = true
	}
	for _, s := range stored {
		if !seen[s] {
			seen[s] = true
			seed = append(seed, s)
		}
	}
	return seed
}

// remember files questions under the requested topics so the next request
// for the same topics sees them in its seed corpus.
func (h *QuizHandler) remember(ctx context.Context, topics []string, questions []models.Question) {
	if h.corpus == nil {
		return
	}
	if err := h.corpus.AddQuestions(ctx, topics, questions); err != nil {
		log.Printf("⚠️ Failed to store questions in corpus: %v", err)
	}
}
