package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"quizforge-backend/internal/handlers"
	"quizforge-backend/internal/middleware"
)

func New(
	quizHandler *handlers.QuizHandler,
	feedbackHandler *handlers.FeedbackHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── Quiz Generation ────
		r.Post("/generate-quiz", quizHandler.GenerateQuiz)
		r.Post("/generate-from-pdf", quizHandler.GenerateFromPDF)

		// ──── Feedback ────
		r.Post("/get-feedback", feedbackHandler.GetFeedback)
		r.Post("/get-long-term-feedback", feedbackHandler.GetLongTermFeedback)
		r.Post("/record-answers", feedbackHandler.RecordAnswers)
	})

	return r
}
