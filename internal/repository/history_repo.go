package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quizforge-backend/internal/models"
)

// querier is the subset of *pgxpool.Pool the history store uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// HistoryRepo stores every answered question per candidate.
type HistoryRepo struct {
	db querier
}

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{db: pool}
}

// GetAnswers returns the candidate's full history split by outcome, oldest first.
func (r *HistoryRepo) GetAnswers(ctx context.Context, candidate string) ([]models.AnsweredItem, []models.AnsweredItem, error) {
	query := `SELECT is_correct, item_json FROM answer_history
		WHERE candidate_name = $1 ORDER BY seq`

	rows, err := r.db.Query(ctx, query, candidate)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var correct, wrong []models.AnsweredItem
	for rows.Next() {
		var (
			isCorrect bool
			raw       []byte
		)
		if err := rows.Scan(&isCorrect, &raw); err != nil {
			return nil, nil, err
		}

		var item models.AnsweredItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, nil, fmt.Errorf("corrupt history row for %s: %w", candidate, err)
		}
		if isCorrect {
			correct = append(correct, item)
		} else {
			wrong = append(wrong, item)
		}
	}
	return correct, wrong, rows.Err()
}

// RecordAnswers appends one quiz worth of answers in a single batch.
func (r *HistoryRepo) RecordAnswers(ctx context.Context, candidate string, correct, wrong []models.AnsweredItem) error {
	batch := &pgx.Batch{}
	query := `INSERT INTO answer_history (id, candidate_name, is_correct, item_json) VALUES ($1, $2, $3, $4)`

	queue := func(items []models.AnsweredItem, isCorrect bool) error {
		for _, item := range items {
			data, err := json.Marshal(item)
			if err != nil {
				return err
			}
			batch.Queue(query, uuid.New(), candidate, isCorrect, data)
		}
		return nil
	}
	if err := queue(correct, true); err != nil {
		return err
	}
	if err := queue(wrong, false); err != nil {
		return err
	}
	if batch.Len() == 0 {
		return nil
	}

	return r.db.SendBatch(ctx, batch).Close()
}
