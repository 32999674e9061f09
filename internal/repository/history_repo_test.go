package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"quizforge-backend/internal/models"
)

type historyRow struct {
	isCorrect bool
	item      []byte
}

type stubRows struct {
	rows   []historyRow
	pos    int
	err    error
	closed bool
}

func (r *stubRows) Close()                                       { r.closed = true }
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error)                       { return nil, nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	*dest[0].(*bool) = row.isCorrect
	*dest[1].(*[]byte) = row.item
	return nil
}

type stubBatchResults struct {
	closeErr error
}

func (b *stubBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (b *stubBatchResults) Query() (pgx.Rows, error)         { return nil, nil }
func (b *stubBatchResults) QueryRow() pgx.Row                { return nil }
func (b *stubBatchResults) Close() error                     { return b.closeErr }

type stubQuerier struct {
	rows      *stubRows
	queryErr  error
	batchErr  error
	lastSQL   string
	lastArgs  []any
	batches   []*pgx.Batch
	sentBatch bool
}

func (q *stubQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.lastSQL = sql
	q.lastArgs = args
	if q.queryErr != nil {
		return nil, q.queryErr
	}
	return q.rows, nil
}

func (q *stubQuerier) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	q.sentBatch = true
	q.batches = append(q.batches, b)
	return &stubBatchResults{closeErr: q.batchErr}
}

func itemJSON(t *testing.T, topic, question string) []byte {
	t.Helper()
	data, err := json.Marshal(models.AnsweredItem{Topic: topic, Question: question})
	if err != nil {
		t.Fatalf("failed to marshal item: %v", err)
	}
	return data
}

func TestHistoryRepo_GetAnswers_SplitsByOutcomeInOrder(t *testing.T) {
	rows := &stubRows{rows: []historyRow{
		{true, itemJSON(t, "SQL", "q1")},
		{false, itemJSON(t, "Go", "q2")},
		{true, itemJSON(t, "SQL", "q3")},
	}}
	db := &stubQuerier{rows: rows}
	repo := &HistoryRepo{db: db}

	correct, wrong, err := repo.GetAnswers(context.Background(), "ada")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(correct) != 2 || correct[0].Question != "q1" || correct[1].Question != "q3" {
		t.Fatalf("unexpected correct answers: %+v", correct)
	}
	if len(wrong) != 1 || wrong[0].Question != "q2" || wrong[0].Topic != "Go" {
		t.Fatalf("unexpected wrong answers: %+v", wrong)
	}
	if !strings.Contains(db.lastSQL, "ORDER BY seq") {
		t.Fatalf("expected history in insertion order, query was %q", db.lastSQL)
	}
	if len(db.lastArgs) != 1 || db.lastArgs[0] != "ada" {
		t.Fatalf("unexpected query args: %v", db.lastArgs)
	}
	if !rows.closed {
		t.Fatal("expected rows to be closed")
	}
}

func TestHistoryRepo_GetAnswers_Errors(t *testing.T) {
	errDB := errors.New("connection reset")

	tests := []struct {
		name string
		db   *stubQuerier
	}{
		{"query fails", &stubQuerier{queryErr: errDB}},
		{"rows error", &stubQuerier{rows: &stubRows{err: errDB}}},
		{"corrupt item", &stubQuerier{rows: &stubRows{rows: []historyRow{{true, []byte("{not json")}}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &HistoryRepo{db: tc.db}
			if _, _, err := repo.GetAnswers(context.Background(), "ada"); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestHistoryRepo_RecordAnswers_QueuesOneRowPerAnswer(t *testing.T) {
	db := &stubQuerier{}
	repo := &HistoryRepo{db: db}

	correct := []models.AnsweredItem{{Topic: "SQL", Question: "q1"}}
	wrong := []models.AnsweredItem{{Topic: "Go", Question: "q2"}, {Topic: "Go", Question: "q3"}}

	if err := repo.RecordAnswers(context.Background(), "ada", correct, wrong); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(db.batches))
	}

	queued := db.batches[0].QueuedQueries
	if len(queued) != 3 {
		t.Fatalf("expected 3 queued inserts, got %d", len(queued))
	}
	wantCorrect := []bool{true, false, false}
	for i, q := range queued {
		if !strings.HasPrefix(q.SQL, "INSERT INTO answer_history") {
			t.Fatalf("unexpected statement %q", q.SQL)
		}
		if q.Arguments[1] != "ada" || q.Arguments[2] != wantCorrect[i] {
			t.Fatalf("row %d: unexpected args %v", i, q.Arguments)
		}
		var item models.AnsweredItem
		if err := json.Unmarshal(q.Arguments[3].([]byte), &item); err != nil {
			t.Fatalf("row %d: item is not JSON: %v", i, err)
		}
	}
}

func TestHistoryRepo_RecordAnswers_EmptySkipsBatch(t *testing.T) {
	db := &stubQuerier{}
	repo := &HistoryRepo{db: db}

	if err := repo.RecordAnswers(context.Background(), "ada", nil, []models.AnsweredItem{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.sentBatch {
		t.Fatal("empty answer lists must not reach the database")
	}
}

func TestHistoryRepo_RecordAnswers_BatchError(t *testing.T) {
	db := &stubQuerier{batchErr: errors.New("unique violation")}
	repo := &HistoryRepo{db: db}

	err := repo.RecordAnswers(context.Background(), "ada", []models.AnsweredItem{{Question: "q1"}}, nil)
	if err == nil {
		t.Fatal("expected batch error to propagate")
	}
}
