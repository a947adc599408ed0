package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-widget/internal/domain"
)

// ResultStore writes finished sessions to the quiz_results table.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.Result) error {
	answers, err := json.Marshal(result.Questions)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_results (session_id, quiz_id, reason, remaining_seconds, answered, answers, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
		 ON CONFLICT (session_id) DO NOTHING`,
		result.SessionID, result.QuizID, string(result.Reason), result.RemainingSeconds,
		result.AnsweredCount(), string(answers), result.FinishedAt)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) GetResult(ctx context.Context, sessionID string) (domain.Result, error) {
	var (
		result  domain.Result
		reason  string
		answers []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT session_id, quiz_id, reason, remaining_seconds, answers, finished_at
		 FROM quiz_results WHERE session_id=$1`, sessionID).
		Scan(&result.SessionID, &result.QuizID, &reason, &result.RemainingSeconds, &answers, &result.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Result{}, fmt.Errorf("%w: result %s", domain.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("load result: %w", err)
	}
	result.Reason = domain.EndReason(reason)
	if err := json.Unmarshal(answers, &result.Questions); err != nil {
		return domain.Result{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	return result, nil
}
