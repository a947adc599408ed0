package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"quiz-widget/internal/domain"
)

// ResultStore keeps finished sessions in a local SQLite file, used by the
// terminal player.
type ResultStore struct {
	db *sql.DB
}

func NewResultStore(path string) (*ResultStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "quiz-results.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &ResultStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quiz_results (
			session_id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL,
			reason TEXT NOT NULL,
			remaining_seconds INTEGER NOT NULL,
			answered INTEGER NOT NULL,
			answers_json TEXT NOT NULL,
			finished_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_results_quiz ON quiz_results(quiz_id, finished_at_unix DESC);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.Result) error {
	answers, err := json.Marshal(result.Questions)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO quiz_results
			(session_id, quiz_id, reason, remaining_seconds, answered, answers_json, finished_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.SessionID, result.QuizID, string(result.Reason), result.RemainingSeconds,
		result.AnsweredCount(), string(answers), result.FinishedAt.Unix())
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) GetResult(ctx context.Context, sessionID string) (domain.Result, error) {
	var (
		result   domain.Result
		reason   string
		answers  string
		finished int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, quiz_id, reason, remaining_seconds, answers_json, finished_at_unix
		 FROM quiz_results WHERE session_id = ?`, sessionID).
		Scan(&result.SessionID, &result.QuizID, &reason, &result.RemainingSeconds, &answers, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Result{}, fmt.Errorf("%w: result %s", domain.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("load result: %w", err)
	}
	result.Reason = domain.EndReason(reason)
	result.FinishedAt = time.Unix(finished, 0).UTC()
	if err := json.Unmarshal([]byte(answers), &result.Questions); err != nil {
		return domain.Result{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	return result, nil
}

// History returns the most recent results for a quiz, newest first.
func (s *ResultStore) History(ctx context.Context, quizID string, limit int) ([]domain.Result, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, reason, remaining_seconds, answers_json, finished_at_unix
		 FROM quiz_results WHERE quiz_id = ?
		 ORDER BY finished_at_unix DESC LIMIT ?`, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []domain.Result
	for rows.Next() {
		var (
			r        = domain.Result{QuizID: quizID}
			reason   string
			answers  string
			finished int64
		)
		if err := rows.Scan(&r.SessionID, &reason, &r.RemainingSeconds, &answers, &finished); err != nil {
			return nil, err
		}
		r.Reason = domain.EndReason(reason)
		r.FinishedAt = time.Unix(finished, 0).UTC()
		if err := json.Unmarshal([]byte(answers), &r.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
