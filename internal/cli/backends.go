package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"quiz-widget/internal/app"
	"quiz-widget/internal/config"
	"quiz-widget/internal/domain"
	"quiz-widget/internal/infra/file"
	"quiz-widget/internal/infra/memory"
	pgstore "quiz-widget/internal/infra/postgres"
	redisstore "quiz-widget/internal/infra/redis"
	"quiz-widget/internal/infra/sqlite"
)

// backends bundles the stores a SessionService needs, chosen from config:
// Postgres and Redis when configured, local files and memory otherwise.
type backends struct {
	quizzes  app.QuizRepository
	sessions app.SessionRepository
	results  app.ResultStore
	// quizIDs lists the quizzes of a file or built-in loader; empty for Postgres.
	quizIDs []string
	closers []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackends(ctx context.Context, cfg config.Config, log *logrus.Entry) (*backends, error) {
	b := &backends{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = redisClient.Close() })
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
	}

	var loader memory.QuizLoader
	switch {
	case pool != nil:
		loader = pgstore.NewQuizLoader(pool)
	case cfg.Quiz.File != "":
		static, err := file.Load(cfg.Quiz.File)
		if err != nil {
			b.Close()
			return nil, err
		}
		loader = static
		b.quizIDs = static.IDs()
	default:
		static := memory.NewStaticQuizLoader(sampleQuizzes())
		loader = static
		b.quizIDs = static.IDs()
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if redisClient != nil {
		b.quizzes = redisstore.NewQuizRepository(redisClient, loader, quizTTL, log)
		b.sessions = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		b.quizzes = memory.NewQuizRepository(loader, quizTTL)
		b.sessions = memory.NewSessionStore()
	}

	switch {
	case pool != nil:
		b.results = pgstore.NewResultStore(pool)
	case cfg.SQLite.Path != "":
		store, err := sqlite.NewResultStore(cfg.SQLite.Path)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = store.Close() })
		b.results = store
	default:
		b.results = memory.NewResultStore()
	}
	return b, nil
}

// sampleQuizzes backs the server when no quiz source is configured.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:              "quiz-1",
			Title:           "Warmup",
			DurationMinutes: 5,
			Questions: []*domain.Question{
				{
					ID:      "q1",
					Text:    "What is 2 + 2?",
					Kind:    domain.KindSingleChoice,
					Options: []string{"3", "4", "5"},
				},
				{
					ID:      "q2",
					Text:    "Which of these are prime?",
					Kind:    domain.KindMultipleChoice,
					Options: []string{"2", "4", "7", "9"},
				},
				{
					ID:   "q3",
					Text: "Name a language with goroutines.",
					Kind: domain.KindFreeText,
				},
			},
		},
	}
}
