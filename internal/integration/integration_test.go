package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quiz-widget/internal/app"
	"quiz-widget/internal/domain"
	pgstore "quiz-widget/internal/infra/postgres"
	pgmigrations "quiz-widget/internal/infra/postgres/migrations"
	infraredis "quiz-widget/internal/infra/redis"
	"quiz-widget/internal/timer"
)

func TestQuizSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewQuizLoader(pool)
	if err := loader.SaveQuiz(ctx, sampleQuiz()); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	quizRepo := infraredis.NewQuizRepository(redisClient, loader, 5*time.Minute, nil)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	results := pgstore.NewResultStore(pool)
	service := app.NewSessionService(sessionStore, quizRepo, results, app.ServiceOptions{})

	view := &scriptedView{answers: map[string][]string{
		"q1": {"4"},
		"q2": {"Go"},
	}}
	sched := timer.NewManualScheduler()
	session, err := service.Open(ctx, "quiz-1", view, sched)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := service.Start(session); err != nil {
		t.Fatalf("start: %v", err)
	}
	if n, err := sessionStore.CountForQuiz(ctx, "quiz-1"); err != nil || n != 1 {
		t.Fatalf("expected one live session in redis, got %d (%v)", n, err)
	}

	sched.Advance(5 * time.Second)
	view.handler.Answer()
	view.handler.Answer()
	if view.confirm == "" {
		t.Fatalf("expected end confirmation after answering everything")
	}
	view.handler.ConfirmEnd(true)
	service.Close(session)

	stored, err := results.GetResult(ctx, session.ID())
	if err != nil {
		t.Fatalf("load result: %v", err)
	}
	if stored.Reason != domain.EndSubmitted || stored.RemainingSeconds != 115 {
		t.Fatalf("unexpected result %+v", stored)
	}
	if stored.AnsweredCount() != 2 || stored.Questions[1].Answers[0] != "Go" {
		t.Fatalf("unexpected answers %+v", stored.Questions)
	}
	if n, _ := sessionStore.CountForQuiz(ctx, "quiz-1"); n != 0 {
		t.Fatalf("session key should be gone, found %d", n)
	}
}

// scriptedView answers each question with a fixed selection.
type scriptedView struct {
	handler app.InputHandler
	answers map[string][]string
	confirm string
}

func (v *scriptedView) Bind(h app.InputHandler) { v.handler = h }

func (v *scriptedView) RenderSkeleton(int) {}

func (v *scriptedView) RenderQuestion(*domain.Question) {}

func (v *scriptedView) SetNavMarker(int, bool) {}

func (v *scriptedView) SetAnsweredMarker(int, bool) {}

func (v *scriptedView) DisplayTime(string) {}

func (v *scriptedView) Confirm(message string) { v.confirm = message }

func (v *scriptedView) ReadSelectedAnswers(q *domain.Question) []string {
	return v.answers[q.ID]
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	host, port, cleanup := startContainer(t, ctx, tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	})
	return fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port), cleanup
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	host, port, cleanup := startContainer(t, ctx, tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	})
	return fmt.Sprintf("redis://%s:%s", host, port), cleanup
}

// startContainer runs req and returns the host and mapped port of its
// first exposed port.
func startContainer(t *testing.T, ctx context.Context, req tc.ContainerRequest) (string, string, func()) {
	t.Helper()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start %s: %v", req.Image, err)
	}
	cleanup := func() { _ = container.Terminate(ctx) }
	host, err := container.Host(ctx)
	if err != nil {
		cleanup()
		t.Fatalf("%s host: %v", req.Image, err)
	}
	port, err := container.MappedPort(ctx, nat.Port(req.ExposedPorts[0]))
	if err != nil {
		cleanup()
		t.Fatalf("%s port: %v", req.Image, err)
	}
	return host, port.Port(), cleanup
}

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:              "quiz-1",
		Title:           "Integration",
		DurationMinutes: 2,
		Questions: []*domain.Question{
			{ID: "q1", Text: "What is 2 + 2?", Kind: domain.KindSingleChoice, Options: []string{"3", "4", "5"}},
			{ID: "q2", Text: "Favourite language?", Kind: domain.KindFreeText},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
