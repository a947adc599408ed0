package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"quiz-widget/internal/app"
	"quiz-widget/internal/config"
	"quiz-widget/internal/logging"
	"quiz-widget/internal/tui"
)

type playOptions struct {
	file    string
	quizID  string
	results string
	logFile string
}

// NewPlayCmd runs a quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "YAML quiz file or directory (overrides config)")
	cmd.Flags().StringVar(&opts.quizID, "quiz", "", "quiz id to play (defaults to the first one found)")
	cmd.Flags().StringVar(&opts.results, "results", "", "SQLite file to record results in")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of discarding them")
	return cmd
}

func runPlay(ctx context.Context, configPath string, opts playOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if opts.file != "" {
		cfg.Quiz.File = opts.file
	}
	if opts.results != "" {
		cfg.SQLite.Path = opts.results
	}

	// the terminal belongs to the quiz, so logs go to a file or nowhere
	var out io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	log := logging.New("quiz-widget", logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: out})

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	quizID := opts.quizID
	if quizID == "" {
		if len(b.quizIDs) == 0 {
			return fmt.Errorf("no quiz id given; pass --quiz")
		}
		quizID = b.quizIDs[0]
	}

	service := app.NewSessionService(b.sessions, b.quizzes, b.results, app.ServiceOptions{
		DefaultDurationMinutes: cfg.Quiz.DefaultDurationMinutes,
		View:                   cfg.View,
		Logger:                 log,
	})
	model, err := tui.New(ctx, service, quizID)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	if result, ok := model.Result(); ok {
		fmt.Printf("%s: %d of %d answered (%s)\n", quizID, result.AnsweredCount(), len(result.Questions), result.Reason)
	}
	return nil
}
