// Package file reads quiz definitions from YAML documents on disk.
package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"quiz-widget/internal/domain"
	"quiz-widget/internal/infra/memory"
)

// Load reads a single YAML file or every *.yaml / *.yml file of a directory
// and returns a loader serving the quizzes found. A file may hold several
// quizzes as separate YAML documents.
func Load(path string) (*memory.StaticQuizLoader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	files := []string{path}
	if info.IsDir() {
		files, err = yamlFiles(path)
		if err != nil {
			return nil, err
		}
	}

	quizzes := make(map[string]domain.Quiz)
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		parsed, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for _, quiz := range parsed {
			if _, dup := quizzes[quiz.ID]; dup {
				return nil, fmt.Errorf("%s: %w: duplicate quiz id %q", name, domain.ErrInvalidQuiz, quiz.ID)
			}
			quizzes[quiz.ID] = quiz
		}
	}
	if len(quizzes) == 0 {
		return nil, fmt.Errorf("%w: no quizzes in %s", domain.ErrInvalidQuiz, path)
	}
	return memory.NewStaticQuizLoader(quizzes), nil
}

// Parse decodes every YAML document in data and validates each quiz.
func Parse(data []byte) ([]domain.Quiz, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []domain.Quiz
	for {
		var quiz domain.Quiz
		err := dec.Decode(&quiz)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode quiz: %w", err)
		}
		assignQuestionIDs(&quiz)
		if err := quiz.Validate(); err != nil {
			return nil, err
		}
		out = append(out, quiz)
	}
	return out, nil
}

// assignQuestionIDs numbers questions that were written without an id.
func assignQuestionIDs(quiz *domain.Quiz) {
	for i, q := range quiz.Questions {
		if q != nil && strings.TrimSpace(q.ID) == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
	}
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
