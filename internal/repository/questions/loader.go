// Package questions loads the evaluation question set from YAML.
package questions

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nyaya-cloud/nyaya/internal/domain/eval"
)

// questionDTO is the YAML shape of one evaluation question.
type questionDTO struct {
	ID             string   `yaml:"id"`
	Question       string   `yaml:"question"`
	ExpectedAnswer string   `yaml:"expected_answer"`
	ExpectedDocIDs []string `yaml:"expected_doc_ids"`
	Category       string   `yaml:"category"`
	Difficulty     string   `yaml:"difficulty"`
	Keywords       []string `yaml:"keywords"`
}

// Set is a loaded question set with category/difficulty selectors.
type Set struct {
	questions []eval.Question
}

// Load reads a YAML question set from path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read question set %s: %w", path, err)
	}

	var dtos []questionDTO
	if err := yaml.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("parse question set: %w", err)
	}

	qs := make([]eval.Question, 0, len(dtos))
	for i, dto := range dtos {
		if dto.Question == "" {
			return nil, fmt.Errorf("question %d has no text", i)
		}
		id := dto.ID
		if id == "" {
			id = fmt.Sprintf("question_%d", i+1)
		}
		qs = append(qs, eval.Question{
			ID:         id,
			Query:      dto.Question,
			Truth:      eval.NewGroundTruth(dto.ExpectedAnswer, dto.ExpectedDocIDs),
			Category:   dto.Category,
			Difficulty: dto.Difficulty,
			Keywords:   dto.Keywords,
		})
	}
	return &Set{questions: qs}, nil
}

// All returns every question.
func (s *Set) All() []eval.Question { return s.questions }

// ByCategory returns the questions of one category.
func (s *Set) ByCategory(category string) []eval.Question {
	var out []eval.Question
	for _, q := range s.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// ByDifficulty returns the questions of one difficulty level.
func (s *Set) ByDifficulty(difficulty string) []eval.Question {
	var out []eval.Question
	for _, q := range s.questions {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out
}
