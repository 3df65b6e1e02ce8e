package openai

import (
	"errors"
	"testing"

	"github.com/nyaya-cloud/nyaya/internal/domain"
)

func TestParseScore(t *testing.T) {
	cases := []struct {
		reply string
		want  float64
	}{
		{"8", 0.8},
		{"8.5", 0.85},
		{" 10 ", 1.0},
		{"0", 0.0},
		{"Score: 7", 0.7},
		{"9.", 0.9},
		{"15", 1.0},  // clamped
		{"-2", 0.0},  // clamped
	}
	for _, c := range cases {
		got, err := parseScore(c.reply)
		if err != nil {
			t.Errorf("parseScore(%q) error: %v", c.reply, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseScore(%q) = %v, want %v", c.reply, got, c.want)
		}
	}
}

func TestParseScore_NoNumber(t *testing.T) {
	_, err := parseScore("I cannot rate this")
	if err == nil {
		t.Fatal("expected error for non-numeric reply")
	}
	if !errors.Is(err, domain.ErrJudgeUnavailable) {
		t.Errorf("expected ErrJudgeUnavailable, got %v", err)
	}
}
