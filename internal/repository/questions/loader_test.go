package questions

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleSet = `
- id: criminal_001
  question: What is the punishment for murder under IPC Section 302?
  expected_answer: Death or imprisonment for life, and shall also be liable to fine.
  expected_doc_ids: [ipc_302]
  category: criminal_law
  difficulty: easy
  keywords: [death, life imprisonment, fine]
- question: What is a valid contract?
  category: contract_law
  difficulty: easy
`

func loadSample(t *testing.T) *Set {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.yaml")
	if err := os.WriteFile(path, []byte(sampleSet), 0o600); err != nil {
		t.Fatalf("write question set: %v", err)
	}
	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return set
}

func TestLoad(t *testing.T) {
	set := loadSample(t)

	all := set.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(all))
	}
	if all[0].ID != "criminal_001" {
		t.Errorf("ID = %q", all[0].ID)
	}
	if !all[0].Truth.HasSignal() {
		t.Error("expected ground-truth signal on first question")
	}
	if !all[0].Truth.ExpectsDoc("ipc_302") {
		t.Error("expected ipc_302 in expected doc ids")
	}
	// Missing id gets a generated one.
	if all[1].ID != "question_2" {
		t.Errorf("generated ID = %q, want question_2", all[1].ID)
	}
	if all[1].Truth.HasSignal() {
		t.Error("second question should have no ground-truth signal")
	}
}

func TestByCategory(t *testing.T) {
	set := loadSample(t)
	got := set.ByCategory("criminal_law")
	if len(got) != 1 || got[0].ID != "criminal_001" {
		t.Fatalf("ByCategory = %v", got)
	}
}

func TestByDifficulty(t *testing.T) {
	set := loadSample(t)
	if got := set.ByDifficulty("easy"); len(got) != 2 {
		t.Fatalf("ByDifficulty(easy) = %d questions, want 2", len(got))
	}
	if got := set.ByDifficulty("hard"); len(got) != 0 {
		t.Fatalf("ByDifficulty(hard) = %d questions, want 0", len(got))
	}
}
