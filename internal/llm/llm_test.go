package llm

import (
	"strings"
	"testing"

	"github.com/javimcasas/smartquiz/internal/model"
)

func TestBuildGenerateSystemPrompt(t *testing.T) {
	prompt := buildGenerateSystemPrompt(model.DifficultyHard, 7)

	if !strings.Contains(prompt, "DIFFICULTY: hard") {
		t.Error("prompt should state the difficulty")
	}
	if !strings.Contains(prompt, "NUMBER OF QUESTIONS: 7") {
		t.Error("prompt should state the question count")
	}
	for _, typ := range []string{"single", "true_false", "multiple", "fill_blank"} {
		if !strings.Contains(prompt, typ) {
			t.Errorf("prompt should mention question type %q", typ)
		}
	}
	if !strings.Contains(prompt, `"difficulty": "hard"`) {
		t.Error("example JSON should carry the requested difficulty")
	}
	if !strings.Contains(prompt, "Respond ONLY with a JSON object") {
		t.Error("prompt should demand a bare JSON object")
	}
}

func TestNewUsesCustomBaseURL(t *testing.T) {
	c := New("http://localhost:11434/v1", "key", "llama3")
	if c.model != "llama3" {
		t.Errorf("model = %q, want 'llama3'", c.model)
	}
	if c.api == nil {
		t.Error("api client should be constructed")
	}
}
