// Package llm generates exam JSON with an OpenAI-compatible model. The
// client only produces raw bytes; callers must route them through the
// schema validator before an Exam exists. Generated output is untrusted
// input, exactly like a hand-written exam file.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/javimcasas/smartquiz/internal/model"
)

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Ping verifies the endpoint is reachable before any generation call.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM endpoint: %w", err)
	}
	return nil
}

// GenerateExam asks the model for a complete exam document and returns
// the raw JSON bytes.
func (c *Client) GenerateExam(ctx context.Context, topic string, difficulty model.Difficulty, numQuestions int) ([]byte, error) {
	systemPrompt := buildGenerateSystemPrompt(difficulty, numQuestions)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Topic: " + topic},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)
	return []byte(raw), nil
}

func buildGenerateSystemPrompt(difficulty model.Difficulty, numQuestions int) string {
	var sb strings.Builder
	sb.WriteString("You are an exam author. Produce one complete quiz exam on the topic the user gives you.\n\n")
	sb.WriteString(fmt.Sprintf("DIFFICULTY: %s\n", difficulty))
	sb.WriteString(fmt.Sprintf("NUMBER OF QUESTIONS: %d\n\n", numQuestions))

	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("- Mix question types: single, true_false, multiple, fill_blank.\n")
	sb.WriteString("- Number questions 1..N; numbers must be unique.\n")
	sb.WriteString("- Choice questions need an options array; every correct value must be one of the option values.\n")
	sb.WriteString("- single and true_false take exactly one correct value; multiple takes one or more.\n")
	sb.WriteString("- fill_blank takes no options; correct holds the accepted literal answers.\n")
	sb.WriteString("- Add a short description to each correct option explaining why it is right.\n")
	sb.WriteString("- points must be positive numbers.\n")

	sb.WriteString("\nRespond ONLY with a JSON object of this shape:\n")
	sb.WriteString(`{"id": "<slug>", "title": "<title>", "description": "<one sentence>", ` +
		`"difficulty": "` + string(difficulty) + `", "shuffle_questions": false, "passing_score": 60, ` +
		`"questions": [{"number": 1, "type": "single", "question": "<prompt>", ` +
		`"options": [{"value": "a", "text": "<text>", "description": "<why>"}], ` +
		`"correct": ["a"], "points": 1}]}`)
	sb.WriteString("\n")

	return sb.String()
}
