package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

type Intent struct {
	Action     string            `json:"action"`
	Parameters map[string]string `json:"parameters"`
	Confidence float64           `json:"confidence"`
	Reply      string            `json:"reply"`
}

const systemPromptTemplate = `You are the assistant inside a personal tasbih (dhikr counter) bot.
Parse the user's message into a structured intent.

Current time: %s

Available actions:
- create_target: create a counting goal. Parameters: title, target_count, optionally deadline (YYYY-MM-DD).
- add_count: record dhikr repetitions. Parameters: count, optionally target_id.
- set_reminder: configure a reminder on a goal. Parameters: target_id, plus either
  gap_minutes (remind once if the goal is untouched that long after its start), or
  frequency (daily/weekly) with time (HH:MM) and, for weekly, days (comma-separated
  weekday numbers, 0=Sunday).
- show_stats: show progress statistics.
- list_targets: list the goals.
- unknown: anything else.

Rules:
1. Resolve relative dates ("by Friday", "starting tomorrow") against the current time.
2. reply is a short friendly message to show the user alongside the result.
3. When the message is not about counting or goals, use action unknown and answer
   briefly in reply.`

func systemPrompt() string {
	return fmt.Sprintf(systemPromptTemplate, time.Now().Format("2006-01-02 15:04 (Monday)"))
}

var intentSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"action": {
			"type": "string",
			"enum": ["create_target", "add_count", "set_reminder", "show_stats", "list_targets", "unknown"],
			"description": "The action to perform"
		},
		"parameters": {
			"type": "object",
			"additionalProperties": {
				"type": "string"
			},
			"description": "Parameters for the action"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Confidence score between 0 and 1"
		},
		"reply": {
			"type": "string",
			"description": "Short friendly message to show the user"
		}
	},
	"required": ["action", "confidence"],
	"additionalProperties": false
}`)

func (c *Client) ParseIntent(ctx context.Context, userMessage string) (*Intent, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMessage,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "intent",
				Schema: intentSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	intent := &Intent{}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), intent); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return intent, nil
}
