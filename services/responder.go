package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"srhbot/config"
	"srhbot/engine"
	"srhbot/models"
)

// Responder produces free-text answers from an external language model. It is
// only consulted for messages the engine did not route to crisis or facility
// responses.
type Responder interface {
	Respond(ctx context.Context, history []models.ChatMessage, message string, profile engine.UserProfile) (string, error)
}

// ResponderConfig configures an OpenAI-compatible responder.
type ResponderConfig struct {
	Provider     config.LLMProvider
	Model        string
	SystemPrompt string
	HistoryLimit int
	Timeout      time.Duration
}

type openAIResponder struct {
	client *openai.Client
	cfg    ResponderConfig
}

// NewOpenAIResponder creates a Responder for any OpenAI-compatible API, such as Groq.
func NewOpenAIResponder(cfg ResponderConfig) (Responder, error) {
	if cfg.Provider.APIKey == "" || cfg.Provider.BaseURL == "" {
		return nil, errors.New("responder: api key or base url empty")
	}
	if cfg.Model == "" {
		return nil, errors.New("responder: model empty")
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = config.DefaultSystemPrompt
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	oc := openai.DefaultConfig(cfg.Provider.APIKey)
	oc.BaseURL = cfg.Provider.BaseURL
	return &openAIResponder{client: openai.NewClientWithConfig(oc), cfg: cfg}, nil
}

// NewResponderFromConfig builds the responder described by the application
// config, or returns nil when the responder is disabled.
func NewResponderFromConfig(cfg *config.Config) (Responder, error) {
	if !cfg.Responder.Enabled {
		return nil, nil
	}
	provider, ok := cfg.LLMProviders[cfg.Responder.Provider]
	if !ok {
		return nil, fmt.Errorf("responder: provider %q not configured", cfg.Responder.Provider)
	}
	return NewOpenAIResponder(ResponderConfig{
		Provider:     provider,
		Model:        cfg.Responder.Model,
		SystemPrompt: cfg.Responder.SystemPrompt,
		HistoryLimit: cfg.Responder.HistoryLimit,
		Timeout:      cfg.Responder.Timeout,
	})
}

func (r *openAIResponder) Respond(ctx context.Context, history []models.ChatMessage, message string, profile engine.UserProfile) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.cfg.Model,
		Messages: r.buildMessages(history, message, profile),
	})
	if err != nil {
		log.Printf("ERROR: [Responder] CreateChatCompletion failed for model %s: %v", r.cfg.Model, err)
		return "", fmt.Errorf("responder unavailable: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("responder returned no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("responder returned empty content")
	}
	return content, nil
}

func (r *openAIResponder) buildMessages(history []models.ChatMessage, message string, profile engine.UserProfile) []openai.ChatCompletionMessage {
	p := profile.Normalized()
	system := fmt.Sprintf("%s\nThe user is in the %s age group. Use a %s tone.", r.cfg.SystemPrompt, p.AgeGroup, p.Personality)
	messages := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: system}}

	if r.cfg.HistoryLimit > 0 && len(history) > r.cfg.HistoryLimit {
		history = history[len(history)-r.cfg.HistoryLimit:]
	}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	return append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
}
