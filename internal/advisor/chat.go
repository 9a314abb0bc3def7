package advisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// systemPrompt sets the persona for every completion.
const systemPrompt = "You are Eco, a friendly environmental teacher in an educational game. " +
	"Your role is to provide short, engaging, and informative environmental tips. " +
	"Keep responses under 100 words and always end with an encouraging phrase about environmental action."

// Completion defaults.
const (
	DefaultChatBaseURL = "https://api.openai.com/v1"
	DefaultChatModel   = "gpt-4o-mini"
	chatMaxTokens      = 150
	chatTemperature    = 0.7
)

// ChatOptions configures a ChatService.
type ChatOptions struct {
	BaseURL string // OpenAI-compatible API root, e.g. https://api.openai.com/v1
	APIKey  string
	Model   string
	Timeout time.Duration
	Seed    int64 // Seed for random_tip fact selection
}

// ChatService answers advisory requests with an OpenAI-compatible
// chat-completion API.
type ChatService struct {
	opts   ChatOptions
	client *openai.Client
	tips   *TipBook
	now    func() time.Time
}

// NewChatService creates a completion-backed service.
func NewChatService(opts ChatOptions) *ChatService {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultChatBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultChatModel
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &ChatService{
		opts:   opts,
		client: openai.NewClientWithConfig(cfg),
		tips:   NewTipBook(opts.Seed),
		now:    time.Now,
	}
}

// Prompt builds the user prompt for a request.
func (s *ChatService) Prompt(req Request) (string, error) {
	switch req.Action {
	case ActionWelcome:
		return "Welcome the player to the eco-adventure game and briefly explain your role as their environmental guide.", nil
	case ActionScoreMilestone:
		return fmt.Sprintf("The player just reached %d points! Give them an encouraging environmental tip related to their achievement.", req.Score), nil
	case ActionRandomTip:
		return fmt.Sprintf("Share this environmental fact: %q in an engaging way that connects to the game.", s.tips.Random()), nil
	case ActionCollectionTip:
		topic := req.GameEvent
		if topic == "" {
			topic = "environmental conservation"
		}
		return fmt.Sprintf("The player just collected an environmental item! Give a short tip about %s.", topic), nil
	}
	return "", fmt.Errorf("advisor: unknown action %q", req.Action)
}

// Advise implements Service.
func (s *ChatService) Advise(ctx context.Context, req Request) (Message, error) {
	prompt, err := s.Prompt(req)
	if err != nil {
		return Message{}, err
	}

	text, err := s.complete(ctx, prompt)
	if err != nil {
		return Message{}, err
	}

	return Message{
		Text:      text,
		Character: Character,
		Timestamp: s.now().UnixMilli(),
	}, nil
}

func (s *ChatService) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("advisor: completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("advisor: completion has no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("advisor: completion is empty")
	}
	return text, nil
}
