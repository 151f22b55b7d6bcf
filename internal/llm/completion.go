package llm

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/hazaldoster/agesa-chatbot/internal/chat"
)

// DefaultSystemPrompt is the financial-therapy persona used when no
// override is configured.
const DefaultSystemPrompt = "Sen Agesa Finansal Terapi asistanısın. Kullanıcılara finansal konularda yardımcı oluyorsun. " +
	"Türkçe konuşuyorsun ve empati kurarak, destekleyici bir şekilde yanıt veriyorsun. " +
	"Finansal kararlar, yatırımlar, bütçe yönetimi ve finansal stres konularında rehberlik sağlıyorsun."

const (
	completionTemperature = 0.7
	completionTopP        = 0.95
	completionMaxTokens   = 8192
)

type chatBackend interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// CompletionClient is the single-shot variant: no durable backend
// state, the prior turns ride along with every call as an in-process
// transcript.
type CompletionClient struct {
	backend      chatBackend
	model        string
	systemPrompt string
	history      []openai.ChatCompletionMessage
}

func NewCompletion(apiKey, baseURL, model, systemPrompt string) (*CompletionClient, error) {
	if apiKey == "" {
		return nil, &ConfigError{Reason: "api key is empty"}
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &CompletionClient{
		backend:      openai.NewClientWithConfig(config),
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

func (c *CompletionClient) Send(ctx context.Context, utterance string) (chat.Message, error) {
	c.history = append(c.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: utterance,
	})

	messages := make([]openai.ChatCompletionMessage, 0, len(c.history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: c.systemPrompt,
	})
	messages = append(messages, c.history...)

	resp, err := c.backend.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: completionTemperature,
		TopP:        completionTopP,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		// The failed turn stays out of the transcript so a retry
		// does not double the utterance.
		c.history = c.history[:len(c.history)-1]
		return chat.Message{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.history = c.history[:len(c.history)-1]
		return chat.Message{}, fmt.Errorf("chat completion returned no choices")
	}

	reply := resp.Choices[0].Message.Content
	c.history = append(c.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: reply,
	})

	msg := chat.NewAssistantMessage(reply)
	msg.ID = synthesizeID()
	return msg, nil
}

// ClearHistory drops the in-process transcript; the next send starts a
// fresh conversation.
func (c *CompletionClient) ClearHistory() {
	c.history = nil
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// synthesizeID embeds the current time plus a random suffix, enough to
// keep ids unique within one session.
func synthesizeID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("chat-%d-%s", time.Now().UnixMilli(), suffix)
}
