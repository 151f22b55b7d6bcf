package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/hazaldoster/agesa-chatbot/internal/chat"
)

const DefaultPollInterval = time.Second

// assistantBackend is the slice of the OpenAI client the session-oriented
// adapter needs: create a thread, post an utterance, start a run, poll
// its status and fetch the reply. *openai.Client satisfies it.
type assistantBackend interface {
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

// AssistantClient drives a durable-thread backend: one thread per
// adapter lifetime, one asynchronous run per send, polled to a terminal
// state.
type AssistantClient struct {
	backend      assistantBackend
	assistantID  string
	threadID     string
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewAssistant builds the session-oriented adapter. pollTimeout of zero
// leaves the poll loop bounded only by ctx cancellation.
func NewAssistant(apiKey, assistantID, baseURL string, pollInterval, pollTimeout time.Duration) (*AssistantClient, error) {
	if apiKey == "" {
		return nil, &ConfigError{Reason: "api key is empty"}
	}
	if assistantID == "" {
		return nil, &ConfigError{Reason: "assistant id is empty"}
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &AssistantClient{
		backend:      openai.NewClientWithConfig(config),
		assistantID:  assistantID,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}, nil
}

func (c *AssistantClient) Send(ctx context.Context, utterance string) (chat.Message, error) {
	if c.threadID == "" {
		thread, err := c.backend.CreateThread(ctx, openai.ThreadRequest{})
		if err != nil {
			return chat.Message{}, fmt.Errorf("failed to create thread: %w", err)
		}
		c.threadID = thread.ID
	}

	if _, err := c.backend.CreateMessage(ctx, c.threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: utterance,
	}); err != nil {
		return chat.Message{}, fmt.Errorf("failed to post message: %w", err)
	}

	run, err := c.backend.CreateRun(ctx, c.threadID, openai.RunRequest{AssistantID: c.assistantID})
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to start run: %w", err)
	}

	if err := c.waitForRun(ctx, run); err != nil {
		return chat.Message{}, err
	}
	return c.latestReply(ctx)
}

// waitForRun polls the run on a fixed interval until it completes or
// fails. Cancelling ctx stops the loop between polls.
func (c *AssistantClient) waitForRun(ctx context.Context, run openai.Run) error {
	if c.pollTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.pollTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		switch run.Status {
		case openai.RunStatusCompleted:
			return nil
		case openai.RunStatusFailed:
			return &RunFailedError{RunID: run.ID}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("run %s not settled: %w", run.ID, ctx.Err())
		case <-ticker.C:
		}

		var err error
		run, err = c.backend.RetrieveRun(ctx, c.threadID, run.ID)
		if err != nil {
			return fmt.Errorf("failed to retrieve run: %w", err)
		}
	}
}

// latestReply lists the thread and returns the most recently created
// assistant-authored message. A non-text payload yields the fixed
// placeholder instead of failing the turn.
func (c *AssistantClient) latestReply(ctx context.Context) (chat.Message, error) {
	list, err := c.backend.ListMessage(ctx, c.threadID, nil, nil, nil, nil, nil)
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to list thread messages: %w", err)
	}

	var newest *openai.Message
	for i := range list.Messages {
		m := &list.Messages[i]
		if m.Role != openai.ChatMessageRoleAssistant {
			continue
		}
		if newest == nil || m.CreatedAt > newest.CreatedAt {
			newest = m
		}
	}
	if newest == nil {
		return chat.Message{}, fmt.Errorf("thread %s has no assistant reply", c.threadID)
	}

	content, err := extractText(newest.Content)
	if errors.Is(err, ErrContentUnavailable) {
		content = ContentUnavailableText
	} else if err != nil {
		return chat.Message{}, err
	}
	return chat.NewAssistantMessage(content), nil
}

func extractText(parts []openai.MessageContent) (string, error) {
	if len(parts) == 0 || parts[0].Type != "text" || parts[0].Text == nil {
		return "", ErrContentUnavailable
	}
	return parts[0].Text.Value, nil
}
