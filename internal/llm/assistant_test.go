package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

type fakeAssistantBackend struct {
	threadCreates int
	posted        []string
	runCreates    int
	statuses      []openai.RunStatus
	polls         int
	listCalls     int
	replies       []openai.Message

	createThreadErr error
	createRunErr    error
	retrieveErr     error
}

func (f *fakeAssistantBackend) CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error) {
	if f.createThreadErr != nil {
		return openai.Thread{}, f.createThreadErr
	}
	f.threadCreates++
	return openai.Thread{ID: "thread_1"}, nil
}

func (f *fakeAssistantBackend) CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error) {
	f.posted = append(f.posted, request.Content)
	return openai.Message{ID: "msg_user", Role: request.Role}, nil
}

func (f *fakeAssistantBackend) CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error) {
	if f.createRunErr != nil {
		return openai.Run{}, f.createRunErr
	}
	f.runCreates++
	return openai.Run{ID: "run_1", Status: f.statuses[0]}, nil
}

func (f *fakeAssistantBackend) RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error) {
	if f.retrieveErr != nil {
		return openai.Run{}, f.retrieveErr
	}
	f.polls++
	idx := f.polls
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	return openai.Run{ID: runID, Status: f.statuses[idx]}, nil
}

func (f *fakeAssistantBackend) ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error) {
	f.listCalls++
	return openai.MessagesList{Messages: f.replies}, nil
}

func textReply(id, value string, createdAt int) openai.Message {
	return openai.Message{
		ID:        id,
		Role:      openai.ChatMessageRoleAssistant,
		CreatedAt: createdAt,
		Content:   []openai.MessageContent{{Type: "text", Text: &openai.MessageText{Value: value}}},
	}
}

func newTestAssistant(backend assistantBackend) *AssistantClient {
	return &AssistantClient{
		backend:      backend,
		assistantID:  "asst_1",
		pollInterval: time.Millisecond,
	}
}

func TestNewAssistantValidatesConfig(t *testing.T) {
	var cfgErr *ConfigError
	if _, err := NewAssistant("", "asst_1", "", 0, 0); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for empty api key, got %v", err)
	}
	if _, err := NewAssistant("sk-test", "", "", 0, 0); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for empty assistant id, got %v", err)
	}
	c, err := NewAssistant("sk-test", "asst_1", "", 0, 0)
	if err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if c.pollInterval != DefaultPollInterval {
		t.Fatalf("expected default poll interval, got %v", c.pollInterval)
	}
}

func TestAssistantSendPollsUntilCompleted(t *testing.T) {
	backend := &fakeAssistantBackend{
		statuses: []openai.RunStatus{
			openai.RunStatusQueued,
			openai.RunStatusQueued,
			openai.RunStatusInProgress,
			openai.RunStatusCompleted,
		},
		replies: []openai.Message{
			textReply("msg_old", "eski cevap", 100),
			textReply("msg_new", "yeni cevap", 200),
		},
	}
	c := newTestAssistant(backend)

	msg, err := c.Send(context.Background(), "Bütçemi nasıl planlamalıyım?")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if backend.polls != 3 {
		t.Fatalf("expected 3 status polls, got %d", backend.polls)
	}
	if backend.listCalls != 1 {
		t.Fatalf("messages must be listed once, after completion; got %d", backend.listCalls)
	}
	if msg.Content != "yeni cevap" {
		t.Fatalf("expected the newest assistant reply, got %q", msg.Content)
	}
	if msg.Role != "assistant" {
		t.Fatalf("unexpected role: %v", msg.Role)
	}
	if msg.ID == "" || msg.Timestamp.IsZero() {
		t.Fatalf("reply should carry a fresh id and timestamp: %+v", msg)
	}
}

func TestAssistantThreadIsCreatedOnce(t *testing.T) {
	backend := &fakeAssistantBackend{
		statuses: []openai.RunStatus{openai.RunStatusCompleted},
		replies:  []openai.Message{textReply("msg_1", "cevap", 1)},
	}
	c := newTestAssistant(backend)

	for i := 0; i < 2; i++ {
		if _, err := c.Send(context.Background(), "soru"); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}
	if backend.threadCreates != 1 {
		t.Fatalf("thread must be created lazily and exactly once, got %d", backend.threadCreates)
	}
	if backend.runCreates != 2 {
		t.Fatalf("expected one run per send, got %d", backend.runCreates)
	}
	if len(backend.posted) != 2 {
		t.Fatalf("expected both utterances posted, got %d", len(backend.posted))
	}
}

func TestAssistantRunFailed(t *testing.T) {
	backend := &fakeAssistantBackend{
		statuses: []openai.RunStatus{openai.RunStatusQueued, openai.RunStatusFailed},
	}
	c := newTestAssistant(backend)

	_, err := c.Send(context.Background(), "soru")
	var runErr *RunFailedError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected RunFailedError, got %v", err)
	}
	if backend.listCalls != 0 {
		t.Fatalf("failed run must not fetch messages")
	}
}

func TestAssistantNonTextPayload(t *testing.T) {
	backend := &fakeAssistantBackend{
		statuses: []openai.RunStatus{openai.RunStatusCompleted},
		replies: []openai.Message{{
			ID:        "msg_img",
			Role:      openai.ChatMessageRoleAssistant,
			CreatedAt: 10,
			Content:   []openai.MessageContent{{Type: "image_file"}},
		}},
	}
	c := newTestAssistant(backend)

	msg, err := c.Send(context.Background(), "soru")
	if err != nil {
		t.Fatalf("non-text payload must not fail the turn: %v", err)
	}
	if msg.Content != ContentUnavailableText {
		t.Fatalf("expected placeholder content, got %q", msg.Content)
	}
}

func TestAssistantPollHonorsCancellation(t *testing.T) {
	backend := &fakeAssistantBackend{
		statuses: []openai.RunStatus{openai.RunStatusQueued, openai.RunStatusQueued},
	}
	c := newTestAssistant(backend)
	c.pollInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Send(ctx, "soru")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestAssistantPollTimeout(t *testing.T) {
	backend := &fakeAssistantBackend{
		statuses: []openai.RunStatus{openai.RunStatusQueued, openai.RunStatusQueued},
	}
	c := newTestAssistant(backend)
	c.pollInterval = time.Millisecond
	c.pollTimeout = 5 * time.Millisecond

	_, err := c.Send(context.Background(), "soru")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
