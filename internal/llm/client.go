package llm

import (
	"context"

	"github.com/hazaldoster/agesa-chatbot/internal/chat"
)

// Client sends one user utterance to the backend and produces exactly
// one assistant reply. Implementations own their private conversation
// state (durable thread or in-memory transcript) and never touch the
// session directly.
type Client interface {
	Send(ctx context.Context, utterance string) (chat.Message, error)
}
