package session

import (
	"context"
	"time"

	"github.com/hazaldoster/agesa-chatbot/internal/chat"
)

// DefaultHandoffDelay is how long the automatic opening-question send
// waits after the chat screen takes over from the welcome screen.
const DefaultHandoffDelay = 500 * time.Millisecond

// Seed installs the handoff exchange before any network traffic: the
// assistant greeting first, then the visitor's opening question
// verbatim. The greeting is stamped slightly earlier so it visibly
// precedes the question.
func (c *Controller) Seed(opening chat.Message) {
	welcome := chat.NewAssistantMessage(HandoffWelcomeText)
	welcome.Timestamp = opening.Timestamp.Add(-time.Second)
	c.session.Append(welcome)
	c.session.Append(opening)
}

// SendOpening forwards the seeded opening question to the backend after
// the handoff delay. It fires at most once per controller, no matter
// how often the surrounding component re-evaluates, and blocks until
// the turn settles. The question is already in the log, so no user
// message is appended here.
func (c *Controller) SendOpening(ctx context.Context, opening string, delay time.Duration) (chat.Message, error) {
	c.mu.Lock()
	if c.openingSent {
		c.mu.Unlock()
		return chat.Message{}, nil
	}
	c.openingSent = true
	c.mu.Unlock()

	if c.client == nil || c.session.ConnectionError() != "" {
		return chat.Message{}, ErrUnavailable
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return chat.Message{}, ctx.Err()
		case <-timer.C:
		}
	}

	if !c.session.TryBeginTurn() {
		return chat.Message{}, ErrBusy
	}
	return c.completeTurn(ctx, opening), nil
}
