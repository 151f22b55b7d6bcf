package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hazaldoster/agesa-chatbot/internal/chat"
	"github.com/hazaldoster/agesa-chatbot/internal/llm"
)

// Fixed user-facing copy. Backend failures are downgraded to ApologyText
// so the transcript never breaks; the structured cause goes to the log.
const (
	ApologyText        = "Üzgünüm, isteğinizi işlerken bir hata oluştu. Lütfen tekrar deneyin."
	WelcomeText        = "Merhaba! Size finansal konularda nasıl yardımcı olabilirim?"
	HandoffWelcomeText = " Merhaba, Ben Finansal Terapistiniz. Aklınızda bir konu var mı?"
	MissingConfigText  = "API kimlik bilgileri eksik. Lütfen .env dosyanızı kontrol edin."
)

var (
	// ErrBusy rejects a submit while a turn is still in flight.
	ErrBusy = errors.New("a turn is already in flight")
	// ErrUnavailable rejects a submit on a session with a terminal
	// connection error or no adapter.
	ErrUnavailable = errors.New("session is not interactive")
	// ErrEmptyUtterance rejects a submit whose text trims to nothing.
	ErrEmptyUtterance = errors.New("utterance is empty")
)

type Options struct {
	// PreserveReplyTimestamps keeps the adapter's own reply timestamp
	// instead of re-stamping at append time.
	PreserveReplyTimestamps bool
}

// Controller orchestrates one request/response cycle at a time against
// a single backend adapter, owning the session for its lifetime.
type Controller struct {
	session *chat.Session
	client  llm.Client
	logger  zerolog.Logger
	opts    Options

	mu          sync.Mutex
	openingSent bool
}

func New(client llm.Client, logger zerolog.Logger, opts Options) *Controller {
	return &Controller{
		session: chat.NewSession(),
		client:  client,
		logger:  logger,
		opts:    opts,
	}
}

// NewUnavailable builds a controller whose session is permanently
// non-interactive, used when the backend adapter could not be
// constructed. The reason is what the renderer shows as a banner.
func NewUnavailable(reason string, logger zerolog.Logger) *Controller {
	c := New(nil, logger, Options{})
	c.session.FailConnection(reason)
	return c
}

func (c *Controller) Session() *chat.Session {
	return c.session
}

// Submit runs one full turn for a direct user submission: the utterance
// is appended to the log before any network traffic, then the adapter's
// reply (or the apology) follows. It blocks until the turn settles.
func (c *Controller) Submit(ctx context.Context, text string) (chat.Message, error) {
	utterance := strings.TrimSpace(text)
	if utterance == "" {
		return chat.Message{}, ErrEmptyUtterance
	}
	if c.client == nil || c.session.ConnectionError() != "" {
		return chat.Message{}, ErrUnavailable
	}
	if !c.session.TryBeginTurn() {
		return chat.Message{}, ErrBusy
	}

	c.session.Append(chat.NewUserMessage(utterance))
	return c.completeTurn(ctx, utterance), nil
}

// completeTurn invokes the adapter and appends the outcome. The busy
// flag is released no matter how the round-trip ends.
func (c *Controller) completeTurn(ctx context.Context, utterance string) chat.Message {
	defer c.session.EndTurn()

	reply, err := c.client.Send(ctx, utterance)
	if err != nil {
		c.logger.Error().Err(err).Msg("turn failed, substituting apology")
		reply = chat.NewAssistantMessage(ApologyText)
	} else if !c.opts.PreserveReplyTimestamps {
		reply.Timestamp = time.Now()
	}
	c.session.Append(reply)
	return reply
}
