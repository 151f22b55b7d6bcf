package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/hazaldoster/agesa-chatbot/internal/llm"
	"github.com/hazaldoster/agesa-chatbot/internal/session"
)

const resetCmd = "reset"

// Bot is a thin Telegram front-end over the session engine: one
// controller per chat, /reset discarding the whole session the same way
// the back button does in the terminal UI.
type Bot struct {
	api       *tgbotapi.BotAPI
	s         sender
	newClient func() (llm.Client, error)
	logger    zerolog.Logger
	opts      session.Options

	mu       sync.Mutex
	sessions map[int64]*session.Controller
}

func New(botToken string, newClient func() (llm.Client, error), logger zerolog.Logger, opts session.Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:       api,
		s:         botAPISender{api: api},
		newClient: newClient,
		logger:    logger,
		opts:      opts,
		sessions:  make(map[int64]*session.Controller),
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleIncomingMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, session.WelcomeText)
		return
	case resetCmd:
		b.resetSession(msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, session.WelcomeText)
		return
	}

	ctrl := b.controllerFor(msg.Chat.ID)
	if banner := ctrl.Session().ConnectionError(); banner != "" {
		b.sendMessage(msg.Chat.ID, banner)
		return
	}

	reply, err := ctrl.Submit(ctx, msg.Text)
	if err != nil {
		// Empty input and in-flight turns are silently dropped, same
		// as a disabled send button.
		b.logger.Debug().Err(err).Int64("chat_id", msg.Chat.ID).Msg("submit rejected")
		return
	}
	b.sendMessage(msg.Chat.ID, reply.Content)
}

// controllerFor returns the chat's session controller, building it on
// first contact. A failed adapter construction pins the connection
// error banner on the session.
func (b *Bot) controllerFor(chatID int64) *session.Controller {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ctrl, ok := b.sessions[chatID]; ok {
		return ctrl
	}

	var ctrl *session.Controller
	client, err := b.newClient()
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to create llm client")
		ctrl = session.NewUnavailable(session.MissingConfigText, b.logger)
	} else {
		ctrl = session.New(client, b.logger.With().Int64("chat_id", chatID).Logger(), b.opts)
	}
	b.sessions[chatID] = ctrl
	return ctrl
}

func (b *Bot) resetSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, chatID)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}
