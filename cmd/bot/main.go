package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hazaldoster/agesa-chatbot/internal/config"
	"github.com/hazaldoster/agesa-chatbot/internal/llm"
	"github.com/hazaldoster/agesa-chatbot/internal/session"
	"github.com/hazaldoster/agesa-chatbot/internal/telegram"
)

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	if err := godotenv.Load(".env"); err != nil {
		logger.Warn().Err(err).Msg(".env file not found")
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		logger.Fatal().Msg("TELEGRAM_BOT_TOKEN is required")
	}

	factory := llm.NewFactory(cfg)
	newClient := func() (llm.Client, error) {
		return factory.CreateClient(string(cfg.LLMProvider))
	}

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		newClient,
		logger,
		session.Options{PreserveReplyTimestamps: cfg.PreserveReplyTimestamps},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create bot")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info().Str("provider", string(cfg.LLMProvider)).Msg("bot started")
	bot.Start(ctx)
}
