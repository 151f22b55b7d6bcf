package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hazaldoster/agesa-chatbot/internal/config"
	"github.com/hazaldoster/agesa-chatbot/internal/llm"
	"github.com/hazaldoster/agesa-chatbot/internal/session"
	"github.com/hazaldoster/agesa-chatbot/internal/tui"
)

func main() {
	// The terminal is owned by the UI, so logs go to a file.
	logFile, err := os.OpenFile("chatbot.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logFile = os.Stderr
	}
	logger := zerolog.New(logFile).With().Timestamp().Logger()

	if err := godotenv.Load(".env"); err != nil {
		logger.Warn().Err(err).Msg(".env file not found")
	}

	cfg := config.New()

	factory := llm.NewFactory(cfg)
	opts := session.Options{PreserveReplyTimestamps: cfg.PreserveReplyTimestamps}

	newController := func() *session.Controller {
		client, err := factory.CreateClient(string(cfg.LLMProvider))
		if err != nil {
			logger.Error().Err(err).Msg("failed to create llm client")
			return session.NewUnavailable(session.MissingConfigText, logger)
		}
		return session.New(client, logger, opts)
	}

	app := tui.New(newController, cfg.HandoffDelay())
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		logger.Fatal().Err(err).Msg("tui exited with error")
	}
}
