package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Provider string

const (
	ProviderAssistant  Provider = "assistant"
	ProviderCompletion Provider = "completion"
)

type Config struct {
	// LLM settings
	LLMProvider       Provider `env:"LLM_PROVIDER" envDefault:"assistant"`
	OpenAIAPIKey      string   `env:"OPENAI_API_KEY"`
	OpenAIAssistantID string   `env:"OPENAI_ASSISTANT_ID"`
	OpenAIBaseURL     string   `env:"OPENAI_BASE_URL"`
	OpenAIModel       string   `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	SystemPrompt      string   `env:"SYSTEM_PROMPT"`

	// Run polling (assistant provider)
	PollIntervalMS int `env:"POLL_INTERVAL_MS" envDefault:"1000"`
	PollTimeoutMS  int `env:"POLL_TIMEOUT_MS" envDefault:"0"`

	// Session behavior
	PreserveReplyTimestamps bool `env:"PRESERVE_REPLY_TIMESTAMPS" envDefault:"false"`
	HandoffDelayMS          int  `env:"HANDOFF_DELAY_MS" envDefault:"500"`

	// Telegram front-end
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutMS) * time.Millisecond
}

func (c *Config) HandoffDelay() time.Duration {
	return time.Duration(c.HandoffDelayMS) * time.Millisecond
}
