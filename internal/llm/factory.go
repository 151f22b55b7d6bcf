package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/hazaldoster/agesa-chatbot/internal/config"
)

const (
	ProviderAssistant  = "assistant"
	ProviderCompletion = "completion"
)

// Factory creates backend adapters with consistent configuration.
type Factory struct {
	APIKey       string
	AssistantID  string
	BaseURL      string
	Model        string
	SystemPrompt string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		APIKey:       cfg.OpenAIAPIKey,
		AssistantID:  cfg.OpenAIAssistantID,
		BaseURL:      cfg.OpenAIBaseURL,
		Model:        cfg.OpenAIModel,
		SystemPrompt: cfg.SystemPrompt,
		PollInterval: cfg.PollInterval(),
		PollTimeout:  cfg.PollTimeout(),
	}
}

func (f *Factory) CreateClient(provider string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderAssistant:
		return NewAssistant(f.APIKey, f.AssistantID, f.BaseURL, f.PollInterval, f.PollTimeout)
	case ProviderCompletion:
		return NewCompletion(f.APIKey, f.BaseURL, f.Model, f.SystemPrompt)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
