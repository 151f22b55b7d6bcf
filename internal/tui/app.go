package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazaldoster/agesa-chatbot/internal/chat"
	"github.com/hazaldoster/agesa-chatbot/internal/session"
)

const (
	welcomePlaceholder = "Benimle finansal kararlarınızı konuşabilir, hislerinizi paylaşabilirsiniz. Ne hakkında konuşalım?"
	chatPlaceholder    = "Finansal terapi hakkında herhangi bir soru sor"
)

type screen int

const (
	screenWelcome screen = iota
	screenChat
)

type turnDoneMsg struct{}

// Model is the two-screen terminal front-end: a welcome card that
// collects the opening question and the chat transcript it hands off
// to. All conversation state lives in the session controller; the model
// only renders it and forwards keystrokes.
type Model struct {
	newController func() *session.Controller
	handoffDelay  time.Duration

	screen       screen
	ctrl         *session.Controller
	welcomeInput textarea.Model
	chatInput    textinput.Model
	transcript   viewport.Model
	spin         spinner.Model

	width  int
	height int
	ready  bool
}

func New(newController func() *session.Controller, handoffDelay time.Duration) Model {
	welcome := textarea.New()
	welcome.Placeholder = welcomePlaceholder
	welcome.SetHeight(3)
	welcome.CharLimit = 0
	welcome.Focus()

	input := textinput.New()
	input.Placeholder = chatPlaceholder

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		newController: newController,
		handoffDelay:  handoffDelay,
		screen:        screenWelcome,
		welcomeInput:  welcome,
		chatInput:     input,
		spin:          spin,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript = viewport.New(msg.Width, max(msg.Height-6, 3))
		m.welcomeInput.SetWidth(min(msg.Width-4, 80))
		m.chatInput.Width = max(msg.Width-8, 20)
		m.ready = true
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			if m.screen == screenChat {
				return m.backToWelcome()
			}
			return m, tea.Quit
		case tea.KeyEnter:
			if m.screen == screenWelcome {
				return m.startChat()
			}
			return m.submit()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.screen == screenChat {
			m.refreshTranscript()
			return m, cmd
		}
		return m, nil

	case turnDoneMsg:
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	if m.screen == screenWelcome {
		m.welcomeInput, cmd = m.welcomeInput.Update(msg)
	} else {
		m.chatInput, cmd = m.chatInput.Update(msg)
	}
	return m, cmd
}

// startChat performs the welcome → chat handoff: seed the greeting plus
// the opening question, then let the controller send the question after
// the handoff delay.
func (m Model) startChat() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.welcomeInput.Value())
	if question == "" {
		return m, nil
	}

	ctrl := m.newController()
	ctrl.Seed(chat.NewUserMessage(question))

	m.ctrl = ctrl
	m.screen = screenChat
	m.welcomeInput.Reset()
	m.chatInput.Focus()
	m.refreshTranscript()

	opening := func() tea.Msg {
		ctrl.SendOpening(context.Background(), question, m.handoffDelay)
		return turnDoneMsg{}
	}
	return m, tea.Batch(m.spin.Tick, textinput.Blink, opening)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.chatInput.Value())
	if text == "" || m.ctrl == nil || m.ctrl.Session().Busy() || m.ctrl.Session().ConnectionError() != "" {
		return m, nil
	}
	m.chatInput.Reset()

	ctrl := m.ctrl
	turn := func() tea.Msg {
		ctrl.Submit(context.Background(), text)
		return turnDoneMsg{}
	}
	m.refreshTranscript()
	return m, tea.Batch(m.spin.Tick, turn)
}

// backToWelcome discards the session and its adapter entirely.
func (m Model) backToWelcome() (tea.Model, tea.Cmd) {
	m.ctrl = nil
	m.screen = screenWelcome
	m.chatInput.Reset()
	m.welcomeInput.Reset()
	m.welcomeInput.Focus()
	return m, textarea.Blink
}

func (m *Model) refreshTranscript() {
	if !m.ready || m.ctrl == nil {
		return
	}
	m.transcript.SetContent(renderTranscript(m.ctrl.Session(), m.transcript.Width))
	m.transcript.GotoBottom()
}
