package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hazaldoster/agesa-chatbot/internal/chat"
	"github.com/hazaldoster/agesa-chatbot/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)
)

const (
	userLabel = "Siz"
	botLabel  = "Finansal Asistan"
)

func (m Model) View() string {
	if !m.ready {
		return "yükleniyor..."
	}
	if m.screen == screenWelcome {
		return m.welcomeView()
	}
	return m.chatView()
}

func (m Model) welcomeView() string {
	card := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Agesa Finansal Terapi"),
		"",
		m.welcomeInput.View(),
		"",
		helpStyle.Render("enter: sohbete başla · ctrl+c: çıkış"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(card))
}

func (m Model) chatView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Width(m.width).Render(botLabel + " · Agesa Finansal Terapi · Çevrimiçi"))
	b.WriteString("\n")

	if banner := m.ctrl.Session().ConnectionError(); banner != "" {
		b.WriteString(bannerStyle.Render("Hata: " + banner))
		b.WriteString("\n")
	}

	b.WriteString(m.transcript.View())
	b.WriteString("\n")

	if m.ctrl.Session().Busy() {
		b.WriteString(m.spin.View() + " yanıt bekleniyor")
	}
	b.WriteString("\n")
	b.WriteString(m.chatInput.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: gönder · esc: geri dön · ctrl+c: çıkış"))
	return b.String()
}

// renderTranscript lays the grouped message log out for the viewport:
// one label per group, the group's bubbles beneath it, the last
// member's time below.
func renderTranscript(s *chat.Session, width int) string {
	groups := s.Groups()
	if len(groups) == 0 {
		return helpStyle.Render(session.WelcomeText)
	}

	wrap := lipgloss.NewStyle().Width(max(width-4, 20))

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		label := botLabelStyle.Render(botLabel)
		if g.Role == chat.RoleUser {
			label = userLabelStyle.Render(userLabel)
		}
		b.WriteString(label)
		b.WriteString("\n")
		for _, msg := range g.Messages {
			b.WriteString(wrap.Render(msg.Content))
			b.WriteString("\n")
		}
		b.WriteString(timeStyle.Render(g.Timestamp().Format("15:04")))
		b.WriteString("\n")
	}
	return b.String()
}
