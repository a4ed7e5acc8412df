package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Fraugrammers/frotect-dashboard/internal/session"
)

const loginFooter = "Linux CMD secure access • Frotect v1.0"

// LoginPage collects a username and password. Any submission logs in.
type LoginPage struct {
	session  *session.State
	keys     KeyMap
	log      *zap.SugaredLogger
	user     textinput.Model
	password textinput.Model
	focus    int
}

// NewLoginPage creates the login page bound to a session.
func NewLoginPage(sess *session.State, log *zap.SugaredLogger) *LoginPage {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Prompt = ""
	user.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginPage{
		session:  sess,
		keys:     DefaultKeyMap(),
		log:      log,
		user:     user,
		password: password,
	}
}

func (p *LoginPage) ID() string { return PageLogin }

func (p *LoginPage) Init() tea.Cmd {
	p.user.SetValue("")
	p.password.SetValue("")
	p.setFocus(0)
	return textinput.Blink
}

func (p *LoginPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p.updateInputs(msg), nil
	}

	switch {
	case key.Matches(km, p.keys.ForceQuit), key.Matches(km, p.keys.Escape):
		return tea.Quit, nil
	case key.Matches(km, p.keys.NextSection), km.Type == tea.KeyDown:
		p.setFocus((p.focus + 1) % 2)
		return nil, nil
	case key.Matches(km, p.keys.PrevSection), km.Type == tea.KeyUp:
		p.setFocus((p.focus + 1) % 2)
		return nil, nil
	case key.Matches(km, p.keys.Enter):
		if p.focus == 0 {
			p.setFocus(1)
			return nil, nil
		}
		return nil, p.submit()
	}
	return p.updateInputs(msg), nil
}

func (p *LoginPage) submit() *PageNav {
	p.session.Login(p.user.Value(), p.password.Value())
	p.log.Infow("login", "user", p.user.Value())
	return &PageNav{PageID: PageDashboard}
}

func (p *LoginPage) setFocus(i int) {
	p.focus = i
	if i == 0 {
		p.user.Focus()
		p.password.Blur()
	} else {
		p.password.Focus()
		p.user.Blur()
	}
}

func (p *LoginPage) updateInputs(msg tea.Msg) tea.Cmd {
	var c1, c2 tea.Cmd
	p.user, c1 = p.user.Update(msg)
	p.password, c2 = p.password.Update(msg)
	return tea.Batch(c1, c2)
}

func (p *LoginPage) View(width, height int) string {
	field := func(label string, in textinput.Model, focused bool) string {
		box := sectionStyle.Width(30)
		if focused {
			box = activeSectionStyle.Width(30)
		}
		return lipgloss.JoinVertical(lipgloss.Left, label, box.Render(in.View()))
	}

	button := lipgloss.NewStyle().
		Width(32).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(ColorGreen).
		Render("Login")

	form := lipgloss.JoinVertical(lipgloss.Center,
		headerStyle.Render("Login"),
		"",
		field("Username", p.user, p.focus == 0),
		field("Password", p.password, p.focus == 1),
		"",
		button,
		"",
		helpStyle.Render(loginFooter),
	)
	card := sectionStyle.Padding(1, 2).Render(form)
	if width <= 0 || height <= 0 {
		return card
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
