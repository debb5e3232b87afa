package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginModel struct {
	email    textinput.Model
	password textinput.Model
	tenant   textinput.Model
	focus    int
	register bool
	busy     bool
	errMsg   string
}

func newLoginModel() loginModel {
	email := newInput("you@example.com", 200)
	email.Focus()
	password := newInput("password", 200)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	tenant := newInput("Team name (optional)", 200)
	return loginModel{email: email, password: password, tenant: tenant}
}

func (l *loginModel) fieldCount() int {
	if l.register {
		return 3
	}
	return 2
}

func (l *loginModel) setFocus(i int) {
	n := l.fieldCount()
	l.focus = ((i % n) + n) % n
	l.email.Blur()
	l.password.Blur()
	l.tenant.Blur()
	switch l.focus {
	case 0:
		l.email.Focus()
	case 1:
		l.password.Focus()
	case 2:
		l.tenant.Focus()
	}
}

func (m *appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.login
	if l.busy {
		return m, nil
	}

	switch msg.String() {
	case "q":
		// "q" is a regular character inside text fields.
	case "tab", "down":
		l.setFocus(l.focus + 1)
		return m, textinput.Blink
	case "shift+tab", "up":
		l.setFocus(l.focus - 1)
		return m, textinput.Blink
	case "ctrl+r":
		l.register = !l.register
		l.errMsg = ""
		if !l.register && l.focus > 1 {
			l.setFocus(1)
		}
		return m, nil
	case "enter":
		return m.submitAuth()
	}

	var cmd tea.Cmd
	switch l.focus {
	case 0:
		l.email, cmd = l.email.Update(msg)
	case 1:
		l.password, cmd = l.password.Update(msg)
	case 2:
		l.tenant, cmd = l.tenant.Update(msg)
	}
	return m, cmd
}

func (m *appModel) submitAuth() (tea.Model, tea.Cmd) {
	l := &m.login
	email := strings.TrimSpace(l.email.Value())
	password := l.password.Value()
	if email == "" || password == "" {
		l.errMsg = "Email and password are required"
		return m, nil
	}

	l.busy = true
	l.errMsg = ""
	client := m.client
	register := l.register
	tenant := strings.TrimSpace(l.tenant.Value())
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		var tok string
		var err error
		if register {
			tok, err = client.Register(context.Background(), email, password, tenant)
		} else {
			tok, err = client.Login(context.Background(), email, password)
		}
		return authDoneMsg{token: tok, err: err}
	})
}

func (m *appModel) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if msg.err != nil {
		m.login.errMsg = msg.err.Error()
		return m, nil
	}
	if err := m.sess.Set(msg.token); err != nil {
		m.login.errMsg = "Failed to save session: " + err.Error()
		return m, nil
	}
	m.view = viewProjects
	return m, m.startProjectsLoad()
}

func (m *appModel) viewLogin() string {
	l := &m.login

	title := "Sign in"
	action := "sign in"
	if l.register {
		title = "Create account"
		action = "register"
	}

	lines := []string{
		"Email",
		l.email.View(),
		"",
		"Password",
		l.password.View(),
	}
	if l.register {
		lines = append(lines, "", "Team", l.tenant.View())
	}
	if l.errMsg != "" {
		lines = append(lines, "", styleError().Render(l.errMsg))
	}
	if l.busy {
		lines = append(lines, "", m.spin.View()+" Signing in…")
	} else {
		lines = append(lines, "", styleMuted().Render("enter: "+action+"   ctrl+r: toggle register   ctrl+c: quit"))
	}

	return placeCentered(m.width, m.height, renderModalBox(m.width, title, strings.Join(lines, "\n")))
}
