package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/session"
	"github.com/naveenspark/liftlog/pkg/domain"
)

// authDoneMsg is the outcome of a login or registration attempt.
type authDoneMsg struct {
	err error
}

// logoutMsg asks the App to end the session.
type logoutMsg struct{}

type loginModel struct {
	d        *deps
	email    string
	password string
	field    int // 0 email, 1 password
	register bool
	busy     bool
	errs     form.Errors
	err      string
}

func newLoginModel(d *deps) loginModel {
	return loginModel{d: d}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = authText(msg.err)
			return m, nil
		}
		m.password = ""
		m.err = ""

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch key := msg.String(); key {
		case "tab", "shift+tab", "up", "down":
			m.field = 1 - m.field
		case "ctrl+r":
			m.register = !m.register
			m.err = ""
			m.errs = nil
		case "enter", "ctrl+s":
			if m.field == 0 && key == "enter" && m.password == "" {
				m.field = 1
				return m, nil
			}
			return m.submit()
		default:
			if m.field == 0 {
				m.email = editKey(m.email, msg)
			} else {
				m.password = editKey(m.password, msg)
			}
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	creds := domain.Credentials{Email: strings.TrimSpace(m.email), Password: m.password}
	m.errs = nil
	m.err = ""
	if err := m.d.validate.Struct(creds); err != nil {
		var fe form.Errors
		if errors.As(err, &fe) {
			m.errs = fe
		}
		return m, nil
	}
	m.busy = true
	sess, register := m.d.session, m.register
	return m, func() tea.Msg {
		ctx := context.Background()
		if register {
			return authDoneMsg{err: sess.Register(ctx, creds.Email, creds.Password)}
		}
		return authDoneMsg{err: sess.Login(ctx, creds.Email, creds.Password)}
	}
}

func authText(err error) string {
	var ae *session.AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return errText(err, "sign in failed")
}

func (m loginModel) View() string {
	var b strings.Builder
	title := "Sign In"
	if m.register {
		title = "Create Account"
	}
	b.WriteString("\n " + titleStyle.Render(title) + "\n\n")
	b.WriteString(renderInput("email   ", m.email, "you@example.com", m.field == 0, false) + "\n")
	if msg, ok := m.errs["email"]; ok {
		b.WriteString("    " + errorStyle.Render("Email "+msg) + "\n")
	}
	b.WriteString(renderInput("password", m.password, "", m.field == 1, true) + "\n")
	if msg, ok := m.errs["password"]; ok {
		b.WriteString("    " + errorStyle.Render("Password "+msg) + "\n")
	}
	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return b.String()
}

func (m loginModel) helpKeys() string {
	other := "register"
	if m.register {
		other = "sign in"
	}
	return helpLine("tab", "field", "enter", "submit", "ctrl+r", other, "esc", "back")
}
