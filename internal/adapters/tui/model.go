// Package tui is the terminal front-end: login, interest onboarding, then the
// journal screen with the latest insight and the session dashboard.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PabloGalante/mindecho/internal/app/onboarding"
	"github.com/PabloGalante/mindecho/internal/app/reflection"
	"github.com/PabloGalante/mindecho/internal/domain"
	"github.com/PabloGalante/mindecho/internal/observability"
)

type screen int

const (
	screenLogin screen = iota
	screenOnboarding
	screenJournal
)

const defaultWidth = 72

// Model represents the BubbleTea journaling model
type Model struct {
	ctx context.Context
	svc *reflection.Service

	screen   screen
	width    int
	quitting bool

	email   textinput.Model
	entry   textarea.Model
	spinner spinner.Model
	bar     progress.Model

	cursor int
	picker *onboarding.Picker
	// 0 means no phase, otherwise an index into domain.CyclePhases plus one
	phase int

	session   *domain.Session
	analyzing bool
	insight   *domain.InsightResult
	err       error
	notice    string
}

// Message types
type analysisResultMsg struct {
	sessionID domain.SessionID
	out       *reflection.SubmitOutput
	err       error
}

// NewModel creates the model on the login screen.
func NewModel(ctx context.Context, svc *reflection.Service) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	entry := textarea.New()
	entry.Placeholder = "What's on your mind?"
	entry.ShowLineNumbers = false
	entry.SetWidth(defaultWidth - 4)
	entry.SetHeight(5)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = accentStyle

	bar := progress.New(
		progress.WithGradient("#7f5af0", "#2cb67d"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return Model{
		ctx:     ctx,
		svc:     svc,
		screen:  screenLogin,
		width:   defaultWidth,
		email:   email,
		entry:   entry,
		spinner: spin,
		bar:     bar,
		picker:  &onboarding.Picker{},
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 40)
		m.entry.SetWidth(m.width - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+r":
			if m.session != nil {
				return m.clearSession(), textinput.Blink
			}
		}

		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenOnboarding:
			return m.updateOnboarding(msg)
		case screenJournal:
			return m.updateJournal(msg)
		}

	case analysisResultMsg:
		if m.session == nil || msg.sessionID != m.session.ID {
			// session was cleared while the analysis ran
			return m, nil
		}
		m.analyzing = false
		if msg.err != nil {
			m.err = msg.err
			m.insight = nil
			return m, m.entry.Focus()
		}
		m.err = nil
		m.insight = &msg.out.Insight
		m.entry.Reset()
		return m, m.entry.Focus()

	case spinner.TickMsg:
		if !m.analyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.forwardToInputs(msg)
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		sess, err := m.svc.StartSession(m.ctx, m.email.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.session = sess
		m.err = nil
		m.screen = screenOnboarding
		m.email.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	return m, cmd
}

func (m Model) updateOnboarding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(domain.Interests)-1 {
			m.cursor++
		}
	case " ", "x":
		m.picker.Toggle(domain.Interests[m.cursor])
		m.err = nil
	case "enter":
		interests, err := m.picker.Complete()
		if err != nil {
			m.err = err
			return m, nil
		}
		if _, err := m.svc.ChooseInterests(m.ctx, m.session.ID, interests); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.screen = screenJournal
		return m, m.entry.Focus()
	}
	return m, nil
}

func (m Model) updateJournal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.analyzing {
		// submit is disabled until the current analysis settles
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.phase = (m.phase + 1) % (len(domain.CyclePhases) + 1)
		return m, nil
	case "ctrl+s":
		return m.submit()
	}

	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	in := reflection.SubmitInput{
		Text:       m.entry.Value(),
		CyclePhase: m.cyclePhase(),
	}
	if err := (domain.ReflectionInput{Text: in.Text}).Validate(); err != nil {
		m.notice = "Write a few words before asking for an echo."
		return m, nil
	}

	m.notice = ""
	m.analyzing = true
	m.entry.Blur()
	return m, tea.Batch(m.spinner.Tick, analyze(m.ctx, m.svc, m.session.ID, in))
}

// analyze runs the submission off the UI loop.
func analyze(ctx context.Context, svc *reflection.Service, id domain.SessionID, in reflection.SubmitInput) tea.Cmd {
	return func() tea.Msg {
		out, err := svc.Submit(ctx, id, in)
		return analysisResultMsg{sessionID: id, out: out, err: err}
	}
}

func (m Model) clearSession() Model {
	if err := m.svc.ClearSession(m.ctx, m.session.ID); err != nil {
		observability.LoggerFromContext(m.ctx).Warn("clear session", "error", err)
	}

	m.session = nil
	m.screen = screenLogin
	m.analyzing = false
	m.insight = nil
	m.err = nil
	m.notice = ""
	m.cursor = 0
	m.phase = 0
	m.picker.Reset()
	m.entry.Reset()
	m.entry.Blur()
	m.email.Reset()
	m.email.Focus()
	return m
}

func (m Model) cyclePhase() domain.CyclePhase {
	if m.phase == 0 {
		return domain.CyclePhaseNone
	}
	return domain.CyclePhases[m.phase-1]
}

func (m Model) forwardToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenLogin:
		m.email, cmd = m.email.Update(msg)
	case screenJournal:
		m.entry, cmd = m.entry.Update(msg)
	}
	return m, cmd
}
