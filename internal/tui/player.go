// Terminal quiz player. The model talks to an in-process engine.Service and
// renders one screen per session phase: setup, question, reveal, summary.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/engine"
)

type screen int

const (
	screenSetup screen = iota
	screenQuestion
	screenReveal
	screenSummary
	screenError
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	promptStyle   = lipgloss.NewStyle().Bold(true)
	optionStyle   = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("212")).Bold(true)
	correctStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("42")).Bold(true)
	wrongStyle    = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("196")).Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

var quizTypes = []domain.QuizType{
	domain.QuizFlags,
	domain.QuizCapitals,
	domain.QuizMixed,
	domain.QuizArithmetic,
	domain.QuizStateCapitals,
}

var difficulties = []domain.Difficulty{
	domain.DifficultyEasy,
	domain.DifficultyMedium,
	domain.DifficultyHard,
	domain.DifficultyMixed,
}

var questionCounts = []int{5, 10, 15, 20}

type startedMsg struct {
	snap   domain.SessionSnapshot
	events <-chan engine.Event
	cancel func()
}

type sessionEventMsg engine.Event

type finishedMsg struct {
	summary domain.SessionSummary
	stats   domain.UserStats
}

type errorMsg struct{ err error }

type tickMsg time.Time

type resultView struct {
	correct       bool
	timedOut      bool
	userAnswer    string
	correctAnswer string
	explanation   string
}

// Model is the bubbletea model for a local quiz run.
type Model struct {
	service *engine.Service
	userID  string

	screen screen

	// setup cursor: row 0 quiz type, row 1 difficulty, row 2 count
	setupRow int
	typeIdx  int
	diffIdx  int
	countIdx int

	sessionID string
	events    <-chan engine.Event
	cancel    func()
	snap      domain.SessionSnapshot
	selected  int
	remaining int

	result  *resultView
	summary domain.SessionSummary
	stats   domain.UserStats
	err     error
}

func NewModel(service *engine.Service, userID string) Model {
	return Model{service: service, userID: userID, selected: -1}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case startedMsg:
		m.sessionID = msg.snap.ID
		m.events = msg.events
		m.cancel = msg.cancel
		m.snap = msg.snap
		m.selected = -1
		m.remaining = msg.snap.Settings.TimeLimitSeconds
		m.screen = screenQuestion
		return m, tea.Batch(waitEvent(m.events), tickCmd())

	case sessionEventMsg:
		return m.handleEvent(engine.Event(msg))

	case finishedMsg:
		m.summary = msg.summary
		m.stats = msg.stats
		m.screen = screenSummary
		m.dropSession()
		return m, nil

	case errorMsg:
		m.err = msg.err
		m.screen = screenError
		m.dropSession()
		return m, nil

	case tickMsg:
		if m.screen != screenQuestion {
			return m, nil
		}
		if m.remaining > 0 {
			m.remaining--
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		if m.sessionID != "" {
			m.service.Abandon(m.sessionID)
		}
		m.dropSession()
		return m, tea.Quit
	}

	switch m.screen {
	case screenSetup:
		return m.handleSetupKey(key)

	case screenQuestion:
		question, ok := m.currentQuestion()
		if !ok {
			return m, nil
		}
		switch key {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			} else {
				m.selected = len(question.Options) - 1
			}
		case "down", "j":
			m.selected = (m.selected + 1) % len(question.Options)
		case "1", "2", "3", "4":
			idx := int(key[0] - '1')
			if idx < len(question.Options) {
				_, _ = m.service.SubmitAnswer(m.sessionID, question.Options[idx])
			}
		case "enter":
			if m.selected >= 0 && m.selected < len(question.Options) {
				_, _ = m.service.SubmitAnswer(m.sessionID, question.Options[m.selected])
			}
		}
		return m, nil

	case screenReveal:
		if key == "enter" || key == "n" {
			m.service.Advance(m.sessionID)
		}
		return m, nil

	case screenSummary, screenError:
		if key == "enter" {
			m.screen = screenSetup
			m.result = nil
			m.err = nil
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleSetupKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.setupRow > 0 {
			m.setupRow--
		}
	case "down", "j":
		if m.setupRow < 2 {
			m.setupRow++
		}
	case "left", "h":
		m.cycleSetup(-1)
	case "right", "l":
		m.cycleSetup(1)
	case "enter":
		settings := domain.Settings{
			QuestionCount:    questionCounts[m.countIdx],
			Difficulty:       difficulties[m.diffIdx],
			QuizType:         quizTypes[m.typeIdx],
			TimeLimitSeconds: 15,
		}
		return m, m.startQuiz(settings)
	}
	return m, nil
}

func (m *Model) cycleSetup(dir int) {
	cycle := func(idx, size int) int { return ((idx+dir)%size + size) % size }
	switch m.setupRow {
	case 0:
		m.typeIdx = cycle(m.typeIdx, len(quizTypes))
	case 1:
		m.diffIdx = cycle(m.diffIdx, len(difficulties))
	case 2:
		m.countIdx = cycle(m.countIdx, len(questionCounts))
	}
}

func (m Model) handleEvent(event engine.Event) (tea.Model, tea.Cmd) {
	switch event.Type {
	case engine.EventQuestion:
		m.snap = event.Snapshot
		m.selected = -1
		m.remaining = event.Snapshot.Settings.TimeLimitSeconds
		m.screen = screenQuestion
		return m, waitEvent(m.events)

	case engine.EventResult:
		m.snap = event.Snapshot
		m.result = resultFor(event)
		if !event.Snapshot.IsCompleted {
			m.screen = screenReveal
		}
		return m, waitEvent(m.events)

	case engine.EventCompleted:
		return m, m.finishQuiz()
	}
	return m, waitEvent(m.events)
}

func resultFor(event engine.Event) *resultView {
	if event.Record == nil {
		return nil
	}
	view := &resultView{
		correct:    event.Record.IsCorrect,
		timedOut:   event.Record.Outcome == domain.OutcomeTimedOut,
		userAnswer: event.Record.UserAnswer,
	}
	for _, q := range event.Snapshot.Questions {
		if q.ID == event.Record.QuestionID {
			view.correctAnswer = q.CorrectAnswer
			view.explanation = q.Explanation
			break
		}
	}
	return view
}

func (m Model) startQuiz(settings domain.Settings) tea.Cmd {
	service, userID := m.service, m.userID
	return func() tea.Msg {
		snap, err := service.StartSession(context.Background(), userID, settings)
		if err != nil {
			return errorMsg{err: err}
		}
		events, cancel, err := service.Subscribe(snap.ID)
		if err != nil {
			service.Abandon(snap.ID)
			return errorMsg{err: err}
		}
		return startedMsg{snap: snap, events: events, cancel: cancel}
	}
}

func (m Model) finishQuiz() tea.Cmd {
	service, sessionID := m.service, m.sessionID
	return func() tea.Msg {
		summary, stats, err := service.Finish(context.Background(), sessionID)
		if err != nil {
			return errorMsg{err: err}
		}
		return finishedMsg{summary: summary, stats: stats}
	}
}

func (m *Model) dropSession() {
	if m.cancel != nil {
		m.cancel()
	}
	m.sessionID = ""
	m.events = nil
	m.cancel = nil
}

func (m Model) currentQuestion() (domain.Question, bool) {
	if m.snap.CurrentIndex < 0 || m.snap.CurrentIndex >= len(m.snap.Questions) {
		return domain.Question{}, false
	}
	return m.snap.Questions[m.snap.CurrentIndex], true
}

func waitEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return sessionEventMsg(event)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) View() string {
	switch m.screen {
	case screenSetup:
		return m.viewSetup()
	case screenQuestion:
		return m.viewQuestion()
	case screenReveal:
		return m.viewReveal()
	case screenSummary:
		return m.viewSummary()
	case screenError:
		return titleStyle.Render("geoquiz") + "\n\n" +
			wrongStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n\n" +
			faintStyle.Render("enter: back  q: quit") + "\n"
	}
	return ""
}

func (m Model) viewSetup() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("geoquiz") + "\n\n")
	rows := []struct {
		label string
		value string
	}{
		{"quiz type", string(quizTypes[m.typeIdx])},
		{"difficulty", string(difficulties[m.diffIdx])},
		{"questions", fmt.Sprintf("%d", questionCounts[m.countIdx])},
	}
	for i, row := range rows {
		line := fmt.Sprintf("%-11s < %s >", row.label, row.value)
		if i == m.setupRow {
			b.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString(optionStyle.Render(line) + "\n")
		}
	}
	b.WriteString("\n" + faintStyle.Render("arrows: adjust  enter: start  q: quit") + "\n")
	return b.String()
}

func (m Model) viewQuestion() string {
	question, ok := m.currentQuestion()
	if !ok {
		return ""
	}
	var b strings.Builder
	header := fmt.Sprintf("question %d/%d   score %d   %ds left",
		m.snap.CurrentIndex+1, len(m.snap.Questions), m.snap.Score, m.remaining)
	b.WriteString(titleStyle.Render("geoquiz") + "  " + faintStyle.Render(header) + "\n\n")
	b.WriteString(promptStyle.Render(question.Prompt) + "\n\n")
	for i, option := range question.Options {
		line := fmt.Sprintf("%d. %s", i+1, option)
		if i == m.selected {
			b.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString(optionStyle.Render(line) + "\n")
		}
	}
	b.WriteString("\n" + faintStyle.Render("1-4 or enter: answer  q: quit") + "\n")
	return b.String()
}

func (m Model) viewReveal() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("geoquiz") + "\n\n")
	if m.result != nil {
		switch {
		case m.result.correct:
			b.WriteString(correctStyle.Render("correct!") + "\n")
		case m.result.timedOut:
			b.WriteString(wrongStyle.Render("time's up!") + "\n")
		default:
			b.WriteString(wrongStyle.Render("incorrect") + "\n")
		}
		b.WriteString(optionStyle.Render("answer: "+m.result.correctAnswer) + "\n")
		if m.result.explanation != "" {
			b.WriteString(faintStyle.Render("  "+m.result.explanation) + "\n")
		}
	}
	b.WriteString("\n" + faintStyle.Render(fmt.Sprintf("score %d   enter: next", m.snap.Score)) + "\n")
	return b.String()
}

func (m Model) viewSummary() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("quiz complete") + "\n\n")
	b.WriteString(optionStyle.Render(fmt.Sprintf("grade    %s", m.summary.Grade)) + "\n")
	b.WriteString(optionStyle.Render(fmt.Sprintf("score    %d", m.summary.Score)) + "\n")
	b.WriteString(optionStyle.Render(fmt.Sprintf("correct  %d/%d (%d%%)",
		m.summary.CorrectCount, m.summary.TotalQuestions, m.summary.Percentage)) + "\n")
	b.WriteString(optionStyle.Render(fmt.Sprintf("time     %ds (%ds/question)",
		m.summary.TotalTimeSeconds, m.summary.AvgSecondsPerQstn)) + "\n\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("lifetime: %d quizzes, avg %.0f%%, best %d%%",
		m.stats.TotalQuizzes, m.stats.AverageScore, m.stats.BestScore)) + "\n\n")
	b.WriteString(faintStyle.Render("enter: play again  q: quit") + "\n")
	return b.String()
}
