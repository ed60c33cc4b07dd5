package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/engine"
	"geoquiz-service/internal/infra/memory"
)

func testService() *engine.Service {
	pools := memory.NewPoolRepository(memory.NewSeededPoolLoader(), time.Minute)
	return engine.NewService(pools, memory.NewSessionRegistry(), memory.NewStatsStore(),
		engine.WithRevealDelay(time.Hour))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func TestSetupNavigation(t *testing.T) {
	m := NewModel(testService(), "local")

	if !strings.Contains(m.View(), "quiz type") {
		t.Fatalf("setup screen missing quiz type row:\n%s", m.View())
	}

	m, _ = update(t, m, key("right"))
	if m.typeIdx != 1 {
		t.Fatalf("expected quiz type cycled, got %d", m.typeIdx)
	}
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("right"))
	if m.diffIdx != 1 {
		t.Fatalf("expected difficulty cycled, got %d", m.diffIdx)
	}
	m, _ = update(t, m, key("left"))
	m, _ = update(t, m, key("left"))
	if m.diffIdx != len(difficulties)-1 {
		t.Fatalf("expected difficulty wrapped backwards, got %d", m.diffIdx)
	}
}

func TestPlayThroughSession(t *testing.T) {
	service := testService()
	m := NewModel(service, "local")

	msg := m.startQuiz(domain.Settings{
		QuestionCount: 2,
		Difficulty:    domain.DifficultyEasy,
		QuizType:      domain.QuizArithmetic,
	})()
	started, ok := msg.(startedMsg)
	if !ok {
		t.Fatalf("expected startedMsg, got %T", msg)
	}
	m, _ = update(t, m, started)
	if m.screen != screenQuestion {
		t.Fatalf("expected question screen")
	}

	// First answer: correct.
	question := m.snap.Questions[0]
	if _, err := service.SubmitAnswer(m.sessionID, question.CorrectAnswer); err != nil {
		t.Fatalf("submit: %v", err)
	}
	m, _ = update(t, m, waitEvent(m.events)())
	if m.screen != screenReveal || m.result == nil || !m.result.correct {
		t.Fatalf("expected correct reveal, got screen=%d result=%+v", m.screen, m.result)
	}

	// Leave the reveal and receive the next prompt.
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, waitEvent(m.events)())
	if m.screen != screenQuestion || m.snap.CurrentIndex != 1 {
		t.Fatalf("expected second question, got screen=%d index=%d", m.screen, m.snap.CurrentIndex)
	}

	// Second answer: wrong, which completes the session.
	if _, err := service.SubmitAnswer(m.sessionID, "not-the-answer"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	m, _ = update(t, m, waitEvent(m.events)())
	msg = waitEvent(m.events)()
	event, ok := msg.(sessionEventMsg)
	if !ok || engine.Event(event).Type != engine.EventCompleted {
		t.Fatalf("expected completed event, got %#v", msg)
	}
	var cmd tea.Cmd
	m, cmd = update(t, m, msg)
	if cmd == nil {
		t.Fatalf("expected finish command")
	}
	m, _ = update(t, m, cmd())
	if m.screen != screenSummary {
		t.Fatalf("expected summary screen, got %d", m.screen)
	}
	if m.summary.CorrectCount != 1 || m.summary.TotalQuestions != 2 {
		t.Fatalf("unexpected summary %+v", m.summary)
	}
	if !strings.Contains(m.View(), "quiz complete") {
		t.Fatalf("summary view missing headline:\n%s", m.View())
	}
}
