package engine

import (
	"math"
	"sync"
	"time"

	"geoquiz-service/internal/domain"
)

// EventType labels session lifecycle notifications.
type EventType string

const (
	// EventQuestion fires when a question becomes the live prompt.
	EventQuestion EventType = "question"
	// EventResult fires after an answer record is appended.
	EventResult EventType = "result"
	// EventCompleted fires once, when the final answer lands.
	EventCompleted EventType = "completed"
)

// Event carries a snapshot taken at broadcast time plus the answer record
// for result events.
type Event struct {
	Type     EventType
	Snapshot domain.SessionSnapshot
	Record   *domain.AnswerRecord
}

// Session is the single-player quiz state machine. Questions and answers live
// in slices mutated in place under the mutex; readers only ever see copies
// via Snapshot or broadcast events.
//
// Lifecycle: idle -> ready (questions attached) -> active -> completed.
// Within active, a prompt/reveal phase enforces exactly one answer record per
// question in strict order: submissions during reveal are rejected and a
// second expiry for an already-answered question is a no-op.
type Session struct {
	id       string
	userID   string
	settings domain.Settings
	now      func() time.Time

	mu              sync.RWMutex
	state           domain.SessionState
	phase           domain.SessionPhase
	questions       []domain.Question
	answers         []domain.AnswerRecord
	currentIndex    int
	score           int
	startedAt       time.Time
	completedAt     time.Time
	questionShownAt time.Time
	subscribers     map[chan Event]struct{}
}

// NewSession creates an idle session with fixed settings.
func NewSession(id, userID string, settings domain.Settings) *Session {
	return NewSessionWithClock(id, userID, settings, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id, userID string, settings domain.Settings, now func() time.Time) *Session {
	return &Session{
		id:          id,
		userID:      userID,
		settings:    settings,
		now:         now,
		state:       domain.SessionIdle,
		phase:       domain.PhasePrompt,
		subscribers: make(map[chan Event]struct{}),
	}
}

func (s *Session) ID() string                { return s.id }
func (s *Session) UserID() string            { return s.userID }
func (s *Session) Settings() domain.Settings { return s.settings }

// AttachQuestions moves an idle session to ready. The generation step is
// asynchronous in callers; attaching twice or after play began is rejected.
func (s *Session) AttachQuestions(questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionIdle {
		return domain.ErrSessionNotReady
	}
	if len(questions) == 0 {
		return domain.ErrPoolUnavailable
	}
	s.questions = append([]domain.Question(nil), questions...)
	s.state = domain.SessionReady
	return nil
}

// Begin starts play: ready -> active, stamps startedAt, and broadcasts the
// first prompt.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionReady {
		return domain.ErrSessionNotReady
	}
	now := s.now()
	s.state = domain.SessionActive
	s.phase = domain.PhasePrompt
	s.startedAt = now
	s.questionShownAt = now
	s.broadcastLocked(EventQuestion, nil)
	return nil
}

// SubmitAnswer records the user's answer for the current question, scores it,
// and advances the index. On the final question the session transitions to
// completed and completedAt is stamped exactly once.
func (s *Session) SubmitAnswer(answer string) (domain.AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.submittableLocked(); err != nil {
		return domain.AnswerRecord{}, err
	}
	return s.recordLocked(answer, domain.OutcomeAnswered), nil
}

// TimeExpire records a timed-out (empty, incorrect) answer for the current
// question. It is idempotent per question: once an answer exists for the
// current prompt the call reports false and changes nothing.
func (s *Session) TimeExpire() (domain.AnswerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expireLocked(s.currentIndex)
}

// ExpireIfCurrent behaves like TimeExpire but only when index is still the
// live prompt. Timer callbacks use it so a stale countdown from an earlier
// question can never expire a later one.
func (s *Session) ExpireIfCurrent(index int) (domain.AnswerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expireLocked(index)
}

func (s *Session) expireLocked(index int) (domain.AnswerRecord, bool) {
	if s.submittableLocked() != nil || index != s.currentIndex {
		return domain.AnswerRecord{}, false
	}
	return s.recordLocked("", domain.OutcomeTimedOut), true
}

// Advance leaves the reveal pause and makes the next question the live
// prompt. Calls in any other state are no-ops.
func (s *Session) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionActive || s.phase != domain.PhaseReveal {
		return false
	}
	s.phase = domain.PhasePrompt
	s.questionShownAt = s.now()
	s.broadcastLocked(EventQuestion, nil)
	return true
}

// Completed reports whether the terminal state has been reached.
func (s *Session) Completed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == domain.SessionCompleted
}

// CurrentIndex returns the live prompt index.
func (s *Session) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentIndex
}

// Snapshot returns an immutable copy of the session for readers.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel of lifecycle events. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) submittableLocked() error {
	switch {
	case s.state == domain.SessionCompleted:
		return domain.ErrSessionCompleted
	case s.state != domain.SessionActive:
		return domain.ErrSessionNotReady
	case s.phase == domain.PhaseReveal:
		return domain.ErrAnswerPending
	}
	return nil
}

func (s *Session) recordLocked(answer string, outcome domain.Outcome) domain.AnswerRecord {
	now := s.now()
	question := s.questions[s.currentIndex]

	record := domain.AnswerRecord{
		QuestionID:       question.ID,
		Outcome:          outcome,
		UserAnswer:       answer,
		TimeSpentSeconds: int(math.Round(now.Sub(s.questionShownAt).Seconds())),
	}
	if outcome == domain.OutcomeAnswered && answer == question.CorrectAnswer {
		record.IsCorrect = true
		s.score += question.Points
	}
	s.answers = append(s.answers, record)
	s.currentIndex++

	if s.currentIndex == len(s.questions) {
		s.state = domain.SessionCompleted
		s.completedAt = now
		s.broadcastLocked(EventResult, &record)
		s.broadcastLocked(EventCompleted, &record)
	} else {
		s.phase = domain.PhaseReveal
		s.broadcastLocked(EventResult, &record)
	}
	return record
}

func (s *Session) broadcastLocked(eventType EventType, record *domain.AnswerRecord) {
	event := Event{Type: eventType, Snapshot: s.snapshotLocked(), Record: record}
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Slow consumers drop the oldest event rather than block play.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		ID:           s.id,
		UserID:       s.userID,
		Settings:     s.settings,
		State:        s.state,
		Phase:        s.phase,
		Questions:    append([]domain.Question(nil), s.questions...),
		Answers:      append([]domain.AnswerRecord(nil), s.answers...),
		CurrentIndex: s.currentIndex,
		Score:        s.score,
		StartedAt:    s.startedAt,
		CompletedAt:  s.completedAt,
		IsCompleted:  s.state == domain.SessionCompleted,
	}
}
