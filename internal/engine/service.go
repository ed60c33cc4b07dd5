package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"geoquiz-service/internal/domain"
)

// PoolRepository abstracts how candidate pools are fetched (memory, Redis
// cache over Postgres, etc).
type PoolRepository interface {
	Countries(ctx context.Context) ([]domain.Country, error)
	States(ctx context.Context, country string) ([]domain.State, error)
}

// SessionRegistry stores live sessions. Sessions are discarded after results
// are read; late timer callbacks against a discarded session are ignored.
type SessionRegistry interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// StatsStore is the external user-statistics collaborator.
type StatsStore interface {
	Stats(ctx context.Context, userID string) (domain.UserStats, error)
	ApplyDelta(ctx context.Context, userID string, delta domain.StatsDelta) (domain.UserStats, error)
}

const defaultRevealDelay = 2500 * time.Millisecond

// Service wires pools, generation, live sessions, and stats into the quiz
// use cases. It owns the per-question countdown and the reveal auto-advance
// timer; both are cancelable and re-checked against session state when they
// fire, so a stale timer can never act on a question that has moved on.
type Service struct {
	pools    PoolRepository
	sessions SessionRegistry
	stats    StatsStore

	genMu sync.Mutex
	gen   *Generator

	scale       GradeScale
	revealDelay time.Duration
	tick        time.Duration
	clock       func() time.Time

	timerMu    sync.Mutex
	countdowns map[string]*time.Timer
}

// Option customizes a Service.
type Option func(*Service)

// WithRand injects the randomness source used for generation.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Service) { s.gen = NewGenerator(rnd) }
}

// WithClock injects the time source stamped into sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.clock = now }
}

// WithGradeScale forces one grading table for every quiz type.
func WithGradeScale(scale GradeScale) Option {
	return func(s *Service) { s.scale = scale }
}

// WithRevealDelay sets the pause between a result and the next prompt.
func WithRevealDelay(d time.Duration) Option {
	return func(s *Service) { s.revealDelay = d }
}

// WithCountdownTick sets the real duration of one countdown second. Tests
// shrink it to keep timer-driven paths fast.
func WithCountdownTick(d time.Duration) Option {
	return func(s *Service) { s.tick = d }
}

func NewService(pools PoolRepository, sessions SessionRegistry, stats StatsStore, opts ...Option) *Service {
	s := &Service{
		pools:       pools,
		sessions:    sessions,
		stats:       stats,
		gen:         NewGenerator(nil),
		revealDelay: defaultRevealDelay,
		tick:        time.Second,
		clock:       time.Now,
		countdowns:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession generates questions for the settings, registers a new session,
// and begins play. Pool fetch failures and empty pools surface as explicit
// errors; the caller decides whether that means "still loading" or "no data".
func (s *Service) StartSession(ctx context.Context, userID string, settings domain.Settings) (domain.SessionSnapshot, error) {
	if err := ValidateSettings(settings); err != nil {
		return domain.SessionSnapshot{}, err
	}

	countries, states, err := s.poolsFor(ctx, settings.QuizType)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}

	s.genMu.Lock()
	questions, err := s.gen.Generate(settings, countries, states)
	s.genMu.Unlock()
	if err != nil {
		return domain.SessionSnapshot{}, err
	}

	session := NewSessionWithClock(uuid.NewString(), userID, settings, s.clock)
	if err := session.AttachQuestions(questions); err != nil {
		return domain.SessionSnapshot{}, err
	}
	s.sessions.Put(session)
	if err := session.Begin(); err != nil {
		return domain.SessionSnapshot{}, err
	}
	s.scheduleCountdown(session)
	return session.Snapshot(), nil
}

// Subscribe returns the event stream for a live session. The caller must
// invoke the cancel function.
func (s *Service) Subscribe(sessionID string) (<-chan Event, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Snapshot returns the current immutable view of a session.
func (s *Service) Snapshot(sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// SubmitAnswer applies a user answer to the live prompt and schedules the
// reveal auto-advance.
func (s *Service) SubmitAnswer(sessionID, answer string) (domain.AnswerRecord, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerRecord{}, domain.ErrSessionNotFound
	}
	record, err := session.SubmitAnswer(answer)
	if err != nil {
		return domain.AnswerRecord{}, err
	}
	s.afterRecord(session)
	return record, nil
}

// TimeExpire force-expires the live prompt. It reports false when the
// question already has an answer.
func (s *Service) TimeExpire(sessionID string) (domain.AnswerRecord, bool) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerRecord{}, false
	}
	record, applied := session.TimeExpire()
	if applied {
		s.afterRecord(session)
	}
	return record, applied
}

// Advance leaves the reveal pause early (e.g. the player pressed "next").
func (s *Service) Advance(sessionID string) bool {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return false
	}
	if !session.Advance() {
		return false
	}
	s.scheduleCountdown(session)
	return true
}

// Finish summarizes a completed session, folds its delta into the user's
// running statistics, and discards the session.
func (s *Service) Finish(ctx context.Context, sessionID string) (domain.SessionSummary, domain.UserStats, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSummary{}, domain.UserStats{}, domain.ErrSessionNotFound
	}

	snap := session.Snapshot()
	summary, err := Summarize(snap, s.scaleFor(snap.Settings.QuizType))
	if err != nil {
		return domain.SessionSummary{}, domain.UserStats{}, err
	}

	var stats domain.UserStats
	if s.stats != nil && snap.UserID != "" {
		stats, err = s.stats.ApplyDelta(ctx, snap.UserID, DeltaFor(summary))
		if err != nil {
			return domain.SessionSummary{}, domain.UserStats{}, err
		}
	}

	s.stopCountdown(sessionID)
	s.sessions.Delete(sessionID)
	return summary, stats, nil
}

// Abandon discards a session without recording statistics, e.g. when the
// player navigates away mid-quiz. Late timer callbacks find no session and
// are ignored.
func (s *Service) Abandon(sessionID string) {
	s.stopCountdown(sessionID)
	s.sessions.Delete(sessionID)
}

// Stats reads the running aggregate for a user.
func (s *Service) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	if s.stats == nil {
		return domain.UserStats{UserID: userID}, nil
	}
	return s.stats.Stats(ctx, userID)
}

// Countries returns up to count shuffled pool records for the REST surface.
func (s *Service) Countries(ctx context.Context, count int) ([]domain.Country, error) {
	countries, err := s.pools.Countries(ctx)
	if err != nil {
		return nil, err
	}
	if count <= 0 || count > len(countries) {
		count = len(countries)
	}
	shuffled := append([]domain.Country(nil), countries...)
	s.genMu.Lock()
	s.gen.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.genMu.Unlock()
	return shuffled[:count], nil
}

// States returns the state pool for a country.
func (s *Service) States(ctx context.Context, country string) ([]domain.State, error) {
	return s.pools.States(ctx, country)
}

// Problems generates standalone arithmetic questions for the REST surface.
func (s *Service) Problems(count int, difficulty domain.Difficulty) ([]domain.Question, error) {
	settings := domain.Settings{
		QuestionCount: count,
		Difficulty:    difficulty,
		QuizType:      domain.QuizArithmetic,
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gen.arithmeticQuestions(settings), nil
}

// MatchRound builds a capital-match round from the country pool.
func (s *Service) MatchRound(ctx context.Context, pairs int) ([]domain.Question, error) {
	countries, err := s.pools.Countries(ctx)
	if err != nil {
		return nil, err
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gen.MatchRound(countries, pairs)
}

func (s *Service) poolsFor(ctx context.Context, quizType domain.QuizType) ([]domain.Country, []domain.State, error) {
	switch quizType {
	case domain.QuizArithmetic:
		return nil, nil, nil
	case domain.QuizStateCapitals:
		states, err := s.pools.States(ctx, "USA")
		if err != nil {
			return nil, nil, err
		}
		return nil, states, nil
	default:
		countries, err := s.pools.Countries(ctx)
		if err != nil {
			return nil, nil, err
		}
		return countries, nil, nil
	}
}

func (s *Service) scaleFor(quizType domain.QuizType) GradeScale {
	if s.scale != nil {
		return s.scale
	}
	if quizType == domain.QuizStateCapitals {
		return CoarseScale
	}
	return FineScale
}

// afterRecord cancels the countdown for the answered question and, unless the
// session completed, schedules the reveal auto-advance.
func (s *Service) afterRecord(session *Session) {
	s.stopCountdown(session.ID())
	if session.Completed() {
		return
	}
	sessionID := session.ID()
	time.AfterFunc(s.revealDelay, func() {
		live, ok := s.sessions.Get(sessionID)
		if !ok {
			return
		}
		if live.Advance() {
			s.scheduleCountdown(live)
		}
	})
}

func (s *Service) scheduleCountdown(session *Session) {
	limit := session.Settings().TimeLimitSeconds
	if limit <= 0 {
		return
	}
	sessionID := session.ID()
	index := session.CurrentIndex()
	timer := time.AfterFunc(time.Duration(limit)*s.tick, func() {
		live, ok := s.sessions.Get(sessionID)
		if !ok {
			return
		}
		if _, applied := live.ExpireIfCurrent(index); applied {
			s.afterRecord(live)
		}
	})

	s.timerMu.Lock()
	if prev, ok := s.countdowns[sessionID]; ok {
		prev.Stop()
	}
	s.countdowns[sessionID] = timer
	s.timerMu.Unlock()
}

func (s *Service) stopCountdown(sessionID string) {
	s.timerMu.Lock()
	if timer, ok := s.countdowns[sessionID]; ok {
		timer.Stop()
		delete(s.countdowns, sessionID)
	}
	s.timerMu.Unlock()
}
