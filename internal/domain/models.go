package domain

import "time"

// QuizType selects which candidate pool a session draws from.
type QuizType string

const (
	QuizFlags         QuizType = "flags"
	QuizCapitals      QuizType = "capitals"
	QuizMixed         QuizType = "mixed"
	QuizArithmetic    QuizType = "arithmetic"
	QuizStateCapitals QuizType = "state-capitals"
)

// Difficulty controls point values and arithmetic number ranges.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	// DifficultyMixed draws a concrete difficulty per question at generation time.
	DifficultyMixed Difficulty = "mixed"
)

// QuestionKind identifies the prompt shape of a single question.
type QuestionKind string

const (
	KindFlagToCountry    QuestionKind = "flag-to-country"
	KindCapitalToCountry QuestionKind = "capital-to-country"
	KindMapToCountry     QuestionKind = "map-to-country"
	KindArithmetic       QuestionKind = "arithmetic"
	KindCapitalMatch     QuestionKind = "capital-match"
)

// Country is one record of the geography candidate pool.
type Country struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Capital    string  `json:"capital"`
	Continent  string  `json:"continent"`
	Flag       string  `json:"flag"`
	Population int64   `json:"population"`
	Area       float64 `json:"area"`
}

// State is one record of the US-states candidate pool.
type State struct {
	Name       string  `json:"name"`
	Capital    string  `json:"capital"`
	Code       string  `json:"code"`
	Country    string  `json:"country"`
	Population int64   `json:"population"`
	Area       float64 `json:"area"`
}

// Question is a single generated quiz prompt. Options always contain
// CorrectAnswer exactly once and hold no duplicates.
type Question struct {
	ID            string       `json:"id"`
	Kind          QuestionKind `json:"kind"`
	Prompt        string       `json:"prompt"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
	Difficulty    Difficulty   `json:"difficulty"`
	Points        int          `json:"points"`
	// Explanation references the source record for the review screen.
	Explanation string `json:"explanation,omitempty"`
}

// Settings are fixed at session creation.
type Settings struct {
	QuestionCount    int        `json:"questionCount"`
	Difficulty       Difficulty `json:"difficulty"`
	QuizType         QuizType   `json:"quizType"`
	TimeLimitSeconds int        `json:"timeLimitSeconds,omitempty"`
}

// Outcome tags how an answer record came to exist. A timed-out record always
// carries an empty answer and is never correct; a legitimate empty text answer
// would still be OutcomeAnswered.
type Outcome string

const (
	OutcomeAnswered Outcome = "answered"
	OutcomeTimedOut Outcome = "timed-out"
)

// AnswerRecord is appended once per question, in strict prompt order.
type AnswerRecord struct {
	QuestionID       string  `json:"questionId"`
	Outcome          Outcome `json:"outcome"`
	UserAnswer       string  `json:"userAnswer"`
	IsCorrect        bool    `json:"isCorrect"`
	TimeSpentSeconds int     `json:"timeSpentSeconds"`
}

// SessionState is the lifecycle of a session.
type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionReady     SessionState = "ready"
	SessionActive    SessionState = "active"
	SessionCompleted SessionState = "completed"
)

// SessionPhase gates submissions while a result is being shown.
type SessionPhase string

const (
	PhasePrompt SessionPhase = "prompt"
	PhaseReveal SessionPhase = "reveal"
)

// SessionSnapshot is an immutable view of a session taken on read.
type SessionSnapshot struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	Settings     Settings       `json:"settings"`
	State        SessionState   `json:"state"`
	Phase        SessionPhase   `json:"phase"`
	Questions    []Question     `json:"questions"`
	Answers      []AnswerRecord `json:"answers"`
	CurrentIndex int            `json:"currentIndex"`
	Score        int            `json:"score"`
	StartedAt    time.Time      `json:"startedAt"`
	CompletedAt  time.Time      `json:"completedAt,omitempty"`
	IsCompleted  bool           `json:"isCompleted"`
}

// ReviewEntry pairs a question with the answer given, in original order.
type ReviewEntry struct {
	Question    Question `json:"question"`
	AnswerGiven string   `json:"answerGiven"`
	TimedOut    bool     `json:"timedOut"`
	WasCorrect  bool     `json:"wasCorrect"`
}

// SessionSummary is the immutable result view of a completed session.
type SessionSummary struct {
	SessionID         string        `json:"sessionId"`
	Score             int           `json:"score"`
	CorrectCount      int           `json:"correctCount"`
	TotalQuestions    int           `json:"totalQuestions"`
	Percentage        int           `json:"percentage"`
	Grade             string        `json:"grade"`
	TotalTimeSeconds  int           `json:"totalTimeSeconds"`
	AvgSecondsPerQstn int           `json:"avgSecondsPerQuestion"`
	Review            []ReviewEntry `json:"review"`
}

// StatsDelta is the per-session contribution handed to the stats store.
type StatsDelta struct {
	TotalQuizzes   int `json:"totalQuizzes"`
	TotalCorrect   int `json:"totalCorrect"`
	TotalQuestions int `json:"totalQuestions"`
	LatestScore    int `json:"latestScore"`
}

// UserStats is the running aggregate across sessions for one user.
type UserStats struct {
	UserID         string  `json:"userId"`
	TotalQuizzes   int     `json:"totalQuizzes"`
	TotalCorrect   int     `json:"totalCorrect"`
	TotalQuestions int     `json:"totalQuestions"`
	AverageScore   float64 `json:"averageScore"`
	BestScore      int     `json:"bestScore"`
}

// Apply folds a session delta into the aggregate using the cumulative mean:
// average = totalCorrect / totalQuestions * 100.
func (s UserStats) Apply(d StatsDelta) UserStats {
	s.TotalQuizzes += d.TotalQuizzes
	s.TotalCorrect += d.TotalCorrect
	s.TotalQuestions += d.TotalQuestions
	if d.LatestScore > s.BestScore {
		s.BestScore = d.LatestScore
	}
	if s.TotalQuestions > 0 {
		s.AverageScore = float64(s.TotalCorrect) / float64(s.TotalQuestions) * 100
	}
	return s
}

// Profile identifies a (possibly guest) player.
type Profile struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	IsGuest   bool      `json:"isGuest"`
	CreatedAt time.Time `json:"createdAt"`
}
