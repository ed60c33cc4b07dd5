package engine

import (
	"errors"
	"testing"
	"time"

	"geoquiz-service/internal/domain"
)

func completedSnapshot() domain.SessionSnapshot {
	start := time.Unix(1_700_000_000, 0)
	return domain.SessionSnapshot{
		ID:        "s1",
		UserID:    "u1",
		Questions: fixedQuestions(3),
		Answers: []domain.AnswerRecord{
			{QuestionID: "q0", Outcome: domain.OutcomeAnswered, UserAnswer: "right", IsCorrect: true, TimeSpentSeconds: 5},
			{QuestionID: "q1", Outcome: domain.OutcomeTimedOut, TimeSpentSeconds: 15},
		},
		CurrentIndex: 3,
		Score:        10,
		StartedAt:    start,
		CompletedAt:  start.Add(30 * time.Second),
		State:        domain.SessionCompleted,
		IsCompleted:  true,
	}
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize(completedSnapshot(), FineScale)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if summary.CorrectCount != 1 || summary.TotalQuestions != 3 {
		t.Fatalf("expected 1/3 correct, got %d/%d", summary.CorrectCount, summary.TotalQuestions)
	}
	if summary.Percentage != 33 || summary.Grade != "D" {
		t.Fatalf("expected 33%% / D, got %d%% / %s", summary.Percentage, summary.Grade)
	}
	if summary.TotalTimeSeconds != 30 || summary.AvgSecondsPerQstn != 10 {
		t.Fatalf("unexpected timing %d/%d", summary.TotalTimeSeconds, summary.AvgSecondsPerQstn)
	}

	// The review covers every question even without an answer record.
	if len(summary.Review) != 3 {
		t.Fatalf("expected review of 3, got %d", len(summary.Review))
	}
	if !summary.Review[0].WasCorrect || summary.Review[0].AnswerGiven != "right" {
		t.Fatalf("unexpected first review entry %+v", summary.Review[0])
	}
	if !summary.Review[1].TimedOut || summary.Review[1].AnswerGiven != "" {
		t.Fatalf("unexpected timeout review entry %+v", summary.Review[1])
	}
	if summary.Review[2].WasCorrect || summary.Review[2].AnswerGiven != "" {
		t.Fatalf("missing record should read as empty incorrect, got %+v", summary.Review[2])
	}
}

func TestSummarizeRequiresCompletion(t *testing.T) {
	snap := completedSnapshot()
	snap.IsCompleted = false
	if _, err := Summarize(snap, FineScale); !errors.Is(err, domain.ErrSessionNotCompleted) {
		t.Fatalf("expected not-completed error, got %v", err)
	}
}

func TestDeltaFor(t *testing.T) {
	summary, err := Summarize(completedSnapshot(), FineScale)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	delta := DeltaFor(summary)
	if delta.TotalQuizzes != 1 || delta.TotalCorrect != 1 || delta.TotalQuestions != 3 || delta.LatestScore != 33 {
		t.Fatalf("unexpected delta %+v", delta)
	}
}
