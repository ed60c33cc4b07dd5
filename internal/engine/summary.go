package engine

import (
	"geoquiz-service/internal/domain"
)

// Summarize builds the immutable result view of a completed session. The
// per-question review always has the same length as the question list; a
// missing answer record is treated as an empty, incorrect response.
func Summarize(snap domain.SessionSnapshot, scale GradeScale) (domain.SessionSummary, error) {
	if !snap.IsCompleted {
		return domain.SessionSummary{}, domain.ErrSessionNotCompleted
	}

	correct := 0
	review := make([]domain.ReviewEntry, 0, len(snap.Questions))
	for i, question := range snap.Questions {
		entry := domain.ReviewEntry{Question: question}
		if i < len(snap.Answers) {
			answer := snap.Answers[i]
			entry.AnswerGiven = answer.UserAnswer
			entry.TimedOut = answer.Outcome == domain.OutcomeTimedOut
			entry.WasCorrect = answer.IsCorrect
		}
		if entry.WasCorrect {
			correct++
		}
		review = append(review, entry)
	}

	total := TotalSeconds(snap.StartedAt, snap.CompletedAt)
	percentage := Percentage(correct, len(snap.Questions))
	return domain.SessionSummary{
		SessionID:         snap.ID,
		Score:             snap.Score,
		CorrectCount:      correct,
		TotalQuestions:    len(snap.Questions),
		Percentage:        percentage,
		Grade:             scale.Grade(percentage),
		TotalTimeSeconds:  total,
		AvgSecondsPerQstn: AverageSeconds(total, len(snap.Questions)),
		Review:            review,
	}, nil
}

// DeltaFor is the stats contribution a completed session hands to the
// user-statistics store.
func DeltaFor(summary domain.SessionSummary) domain.StatsDelta {
	return domain.StatsDelta{
		TotalQuizzes:   1,
		TotalCorrect:   summary.CorrectCount,
		TotalQuestions: summary.TotalQuestions,
		LatestScore:    summary.Percentage,
	}
}
