package engine

import (
	"math"
	"time"
)

// GradeBand maps a minimum percentage to a label.
type GradeBand struct {
	Min   int
	Label string
}

// GradeScale is an ordered set of bands, highest minimum first. Thresholds are
// configuration, not code: the two tables observed in the product ship below.
type GradeScale []GradeBand

// FineScale is the default grading table.
var FineScale = GradeScale{
	{Min: 95, Label: "A+"},
	{Min: 90, Label: "A"},
	{Min: 80, Label: "B+"},
	{Min: 70, Label: "B"},
	{Min: 60, Label: "C"},
	{Min: 0, Label: "D"},
}

// CoarseScale is the alternate table used by the state-capitals mode.
var CoarseScale = GradeScale{
	{Min: 90, Label: "A+"},
	{Min: 80, Label: "A"},
	{Min: 70, Label: "B"},
	{Min: 60, Label: "C"},
	{Min: 0, Label: "D"},
}

// Grade returns the label of the first band the percentage clears.
func (s GradeScale) Grade(percentage int) string {
	for _, band := range s {
		if percentage >= band.Min {
			return band.Label
		}
	}
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1].Label
}

// Percentage computes round(100 * correct / total) with ordinary
// half-away-from-zero rounding. A zero total yields zero.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// TotalSeconds is the whole-second session duration.
func TotalSeconds(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(math.Round(end.Sub(start).Seconds()))
}

// AverageSeconds is the rounded per-question time.
func AverageSeconds(totalSeconds, questionCount int) int {
	if questionCount <= 0 {
		return 0
	}
	return int(math.Round(float64(totalSeconds) / float64(questionCount)))
}
