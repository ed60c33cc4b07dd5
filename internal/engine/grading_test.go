package engine

import (
	"testing"
	"time"
)

func TestFineScale(t *testing.T) {
	cases := []struct {
		pct  int
		want string
	}{
		{100, "A+"},
		{95, "A+"},
		{94, "A"},
		{90, "A"},
		{89, "B+"},
		{80, "B+"},
		{79, "B"},
		{70, "B"},
		{69, "C"},
		{60, "C"},
		{59, "D"},
		{0, "D"},
	}
	for _, c := range cases {
		if got := FineScale.Grade(c.pct); got != c.want {
			t.Fatalf("fine %d%%: expected %s, got %s", c.pct, c.want, got)
		}
	}
}

func TestCoarseScale(t *testing.T) {
	cases := []struct {
		pct  int
		want string
	}{
		{95, "A+"},
		{90, "A+"},
		{89, "A"},
		{80, "A"},
		{79, "B"},
		{70, "B"},
		{60, "C"},
		{59, "D"},
	}
	for _, c := range cases {
		if got := CoarseScale.Grade(c.pct); got != c.want {
			t.Fatalf("coarse %d%%: expected %s, got %s", c.pct, c.want, got)
		}
	}
}

func TestPercentageRounds(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds half away from zero
		{10, 10, 100},
	}
	for _, c := range cases {
		if got := Percentage(c.correct, c.total); got != c.want {
			t.Fatalf("%d/%d: expected %d, got %d", c.correct, c.total, c.want, got)
		}
	}
}

func TestTotalAndAverageSeconds(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	if got := TotalSeconds(start, start.Add(95*time.Second)); got != 95 {
		t.Fatalf("total: %d", got)
	}
	if got := TotalSeconds(start, start.Add(-time.Second)); got != 0 {
		t.Fatalf("negative duration should clamp to 0, got %d", got)
	}
	if got := AverageSeconds(95, 10); got != 10 {
		t.Fatalf("average: %d", got)
	}
	if got := AverageSeconds(95, 0); got != 0 {
		t.Fatalf("zero questions: %d", got)
	}
}
