package model

import (
	"testing"
	"time"
)

func TestReviewProgress_IsNew(t *testing.T) {
	progress := NewProgress("user1", "item1")
	if !progress.IsNew() {
		t.Error("seeded progress should be new")
	}

	now := time.Now()
	progress.LastReviewedAt = &now
	if progress.IsNew() {
		t.Error("reviewed progress should not be new")
	}
}

func TestReviewProgress_IsDue(t *testing.T) {
	tests := []struct {
		name           string
		nextReviewDate string
		today          string
		want           bool
	}{
		{"no_date_not_due", "", "2025-03-01", false},
		{"past_date_due", "2025-02-28", "2025-03-01", true},
		{"same_date_due", "2025-03-01", "2025-03-01", true},
		{"future_date_not_due", "2025-03-02", "2025-03-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := ReviewProgress{BoxLevel: 1, NextReviewDate: tt.nextReviewDate}
			if got := progress.IsDue(tt.today); got != tt.want {
				t.Errorf("IsDue(%q) = %v, want %v", tt.today, got, tt.want)
			}
		})
	}
}

func TestReviewProgress_Accuracy(t *testing.T) {
	tests := []struct {
		correct   int
		incorrect int
		want      int
	}{
		{7, 3, 70},
		{0, 0, 0},
		{1, 0, 100},
		{0, 5, 0},
		{1, 2, 33},
		{2, 1, 67}, // 66.66 → 67 (반올림)
	}

	for _, tt := range tests {
		progress := ReviewProgress{TimesCorrect: tt.correct, TimesIncorrect: tt.incorrect}
		if got := progress.Accuracy(); got != tt.want {
			t.Errorf("Accuracy(%d/%d) = %d, want %d", tt.correct, tt.incorrect, got, tt.want)
		}
	}
}
