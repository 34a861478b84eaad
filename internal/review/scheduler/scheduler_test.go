package scheduler

import (
	"testing"
	"time"

	rmodel "github.com/park285/study-arena-go/internal/review/model"
)

func TestRecordReview_FirstCorrect(t *testing.T) {
	s := New(DefaultConfig())
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	progress := rmodel.NewProgress("user1", "item1")

	next := s.RecordReview(progress, true, "2025-03-01", now)

	if next.BoxLevel != 2 {
		t.Errorf("expected box 2, got %d", next.BoxLevel)
	}
	// interval(2) = 3일
	if next.NextReviewDate != "2025-03-04" {
		t.Errorf("expected next review 2025-03-04, got %s", next.NextReviewDate)
	}
	if next.TimesCorrect != 1 || next.TimesIncorrect != 0 {
		t.Errorf("unexpected counters: correct=%d incorrect=%d", next.TimesCorrect, next.TimesIncorrect)
	}
	if next.LastReviewedAt == nil || !next.LastReviewedAt.Equal(now) {
		t.Error("lastReviewedAt should be set to now")
	}

	// 입력 불변성
	if progress.BoxLevel != 1 || progress.LastReviewedAt != nil {
		t.Error("input progress must not be mutated")
	}
}

func TestRecordReview_IncorrectResetsToBoxOne(t *testing.T) {
	s := New(DefaultConfig())
	now := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

	progress := rmodel.NewProgress("user1", "item1")
	progress.BoxLevel = 4
	progress.TimesCorrect = 3

	next := s.RecordReview(progress, false, "2025-03-04", now)

	if next.BoxLevel != 1 {
		t.Errorf("incorrect answer must reset to box 1, got %d", next.BoxLevel)
	}
	// interval(1) = 1일
	if next.NextReviewDate != "2025-03-05" {
		t.Errorf("expected next review 2025-03-05, got %s", next.NextReviewDate)
	}
	if next.TimesIncorrect != 1 {
		t.Errorf("expected 1 incorrect, got %d", next.TimesIncorrect)
	}
	if next.TimesCorrect != 3 {
		t.Errorf("correct counter must not change on incorrect answer, got %d", next.TimesCorrect)
	}
}

func TestRecordReview_BoxNeverExceedsMax(t *testing.T) {
	s := New(DefaultConfig())
	now := time.Now()
	progress := rmodel.NewProgress("user1", "item1")

	// 연속 정답 10번 → 박스는 최대 5에서 유지
	for i := 0; i < 10; i++ {
		progress = s.RecordReview(progress, true, "2025-03-01", now)
		if progress.BoxLevel < 1 || progress.BoxLevel > s.MaxBox() {
			t.Fatalf("box out of bounds after %d reviews: %d", i+1, progress.BoxLevel)
		}
	}
	if progress.BoxLevel != 5 {
		t.Errorf("expected box capped at 5, got %d", progress.BoxLevel)
	}
	// interval(5) = 30일
	if progress.NextReviewDate != "2025-03-31" {
		t.Errorf("expected next review 2025-03-31, got %s", progress.NextReviewDate)
	}
}

func TestRecordReview_BoxBoundsUnderRandomSequence(t *testing.T) {
	s := New(DefaultConfig())
	now := time.Now()
	progress := rmodel.NewProgress("user1", "item1")

	outcomes := []bool{true, true, false, true, false, false, true, true, true, true, true, false}
	for i, outcome := range outcomes {
		progress = s.RecordReview(progress, outcome, "2025-06-01", now)
		if progress.BoxLevel < 1 || progress.BoxLevel > 5 {
			t.Fatalf("box out of [1,5] at step %d: %d", i, progress.BoxLevel)
		}
		if !outcome && progress.BoxLevel != 1 {
			t.Fatalf("incorrect at step %d must reset to box 1, got %d", i, progress.BoxLevel)
		}
	}
}

func TestRecordReview_RoundTrip(t *testing.T) {
	// 스펙 시나리오: D일에 첫 정답 → 박스 2, D+interval(2).
	// 이후 오답 → 박스 1, 복습일+interval(1).
	s := New(DefaultConfig())

	dayD := "2025-04-10"
	first := s.RecordReview(rmodel.NewProgress("u", "i"), true, dayD, time.Now())
	if first.BoxLevel != 2 || first.NextReviewDate != "2025-04-13" {
		t.Fatalf("round trip step 1: box=%d next=%s", first.BoxLevel, first.NextReviewDate)
	}
	if first.TimesCorrect != 1 || first.TimesIncorrect != 0 {
		t.Fatalf("round trip step 1 counters: %d/%d", first.TimesCorrect, first.TimesIncorrect)
	}

	reviewDate := "2025-04-13"
	second := s.RecordReview(first, false, reviewDate, time.Now())
	if second.BoxLevel != 1 || second.NextReviewDate != "2025-04-14" {
		t.Fatalf("round trip step 2: box=%d next=%s", second.BoxLevel, second.NextReviewDate)
	}
	if second.TimesIncorrect != 1 {
		t.Fatalf("round trip step 2 incorrect=%d", second.TimesIncorrect)
	}
}

func TestNew_InvalidConfigFallsBack(t *testing.T) {
	s := New(Config{})
	if s.MaxBox() != 5 {
		t.Errorf("empty config should fall back to default, got max box %d", s.MaxBox())
	}

	// MaxBox가 간격 수보다 크면 간격 수로 내려간다
	s2 := New(Config{MaxBox: 9, IntervalsDays: []int{1, 2, 3}})
	if s2.MaxBox() != 3 {
		t.Errorf("max box should clamp to interval count, got %d", s2.MaxBox())
	}
	if s2.IntervalDays(99) != 3 {
		t.Errorf("interval lookup should clamp, got %d", s2.IntervalDays(99))
	}
}
