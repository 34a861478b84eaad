package ranking

import (
	"testing"

	"github.com/park285/study-arena-go/internal/battle/model"
)

func answer(slotID uint64, questionIndex int, correct bool, answeredAt int64, score int) model.GameAnswer {
	return model.GameAnswer{
		SlotID:        slotID,
		QuestionIndex: questionIndex,
		IsCorrect:     correct,
		AnsweredAt:    answeredAt,
		Score:         score,
	}
}

func TestRankGameResults_Empty(t *testing.T) {
	results := RankGameResults(nil, nil)
	if results == nil || len(results) != 0 {
		t.Errorf("empty input must yield empty non-nil slice, got %v", results)
	}
}

func TestRankGameResults_ScoreOrdering(t *testing.T) {
	starts := map[int]int64{0: 1000, 1: 50_000}
	answers := []model.GameAnswer{
		answer(1, 0, true, 3_000, 600),
		answer(1, 1, true, 52_000, 800),
		answer(2, 0, true, 2_000, 900),
		answer(2, 1, false, 55_000, 0),
	}

	results := RankGameResults(answers, starts)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].SlotID != 1 || results[0].TotalScore != 1400 || results[0].Rank != 1 {
		t.Errorf("winner: %+v", results[0])
	}
	if results[1].SlotID != 2 || results[1].TotalScore != 900 || results[1].Rank != 2 {
		t.Errorf("runner-up: %+v", results[1])
	}
	if results[0].CorrectCount != 2 || results[1].CorrectCount != 1 {
		t.Errorf("correct counts: %d, %d", results[0].CorrectCount, results[1].CorrectCount)
	}
	if results[0].TotalQuestions != 2 || results[1].TotalQuestions != 2 {
		t.Errorf("answered counts: %d, %d", results[0].TotalQuestions, results[1].TotalQuestions)
	}
}

func TestRankGameResults_CountsAnsweredPerSlot(t *testing.T) {
	starts := map[int]int64{0: 0, 1: 10_000, 2: 20_000}
	// 슬롯 1은 3문제, 슬롯 2는 1문제만 답변
	answers := []model.GameAnswer{
		answer(1, 0, true, 1_000, 800),
		answer(1, 1, false, 11_000, 0),
		answer(1, 2, true, 21_000, 700),
		answer(2, 0, true, 2_000, 600),
	}

	results := RankGameResults(answers, starts)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		switch r.SlotID {
		case 1:
			if r.TotalQuestions != 3 {
				t.Errorf("slot 1 answered 3, got %d", r.TotalQuestions)
			}
		case 2:
			if r.TotalQuestions != 1 {
				t.Errorf("slot 2 answered 1, got %d", r.TotalQuestions)
			}
		}
	}
}

func TestRankGameResults_TieBrokenByElapsed(t *testing.T) {
	starts := map[int]int64{0: 0}
	answers := []model.GameAnswer{
		answer(1, 0, true, 8_000, 500), // 느린 동점자
		answer(2, 0, true, 3_000, 500), // 빠른 동점자
	}

	results := RankGameResults(answers, starts)
	if results[0].SlotID != 2 {
		t.Errorf("faster slot must rank first, got slot %d", results[0].SlotID)
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Errorf("ranks must be sequential even on score tie: %d, %d",
			results[0].Rank, results[1].Rank)
	}
}

func TestRankGameResults_UnknownStartFallsBackToAnsweredAt(t *testing.T) {
	// 시작 시각 기록이 없는 문제는 답변 시각 자체를 경과로 사용
	answers := []model.GameAnswer{
		answer(1, 0, true, 7_500, 300),
	}
	results := RankGameResults(answers, map[int]int64{})
	if results[0].TotalElapsedMs != 7_500 {
		t.Errorf("expected fallback elapsed 7500, got %d", results[0].TotalElapsedMs)
	}
}

func TestRankGameResults_DoesNotMutateInput(t *testing.T) {
	answers := []model.GameAnswer{
		answer(1, 0, true, 1_000, 400),
		answer(2, 0, true, 2_000, 700),
	}
	snapshot := make([]model.GameAnswer, len(answers))
	copy(snapshot, answers)

	_ = RankGameResults(answers, map[int]int64{0: 0})

	for i := range answers {
		if answers[i] != snapshot[i] {
			t.Fatalf("input mutated at %d: %+v", i, answers[i])
		}
	}
}
