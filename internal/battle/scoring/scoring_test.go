package scoring

import "testing"

func TestCalculateAnswerScore(t *testing.T) {
	const start = int64(1_700_000_000_000)

	tests := []struct {
		name      string
		isCorrect bool
		answered  int64
		limitSec  int
		want      int
	}{
		{"instant_correct", true, start, 10, 1000},
		{"at_limit", true, start + 10_000, 10, 0},
		{"past_limit", true, start + 15_000, 10, 0},
		{"halfway", true, start + 5_000, 10, 500},
		{"quarter_elapsed", true, start + 2_500, 10, 750},
		{"incorrect_fast", false, start + 1_000, 10, 0},
		{"negative_elapsed", true, start - 1_000, 10, 0},
		{"one_ms_left", true, start + 9_999, 10, 0}, // round(0.0001 × 1000) = 0
		{"one_ms_elapsed", true, start + 1, 10, 1000},
		{"zero_limit", true, start, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateAnswerScore(tt.isCorrect, start, tt.answered, tt.limitSec)
			if got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateAnswerScore_Range(t *testing.T) {
	const start = int64(0)
	const limitSec = 30

	for elapsed := int64(0); elapsed < 30_000; elapsed += 137 {
		score := CalculateAnswerScore(true, start, start+elapsed, limitSec)
		if score < 1 || score > MaxScore {
			t.Fatalf("elapsed=%dms: score %d out of (0, 1000]", elapsed, score)
		}
	}
}

func TestElapsedMs(t *testing.T) {
	if got := ElapsedMs(1000, 4500, true); got != 3500 {
		t.Errorf("known start: got %d", got)
	}
	if got := ElapsedMs(5000, 4500, true); got != 0 {
		t.Errorf("negative elapsed must clamp to 0, got %d", got)
	}
	if got := ElapsedMs(0, 4500, false); got != 4500 {
		t.Errorf("unknown start falls back to answered-at, got %d", got)
	}
}
