// Package scoring: 답변 점수 계산.
// 정답이면 남은 시간 비율에 따라 (0, 1000] 범위의 점수를 부여한다.
package scoring

import "math"

// MaxScore: 즉답 시 만점
const MaxScore = 1000

// CalculateAnswerScore: 정답 여부와 경과 시간으로 점수를 계산한다.
//
//	score = round(((limitMs - elapsedMs) / limitMs) × 1000)
//
// 오답, 음수 경과(시계 오류), 제한 시간 초과는 모두 0점이다.
func CalculateAnswerScore(isCorrect bool, questionStartedAtMs, answeredAtMs int64, timeLimitSeconds int) int {
	if !isCorrect || timeLimitSeconds <= 0 {
		return 0
	}

	limitMs := int64(timeLimitSeconds) * 1000
	elapsedMs := answeredAtMs - questionStartedAtMs
	if elapsedMs < 0 || elapsedMs >= limitMs {
		return 0
	}

	ratio := float64(limitMs-elapsedMs) / float64(limitMs)
	return int(math.Round(ratio * MaxScore))
}

// ElapsedMs: 랭킹 동률 처리용 경과 시간. 시작 시각을 모르면 답변 시각을 그대로 쓴다.
func ElapsedMs(questionStartedAtMs, answeredAtMs int64, startKnown bool) int64 {
	if !startKnown {
		return answeredAtMs
	}
	elapsed := answeredAtMs - questionStartedAtMs
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
