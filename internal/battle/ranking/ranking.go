// Package ranking: 게임 종료 시 슬롯별 결과 집계와 순위 산정.
package ranking

import (
	"sort"

	"github.com/park285/study-arena-go/internal/battle/model"
	"github.com/park285/study-arena-go/internal/battle/scoring"
)

// RankGameResults: 답변 기록을 슬롯별로 집계해 순위를 매긴다.
// 정렬 기준: 총점 내림차순, 동점이면 총 경과 시간 오름차순. (빠른 쪽이 위)
// 순위는 1부터 연속으로 부여하며 공동 순위는 없다.
// 입력 슬라이스는 수정하지 않는다.
func RankGameResults(answers []model.GameAnswer, questionStartedAt map[int]int64) []model.RankedResult {
	if len(answers) == 0 {
		return []model.RankedResult{}
	}

	// 최초 등장 순서를 보존해 정렬 안정성이 입력 순서를 따르게 한다
	bySlot := make(map[uint64]*model.RankedResult)
	slotOrder := make([]uint64, 0)

	for _, answer := range answers {
		agg, ok := bySlot[answer.SlotID]
		if !ok {
			agg = &model.RankedResult{SlotID: answer.SlotID}
			bySlot[answer.SlotID] = agg
			slotOrder = append(slotOrder, answer.SlotID)
		}

		agg.TotalScore += answer.Score
		agg.TotalQuestions++
		if answer.IsCorrect {
			agg.CorrectCount++
		}

		startedAt, known := questionStartedAt[answer.QuestionIndex]
		agg.TotalElapsedMs += scoring.ElapsedMs(startedAt, answer.AnsweredAt, known)
	}

	results := make([]model.RankedResult, 0, len(slotOrder))
	for _, slotID := range slotOrder {
		results = append(results, *bySlot[slotID])
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].TotalScore != results[j].TotalScore {
			return results[i].TotalScore > results[j].TotalScore
		}
		return results[i].TotalElapsedMs < results[j].TotalElapsedMs
	})

	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}
