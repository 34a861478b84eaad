// Package model: 사용자별 복습 진행 상태(ReviewProgress) 도메인 모델을 정의한다.
package model

import (
	"math"
	"time"
)

// ReviewProgress: (사용자, 복습 아이템) 쌍당 정확히 하나 존재하는 복습 진행 기록.
// 박스 레벨은 1 이상이며 라이트너 스케줄러를 통해서만 변경된다.
type ReviewProgress struct {
	ID             uint64     `json:"id"`
	UserID         string     `json:"userId"`
	ItemID         string     `json:"itemId"`
	BoxLevel       int        `json:"boxLevel"`
	NextReviewDate string     `json:"nextReviewDate,omitempty"` // YYYY-MM-DD, 빈 문자열이면 미정(신규)
	TimesCorrect   int        `json:"timesCorrect"`
	TimesIncorrect int        `json:"timesIncorrect"`
	LastReviewedAt *time.Time `json:"lastReviewedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// NewProgress: 아이템 생성 시 시드되는 초기 진행 상태를 만든다.
// 박스 1, 다음 복습일 미정 → 신규 아이템으로 즉시 복습 대상이 된다.
func NewProgress(userID string, itemID string) ReviewProgress {
	return ReviewProgress{
		UserID:    userID,
		ItemID:    itemID,
		BoxLevel:  1,
		CreatedAt: time.Now(),
	}
}

// IsNew: 아직 한 번도 복습하지 않은 아이템인지 확인한다.
func (p ReviewProgress) IsNew() bool {
	return p.LastReviewedAt == nil
}

// IsDue: 오늘 복습 대상인지 확인한다.
// 날짜 문자열(YYYY-MM-DD)은 사전순 비교가 시간순 비교와 일치한다.
func (p ReviewProgress) IsDue(today string) bool {
	return p.NextReviewDate != "" && p.NextReviewDate <= today
}

// Accuracy: 정답률(%)을 반환한다. 시도가 없으면 0.
func (p ReviewProgress) Accuracy() int {
	total := p.TimesCorrect + p.TimesIncorrect
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(p.TimesCorrect) / float64(total) * 100))
}
