package repository

import "time"

// ReviewProgressRow: 복습 진행 기록 테이블.
// (user_id, item_id) 유니크 제약이 "아이템당 진행 기록 하나" 불변식과
// 동시 중복 제출 시 lost update 방지를 스토리지 레벨에서 보장한다.
type ReviewProgressRow struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         string     `gorm:"column:user_id;not null;uniqueIndex:idx_review_progress_user_item,priority:1;index:idx_review_progress_due,priority:1"`
	ItemID         string     `gorm:"column:item_id;not null;uniqueIndex:idx_review_progress_user_item,priority:2"`
	BoxLevel       int        `gorm:"column:box_level;not null;default:1"`
	NextReviewDate string     `gorm:"column:next_review_date;not null;default:'';index:idx_review_progress_due,priority:2"`
	TimesCorrect   int        `gorm:"column:times_correct;not null;default:0"`
	TimesIncorrect int        `gorm:"column:times_incorrect;not null;default:0"`
	LastReviewedAt *time.Time `gorm:"column:last_reviewed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
}

func (ReviewProgressRow) TableName() string { return "review_progress" }

// BoxCount: 박스 레벨별 아이템 수 (통계용)
type BoxCount struct {
	BoxLevel int   `gorm:"column:box_level" json:"boxLevel"`
	Count    int64 `gorm:"column:count" json:"count"`
}

// Stats: 사용자 복습 통계 요약
type Stats struct {
	DueCount        int64      `json:"dueCount"`
	TotalCount      int64      `json:"totalCount"`
	BoxDistribution []BoxCount `json:"boxDistribution"`
}
