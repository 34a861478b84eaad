package repository

import "time"

// StreakRow: 사용자별 일일 활동 스트릭 기록. 사용자당 정확히 한 row.
// user_id 유니크 제약이 동시 갱신 경쟁에서 이중 증가를 막는 최종 방어선이다.
type StreakRow struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID           string    `gorm:"column:user_id;not null;uniqueIndex" json:"userId"`
	CurrentStreak    int       `gorm:"column:current_streak;not null;default:0" json:"currentStreak"`
	LongestStreak    int       `gorm:"column:longest_streak;not null;default:0" json:"longestStreak"`
	LastActivityDate string    `gorm:"column:last_activity_date;not null;default:''" json:"lastActivityDate"` // YYYY-MM-DD
	CreatedAt        time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updatedAt"`
}

func (StreakRow) TableName() string { return "streaks" }
