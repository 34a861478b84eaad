// Package repository: 스트릭 단일 row의 GORM 기반 저장소.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cerrors "github.com/park285/study-arena-go/internal/common/errors"
)

// Repository: 스트릭 DB 접근 리포지토리
type Repository struct {
	db *gorm.DB
}

// New: 새로운 Repository 인스턴스를 생성한다.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate: 자동으로 DB 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&StreakRow{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// FindByUserID: 사용자의 스트릭을 조회한다. 기록이 없으면 (nil, nil).
func (r *Repository) FindByUserID(ctx context.Context, userID string) (*StreakRow, error) {
	var row StreakRow
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, cerrors.DatabaseError{Operation: "streak_find", Err: err}
	}
	return &row, nil
}

// Upsert: 스트릭 상태를 단일 upsert 문으로 저장한다.
// 실패 시 부분 갱신 없이 에러가 그대로 전파된다.
func (r *Repository) Upsert(ctx context.Context, userID string, currentStreak int, longestStreak int, lastActivityDate string) (*StreakRow, error) {
	row := StreakRow{
		UserID:           userID,
		CurrentStreak:    currentStreak,
		LongestStreak:    longestStreak,
		LastActivityDate: lastActivityDate,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_streak", "longest_streak", "last_activity_date", "updated_at",
			}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, cerrors.DatabaseError{Operation: "streak_upsert", Err: err}
	}

	saved, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, cerrors.DatabaseError{Operation: "streak_upsert_readback"}
	}
	return saved, nil
}
