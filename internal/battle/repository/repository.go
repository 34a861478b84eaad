// Package repository 는 배틀 룸/슬롯/답변의 영속 계층을 담당한다.
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository: DB 접근을 위한 GORM 기반 리포지토리
// 메서드들은 도메인별 파일로 분리됨:
//   - rooms.go: 방 생성/조회/상태 전이
//   - slots.go: 슬롯 구성 관리
//   - answers.go: 답변 기록
type Repository struct {
	db *gorm.DB
}

// New: 새로운 Repository 인스턴스를 생성한다.
// 중복 답변을 ConflictError로 식별하려면 TranslateError가 켜진 gorm.DB여야 한다.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate: 자동으로 DB 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(
		&BattleRoomRow{},
		&BattleSlotRow{},
		&BattleAnswerRow{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
