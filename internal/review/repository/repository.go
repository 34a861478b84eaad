// Package repository: 복습 진행 기록의 GORM 기반 저장소.
// 스케줄러가 계산한 상태를 저장하고, 복습 대상 조회/통계를 제공한다.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cerrors "github.com/park285/study-arena-go/internal/common/errors"
	rmodel "github.com/park285/study-arena-go/internal/review/model"
)

// Repository: 복습 진행 기록 DB 접근 리포지토리
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
	if err := r.db.WithContext(ctx).AutoMigrate(&ReviewProgressRow{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// CreateBatch: 아이템 생성 시 초기 진행 기록들을 일괄 시드한다.
// (user_id, item_id) 충돌은 무시하여 재생성 실행이 중복 row를 만들지 않는다.
func (r *Repository) CreateBatch(ctx context.Context, userID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	rows := make([]ReviewProgressRow, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		rows = append(rows, ReviewProgressRow{
			UserID:   userID,
			ItemID:   itemID,
			BoxLevel: 1,
		})
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 100).Error
	if err != nil {
		return cerrors.DatabaseError{Operation: "review_progress_create_batch", Err: err}
	}
	return nil
}

// FindByUserAndItem: (사용자, 아이템) 진행 기록을 조회한다. 없으면 NotFoundError.
func (r *Repository) FindByUserAndItem(ctx context.Context, userID string, itemID string) (rmodel.ReviewProgress, error) {
	var row ReviewProgressRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rmodel.ReviewProgress{}, cerrors.NotFoundError{Resource: "review progress", ID: itemID}
		}
		return rmodel.ReviewProgress{}, cerrors.DatabaseError{Operation: "review_progress_find", Err: err}
	}
	return toDomain(row), nil
}

// FindDueForReview: 오늘 복습 대상인 진행 기록들을 조회한다.
// 신규 아이템(복습 이력 없음)과 복습일이 지난 아이템을 모두 포함한다.
func (r *Repository) FindDueForReview(ctx context.Context, userID string, today string) ([]rmodel.ReviewProgress, error) {
	var rows []ReviewProgressRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(
			r.db.Where("last_reviewed_at IS NULL").
				Or("next_review_date <> '' AND next_review_date <= ?", today),
		).
		Order("next_review_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, cerrors.DatabaseError{Operation: "review_progress_find_due", Err: err}
	}
	return toDomainSlice(rows), nil
}

// FindWithoutProgress: 주어진 아이템 목록 중 진행 기록이 없는 아이템 ID들을 반환한다.
// 배치 시딩 전 누락분 탐지에 사용한다.
func (r *Repository) FindWithoutProgress(ctx context.Context, userID string, itemIDs []string) ([]string, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	var existing []string
	err := r.db.WithContext(ctx).
		Model(&ReviewProgressRow{}).
		Where("user_id = ? AND item_id IN ?", userID, itemIDs).
		Pluck("item_id", &existing).Error
	if err != nil {
		return nil, cerrors.DatabaseError{Operation: "review_progress_find_missing", Err: err}
	}

	seen := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		seen[id] = struct{}{}
	}

	missing := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Update: 스케줄러가 계산한 진행 상태를 조건부 단일 UPDATE 문으로 반영한다.
// 읽기 시점의 카운터(prev)를 가드 조건으로 걸어 동시 제출의 잃어버린 갱신을 막는다:
// 기준 상태가 이미 바뀌었으면 ConflictError, row 자체가 없으면 NotFoundError.
func (r *Repository) Update(ctx context.Context, prev rmodel.ReviewProgress, next rmodel.ReviewProgress) error {
	result := r.db.WithContext(ctx).
		Model(&ReviewProgressRow{}).
		Where("user_id = ? AND item_id = ?", next.UserID, next.ItemID).
		Where("times_correct = ? AND times_incorrect = ?", prev.TimesCorrect, prev.TimesIncorrect).
		Updates(map[string]any{
			"box_level":        next.BoxLevel,
			"next_review_date": next.NextReviewDate,
			"times_correct":    next.TimesCorrect,
			"times_incorrect":  next.TimesIncorrect,
			"last_reviewed_at": next.LastReviewedAt,
		})
	if result.Error != nil {
		return cerrors.DatabaseError{Operation: "review_progress_update", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		if _, findErr := r.FindByUserAndItem(ctx, next.UserID, next.ItemID); findErr != nil {
			return findErr
		}
		return cerrors.ConflictError{Resource: "review progress", Key: next.ItemID}
	}
	return nil
}

// GetStats: 사용자의 복습 통계(복습 대상 수, 전체 수, 박스별 분포)를 조회한다.
func (r *Repository) GetStats(ctx context.Context, userID string, today string) (Stats, error) {
	var stats Stats

	err := r.db.WithContext(ctx).
		Model(&ReviewProgressRow{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalCount).Error
	if err != nil {
		return Stats{}, cerrors.DatabaseError{Operation: "review_stats_total", Err: err}
	}

	err = r.db.WithContext(ctx).
		Model(&ReviewProgressRow{}).
		Where("user_id = ?", userID).
		Where(
			r.db.Where("last_reviewed_at IS NULL").
				Or("next_review_date <> '' AND next_review_date <= ?", today),
		).
		Count(&stats.DueCount).Error
	if err != nil {
		return Stats{}, cerrors.DatabaseError{Operation: "review_stats_due", Err: err}
	}

	err = r.db.WithContext(ctx).
		Model(&ReviewProgressRow{}).
		Select("box_level, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("box_level").
		Order("box_level ASC").
		Scan(&stats.BoxDistribution).Error
	if err != nil {
		return Stats{}, cerrors.DatabaseError{Operation: "review_stats_boxes", Err: err}
	}

	return stats, nil
}

func toDomain(row ReviewProgressRow) rmodel.ReviewProgress {
	return rmodel.ReviewProgress{
		ID:             row.ID,
		UserID:         row.UserID,
		ItemID:         row.ItemID,
		BoxLevel:       row.BoxLevel,
		NextReviewDate: row.NextReviewDate,
		TimesCorrect:   row.TimesCorrect,
		TimesIncorrect: row.TimesIncorrect,
		LastReviewedAt: row.LastReviewedAt,
		CreatedAt:      row.CreatedAt,
	}
}

func toDomainSlice(rows []ReviewProgressRow) []rmodel.ReviewProgress {
	out := make([]rmodel.ReviewProgress, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out
}
