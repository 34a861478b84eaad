// Package service: 복습 기록 오케스트레이션.
// 저장소에서 진행 상태를 읽고 스케줄러로 다음 상태를 계산한 뒤 저장하며,
// 성공한 복습 활동을 스트릭 트래커에 통지한다.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/study-arena-go/internal/common/clock"
	rmodel "github.com/park285/study-arena-go/internal/review/model"
	rrepo "github.com/park285/study-arena-go/internal/review/repository"
	"github.com/park285/study-arena-go/internal/review/scheduler"
)

// StreakNotifier: 복습 활동을 스트릭에 반영하는 협력자 인터페이스.
type StreakNotifier interface {
	Execute(ctx context.Context, userID string, timezone string) error
}

// ReviewService: 복습 진행 기록의 읽기-계산-쓰기를 담당하는 서비스.
// 계산은 순수 스케줄러에 위임하고, 쓰기는 읽기 시점 카운터를 가드로 건 조건부
// UPDATE라 동시 제출이 서로의 갱신을 덮어쓰지 못한다. (진 쪽은 Conflict)
type ReviewService struct {
	repo      *rrepo.Repository
	scheduler *scheduler.Scheduler
	streak    StreakNotifier
	logger    *slog.Logger
	now       clock.Now
}

// New: 새로운 ReviewService 인스턴스를 생성한다. streak은 nil일 수 있다.
func New(
	repo *rrepo.Repository,
	sched *scheduler.Scheduler,
	streak StreakNotifier,
	logger *slog.Logger,
) *ReviewService {
	return NewWithClock(repo, sched, streak, logger, time.Now)
}

// NewWithClock: 시각 주입이 가능한 ReviewService를 생성한다. (테스트용)
func NewWithClock(
	repo *rrepo.Repository,
	sched *scheduler.Scheduler,
	streak StreakNotifier,
	logger *slog.Logger,
	now clock.Now,
) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &ReviewService{
		repo:      repo,
		scheduler: sched,
		streak:    streak,
		logger:    logger,
		now:       now,
	}
}

// SeedItems: 새로 생성된 복습 아이템들의 초기 진행 기록을 시드한다.
// 이미 기록이 있는 아이템은 건너뛰므로 반복 호출해도 안전하다.
func (s *ReviewService) SeedItems(ctx context.Context, userID string, itemIDs []string) (int, error) {
	missing, err := s.repo.FindWithoutProgress(ctx, userID, itemIDs)
	if err != nil {
		return 0, err
	}
	if len(missing) == 0 {
		return 0, nil
	}
	if err := s.repo.CreateBatch(ctx, userID, missing); err != nil {
		return 0, err
	}
	s.logger.Info("review_items_seeded", "user_id", userID, "count", len(missing))
	return len(missing), nil
}

// RecordReview: 복습 결과를 기록하고 갱신된 진행 상태를 반환한다.
// 다른 사용자의 아이템 조회는 저장소 레벨에서 NotFound로 끝난다. (존재 여부 비노출)
// 스트릭 통지 실패는 복습 기록 자체를 실패시키지 않는다.
func (s *ReviewService) RecordReview(
	ctx context.Context,
	userID string,
	itemID string,
	wasCorrect bool,
	timezone string,
) (rmodel.ReviewProgress, error) {
	progress, err := s.repo.FindByUserAndItem(ctx, userID, itemID)
	if err != nil {
		return rmodel.ReviewProgress{}, err
	}

	instant := s.now()
	today := clock.Today(instant, timezone)
	next := s.scheduler.RecordReview(progress, wasCorrect, today, instant)

	if err := s.repo.Update(ctx, progress, next); err != nil {
		return rmodel.ReviewProgress{}, err
	}

	s.logger.Info("review_recorded",
		"user_id", userID,
		"item_id", itemID,
		"correct", wasCorrect,
		"box", next.BoxLevel,
		"next_review", next.NextReviewDate,
	)

	if s.streak != nil {
		if streakErr := s.streak.Execute(ctx, userID, timezone); streakErr != nil {
			s.logger.Warn("streak_notify_failed", "user_id", userID, "err", streakErr)
		}
	}

	return next, nil
}

// GetDueItems: 오늘 복습 대상 진행 기록들을 조회한다.
func (s *ReviewService) GetDueItems(ctx context.Context, userID string, timezone string) ([]rmodel.ReviewProgress, error) {
	today := clock.Today(s.now(), timezone)
	return s.repo.FindDueForReview(ctx, userID, today)
}

// GetStats: 사용자의 복습 통계를 조회한다.
func (s *ReviewService) GetStats(ctx context.Context, userID string, timezone string) (rrepo.Stats, error) {
	today := clock.Today(s.now(), timezone)
	return s.repo.GetStats(ctx, userID, today)
}
