// Package service: 일일 활동 스트릭 상태 머신.
// 복습 기록 등 자격이 되는 활동이 있을 때 하루 한 번만 스트릭을 갱신한다.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/study-arena-go/internal/common/clock"
	srepo "github.com/park285/study-arena-go/internal/streak/repository"
)

// Tracker: 스트릭 전이를 계산하고 저장하는 서비스.
// 같은 날짜에 여러 번 호출해도 스트릭이 부풀지 않는다. (하루 최대 1회 쓰기)
type Tracker struct {
	repo   *srepo.Repository
	logger *slog.Logger
	now    clock.Now
}

// New: 새로운 Tracker 인스턴스를 생성한다.
func New(repo *srepo.Repository, logger *slog.Logger) *Tracker {
	return NewWithClock(repo, logger, time.Now)
}

// NewWithClock: 시각 주입이 가능한 Tracker를 생성한다. (테스트용)
func NewWithClock(repo *srepo.Repository, logger *slog.Logger, now clock.Now) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Tracker{repo: repo, logger: logger, now: now}
}

// Get: 사용자의 현재 스트릭을 조회한다. 기록이 없으면 (nil, nil).
func (t *Tracker) Get(ctx context.Context, userID string) (*srepo.StreakRow, error) {
	return t.repo.FindByUserID(ctx, userID)
}

// DayActivity: 달력 한 칸의 활동 여부.
type DayActivity struct {
	Date   string
	Active bool
}

// WeekActivity: 이번 주(월~일) 각 날짜의 활동 여부를 계산한다.
// 활동 이력 전체를 저장하지 않으므로 현재 연속 구간만으로 판정한다:
// 마지막 활동일에서 현재 스트릭 길이만큼 거슬러 올라간 구간이 활동일이다.
func (t *Tracker) WeekActivity(row *srepo.StreakRow, timezone string) []DayActivity {
	dates := clock.WeekDates(t.now(), timezone)
	week := make([]DayActivity, 0, len(dates))

	if row == nil || row.CurrentStreak <= 0 {
		for _, d := range dates {
			week = append(week, DayActivity{Date: d})
		}
		return week
	}

	streakStart := clock.AddDays(row.LastActivityDate, -(row.CurrentStreak - 1))
	for _, d := range dates {
		week = append(week, DayActivity{
			Date:   d,
			Active: d >= streakStart && d <= row.LastActivityDate,
		})
	}
	return week
}

// Execute: 사용자의 오늘 활동을 스트릭에 반영한다.
// 전이 규칙:
//   - 기록 없음 → current=1, longest=1
//   - 마지막 활동일 == 오늘 → 변경 없음 (쓰기 없음, 멱등)
//   - 마지막 활동일 == 어제 → current+1, longest=max(longest, current)
//   - 그 외(공백/더 오래됨) → current=1, longest 유지
//
// timezone은 선택적 IANA 문자열이며 잘못된 값은 서버 로컬로 폴백한다.
func (t *Tracker) Execute(ctx context.Context, userID string, timezone string) (*srepo.StreakRow, error) {
	instant := t.now()
	today := clock.Today(instant, timezone)
	yesterday := clock.Yesterday(instant, timezone)

	existing, err := t.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		saved, err := t.repo.Upsert(ctx, userID, 1, 1, today)
		if err != nil {
			return nil, err
		}
		t.logger.Info("streak_started", "user_id", userID, "date", today)
		return saved, nil
	}

	// 같은 날 중복 호출은 no-op (쓰기 없음)
	if existing.LastActivityDate == today {
		return existing, nil
	}

	current := 1
	longest := existing.LongestStreak
	if existing.LastActivityDate == yesterday {
		current = existing.CurrentStreak + 1
	}
	if current > longest {
		longest = current
	}

	saved, err := t.repo.Upsert(ctx, userID, current, longest, today)
	if err != nil {
		return nil, err
	}
	t.logger.Info("streak_updated",
		"user_id", userID,
		"current", saved.CurrentStreak,
		"longest", saved.LongestStreak,
		"date", today,
	)
	return saved, nil
}
