// Package scheduler: 라이트너 박스 방식의 간격 반복 스케줄링 알고리즘을 구현한다.
// 순수 계산만 수행하며 저장은 호출자(review service) 책임이다.
package scheduler

import (
	"time"

	"github.com/park285/study-arena-go/internal/common/clock"
	rmodel "github.com/park285/study-arena-go/internal/review/model"
)

// Config: 박스 개수와 박스별 복습 간격(일) 설정.
// 간격 값은 UI 라벨에서 유래한 기본값이며 환경에 따라 조정 가능하다.
type Config struct {
	MaxBox        int
	IntervalsDays []int // index 0 = 박스 1의 간격
}

// DefaultConfig: 기본 라이트너 설정 (박스 5개, 간격 1/3/7/14/30일)
func DefaultConfig() Config {
	return Config{
		MaxBox:        5,
		IntervalsDays: []int{1, 3, 7, 14, 30},
	}
}

// Scheduler: 복습 결과를 다음 진행 상태로 변환하는 순수 스케줄러.
type Scheduler struct {
	cfg Config
}

// New: 새로운 Scheduler 인스턴스를 생성한다. 설정이 비어있으면 기본값을 사용한다.
func New(cfg Config) *Scheduler {
	if cfg.MaxBox <= 0 || len(cfg.IntervalsDays) == 0 {
		cfg = DefaultConfig()
	}
	if cfg.MaxBox > len(cfg.IntervalsDays) {
		cfg.MaxBox = len(cfg.IntervalsDays)
	}
	return &Scheduler{cfg: cfg}
}

// IntervalDays: 박스 레벨에 해당하는 복습 간격(일)을 반환한다.
// 범위를 벗어난 레벨은 경계로 클램프한다.
func (s *Scheduler) IntervalDays(boxLevel int) int {
	if boxLevel < 1 {
		boxLevel = 1
	}
	if boxLevel > s.cfg.MaxBox {
		boxLevel = s.cfg.MaxBox
	}
	return s.cfg.IntervalsDays[boxLevel-1]
}

// MaxBox: 설정된 최대 박스 레벨을 반환한다.
func (s *Scheduler) MaxBox() int { return s.cfg.MaxBox }

// RecordReview: 복습 결과를 반영한 새 진행 상태를 계산한다. (입력은 변경하지 않음)
// 정답: 박스 +1 (최대 박스에서 유지), 오답: 박스 1로 리셋.
// 다음 복습일 = today + interval(새 박스). lastReviewedAt은 now로 갱신된다.
func (s *Scheduler) RecordReview(
	progress rmodel.ReviewProgress,
	wasCorrect bool,
	today string,
	now time.Time,
) rmodel.ReviewProgress {
	next := progress

	if wasCorrect {
		next.BoxLevel = progress.BoxLevel + 1
		if next.BoxLevel > s.cfg.MaxBox {
			next.BoxLevel = s.cfg.MaxBox
		}
		next.TimesCorrect = progress.TimesCorrect + 1
	} else {
		next.BoxLevel = 1
		next.TimesIncorrect = progress.TimesIncorrect + 1
	}

	next.NextReviewDate = clock.AddDays(today, s.IntervalDays(next.BoxLevel))
	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	return next
}
