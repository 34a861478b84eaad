package model

import "time"

// LiveState: 진행 중인 게임의 실시간 상태 스냅샷. (valkey 저장용)
// 모든 변경은 복사본을 반환하며 원본은 불변으로 유지된다.
type LiveState struct {
	RoomID               uint64        `json:"roomId"`
	Status               RoomStatus    `json:"status"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	QuestionStartedAt    map[int]int64 `json:"questionStartedAt"` // questionIndex → epoch millis
	QuestionCount        int           `json:"questionCount"`
	TimeLimitSeconds     int           `json:"timeLimitSeconds"`
	StartsAt             int64         `json:"startsAt,omitempty"` // starting 카운트다운 목표 시각 (epoch millis)
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// NewLiveState: 대기 상태의 초기 실시간 상태를 생성한다.
func NewLiveState(roomID uint64, questionCount int, timeLimitSeconds int, now time.Time) *LiveState {
	return &LiveState{
		RoomID:               roomID,
		Status:               RoomStatusWaiting,
		CurrentQuestionIndex: -1,
		QuestionStartedAt:    map[int]int64{},
		QuestionCount:        questionCount,
		TimeLimitSeconds:     timeLimitSeconds,
		UpdatedAt:            now,
	}
}

// copyWith: 수정용 깊은 복사본을 만든다.
func (s *LiveState) copyWith(now time.Time) *LiveState {
	next := *s
	next.QuestionStartedAt = make(map[int]int64, len(s.QuestionStartedAt))
	for idx, at := range s.QuestionStartedAt {
		next.QuestionStartedAt[idx] = at
	}
	next.UpdatedAt = now
	return &next
}

// WithStatus: 상태를 변경한 복사본을 반환한다. 전이 검증은 호출자 책임이다.
func (s *LiveState) WithStatus(status RoomStatus, now time.Time) *LiveState {
	next := s.copyWith(now)
	next.Status = status
	return next
}

// WithCountdown: starting 전환과 함께 게임 시작 목표 시각을 기록한 복사본을 반환한다.
func (s *LiveState) WithCountdown(startsAt int64, now time.Time) *LiveState {
	next := s.copyWith(now)
	next.Status = RoomStatusStarting
	next.StartsAt = startsAt
	return next
}

// WithQuestionStart: 문제 시작 시각을 기록한 복사본을 반환한다.
// 이미 같은 문제가 시작되어 있으면 원본을 그대로 반환한다. (멱등)
func (s *LiveState) WithQuestionStart(questionIndex int, startedAt int64, now time.Time) *LiveState {
	if _, started := s.QuestionStartedAt[questionIndex]; started {
		return s
	}
	next := s.copyWith(now)
	next.Status = RoomStatusInProgress
	next.CurrentQuestionIndex = questionIndex
	next.QuestionStartedAt[questionIndex] = startedAt
	return next
}

// QuestionStart: 해당 문제의 서버 권위 시작 시각을 조회한다.
func (s *LiveState) QuestionStart(questionIndex int) (int64, bool) {
	at, ok := s.QuestionStartedAt[questionIndex]
	return at, ok
}

// IsAcceptingAnswers: 해당 문제의 답변을 받을 수 있는 상태인지 확인한다.
func (s *LiveState) IsAcceptingAnswers(questionIndex int) bool {
	if s.Status != RoomStatusInProgress {
		return false
	}
	if s.CurrentQuestionIndex != questionIndex {
		return false
	}
	_, started := s.QuestionStartedAt[questionIndex]
	return started
}

// IsStateValid: 저장된 상태가 구조적으로 유효한지 확인한다.
// 역직렬화 후 손상/구버전 상태를 걸러내는 용도.
func (s *LiveState) IsStateValid() bool {
	if s.RoomID == 0 {
		return false
	}
	if _, ok := statusOrder[s.Status]; !ok {
		return false
	}
	if s.QuestionCount <= 0 || s.TimeLimitSeconds <= 0 {
		return false
	}
	if s.CurrentQuestionIndex >= s.QuestionCount {
		return false
	}
	return true
}
