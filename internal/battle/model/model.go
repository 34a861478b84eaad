// Package model: 배틀 룸 도메인 모델.
// 방/슬롯/답변 상태와 브로드캐스트 이벤트 타입을 정의한다.
package model

import (
	"fmt"
	"strings"
	"time"
)

// RoomStatus: 배틀 룸 수명주기 상태
type RoomStatus string

// RoomStatus 상수 목록. 전이는 앞으로만 가능하며 finished가 종단 상태다.
const (
	// RoomStatusWaiting: 호스트가 슬롯을 구성하는 대기 상태 (초기 상태)
	RoomStatusWaiting RoomStatus = "waiting"
	// RoomStatusStarting: 시작 타임스탬프가 브로드캐스트된 카운트다운 상태
	RoomStatusStarting RoomStatus = "starting"
	// RoomStatusInProgress: 문제가 순차 진행 중인 상태
	RoomStatusInProgress RoomStatus = "in_progress"
	// RoomStatusFinished: 랭킹 계산/브로드캐스트가 끝난 종단 상태
	RoomStatusFinished RoomStatus = "finished"
)

// statusOrder: 상태 전이 순서 (뒤로 가는 전이를 거부하기 위한 순서값)
var statusOrder = map[RoomStatus]int{
	RoomStatusWaiting:    0,
	RoomStatusStarting:   1,
	RoomStatusInProgress: 2,
	RoomStatusFinished:   3,
}

// ParseRoomStatus: 문자열을 RoomStatus로 변환한다.
func ParseRoomStatus(input string) (RoomStatus, error) {
	normalized := RoomStatus(strings.ToLower(strings.TrimSpace(input)))
	if _, ok := statusOrder[normalized]; !ok {
		return "", fmt.Errorf("unknown room status: %q", input)
	}
	return normalized, nil
}

// CanTransitionTo: 현재 상태에서 목표 상태로의 전이가 허용되는지 확인한다.
// 한 단계씩 앞으로만 이동할 수 있다. (waiting → starting → in_progress → finished)
func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}

// IsTerminal: 종단 상태인지 확인한다.
func (s RoomStatus) IsTerminal() bool { return s == RoomStatusFinished }

// SlotType: 슬롯 점유 종류
type SlotType string

// SlotType 상수 목록.
const (
	// SlotTypePlayer: 실제 사용자가 점유한 슬롯
	SlotTypePlayer SlotType = "player"
	// SlotTypeBot: 봇이 점유한 슬롯
	SlotTypeBot SlotType = "bot"
	// SlotTypeEmpty: 비어있는 슬롯
	SlotTypeEmpty SlotType = "empty"
)

// Visibility: 방 공개 범위
type Visibility string

// Visibility 상수 목록.
const (
	// VisibilityPublic: 공개 방
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate: 초대 링크로만 입장하는 비공개 방
	VisibilityPrivate Visibility = "private"
)

// Room: 배틀 룸 설정과 상태
type Room struct {
	ID               uint64     `json:"id"`
	PublicID         string     `json:"publicId"`
	HostUserID       string     `json:"hostUserId"`
	StudySetID       string     `json:"studySetId"`
	Name             string     `json:"name"`
	Visibility       Visibility `json:"visibility"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
	QuestionCount    int        `json:"questionCount"`
	Status           RoomStatus `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Slot: 방 내부의 참가 슬롯. slotIndex는 방 정원 내에서 0부터 연속이다.
type Slot struct {
	ID        uint64   `json:"id"`
	RoomID    uint64   `json:"roomId"`
	SlotIndex int      `json:"slotIndex"`
	SlotType  SlotType `json:"slotType"`
	UserID    *string  `json:"userId,omitempty"`  // player일 때만 존재
	BotName   *string  `json:"botName,omitempty"` // bot일 때만 존재
}

// GameAnswer: 슬롯의 문제별 답변 기록.
// (roomId, slotId, questionIndex) 조합당 최대 하나만 존재한다.
type GameAnswer struct {
	ID               uint64  `json:"id"`
	RoomID           uint64  `json:"roomId"`
	SlotID           uint64  `json:"slotId"`
	QuestionID       string  `json:"questionId"`
	QuestionIndex    int     `json:"questionIndex"`
	SelectedOptionID *string `json:"selectedOptionId,omitempty"` // nil이면 타임아웃(무응답)
	IsCorrect        bool    `json:"isCorrect"`
	AnsweredAt       int64   `json:"answeredAt"` // epoch millis
	Score            int     `json:"score"`
}
