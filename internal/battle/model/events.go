package model

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// EventType: 방 채널로 브로드캐스트되는 이벤트 종류
type EventType string

// EventType 상수 목록.
const (
	// EventSlotUpdated: 슬롯 구성 변경 후 전체 슬롯 스냅샷
	EventSlotUpdated EventType = "slot_updated"
	// EventGameStarting: 카운트다운 시작 (시작 목표 시각 포함)
	EventGameStarting EventType = "game_starting"
	// EventQuestionStart: 문제 시작 (서버 권위 시작 시각 포함)
	EventQuestionStart EventType = "question_start"
	// EventAnswerSubmitted: 슬롯의 답변 접수 알림 (정답 여부 비공개)
	EventAnswerSubmitted EventType = "answer_submitted"
	// EventQuestionReveal: 문제 정답 공개
	EventQuestionReveal EventType = "question_reveal"
	// EventGameFinished: 게임 종료와 최종 랭킹
	EventGameFinished EventType = "game_finished"
)

// Event: 채널 와이어 포맷. Payload는 Type별 페이로드의 JSON이다.
// Trace는 발행 시점의 trace context로, 구독 측에서 span을 이어붙일 때 쓴다.
type Event struct {
	Type    EventType         `json:"type"`
	RoomID  uint64            `json:"roomId"`
	Payload json.RawMessage   `json:"payload,omitempty"`
	Trace   map[string]string `json:"trace,omitempty"`
}

// SlotUpdatedPayload: 변경 이후의 권위 있는 전체 슬롯 목록.
// 부분 델타 대신 전체 스냅샷을 내보내 수신 측 상태 드리프트를 막는다.
type SlotUpdatedPayload struct {
	Slots []Slot `json:"slots"`
}

// GameStartingPayload: 게임 시작 목표 시각.
type GameStartingPayload struct {
	StartsAt int64 `json:"startsAt"` // epoch millis
}

// QuestionStartPayload: 문제 시작 알림.
type QuestionStartPayload struct {
	QuestionIndex    int   `json:"questionIndex"`
	StartedAt        int64 `json:"startedAt"` // epoch millis, 서버 권위 시각
	TimeLimitSeconds int   `json:"timeLimitSeconds"`
}

// AnswerSubmittedPayload: 답변 접수 알림. 정답 여부/점수는 공개 전까지 싣지 않는다.
type AnswerSubmittedPayload struct {
	SlotID        uint64 `json:"slotId"`
	QuestionIndex int    `json:"questionIndex"`
}

// QuestionRevealPayload: 정답 공개.
type QuestionRevealPayload struct {
	QuestionIndex   int    `json:"questionIndex"`
	CorrectOptionID string `json:"correctOptionId"`
}

// RankedResult: 슬롯별 최종 집계 결과.
type RankedResult struct {
	SlotID         uint64 `json:"slotId"`
	Rank           int    `json:"rank"`
	TotalScore     int    `json:"totalScore"`
	CorrectCount   int    `json:"correctCount"`
	TotalQuestions int    `json:"totalQuestions"` // 슬롯이 답변한 문제 수
	TotalElapsedMs int64  `json:"totalElapsedMs"`
}

// GameFinishedPayload: 최종 랭킹.
type GameFinishedPayload struct {
	Results []RankedResult `json:"results"`
}

// NewEvent: 페이로드를 직렬화해 이벤트를 조립한다.
func NewEvent(eventType EventType, roomID uint64, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, RoomID: roomID, Payload: raw}, nil
}

// DecodePayload: 이벤트 페이로드를 대상 구조체로 역직렬화한다.
func DecodePayload[T any](event Event) (T, error) {
	var payload T
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", event.Type, err)
	}
	return payload, nil
}
