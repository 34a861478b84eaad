// Package messages: 스터디 아레나 메시지 YAML 키 상수를 정의한다.
package messages

// 메시지 키 상수 목록.
const (
	// ErrorGeneric: 일반 오류 안내
	ErrorGeneric = "error.generic"
	// ErrorRoomNotFound: 방 조회 실패 안내
	ErrorRoomNotFound = "error.room_not_found"
	// ErrorInvalidRequest: 요청 형식 오류 안내
	ErrorInvalidRequest = "error.invalid_request"

	// RoomCreated: 방 생성 안내 ({name}, {publicId})
	RoomCreated = "room.created"
	// RoomFull: 정원 초과 안내
	RoomFull = "room.full"

	// BotAnonymous: 익명 표시 이름
	BotAnonymous = "bots.anonymous"
	// BotNames: 봇 슬롯 표시 이름 목록
	BotNames = "bots.names"
)
