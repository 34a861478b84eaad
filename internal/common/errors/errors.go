// Package errors: 학습/배틀 서비스 전체에서 공용으로 사용되는 에러 타입들을 정의한다.
// review, streak, battle 등 도메인 간 공유되는 인프라스트럭처 에러 타입을 포함한다.
package errors

import (
	"errors"
	"fmt"
)

// RedisError: Redis/Valkey 작업을 수행하는 도중 발생한 에러
type RedisError struct {
	Operation string
	Err       error
}

func (e RedisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("redis error operation=%s", e.Operation)
	}
	return fmt.Sprintf("redis error operation=%s: %v", e.Operation, e.Err)
}

func (e RedisError) Unwrap() error { return e.Err }

// DatabaseError: 데이터베이스(PostgreSQL 등) 작업을 수행하는 도중 발생한 에러
type DatabaseError struct {
	Operation string
	Err       error
}

func (e DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("db error operation=%s", e.Operation)
	}
	return fmt.Sprintf("db error operation=%s: %v", e.Operation, e.Err)
}

func (e DatabaseError) Unwrap() error { return e.Err }

// NotFoundError: 참조한 리소스(아이템/방/슬롯/문제)가 존재하지 않을 때 발생하는 에러.
// 소유권 불일치도 존재 여부 노출을 막기 위해 동일한 NotFound로 반환한다.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError: 동일 키에 대한 중복 쓰기(예: 같은 문제에 대한 중복 답변 제출)가
// 저장소 유니크 제약에 걸렸을 때 발생하는 에러. 병합하지 않고 거부한다.
type ConflictError struct {
	Resource string
	Key      string
}

func (e ConflictError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s conflict", e.Resource)
	}
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Key)
}

// ValidationError: 입력 형식이 올바르지 않을 때(음수 제한시간 등) 상태 변경 전에 발생하는 에러
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// LockError: 분산 락 획득 실패 등 락 관련 처리 중 발생하는 에러
type LockError struct {
	Key         string
	HolderName  *string
	Description string
}

func (e LockError) Error() string {
	msg := e.Description
	if msg == "" {
		msg = "failed to acquire lock"
	}
	if e.Key != "" {
		msg = fmt.Sprintf("%s key=%s", msg, e.Key)
	}
	if e.HolderName != nil && *e.HolderName != "" {
		msg = fmt.Sprintf("%s holder=%s", msg, *e.HolderName)
	}
	return msg
}

// InvalidTransitionError: 배틀 방 상태 머신에서 허용되지 않는 전이를 시도했을 때 발생하는 에러
type InvalidTransitionError struct {
	From string
	To   string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid room transition: %s -> %s", e.From, e.To)
}

// AnswerWindowError: 문제 시작 전/제한시간 이후의 답변 제출 시 발생하는 에러
type AnswerWindowError struct {
	QuestionIndex int
	Reason        string
}

func (e AnswerWindowError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("answer outside accept window question=%d", e.QuestionIndex)
	}
	return fmt.Sprintf("answer outside accept window question=%d: %s", e.QuestionIndex, e.Reason)
}

// IsNotFound: 에러가 NotFoundError인지 확인한다.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// IsConflict: 에러가 ConflictError인지 확인한다.
func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// expectedUserBehaviorTypes: 사용자의 정상적인 패턴 내 실수로 간주되는 에러 타입들
// IsExpectedUserBehavior 함수에서 공통으로 체크하는 타입 리스트
var expectedUserBehaviorTypes = []func() any{
	func() any { return new(ValidationError) },
	func() any { return new(ConflictError) },
	func() any { return new(AnswerWindowError) },
}

// IsExpectedUserBehavior: 에러가 사용자의 정상적인(예상된) 패턴 내의 실수인지 확인한다.
// (로그 레벨을 낮추거나 사용자에게 친절한 메시지를 보내는 용도)
// 중복 제출, 늦은 답변, 잘못된 입력이 여기에 해당한다.
func IsExpectedUserBehavior(err error) bool {
	if err == nil {
		return false
	}
	for _, targetFn := range expectedUserBehaviorTypes {
		if errors.As(err, targetFn()) {
			return true
		}
	}
	return false
}
