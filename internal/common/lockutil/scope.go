package lockutil

import (
	"context"
	"sync"
)

type scopeKey struct{}

// Scope: 재진입 락 상태를 Context 범위로 관리합니다.
// 같은 Scope 안에서 이미 보유한 키는 재획득 없이 카운트만 올립니다.
type Scope struct {
	mu   sync.Mutex
	held map[string]int
}

// NewScope: 새 Scope를 생성합니다.
func NewScope() *Scope {
	return &Scope{held: make(map[string]int)}
}

// WithScope: Context에 Scope를 보관합니다.
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext: Context에서 Scope를 가져옵니다.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*Scope)
	return scope, ok && scope != nil
}

// IncrementIfHeld: 이미 보유 중인 락이면 count를 증가시키고 true를 반환합니다.
func (s *Scope) IncrementIfHeld(key string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.held[key]; !ok {
		return false
	}
	s.held[key]++
	return true
}

// Hold: 새로 획득한 락을 Scope에 등록합니다.
func (s *Scope) Hold(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.held[key] = 1
}

// ReleaseIfLast: count를 줄이고 마지막 보유였으면 true를 반환합니다.
// true를 받은 쪽이 실제 락 해제를 책임집니다.
func (s *Scope) ReleaseIfLast(key string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	count, ok := s.held[key]
	if !ok {
		return false
	}

	count--
	if count > 0 {
		s.held[key] = count
		return false
	}

	delete(s.held, key)
	return true
}
