package testhelper

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"
)

// NewMiniredisClient: 인메모리 Redis(miniredis)를 띄우고 연결된 valkey 클라이언트를 생성합니다.
// 서버와 클라이언트는 테스트 종료 시 자동으로 정리됩니다.
func NewMiniredisClient(t *testing.T) (valkey.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := NewMiniredisClientFor(t, mr)
	return client, mr
}

// NewMiniredisClientFor: 이미 실행 중인 miniredis 서버에 추가 클라이언트를 연결합니다.
// Pub/Sub처럼 연결을 점유하는 테스트는 명령용과 분리된 클라이언트가 필요합니다.
func NewMiniredisClientFor(t *testing.T, mr *miniredis.Miniredis) valkey.Client {
	t.Helper()

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("valkey client create failed: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}
