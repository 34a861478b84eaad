package valkeyx

import (
	"context"
	"errors"
	"time"

	"github.com/valkey-io/valkey-go"
)

// SetStringEX: 문자열 값을 TTL과 함께 저장한다. (SET .. EX)
func SetStringEX(ctx context.Context, client valkey.Client, key string, value string, ttl time.Duration) error {
	if client == nil {
		return errors.New("valkey client is nil")
	}
	cmd := client.B().Set().Key(key).Value(value).Ex(ttl).Build()
	return client.Do(ctx, cmd).Error()
}

// GetBytes: 키의 값을 바이트로 조회한다.
// 키가 없으면 (nil, false, nil)을 반환하여 호출부가 부재와 오류를 구분할 수 있게 한다.
func GetBytes(ctx context.Context, client valkey.Client, key string) ([]byte, bool, error) {
	if client == nil {
		return nil, false, errors.New("valkey client is nil")
	}
	cmd := client.B().Get().Key(key).Build()
	raw, err := client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

// DeleteKeys: 주어진 키들을 삭제한다. 키 목록이 비어 있으면 아무것도 하지 않는다.
func DeleteKeys(ctx context.Context, client valkey.Client, keys ...string) error {
	if client == nil {
		return errors.New("valkey client is nil")
	}
	if len(keys) == 0 {
		return nil
	}
	cmd := client.B().Del().Key(keys...).Build()
	return client.Do(ctx, cmd).Error()
}
