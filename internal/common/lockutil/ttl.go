package lockutil

import "time"

// TTLDurationFromSeconds: TTL 초를 time.Duration으로 변환합니다.
func TTLDurationFromSeconds(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}
