package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	bconfig "github.com/park285/study-arena-go/internal/battle/config"
)

// NewPublicID: 초대 링크에 쓰는 방 공개 ID를 생성합니다.
func NewPublicID() (string, error) {
	b := make([]byte, bconfig.PublicIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand read failed: %w", err)
	}
	return hex.EncodeToString(b), nil
}
