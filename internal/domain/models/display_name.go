package models

import "strings"

// DisplayName: 배틀 슬롯의 표시용 이름을 계산합니다.
// 닉네임이 있으면 닉네임, 없으면 userID, 둘 다 없으면 anonymous를 사용한다.
func DisplayName(userID string, nickname *string, anonymous string) string {
	if nickname != nil && strings.TrimSpace(*nickname) != "" {
		return strings.TrimSpace(*nickname)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return anonymous
	}
	return userID
}
