// Package clock: 인스턴트와 선택적 IANA 타임존으로부터 로컬 달력 날짜 문자열(YYYY-MM-DD)을
// 계산하는 순수 함수들을 제공한다. 스트릭과 복습 스케줄러가 공용으로 사용한다.
// 날짜 비교는 문자열 비교로 충분하도록 항상 같은 포맷을 유지한다.
package clock

import (
	"strings"
	"time"
)

// DateLayout: 날짜 문자열 포맷 (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Now: 현재 시각을 반환하는 함수 타입. 테스트에서 고정 시각 주입에 사용한다.
type Now func() time.Time

// resolveLocation: IANA 타임존 문자열을 Location으로 변환한다.
// 비어있거나 잘못된 타임존은 서버 로컬 타임존으로 폴백한다.
func resolveLocation(timezone string) *time.Location {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LocalDateString: 주어진 인스턴트의 로컬 날짜 문자열을 계산한다.
func LocalDateString(instant time.Time, timezone string) string {
	return instant.In(resolveLocation(timezone)).Format(DateLayout)
}

// Today: 주어진 인스턴트 기준 오늘 날짜 문자열을 반환한다.
func Today(instant time.Time, timezone string) string {
	return LocalDateString(instant, timezone)
}

// Yesterday: 주어진 인스턴트 기준 어제 날짜 문자열을 반환한다.
func Yesterday(instant time.Time, timezone string) string {
	return LocalDateString(instant.AddDate(0, 0, -1), timezone)
}

// AddDays: 날짜 문자열에 일수를 더한 날짜 문자열을 반환한다.
// 파싱에 실패하면 입력을 그대로 반환한다. (잘못된 날짜는 상위에서 검증됨)
func AddDays(dateStr string, days int) string {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return dateStr
	}
	return parsed.AddDate(0, 0, days).Format(DateLayout)
}

// WeekDates: 주어진 인스턴트가 속한 주(월요일 시작)의 날짜 문자열 7개를 반환한다.
// "이번 주" 통계 윈도우 계산에 사용한다.
func WeekDates(instant time.Time, timezone string) []string {
	local := instant.In(resolveLocation(timezone))

	// 월요일로 되감기 (time.Weekday는 일요일=0)
	offset := int(local.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	monday := local.AddDate(0, 0, -offset)

	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, monday.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}
