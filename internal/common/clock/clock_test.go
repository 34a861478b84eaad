package clock

import (
	"testing"
	"time"
)

func TestLocalDateString(t *testing.T) {
	// UTC 2025-03-01 23:30 → 서울은 다음 날
	instant := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		timezone string
		want     string
	}{
		{"seoul_next_day", "Asia/Seoul", "2025-03-02"},
		{"utc_same_day", "UTC", "2025-03-01"},
		{"invalid_falls_back_to_local", "Not/AZone", instant.In(time.Local).Format(DateLayout)},
		{"empty_falls_back_to_local", "", instant.In(time.Local).Format(DateLayout)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalDateString(instant, tt.timezone)
			if got != tt.want {
				t.Errorf("LocalDateString(%q) = %q, want %q", tt.timezone, got, tt.want)
			}
		})
	}
}

func TestTodayYesterday(t *testing.T) {
	instant := time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC)

	if got := Today(instant, "UTC"); got != "2025-01-01" {
		t.Errorf("Today = %q", got)
	}
	if got := Yesterday(instant, "UTC"); got != "2024-12-31" {
		t.Errorf("Yesterday = %q", got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		date string
		days int
		want string
	}{
		{"2025-03-01", 1, "2025-03-02"},
		{"2025-02-28", 1, "2025-03-01"},
		{"2024-02-28", 1, "2024-02-29"}, // 윤년
		{"2025-12-31", 30, "2026-01-30"},
		{"2025-03-10", 0, "2025-03-10"},
		{"bad-date", 3, "bad-date"},
	}

	for _, tt := range tests {
		if got := AddDays(tt.date, tt.days); got != tt.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tt.date, tt.days, got, tt.want)
		}
	}
}

func TestWeekDates(t *testing.T) {
	// 2025-03-05는 수요일
	instant := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	dates := WeekDates(instant, "UTC")

	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if dates[0] != "2025-03-03" {
		t.Errorf("week should start on monday, got %q", dates[0])
	}
	if dates[6] != "2025-03-09" {
		t.Errorf("week should end on sunday, got %q", dates[6])
	}

	// 일요일도 같은 주(월요일 시작)에 속해야 한다
	sunday := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	sundayDates := WeekDates(sunday, "UTC")
	if sundayDates[0] != "2025-03-03" {
		t.Errorf("sunday should belong to week starting 2025-03-03, got %q", sundayDates[0])
	}
}
