package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/park285/study-arena-go/internal/common/messageprovider"
	rmodel "github.com/park285/study-arena-go/internal/review/model"
)

type (
	// ReviewRecordRequest: 복습 결과 기록 요청 DTO
	ReviewRecordRequest struct {
		ItemID     string `json:"itemId"`
		WasCorrect bool   `json:"wasCorrect"`
	}

	// ReviewSeedRequest: 스터디 세트 복습 시드 요청 DTO
	ReviewSeedRequest struct {
		StudySetID string `json:"studySetId"`
	}

	// ReviewSeedResponse: 시드된 아이템 수 응답 DTO
	ReviewSeedResponse struct {
		SeededCount int `json:"seededCount"`
	}

	// DueItemsResponse: 오늘 복습 대상 응답 DTO
	DueItemsResponse struct {
		Items []rmodel.ReviewProgress `json:"items"`
	}

	// StreakWeekDay: 이번 주 달력 한 칸 응답 DTO
	StreakWeekDay struct {
		Date   string `json:"date"`
		Active bool   `json:"active"`
	}

	// StreakResponse: 스트릭 현황 응답 DTO
	StreakResponse struct {
		CurrentStreak    int             `json:"currentStreak"`
		LongestStreak    int             `json:"longestStreak"`
		LastActivityDate string          `json:"lastActivityDate,omitempty"`
		Week             []StreakWeekDay `json:"week"`
	}
)

func registerReviewRoutes(
	mux *http.ServeMux,
	deps Deps,
	_ *messageprovider.Provider,
	logger *slog.Logger,
) {
	reviews := deps.Reviews
	streaks := deps.Streaks
	contentClient := deps.Content

	// POST /api/reviews - 복습 결과 기록 (라이트너 박스 갱신 + 스트릭 반영)
	mux.HandleFunc("POST /api/reviews", func(w http.ResponseWriter, r *http.Request) {
		userID := resolveUserID(r)
		if userID == "" {
			respondError(w, http.StatusUnauthorized, "user id is required")
			return
		}

		var req ReviewRecordRequest
		if !readBody(w, r, &req) {
			return
		}
		if req.ItemID == "" {
			respondError(w, http.StatusBadRequest, "itemId is required")
			return
		}

		progress, err := reviews.RecordReview(r.Context(), userID, req.ItemID, req.WasCorrect, resolveTimezone(r))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, progress)
	})

	// POST /api/reviews/seed - 스터디 세트의 아이템을 복습 큐에 시드 (멱등)
	mux.HandleFunc("POST /api/reviews/seed", func(w http.ResponseWriter, r *http.Request) {
		userID := resolveUserID(r)
		if userID == "" {
			respondError(w, http.StatusUnauthorized, "user id is required")
			return
		}

		var req ReviewSeedRequest
		if !readBody(w, r, &req) {
			return
		}
		if req.StudySetID == "" {
			respondError(w, http.StatusBadRequest, "studySetId is required")
			return
		}

		items, err := contentClient.ItemsForSet(r.Context(), req.StudySetID)
		if err != nil {
			logger.Warn("review_seed_fetch_failed", "study_set_id", req.StudySetID, "err", err)
			respondServiceError(w, err)
			return
		}

		itemIDs := make([]string, 0, len(items))
		for _, item := range items {
			id, idErr := item.ItemID()
			if idErr != nil {
				logger.Warn("review_seed_skip_item", "err", idErr)
				continue
			}
			itemIDs = append(itemIDs, id)
		}

		seeded, err := reviews.SeedItems(r.Context(), userID, itemIDs)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, ReviewSeedResponse{SeededCount: seeded})
	})

	// GET /api/reviews/due - 오늘 복습 대상 조회
	mux.HandleFunc("GET /api/reviews/due", func(w http.ResponseWriter, r *http.Request) {
		userID := resolveUserID(r)
		if userID == "" {
			respondError(w, http.StatusUnauthorized, "user id is required")
			return
		}

		items, err := reviews.GetDueItems(r.Context(), userID, resolveTimezone(r))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, DueItemsResponse{Items: items})
	})

	// GET /api/reviews/stats - 복습 통계 조회
	mux.HandleFunc("GET /api/reviews/stats", func(w http.ResponseWriter, r *http.Request) {
		userID := resolveUserID(r)
		if userID == "" {
			respondError(w, http.StatusUnauthorized, "user id is required")
			return
		}

		stats, err := reviews.GetStats(r.Context(), userID, resolveTimezone(r))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	})

	// GET /api/streaks - 스트릭 현황 조회 (기록이 없으면 0으로 응답)
	mux.HandleFunc("GET /api/streaks", func(w http.ResponseWriter, r *http.Request) {
		userID := resolveUserID(r)
		if userID == "" {
			respondError(w, http.StatusUnauthorized, "user id is required")
			return
		}

		row, err := streaks.Get(r.Context(), userID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		resp := StreakResponse{}
		if row != nil {
			resp = StreakResponse{
				CurrentStreak:    row.CurrentStreak,
				LongestStreak:    row.LongestStreak,
				LastActivityDate: row.LastActivityDate,
			}
		}
		for _, day := range streaks.WeekActivity(row, resolveTimezone(r)) {
			resp.Week = append(resp.Week, StreakWeekDay{Date: day.Date, Active: day.Active})
		}
		respondJSON(w, http.StatusOK, resp)
	})
}
