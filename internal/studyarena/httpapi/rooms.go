package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/park285/study-arena-go/internal/battle/model"
	bsvc "github.com/park285/study-arena-go/internal/battle/service"
	"github.com/park285/study-arena-go/internal/common/messageprovider"
	amessages "github.com/park285/study-arena-go/internal/studyarena/messages"
)

type (
	// RoomCreateRequest: 방 생성 요청 DTO
	RoomCreateRequest struct {
		Name             string `json:"name"`
		StudySetID       string `json:"studySetId"`
		Visibility       string `json:"visibility"`
		TimeLimitSeconds int    `json:"timeLimitSeconds"`
		QuestionCount    int    `json:"questionCount"`
		SlotCount        int    `json:"slotCount"`
	}

	// RoomCreateResponse: 방 생성 결과 응답 DTO
	RoomCreateResponse struct {
		Room    bsvc.RoomView `json:"room"`
		Message string        `json:"message"`
	}

	// SlotsResponse: 슬롯 구성 변경 결과 응답 DTO
	SlotsResponse struct {
		Slots []model.Slot `json:"slots"`
	}

	// AnswerSubmitRequest: 답변 제출 요청 DTO
	AnswerSubmitRequest struct {
		QuestionIndex    int     `json:"questionIndex"`
		SelectedOptionID *string `json:"selectedOptionId"`
	}

	// AnswerSubmitResponse: 채점 결과 응답 DTO
	AnswerSubmitResponse struct {
		IsCorrect bool `json:"isCorrect"`
		Score     int  `json:"score"`
	}

	// FinishResponse: 게임 종료 랭킹 응답 DTO
	FinishResponse struct {
		Results []model.RankedResult `json:"results"`
	}
)

func registerRoomRoutes(
	mux *http.ServeMux,
	deps Deps,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	rooms := deps.Rooms
	game := deps.Game

	// GET /api/rooms - 공개 대기방 목록
	mux.HandleFunc("GET /api/rooms", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := rooms.ListOpenRooms(r.Context(), limit)
		if err != nil {
			logger.Error("ROOM_LIST_FAILED", "err", err)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"rooms": list})
	})

	// POST /api/rooms - 방 생성
	mux.HandleFunc("POST /api/rooms", func(w http.ResponseWriter, r *http.Request) {
		hostID := resolveUserID(r)
		if hostID == "" {
			respondError(w, http.StatusUnauthorized, "user id is required")
			return
		}

		var req RoomCreateRequest
		if !readBody(w, r, &req) {
			return
		}

		view, err := rooms.CreateRoom(r.Context(), bsvc.CreateRoomParams{
			HostUserID:       hostID,
			StudySetID:       req.StudySetID,
			Name:             req.Name,
			Visibility:       model.Visibility(strings.ToLower(strings.TrimSpace(req.Visibility))),
			TimeLimitSeconds: req.TimeLimitSeconds,
			QuestionCount:    req.QuestionCount,
			SlotCount:        req.SlotCount,
		})
		if err != nil {
			logger.Warn("ROOM_CREATE_FAILED", "host", hostID, "err", err)
			respondServiceError(w, err)
			return
		}

		logger.Info("ROOM_CREATE_SUCCESS", "publicId", view.Room.PublicID, "host", hostID)
		respondJSON(w, http.StatusCreated, RoomCreateResponse{
			Room: view,
			Message: msgProvider.Get(amessages.RoomCreated,
				messageprovider.P("name", view.Room.Name),
				messageprovider.P("publicId", view.Room.PublicID),
			),
		})
	})

	// GET /api/rooms/{publicId} - 방 스냅샷 (재접속 복원용)
	mux.HandleFunc("GET /api/rooms/{publicId}", func(w http.ResponseWriter, r *http.Request) {
		view, err := rooms.GetRoomView(r.Context(), r.PathValue("publicId"))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	})

	// POST /api/rooms/{publicId}/join - 입장
	mux.HandleFunc("POST /api/rooms/{publicId}/join", func(w http.ResponseWriter, r *http.Request) {
		withRoomUser(w, r, rooms, func(roomID uint64, userID string) {
			slots, err := rooms.JoinRoom(r.Context(), roomID, userID)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, SlotsResponse{Slots: slots})
		})
	})

	// POST /api/rooms/{publicId}/leave - 퇴장
	mux.HandleFunc("POST /api/rooms/{publicId}/leave", func(w http.ResponseWriter, r *http.Request) {
		withRoomUser(w, r, rooms, func(roomID uint64, userID string) {
			slots, err := rooms.LeaveRoom(r.Context(), roomID, userID)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, SlotsResponse{Slots: slots})
		})
	})

	// POST /api/rooms/{publicId}/bots - 봇 추가 (호스트 전용)
	mux.HandleFunc("POST /api/rooms/{publicId}/bots", func(w http.ResponseWriter, r *http.Request) {
		withRoomUser(w, r, rooms, func(roomID uint64, userID string) {
			slots, err := rooms.AddBot(r.Context(), roomID, userID)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, SlotsResponse{Slots: slots})
		})
	})

	// POST /api/rooms/{publicId}/start - 게임 시작 (호스트 전용, 카운트다운 브로드캐스트)
	mux.HandleFunc("POST /api/rooms/{publicId}/start", func(w http.ResponseWriter, r *http.Request) {
		withRoomUser(w, r, rooms, func(roomID uint64, userID string) {
			state, err := game.StartGame(r.Context(), roomID, userID)
			if err != nil {
				logger.Warn("GAME_START_FAILED", "roomId", roomID, "err", err)
				respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, state)
		})
	})

	// POST /api/rooms/{publicId}/questions/{index}/start - 문제 공개 (멱등)
	mux.HandleFunc("POST /api/rooms/{publicId}/questions/{index}/start", func(w http.ResponseWriter, r *http.Request) {
		withRoomUser(w, r, rooms, func(roomID uint64, _ string) {
			index, err := strconv.Atoi(r.PathValue("index"))
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid question index")
				return
			}
			state, err := game.StartQuestion(r.Context(), roomID, index)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, state)
		})
	})

	// POST /api/rooms/{publicId}/answers - 답변 제출
	mux.HandleFunc("POST /api/rooms/{publicId}/answers", func(w http.ResponseWriter, r *http.Request) {
		withRoomUser(w, r, rooms, func(roomID uint64, userID string) {
			var req AnswerSubmitRequest
			if !readBody(w, r, &req) {
				return
			}
			answer, err := game.SubmitAnswer(r.Context(), roomID, userID, req.QuestionIndex, req.SelectedOptionID)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, AnswerSubmitResponse{
				IsCorrect: answer.IsCorrect,
				Score:     answer.Score,
			})
		})
	})

	// POST /api/rooms/{publicId}/finish - 게임 종료와 랭킹 계산
	mux.HandleFunc("POST /api/rooms/{publicId}/finish", func(w http.ResponseWriter, r *http.Request) {
		withRoomUser(w, r, rooms, func(roomID uint64, _ string) {
			results, err := game.FinishGame(r.Context(), roomID)
			if err != nil {
				logger.Warn("GAME_FINISH_FAILED", "roomId", roomID, "err", err)
				respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, FinishResponse{Results: results})
		})
	})
}

// withRoomUser: 공개 ID를 내부 방 ID로 풀고 사용자 식별 후 핸들러를 실행한다.
func withRoomUser(
	w http.ResponseWriter,
	r *http.Request,
	rooms *bsvc.RoomManager,
	handle func(roomID uint64, userID string),
) {
	userID := resolveUserID(r)
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "user id is required")
		return
	}

	view, err := rooms.GetRoomView(r.Context(), r.PathValue("publicId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	handle(view.Room.ID, userID)
}
