// Package httpapi: 스터디 아레나 HTTP API 라우트.
// 방 수명주기/답변 제출은 서비스에 위임하고, 실시간 이벤트는 별도 채널로 나간다.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	bsvc "github.com/park285/study-arena-go/internal/battle/service"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
	"github.com/park285/study-arena-go/internal/common/health"
	"github.com/park285/study-arena-go/internal/common/httputil"
	"github.com/park285/study-arena-go/internal/common/messageprovider"
	reviewsvc "github.com/park285/study-arena-go/internal/review/service"
	streaksvc "github.com/park285/study-arena-go/internal/streak/service"
	aconfig "github.com/park285/study-arena-go/internal/studyarena/config"
	"github.com/park285/study-arena-go/internal/studyarena/content"
)

// Deps: 라우트가 의존하는 서비스 묶음.
type Deps struct {
	Rooms   *bsvc.RoomManager
	Game    *bsvc.GameService
	Reviews *reviewsvc.ReviewService
	Streaks *streaksvc.Tracker
	Content *content.Client
}

const (
	headerUserID   = "X-User-Id"
	headerTimezone = "X-Timezone"
	maxBodyBytes   = 1 << 20
)

// Register HTTP API 라우트 등록.
func Register(
	mux *http.ServeMux,
	deps Deps,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) {
	// GET /health - 헬스체크
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, health.Get())
	})

	registerRoomRoutes(mux, deps, msgProvider, logger)
	registerReviewRoutes(mux, deps, msgProvider, logger)

	logger.Info("studyarena_http_api_registered")
}

func resolveUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerUserID))
}

func resolveTimezone(r *http.Request) string {
	tz := strings.TrimSpace(r.Header.Get(headerTimezone))
	if tz == "" {
		return aconfig.DefaultTimezone
	}
	return tz
}

func readBody(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := httputil.ReadJSON(r, out, maxBodyBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondServiceError: 서비스 에러를 HTTP 상태 코드로 변환한다.
// 소유권 불일치는 서비스에서 이미 NotFound로 나오므로 여기서는 분류만 한다.
func respondServiceError(w http.ResponseWriter, err error) {
	var validation cerrors.ValidationError
	var window cerrors.AnswerWindowError
	var transition cerrors.InvalidTransitionError

	switch {
	case cerrors.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case cerrors.IsConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &window):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &transition):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	_ = httputil.WriteJSON(w, status, data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	_ = httputil.WriteErrorJSON(w, status, http.StatusText(status), message)
}
