package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/park285/study-arena-go/internal/battle/channel"
	bconfig "github.com/park285/study-arena-go/internal/battle/config"
	"github.com/park285/study-arena-go/internal/battle/model"
	"github.com/park285/study-arena-go/internal/battle/ranking"
	bredis "github.com/park285/study-arena-go/internal/battle/redis"
	brepo "github.com/park285/study-arena-go/internal/battle/repository"
	"github.com/park285/study-arena-go/internal/battle/scoring"
	"github.com/park285/study-arena-go/internal/common/clock"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
	"github.com/park285/study-arena-go/internal/domain/models"
)

// QuestionProvider: 학습 세트에서 출제할 문제를 공급하는 협력자 인터페이스.
// 문제 생성/관리 자체는 외부 모듈 소관이다.
type QuestionProvider interface {
	QuestionsForSet(ctx context.Context, studySetID string, count int) ([]models.Question, error)
}

// GameService: 게임 시작부터 종료까지의 진행을 담당하는 서비스.
// 문제 시작 시각은 서버가 권위적으로 배정하며, 답변은 수락 창 안에서만 받는다.
type GameService struct {
	repo        *brepo.Repository
	states      *bredis.StateStore
	presence    *bredis.PresenceStore
	lock        *bredis.RoomLock
	broadcaster *channel.Broadcaster
	questions   QuestionProvider
	logger      *slog.Logger
	now         clock.Now
}

// NewGameService: 새로운 GameService 인스턴스를 생성한다.
func NewGameService(
	repo *brepo.Repository,
	states *bredis.StateStore,
	presence *bredis.PresenceStore,
	lock *bredis.RoomLock,
	broadcaster *channel.Broadcaster,
	questions QuestionProvider,
	logger *slog.Logger,
) *GameService {
	return NewGameServiceWithClock(repo, states, presence, lock, broadcaster, questions, logger, time.Now)
}

// NewGameServiceWithClock: 시각 주입이 가능한 GameService를 생성한다. (테스트용)
func NewGameServiceWithClock(
	repo *brepo.Repository,
	states *bredis.StateStore,
	presence *bredis.PresenceStore,
	lock *bredis.RoomLock,
	broadcaster *channel.Broadcaster,
	questions QuestionProvider,
	logger *slog.Logger,
	now clock.Now,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &GameService{
		repo:        repo,
		states:      states,
		presence:    presence,
		lock:        lock,
		broadcaster: broadcaster,
		questions:   questions,
		logger:      logger,
		now:         now,
	}
}

// StartGame: 호스트가 게임 카운트다운을 시작한다. (waiting → starting)
// 점유된 슬롯이 2개 미만이면 거부한다.
func (g *GameService) StartGame(ctx context.Context, roomID uint64, requesterID string) (*model.LiveState, error) {
	var state *model.LiveState
	err := g.lock.WithTransitionLock(ctx, roomID, func(ctx context.Context) error {
		room, err := g.repo.FindRoomByID(ctx, roomID)
		if err != nil {
			return err
		}
		if room.HostUserID != requesterID {
			return cerrors.NotFoundError{Resource: "room", ID: strconv.FormatUint(roomID, 10)}
		}

		slots, err := g.repo.FindSlotsByRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if occupiedCount(slots) < 2 {
			return cerrors.ValidationError{Field: "room", Message: "needs at least 2 participants"}
		}

		if err := g.repo.TransitionRoomStatus(ctx, roomID, model.RoomStatusWaiting, model.RoomStatusStarting); err != nil {
			return err
		}

		instant := g.now()
		current, err := g.states.Load(ctx, roomID)
		if err != nil {
			return err
		}
		if current == nil {
			current = model.NewLiveState(roomID, room.QuestionCount, room.TimeLimitSeconds, instant)
		}

		startsAt := instant.Add(bconfig.CountdownSeconds * time.Second).UnixMilli()
		state = current.WithCountdown(startsAt, instant)
		return g.states.Save(ctx, state)
	})
	if err != nil {
		return nil, err
	}

	g.publish(ctx, model.EventGameStarting, roomID, model.GameStartingPayload{StartsAt: state.StartsAt})
	g.logger.Info("game_starting", "room_id", roomID, "starts_at", state.StartsAt)
	return state, nil
}

// StartQuestion: 문제 시작 시각을 서버가 배정하고 브로드캐스트한다.
// 같은 문제를 다시 시작하면 최초 시각이 유지되고 재브로드캐스트하지 않는다. (멱등)
// 첫 문제 시작 시 방 상태를 in_progress로 전이한다.
func (g *GameService) StartQuestion(ctx context.Context, roomID uint64, questionIndex int) (*model.LiveState, error) {
	var state *model.LiveState
	var started bool
	err := g.lock.WithTransitionLock(ctx, roomID, func(ctx context.Context) error {
		current, err := g.states.Load(ctx, roomID)
		if err != nil {
			return err
		}
		if current == nil {
			return cerrors.NotFoundError{Resource: "live_state", ID: strconv.FormatUint(roomID, 10)}
		}
		if questionIndex < 0 || questionIndex >= current.QuestionCount {
			return cerrors.ValidationError{Field: "questionIndex", Message: "out of range"}
		}
		if current.Status == model.RoomStatusFinished || current.Status == model.RoomStatusWaiting {
			return cerrors.InvalidTransitionError{From: string(current.Status), To: string(model.RoomStatusInProgress)}
		}

		instant := g.now()
		// 카운트다운 목표 시각 전에는 문제를 시작할 수 없다 (starting → in_progress는 startsAt 이후)
		if instant.UnixMilli() < current.StartsAt {
			return cerrors.AnswerWindowError{QuestionIndex: questionIndex, Reason: "countdown not finished"}
		}
		next := current.WithQuestionStart(questionIndex, instant.UnixMilli(), instant)
		if next == current {
			// 중복 전달: 최초 시각 유지, 브로드캐스트 생략
			state = current
			return nil
		}

		if current.Status == model.RoomStatusStarting {
			if err := g.repo.TransitionRoomStatus(ctx, roomID, model.RoomStatusStarting, model.RoomStatusInProgress); err != nil {
				return err
			}
		}

		if err := g.states.Save(ctx, next); err != nil {
			return err
		}
		state = next
		started = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if started {
		startedAt, _ := state.QuestionStart(questionIndex)
		g.publish(ctx, model.EventQuestionStart, roomID, model.QuestionStartPayload{
			QuestionIndex:    questionIndex,
			StartedAt:        startedAt,
			TimeLimitSeconds: state.TimeLimitSeconds,
		})
		g.logger.Info("question_started", "room_id", roomID, "question", questionIndex, "at", startedAt)
	}
	return state, nil
}

// SubmitAnswer: 답변을 채점해 기록한다.
// 수락 창 [start, start+limit) 밖이면 AnswerWindowError,
// 같은 문제 재제출이면 ConflictError가 나며 먼저 기록된 답변이 유지된다.
func (g *GameService) SubmitAnswer(
	ctx context.Context,
	roomID uint64,
	userID string,
	questionIndex int,
	selectedOptionID *string,
) (model.GameAnswer, error) {
	state, err := g.states.Load(ctx, roomID)
	if err != nil {
		return model.GameAnswer{}, err
	}
	if state == nil || !state.IsAcceptingAnswers(questionIndex) {
		return model.GameAnswer{}, cerrors.AnswerWindowError{QuestionIndex: questionIndex, Reason: "question not active"}
	}

	startedAt, _ := state.QuestionStart(questionIndex)
	answeredAt := g.now().UnixMilli()
	limitMs := int64(state.TimeLimitSeconds) * 1000
	if answeredAt < startedAt || answeredAt-startedAt >= limitMs {
		return model.GameAnswer{}, cerrors.AnswerWindowError{QuestionIndex: questionIndex, Reason: "outside accept window"}
	}

	slot, err := g.repo.FindSlotByUser(ctx, roomID, userID)
	if err != nil {
		return model.GameAnswer{}, err
	}

	room, err := g.repo.FindRoomByID(ctx, roomID)
	if err != nil {
		return model.GameAnswer{}, err
	}
	question, err := g.questionAt(ctx, room, questionIndex)
	if err != nil {
		return model.GameAnswer{}, err
	}

	isCorrect := selectedOptionID != nil && *selectedOptionID == question.CorrectOptionID()
	score := scoring.CalculateAnswerScore(isCorrect, startedAt, answeredAt, state.TimeLimitSeconds)

	answer, err := g.repo.CreateAnswer(ctx, model.GameAnswer{
		RoomID:           roomID,
		SlotID:           slot.ID,
		QuestionID:       question.ID,
		QuestionIndex:    questionIndex,
		SelectedOptionID: selectedOptionID,
		IsCorrect:        isCorrect,
		AnsweredAt:       answeredAt,
		Score:            score,
	})
	if err != nil {
		return model.GameAnswer{}, err
	}

	g.publish(ctx, model.EventAnswerSubmitted, roomID, model.AnswerSubmittedPayload{
		SlotID:        slot.ID,
		QuestionIndex: questionIndex,
	})
	g.logger.Info("answer_submitted",
		"room_id", roomID,
		"slot_id", slot.ID,
		"question", questionIndex,
		"correct", isCorrect,
		"score", score,
	)
	return answer, nil
}

// RevealQuestion: 문제의 정답을 공개한다.
func (g *GameService) RevealQuestion(ctx context.Context, roomID uint64, questionIndex int) error {
	room, err := g.repo.FindRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	question, err := g.questionAt(ctx, room, questionIndex)
	if err != nil {
		return err
	}

	g.publish(ctx, model.EventQuestionReveal, roomID, model.QuestionRevealPayload{
		QuestionIndex:   questionIndex,
		CorrectOptionID: question.CorrectOptionID(),
	})
	return nil
}

// FinishGame: 게임을 종료하고 최종 랭킹을 계산해 브로드캐스트한다.
// (in_progress → finished, 종단 상태)
func (g *GameService) FinishGame(ctx context.Context, roomID uint64) ([]model.RankedResult, error) {
	var results []model.RankedResult
	err := g.lock.WithTransitionLock(ctx, roomID, func(ctx context.Context) error {
		if err := g.repo.TransitionRoomStatus(ctx, roomID, model.RoomStatusInProgress, model.RoomStatusFinished); err != nil {
			return err
		}

		answers, err := g.repo.FindAnswersByRoom(ctx, roomID)
		if err != nil {
			return err
		}

		startTimes := map[int]int64{}
		state, err := g.states.Load(ctx, roomID)
		if err != nil {
			return err
		}
		if state != nil {
			startTimes = state.QuestionStartedAt
			finished := state.WithStatus(model.RoomStatusFinished, g.now())
			if err := g.states.Save(ctx, finished); err != nil {
				return err
			}
		}

		results = ranking.RankGameResults(answers, startTimes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.publish(ctx, model.EventGameFinished, roomID, model.GameFinishedPayload{Results: results})
	g.logger.Info("game_finished", "room_id", roomID, "participants", len(results))
	return results, nil
}

// CleanupRoom: 종료된 방의 휘발 상태(실시간 상태, 접속자 집합)를 정리한다.
func (g *GameService) CleanupRoom(ctx context.Context, roomID uint64) error {
	if err := g.states.Delete(ctx, roomID); err != nil {
		return err
	}
	if err := g.presence.Clear(ctx, roomID); err != nil {
		return err
	}
	g.logger.Info("room_cleaned", "room_id", roomID)
	return nil
}

func (g *GameService) questionAt(ctx context.Context, room model.Room, questionIndex int) (models.Question, error) {
	questions, err := g.questions.QuestionsForSet(ctx, room.StudySetID, room.QuestionCount)
	if err != nil {
		return models.Question{}, err
	}
	if questionIndex < 0 || questionIndex >= len(questions) {
		return models.Question{}, cerrors.NotFoundError{Resource: "question", ID: strconv.Itoa(questionIndex)}
	}
	return questions[questionIndex], nil
}

func (g *GameService) publish(ctx context.Context, eventType model.EventType, roomID uint64, payload any) {
	if g.broadcaster == nil {
		return
	}
	if err := g.broadcaster.PublishTyped(ctx, eventType, roomID, payload); err != nil {
		g.logger.Warn("event_broadcast_failed", "room_id", roomID, "type", eventType, "err", err)
	}
}

func occupiedCount(slots []model.Slot) int {
	count := 0
	for _, slot := range slots {
		if slot.SlotType != model.SlotTypeEmpty {
			count++
		}
	}
	return count
}
