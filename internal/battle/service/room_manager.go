// Package service: 배틀 룸 수명주기와 게임 진행 오케스트레이션.
// 슬롯 변경과 상태 전이는 방 단위 분산 락으로 직렬화하고,
// 쓰기 이후에는 항상 권위 있는 저장 상태를 다시 읽어 브로드캐스트한다.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/park285/study-arena-go/internal/battle/channel"
	bconfig "github.com/park285/study-arena-go/internal/battle/config"
	"github.com/park285/study-arena-go/internal/battle/model"
	bredis "github.com/park285/study-arena-go/internal/battle/redis"
	brepo "github.com/park285/study-arena-go/internal/battle/repository"
	"github.com/park285/study-arena-go/internal/common/clock"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
)

// BotNamer: 봇 슬롯에 붙일 표시 이름을 제공하는 협력자 인터페이스.
type BotNamer interface {
	BotName(index int) string
}

// RoomManager: 방 생성/입장/퇴장과 슬롯 구성을 담당하는 서비스.
type RoomManager struct {
	repo        *brepo.Repository
	states      *bredis.StateStore
	presence    *bredis.PresenceStore
	lock        *bredis.RoomLock
	broadcaster *channel.Broadcaster
	botNamer    BotNamer
	logger      *slog.Logger
	now         clock.Now
}

// NewRoomManager: 새로운 RoomManager 인스턴스를 생성한다. botNamer는 nil일 수 있다.
func NewRoomManager(
	repo *brepo.Repository,
	states *bredis.StateStore,
	presence *bredis.PresenceStore,
	lock *bredis.RoomLock,
	broadcaster *channel.Broadcaster,
	botNamer BotNamer,
	logger *slog.Logger,
) *RoomManager {
	return NewRoomManagerWithClock(repo, states, presence, lock, broadcaster, botNamer, logger, time.Now)
}

// NewRoomManagerWithClock: 시각 주입이 가능한 RoomManager를 생성한다. (테스트용)
func NewRoomManagerWithClock(
	repo *brepo.Repository,
	states *bredis.StateStore,
	presence *bredis.PresenceStore,
	lock *bredis.RoomLock,
	broadcaster *channel.Broadcaster,
	botNamer BotNamer,
	logger *slog.Logger,
	now clock.Now,
) *RoomManager {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &RoomManager{
		repo:        repo,
		states:      states,
		presence:    presence,
		lock:        lock,
		broadcaster: broadcaster,
		botNamer:    botNamer,
		logger:      logger,
		now:         now,
	}
}

// CreateRoomParams: 방 생성 입력.
type CreateRoomParams struct {
	HostUserID       string
	StudySetID       string
	Name             string
	Visibility       model.Visibility
	TimeLimitSeconds int
	QuestionCount    int
	SlotCount        int
}

// RoomView: 폴링/재접속 클라이언트가 상태를 복원할 때 쓰는 방 스냅샷.
type RoomView struct {
	Room          model.Room       `json:"room"`
	Slots         []model.Slot     `json:"slots"`
	LiveState     *model.LiveState `json:"liveState,omitempty"`
	PresenceCount int64            `json:"presenceCount"`
}

func (p *CreateRoomParams) validate() error {
	if p.HostUserID == "" {
		return cerrors.ValidationError{Field: "hostUserId", Message: "empty"}
	}
	if p.StudySetID == "" {
		return cerrors.ValidationError{Field: "studySetId", Message: "empty"}
	}
	if p.TimeLimitSeconds == 0 {
		p.TimeLimitSeconds = bconfig.DefaultTimeLimitSeconds
	}
	if p.TimeLimitSeconds < bconfig.MinTimeLimitSeconds || p.TimeLimitSeconds > bconfig.MaxTimeLimitSeconds {
		return cerrors.ValidationError{Field: "timeLimitSeconds", Message: "out of range"}
	}
	if p.QuestionCount < bconfig.MinQuestionCount || p.QuestionCount > bconfig.MaxQuestionCount {
		return cerrors.ValidationError{Field: "questionCount", Message: "out of range"}
	}
	if p.SlotCount < 2 || p.SlotCount > bconfig.MaxSlots {
		return cerrors.ValidationError{Field: "slotCount", Message: "out of range"}
	}
	if p.Visibility != model.VisibilityPublic && p.Visibility != model.VisibilityPrivate {
		return cerrors.ValidationError{Field: "visibility", Message: "unknown"}
	}
	return nil
}

// CreateRoom: 방과 슬롯 레이아웃을 생성한다.
// 호스트는 0번 슬롯에 앉고 나머지는 빈 슬롯으로 초기화된다.
func (m *RoomManager) CreateRoom(ctx context.Context, params CreateRoomParams) (RoomView, error) {
	if err := params.validate(); err != nil {
		return RoomView{}, err
	}

	publicID, err := NewPublicID()
	if err != nil {
		return RoomView{}, err
	}

	room, err := m.repo.CreateRoom(ctx, model.Room{
		PublicID:         publicID,
		HostUserID:       params.HostUserID,
		StudySetID:       params.StudySetID,
		Name:             params.Name,
		Visibility:       params.Visibility,
		TimeLimitSeconds: params.TimeLimitSeconds,
		QuestionCount:    params.QuestionCount,
		Status:           model.RoomStatusWaiting,
	})
	if err != nil {
		return RoomView{}, err
	}

	layout := make([]model.Slot, 0, params.SlotCount)
	host := params.HostUserID
	layout = append(layout, model.Slot{SlotIndex: 0, SlotType: model.SlotTypePlayer, UserID: &host})
	for i := 1; i < params.SlotCount; i++ {
		layout = append(layout, model.Slot{SlotIndex: i, SlotType: model.SlotTypeEmpty})
	}

	slots, err := m.repo.CreateSlots(ctx, room.ID, layout)
	if err != nil {
		return RoomView{}, err
	}

	state := model.NewLiveState(room.ID, room.QuestionCount, room.TimeLimitSeconds, m.now())
	if err := m.states.Save(ctx, state); err != nil {
		return RoomView{}, err
	}

	if _, err := m.presence.Join(ctx, room.ID, params.HostUserID); err != nil {
		m.logger.Warn("host_presence_join_failed", "room_id", room.ID, "err", err)
	}

	m.logger.Info("room_created",
		"room_id", room.ID,
		"public_id", room.PublicID,
		"host", params.HostUserID,
		"slots", len(slots),
	)
	return RoomView{Room: room, Slots: slots, LiveState: state, PresenceCount: 1}, nil
}

// JoinRoom: 사용자를 첫 빈 슬롯에 앉힌다.
// 이미 앉아 있으면 현재 구성을 그대로 반환한다. (멱등)
// 슬롯 변경은 방 락으로 직렬화되고, 쓰기 후 전체 슬롯을 다시 읽어 브로드캐스트한다.
func (m *RoomManager) JoinRoom(ctx context.Context, roomID uint64, userID string) ([]model.Slot, error) {
	if userID == "" {
		return nil, cerrors.ValidationError{Field: "userId", Message: "empty"}
	}

	var slots []model.Slot
	err := m.lock.WithSlotLock(ctx, roomID, func(ctx context.Context) error {
		room, err := m.repo.FindRoomByID(ctx, roomID)
		if err != nil {
			return err
		}
		if room.Status != model.RoomStatusWaiting {
			return cerrors.ValidationError{Field: "room", Message: "not accepting players"}
		}

		if _, err := m.repo.FindSlotByUser(ctx, roomID, userID); err == nil {
			slots, err = m.repo.FindSlotsByRoom(ctx, roomID)
			return err
		} else if !cerrors.IsNotFound(err) {
			return err
		}

		current, err := m.repo.FindSlotsByRoom(ctx, roomID)
		if err != nil {
			return err
		}
		target, ok := firstEmpty(current)
		if !ok {
			return cerrors.ValidationError{Field: "room", Message: "full"}
		}

		target.SlotType = model.SlotTypePlayer
		target.UserID = &userID
		target.BotName = nil
		if err := m.repo.UpdateSlotOccupancy(ctx, target); err != nil {
			return err
		}

		slots, err = m.repo.FindSlotsByRoom(ctx, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.broadcastSlots(ctx, roomID, slots)
	if _, err := m.presence.Join(ctx, roomID, userID); err != nil {
		m.logger.Warn("presence_join_failed", "room_id", roomID, "user_id", userID, "err", err)
	}

	m.logger.Info("room_joined", "room_id", roomID, "user_id", userID)
	return slots, nil
}

// LeaveRoom: 사용자의 슬롯을 비운다. 앉아 있지 않으면 NotFound.
func (m *RoomManager) LeaveRoom(ctx context.Context, roomID uint64, userID string) ([]model.Slot, error) {
	var slots []model.Slot
	err := m.lock.WithSlotLock(ctx, roomID, func(ctx context.Context) error {
		slot, err := m.repo.FindSlotByUser(ctx, roomID, userID)
		if err != nil {
			return err
		}

		slot.SlotType = model.SlotTypeEmpty
		slot.UserID = nil
		slot.BotName = nil
		if err := m.repo.UpdateSlotOccupancy(ctx, slot); err != nil {
			return err
		}

		slots, err = m.repo.FindSlotsByRoom(ctx, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.broadcastSlots(ctx, roomID, slots)
	if err := m.presence.Leave(ctx, roomID, userID); err != nil {
		m.logger.Warn("presence_leave_failed", "room_id", roomID, "user_id", userID, "err", err)
	}

	m.logger.Info("room_left", "room_id", roomID, "user_id", userID)
	return slots, nil
}

// AddBot: 호스트가 첫 빈 슬롯에 봇을 앉힌다.
// 호스트가 아닌 사용자에게는 방이 없는 것으로 보인다.
func (m *RoomManager) AddBot(ctx context.Context, roomID uint64, requesterID string) ([]model.Slot, error) {
	var slots []model.Slot
	err := m.lock.WithSlotLock(ctx, roomID, func(ctx context.Context) error {
		room, err := m.repo.FindRoomByID(ctx, roomID)
		if err != nil {
			return err
		}
		if room.HostUserID != requesterID {
			return cerrors.NotFoundError{Resource: "room", ID: strconv.FormatUint(roomID, 10)}
		}
		if room.Status != model.RoomStatusWaiting {
			return cerrors.ValidationError{Field: "room", Message: "not accepting players"}
		}

		current, err := m.repo.FindSlotsByRoom(ctx, roomID)
		if err != nil {
			return err
		}
		target, ok := firstEmpty(current)
		if !ok {
			return cerrors.ValidationError{Field: "room", Message: "full"}
		}

		name := m.pickBotName(target.SlotIndex)
		target.SlotType = model.SlotTypeBot
		target.UserID = nil
		target.BotName = &name
		if err := m.repo.UpdateSlotOccupancy(ctx, target); err != nil {
			return err
		}

		slots, err = m.repo.FindSlotsByRoom(ctx, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.broadcastSlots(ctx, roomID, slots)
	m.logger.Info("bot_added", "room_id", roomID)
	return slots, nil
}

// GetRoomView: 공개 ID로 방 스냅샷을 조회한다. (재접속 상태 복원용)
func (m *RoomManager) GetRoomView(ctx context.Context, publicID string) (RoomView, error) {
	room, err := m.repo.FindRoomByPublicID(ctx, publicID)
	if err != nil {
		return RoomView{}, err
	}
	slots, err := m.repo.FindSlotsByRoom(ctx, room.ID)
	if err != nil {
		return RoomView{}, err
	}
	state, err := m.states.Load(ctx, room.ID)
	if err != nil {
		return RoomView{}, err
	}
	count, err := m.presence.Count(ctx, room.ID)
	if err != nil {
		return RoomView{}, err
	}
	return RoomView{Room: room, Slots: slots, LiveState: state, PresenceCount: count}, nil
}

// ListOpenRooms: 입장 가능한 공개 대기방 목록을 조회한다.
func (m *RoomManager) ListOpenRooms(ctx context.Context, limit int) ([]model.Room, error) {
	return m.repo.ListOpenRooms(ctx, limit)
}

func (m *RoomManager) pickBotName(slotIndex int) string {
	if m.botNamer != nil {
		if name := m.botNamer.BotName(slotIndex); name != "" {
			return name
		}
	}
	return "bot-" + strconv.Itoa(slotIndex)
}

// broadcastSlots: 쓰기 이후의 권위 있는 슬롯 스냅샷을 방 채널로 내보낸다.
// 브로드캐스트 실패는 경고로만 남긴다. (수신 측은 폴링으로 복구)
func (m *RoomManager) broadcastSlots(ctx context.Context, roomID uint64, slots []model.Slot) {
	if m.broadcaster == nil {
		return
	}
	err := m.broadcaster.PublishTyped(ctx, model.EventSlotUpdated, roomID,
		model.SlotUpdatedPayload{Slots: slots})
	if err != nil {
		m.logger.Warn("slot_broadcast_failed", "room_id", roomID, "err", err)
	}
}

func firstEmpty(slots []model.Slot) (model.Slot, bool) {
	for _, slot := range slots {
		if slot.SlotType == model.SlotTypeEmpty {
			return slot, true
		}
	}
	return model.Slot{}, false
}
