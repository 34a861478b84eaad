package repository

import (
	"time"

	"github.com/park285/study-arena-go/internal/battle/model"
)

// BattleRoomRow: 배틀 룸 기록
type BattleRoomRow struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID         string    `gorm:"column:public_id;not null;uniqueIndex"`
	HostUserID       string    `gorm:"column:host_user_id;not null;index"`
	StudySetID       string    `gorm:"column:study_set_id;not null;index"`
	Name             string    `gorm:"column:name;not null;default:''"`
	Visibility       string    `gorm:"column:visibility;not null;default:'private'"`
	TimeLimitSeconds int       `gorm:"column:time_limit_seconds;not null"`
	QuestionCount    int       `gorm:"column:question_count;not null"`
	Status           string    `gorm:"column:status;not null;index"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName 는 동작을 수행한다.
func (BattleRoomRow) TableName() string { return "battle_rooms" }

// BattleSlotRow: 방 참가 슬롯 기록
// 복합 유니크: idx_battle_slots_room_index (room_id, slot_index)
type BattleSlotRow struct {
	ID        uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	RoomID    uint64  `gorm:"column:room_id;not null;uniqueIndex:idx_battle_slots_room_index,priority:1"`
	SlotIndex int     `gorm:"column:slot_index;not null;uniqueIndex:idx_battle_slots_room_index,priority:2"`
	SlotType  string  `gorm:"column:slot_type;not null;default:'empty'"`
	UserID    *string `gorm:"column:user_id"`
	BotName   *string `gorm:"column:bot_name"`
}

// TableName 는 동작을 수행한다.
func (BattleSlotRow) TableName() string { return "battle_room_slots" }

// BattleAnswerRow: 슬롯의 문제별 답변 기록
// 복합 유니크: idx_battle_answers_submission (room_id, slot_id, question_index)
// 같은 문제에 대한 중복 제출은 이 제약으로 거부된다.
type BattleAnswerRow struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	RoomID           uint64    `gorm:"column:room_id;not null;uniqueIndex:idx_battle_answers_submission,priority:1"`
	SlotID           uint64    `gorm:"column:slot_id;not null;uniqueIndex:idx_battle_answers_submission,priority:2"`
	QuestionID       string    `gorm:"column:question_id;not null;default:''"`
	QuestionIndex    int       `gorm:"column:question_index;not null;uniqueIndex:idx_battle_answers_submission,priority:3"`
	SelectedOptionID *string   `gorm:"column:selected_option_id"`
	IsCorrect        bool      `gorm:"column:is_correct;not null;default:false"`
	AnsweredAt       int64     `gorm:"column:answered_at;not null"`
	Score            int       `gorm:"column:score;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName 는 동작을 수행한다.
func (BattleAnswerRow) TableName() string { return "battle_game_answers" }

func (r BattleRoomRow) toModel() model.Room {
	return model.Room{
		ID:               r.ID,
		PublicID:         r.PublicID,
		HostUserID:       r.HostUserID,
		StudySetID:       r.StudySetID,
		Name:             r.Name,
		Visibility:       model.Visibility(r.Visibility),
		TimeLimitSeconds: r.TimeLimitSeconds,
		QuestionCount:    r.QuestionCount,
		Status:           model.RoomStatus(r.Status),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r BattleSlotRow) toModel() model.Slot {
	return model.Slot{
		ID:        r.ID,
		RoomID:    r.RoomID,
		SlotIndex: r.SlotIndex,
		SlotType:  model.SlotType(r.SlotType),
		UserID:    r.UserID,
		BotName:   r.BotName,
	}
}

func (r BattleAnswerRow) toModel() model.GameAnswer {
	return model.GameAnswer{
		ID:               r.ID,
		RoomID:           r.RoomID,
		SlotID:           r.SlotID,
		QuestionID:       r.QuestionID,
		QuestionIndex:    r.QuestionIndex,
		SelectedOptionID: r.SelectedOptionID,
		IsCorrect:        r.IsCorrect,
		AnsweredAt:       r.AnsweredAt,
		Score:            r.Score,
	}
}

func slotRows(roomID uint64, slots []model.Slot) []BattleSlotRow {
	rows := make([]BattleSlotRow, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, BattleSlotRow{
			RoomID:    roomID,
			SlotIndex: slot.SlotIndex,
			SlotType:  string(slot.SlotType),
			UserID:    slot.UserID,
			BotName:   slot.BotName,
		})
	}
	return rows
}
