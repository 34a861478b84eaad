package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/park285/study-arena-go/internal/battle/model"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
)

// CreateAnswer: 답변을 기록하고 발급된 ID가 채워진 답변을 반환한다.
// 같은 (방, 슬롯, 문제) 조합의 중복 제출은 유니크 제약에 걸려 ConflictError가 된다.
// 먼저 저장된 답변이 항상 유지된다.
func (r *Repository) CreateAnswer(ctx context.Context, answer model.GameAnswer) (model.GameAnswer, error) {
	row := BattleAnswerRow{
		RoomID:           answer.RoomID,
		SlotID:           answer.SlotID,
		QuestionID:       answer.QuestionID,
		QuestionIndex:    answer.QuestionIndex,
		SelectedOptionID: answer.SelectedOptionID,
		IsCorrect:        answer.IsCorrect,
		AnsweredAt:       answer.AnsweredAt,
		Score:            answer.Score,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.GameAnswer{}, cerrors.ConflictError{
				Resource: "answer",
				Key:      fmt.Sprintf("%d:%d:%d", answer.RoomID, answer.SlotID, answer.QuestionIndex),
			}
		}
		return model.GameAnswer{}, cerrors.DatabaseError{Operation: "answer_create", Err: err}
	}
	return row.toModel(), nil
}

// FindAnswersByRoom: 방의 전체 답변 기록을 제출 순서대로 조회한다.
func (r *Repository) FindAnswersByRoom(ctx context.Context, roomID uint64) ([]model.GameAnswer, error) {
	var rows []BattleAnswerRow
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, cerrors.DatabaseError{Operation: "answers_find", Err: err}
	}

	answers := make([]model.GameAnswer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, row.toModel())
	}
	return answers, nil
}

// CountAnswersForQuestion: 특정 문제에 제출된 답변 수를 센다.
// 전원 제출 시 조기 정답 공개 판단에 사용한다.
func (r *Repository) CountAnswersForQuestion(ctx context.Context, roomID uint64, questionIndex int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BattleAnswerRow{}).
		Where("room_id = ? AND question_index = ?", roomID, questionIndex).
		Count(&count).Error
	if err != nil {
		return 0, cerrors.DatabaseError{Operation: "answers_count", Err: err}
	}
	return count, nil
}
