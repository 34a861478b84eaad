// Package models: 도메인 간 공유되는 학습 콘텐츠 타입들을 정의한다.
// 복습 아이템은 플래시카드/객관식 문제의 태그드 유니언으로 표현한다.
// (nullable 이중 필드 대신 타입 태그로 완전성 검사를 보장)
package models

import (
	"fmt"
	"strings"
)

// ReviewableItemType: 복습 아이템 종류 태그
type ReviewableItemType string

// ReviewableItemType 상수 목록.
const (
	// ItemTypeFlashcard: 플래시카드 아이템
	ItemTypeFlashcard ReviewableItemType = "flashcard"
	// ItemTypeQuestion: 객관식 문제 아이템
	ItemTypeQuestion ReviewableItemType = "question"
)

// ParseReviewableItemType: 문자열을 ReviewableItemType으로 변환한다.
func ParseReviewableItemType(input string) (ReviewableItemType, error) {
	normalized := ReviewableItemType(strings.ToLower(strings.TrimSpace(input)))
	switch normalized {
	case ItemTypeFlashcard, ItemTypeQuestion:
		return normalized, nil
	default:
		return "", fmt.Errorf("unknown reviewable item type: %q", input)
	}
}

// Flashcard: 앞/뒤 텍스트로 구성된 플래시카드
type Flashcard struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// QuestionOption: 객관식 문제의 보기
type QuestionOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question: 객관식 문제
type Question struct {
	ID      string           `json:"id"`
	Prompt  string           `json:"prompt"`
	Options []QuestionOption `json:"options"`
}

// CorrectOptionID: 정답 보기의 ID를 반환한다. 정답이 없으면 빈 문자열.
func (q Question) CorrectOptionID() string {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID
		}
	}
	return ""
}

// ReviewableItem: 복습 대상 아이템의 태그드 유니언.
// Type이 ItemTypeFlashcard면 Flashcard가, ItemTypeQuestion이면 Question이 채워진다.
type ReviewableItem struct {
	Type      ReviewableItemType `json:"type"`
	Flashcard *Flashcard         `json:"flashcard,omitempty"`
	Question  *Question          `json:"question,omitempty"`
}

// NewFlashcardItem: 플래시카드 복습 아이템을 생성한다.
func NewFlashcardItem(card Flashcard) ReviewableItem {
	return ReviewableItem{Type: ItemTypeFlashcard, Flashcard: &card}
}

// NewQuestionItem: 객관식 문제 복습 아이템을 생성한다.
func NewQuestionItem(question Question) ReviewableItem {
	return ReviewableItem{Type: ItemTypeQuestion, Question: &question}
}

// ItemID: 아이템 종류와 무관하게 식별자를 반환한다.
func (item ReviewableItem) ItemID() (string, error) {
	switch item.Type {
	case ItemTypeFlashcard:
		if item.Flashcard == nil {
			return "", fmt.Errorf("flashcard item without flashcard payload")
		}
		return item.Flashcard.ID, nil
	case ItemTypeQuestion:
		if item.Question == nil {
			return "", fmt.Errorf("question item without question payload")
		}
		return item.Question.ID, nil
	default:
		return "", fmt.Errorf("unknown reviewable item type: %q", item.Type)
	}
}
