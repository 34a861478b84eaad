package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/park285/study-arena-go/internal/battle/model"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
	"github.com/park285/study-arena-go/internal/common/ptr"
)

// startableRoom: 호스트 + user2가 앉은 대기방을 만든다.
func startableRoom(t *testing.T, env *testEnv) RoomView {
	t.Helper()
	manager := env.roomManager()
	ctx := context.Background()

	view, err := manager.CreateRoom(ctx, defaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := manager.JoinRoom(ctx, view.Room.ID, "user2"); err != nil {
		t.Fatal(err)
	}
	return view
}

func TestGameService_StartGame(t *testing.T) {
	env := newTestEnv(t)
	game := env.gameService(&fakeQuestionProvider{questions: testQuestions(3)})
	ctx := context.Background()
	view := startableRoom(t, env)

	// 호스트가 아니면 방이 없는 것처럼 보인다
	if _, err := game.StartGame(ctx, view.Room.ID, "user2"); !cerrors.IsNotFound(err) {
		t.Errorf("non-host start must be NotFound, got %v", err)
	}

	state, err := game.StartGame(ctx, view.Room.ID, "host1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if state.Status != model.RoomStatusStarting {
		t.Errorf("expected starting, got %s", state.Status)
	}
	wantStartsAt := env.clock.Now().Add(5 * time.Second).UnixMilli()
	if state.StartsAt != wantStartsAt {
		t.Errorf("countdown target = %d, want %d", state.StartsAt, wantStartsAt)
	}

	room, err := env.repo.FindRoomByID(ctx, view.Room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if room.Status != model.RoomStatusStarting {
		t.Errorf("durable status must follow, got %s", room.Status)
	}

	// 이미 시작된 방의 재시작은 전이 위반
	_, err = game.StartGame(ctx, view.Room.ID, "host1")
	var invalid cerrors.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidTransitionError, got %v", err)
	}
}

func TestGameService_StartGame_RequiresTwoParticipants(t *testing.T) {
	env := newTestEnv(t)
	game := env.gameService(&fakeQuestionProvider{questions: testQuestions(3)})
	ctx := context.Background()

	view, err := env.roomManager().CreateRoom(ctx, defaultParams())
	if err != nil {
		t.Fatal(err)
	}

	// 호스트 혼자서는 시작 불가
	_, err = game.StartGame(ctx, view.Room.ID, "host1")
	if !cerrors.IsExpectedUserBehavior(err) {
		t.Errorf("solo start must be rejected, got %v", err)
	}
}

func TestGameService_StartQuestion_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	game := env.gameService(&fakeQuestionProvider{questions: testQuestions(3)})
	ctx := context.Background()
	view := startableRoom(t, env)

	if _, err := game.StartGame(ctx, view.Room.ID, "host1"); err != nil {
		t.Fatal(err)
	}

	env.clock.Advance(5 * time.Second)
	firstStart := env.clock.Now().UnixMilli()

	state, err := game.StartQuestion(ctx, view.Room.ID, 0)
	if err != nil {
		t.Fatalf("start question failed: %v", err)
	}
	if state.Status != model.RoomStatusInProgress || state.CurrentQuestionIndex != 0 {
		t.Errorf("unexpected state: %+v", state)
	}
	at, _ := state.QuestionStart(0)
	if at != firstStart {
		t.Errorf("started at = %d, want %d", at, firstStart)
	}

	// 중복 전달: 시각이 바뀌지 않는다
	env.clock.Advance(3 * time.Second)
	again, err := game.StartQuestion(ctx, view.Room.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	at, _ = again.QuestionStart(0)
	if at != firstStart {
		t.Errorf("duplicate start must keep first timestamp, got %d", at)
	}

	// 범위 밖 문제
	if _, err := game.StartQuestion(ctx, view.Room.ID, 99); !cerrors.IsExpectedUserBehavior(err) {
		t.Errorf("out-of-range index must be validation error, got %v", err)
	}
}

func TestGameService_StartQuestion_RejectedDuringCountdown(t *testing.T) {
	env := newTestEnv(t)
	game := env.gameService(&fakeQuestionProvider{questions: testQuestions(3)})
	ctx := context.Background()
	view := startableRoom(t, env)

	if _, err := game.StartGame(ctx, view.Room.ID, "host1"); err != nil {
		t.Fatal(err)
	}

	// 카운트다운 도중 (목표 시각 4초 전)에는 문제를 열 수 없다
	env.clock.Advance(1 * time.Second)
	_, err := game.StartQuestion(ctx, view.Room.ID, 0)
	var window cerrors.AnswerWindowError
	if !errors.As(err, &window) {
		t.Fatalf("start before countdown target must be rejected, got %v", err)
	}

	// 목표 시각 도달부터 시작 가능 (경계 포함)
	env.clock.Advance(4 * time.Second)
	state, err := game.StartQuestion(ctx, view.Room.ID, 0)
	if err != nil {
		t.Fatalf("start at countdown target failed: %v", err)
	}
	if state.Status != model.RoomStatusInProgress {
		t.Errorf("expected in_progress, got %s", state.Status)
	}
}

func TestGameService_StartQuestion_WaitingRoomRejected(t *testing.T) {
	env := newTestEnv(t)
	game := env.gameService(&fakeQuestionProvider{questions: testQuestions(3)})
	ctx := context.Background()
	view := startableRoom(t, env)

	_, err := game.StartQuestion(ctx, view.Room.ID, 0)
	var invalid cerrors.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Errorf("question in waiting room must be transition error, got %v", err)
	}
}

func TestGameService_SubmitAnswer(t *testing.T) {
	env := newTestEnv(t)
	game := env.gameService(&fakeQuestionProvider{questions: testQuestions(3)})
	ctx := context.Background()
	view := startableRoom(t, env)

	if _, err := game.StartGame(ctx, view.Room.ID, "host1"); err != nil {
		t.Fatal(err)
	}
	env.clock.Advance(5 * time.Second)
	if _, err := game.StartQuestion(ctx, view.Room.ID, 0); err != nil {
		t.Fatal(err)
	}

	// 정답, 5초 경과, 30초 제한 → round((25000/30000)×1000) = 833
	env.clock.Advance(5 * time.Second)
	answer, err := game.SubmitAnswer(ctx, view.Room.ID, "user2", 0, ptr.String("opt-a"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !answer.IsCorrect || answer.Score != 833 {
		t.Errorf("expected correct with score 833, got %+v", answer)
	}

	// 같은 문제 재제출: Conflict, 첫 답변 유지
	_, err = game.SubmitAnswer(ctx, view.Room.ID, "user2", 0, ptr.String("opt-b"))
	if !cerrors.IsConflict(err) {
		t.Fatalf("duplicate submit must conflict, got %v", err)
	}
	answers, err := env.repo.FindAnswersByRoom(ctx, view.Room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 1 || *answers[0].SelectedOptionID != "opt-a" {
		t.Errorf("first answer must survive: %+v", answers)
	}

	// 오답은 0점
	wrong, err := game.SubmitAnswer(ctx, view.Room.ID, "host1", 0, ptr.String("opt-b"))
	if err != nil {
		t.Fatal(err)
	}
	if wrong.IsCorrect || wrong.Score != 0 {
		t.Errorf("incorrect answer must score 0, got %+v", wrong)
	}
}

func TestGameService_SubmitAnswer_WindowEnforced(t *testing.T) {
	env := newTestEnv(t)
	game := env.gameService(&fakeQuestionProvider{questions: testQuestions(3)})
	ctx := context.Background()
	view := startableRoom(t, env)

	if _, err := game.StartGame(ctx, view.Room.ID, "host1"); err != nil {
		t.Fatal(err)
	}

	// 아직 시작되지 않은 문제
	_, err := game.SubmitAnswer(ctx, view.Room.ID, "user2", 0, ptr.String("opt-a"))
	var window cerrors.AnswerWindowError
	if !errors.As(err, &window) {
		t.Fatalf("answer before start must hit window error, got %v", err)
	}

	env.clock.Advance(5 * time.Second)
	if _, err := game.StartQuestion(ctx, view.Room.ID, 0); err != nil {
		t.Fatal(err)
	}

	// 제한 시간 경과 후
	env.clock.Advance(30 * time.Second)
	_, err = game.SubmitAnswer(ctx, view.Room.ID, "user2", 0, ptr.String("opt-a"))
	if !errors.As(err, &window) {
		t.Errorf("late answer must hit window error, got %v", err)
	}

	// 앉아 있지 않은 사용자
	env.clock.Advance(-25 * time.Second)
	_, err = game.SubmitAnswer(ctx, view.Room.ID, "stranger", 0, ptr.String("opt-a"))
	if !cerrors.IsNotFound(err) {
		t.Errorf("non-seated user must be NotFound, got %v", err)
	}
}

func TestGameService_FinishGame(t *testing.T) {
	env := newTestEnv(t)
	game := env.gameService(&fakeQuestionProvider{questions: testQuestions(3)})
	ctx := context.Background()
	view := startableRoom(t, env)

	if _, err := game.StartGame(ctx, view.Room.ID, "host1"); err != nil {
		t.Fatal(err)
	}
	env.clock.Advance(5 * time.Second)
	if _, err := game.StartQuestion(ctx, view.Room.ID, 0); err != nil {
		t.Fatal(err)
	}

	// user2는 빠른 정답, host1은 느린 정답
	env.clock.Advance(3 * time.Second)
	if _, err := game.SubmitAnswer(ctx, view.Room.ID, "user2", 0, ptr.String("opt-a")); err != nil {
		t.Fatal(err)
	}
	env.clock.Advance(10 * time.Second)
	if _, err := game.SubmitAnswer(ctx, view.Room.ID, "host1", 0, ptr.String("opt-a")); err != nil {
		t.Fatal(err)
	}

	results, err := game.FinishGame(ctx, view.Room.ID)
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Errorf("ranks must be sequential: %+v", results)
	}
	if results[0].TotalScore <= results[1].TotalScore {
		t.Errorf("faster correct answer must lead: %+v", results)
	}

	room, err := env.repo.FindRoomByID(ctx, view.Room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if room.Status != model.RoomStatusFinished {
		t.Errorf("room must be finished, got %s", room.Status)
	}

	// finished는 종단 상태: 재종료는 전이 위반
	_, err = game.FinishGame(ctx, view.Room.ID)
	var invalid cerrors.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Errorf("double finish must be transition error, got %v", err)
	}
}

func TestGameService_CleanupRoom(t *testing.T) {
	env := newTestEnv(t)
	game := env.gameService(&fakeQuestionProvider{questions: testQuestions(3)})
	ctx := context.Background()
	view := startableRoom(t, env)

	if err := game.CleanupRoom(ctx, view.Room.ID); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	state, err := env.states.Load(ctx, view.Room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state != nil {
		t.Error("live state must be deleted")
	}
	count, err := env.presence.Count(ctx, view.Room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("presence must be cleared, got %d", count)
	}
}
