package channel

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/study-arena-go/internal/battle/model"
	"github.com/park285/study-arena-go/internal/common/testhelper"
)

// Pub/Sub은 연결을 점유하므로 발행용과 구독용 클라이언트를 분리한다.
func newTestClients(t *testing.T) (valkey.Client, valkey.Client) {
	t.Helper()

	pub, mr := testhelper.NewMiniredisClient(t)
	sub := testhelper.NewMiniredisClientFor(t, mr)
	return pub, sub
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBroadcaster_PublishWithoutSubscribers(t *testing.T) {
	pub, _ := newTestClients(t)
	broadcaster := NewBroadcaster(pub, testLogger())

	err := broadcaster.PublishTyped(context.Background(), model.EventGameStarting, 7,
		model.GameStartingPayload{StartsAt: 1700000000000})
	if err != nil {
		t.Fatalf("publish without subscribers must succeed: %v", err)
	}
}

func TestChannel_EventRoundTrip(t *testing.T) {
	pub, sub := newTestClients(t)
	broadcaster := NewBroadcaster(pub, testLogger())
	subscriber := NewSubscriber(sub, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan model.Event, 8)
	go func() {
		_ = subscriber.Subscribe(ctx, 7, func(_ context.Context, event model.Event) {
			received <- event
		})
	}()

	// 구독 연결이 붙을 때까지 재발행하면서 수신을 기다린다
	payload := model.QuestionStartPayload{QuestionIndex: 2, StartedAt: 1700000000000, TimeLimitSeconds: 30}
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := broadcaster.PublishTyped(ctx, model.EventQuestionStart, 7, payload); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
		select {
		case event := <-received:
			if event.Type != model.EventQuestionStart || event.RoomID != 7 {
				t.Fatalf("unexpected envelope: %+v", event)
			}
			decoded, err := model.DecodePayload[model.QuestionStartPayload](event)
			if err != nil {
				t.Fatal(err)
			}
			if decoded.QuestionIndex != 2 || decoded.TimeLimitSeconds != 30 {
				t.Fatalf("unexpected payload: %+v", decoded)
			}
			return
		case <-ticker.C:
		case <-ctx.Done():
			t.Fatal("event not received before timeout")
		}
	}
}

func TestChannel_RoomsAreIsolated(t *testing.T) {
	pub, sub := newTestClients(t)
	broadcaster := NewBroadcaster(pub, testLogger())
	subscriber := NewSubscriber(sub, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan model.Event, 8)
	go func() {
		_ = subscriber.Subscribe(ctx, 7, func(_ context.Context, event model.Event) {
			received <- event
		})
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		// 다른 방(8) 이벤트 먼저, 그 다음 방 7 이벤트
		if err := broadcaster.PublishTyped(ctx, model.EventGameStarting, 8,
			model.GameStartingPayload{StartsAt: 1}); err != nil {
			t.Fatal(err)
		}
		if err := broadcaster.PublishTyped(ctx, model.EventGameStarting, 7,
			model.GameStartingPayload{StartsAt: 2}); err != nil {
			t.Fatal(err)
		}

		select {
		case event := <-received:
			// 방 7 구독자는 방 7 이벤트만 받아야 한다
			if event.RoomID != 7 {
				t.Fatalf("received event for wrong room: %+v", event)
			}
			return
		case <-ticker.C:
		case <-ctx.Done():
			t.Fatal("event not received before timeout")
		}
	}
}
