// Package channel 은 방 단위 실시간 이벤트 브로드캐스트를 담당한다.
// Valkey Pub/Sub 위에 타입이 붙은 이벤트 봉투를 실어 나른다.
package channel

import (
	"context"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/study-arena-go/internal/battle/model"
	bredis "github.com/park285/study-arena-go/internal/battle/redis"
	cerrors "github.com/park285/study-arena-go/internal/common/errors"
	"github.com/park285/study-arena-go/internal/common/telemetry"
)

// Broadcaster: 방 채널로 이벤트를 발행(PUBLISH)하는 역할을 담당한다.
type Broadcaster struct {
	client valkey.Client
	logger *slog.Logger
}

// NewBroadcaster: 새로운 Broadcaster 인스턴스를 생성한다.
func NewBroadcaster(client valkey.Client, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{client: client, logger: logger}
}

// Publish: 이벤트를 직렬화해 방 채널로 발행한다.
// 구독자가 없어도 발행 자체는 성공으로 처리한다.
func (b *Broadcaster) Publish(ctx context.Context, event model.Event) error {
	if event.Trace == nil {
		carrier := telemetry.MapCarrier{}
		telemetry.InjectContext(ctx, carrier)
		if len(carrier) > 0 {
			event.Trace = carrier
		}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	channelName := bredis.ChannelName(event.RoomID)
	cmd := b.client.B().Publish().Channel(channelName).Message(string(payload)).Build()
	receivers, err := b.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return cerrors.RedisError{Operation: "event_publish", Err: err}
	}

	b.logger.Debug("event_published",
		"room_id", event.RoomID,
		"type", event.Type,
		"receivers", receivers,
	)
	return nil
}

// PublishTyped: 페이로드를 봉투에 감싸 발행하는 축약 헬퍼.
func (b *Broadcaster) PublishTyped(ctx context.Context, eventType model.EventType, roomID uint64, payload any) error {
	event, err := model.NewEvent(eventType, roomID, payload)
	if err != nil {
		return err
	}
	return b.Publish(ctx, event)
}

// Handler: 수신한 이벤트를 처리하는 콜백.
type Handler func(ctx context.Context, event model.Event)

// Subscriber: 방 채널 구독자. 전용 클라이언트로 SUBSCRIBE를 유지한다.
type Subscriber struct {
	client valkey.Client
	logger *slog.Logger
}

// NewSubscriber: 새로운 Subscriber 인스턴스를 생성한다.
// Pub/Sub은 연결을 점유하므로 일반 명령용과 분리된 클라이언트를 넘겨야 한다.
func NewSubscriber(client valkey.Client, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{client: client, logger: logger}
}

// Subscribe: 방 채널을 구독하고 수신 이벤트를 핸들러로 전달한다.
// ctx가 취소될 때까지 블로킹하며, 해석할 수 없는 메시지는 버리고 계속한다.
func (s *Subscriber) Subscribe(ctx context.Context, roomID uint64, handler Handler) error {
	channelName := bredis.ChannelName(roomID)
	cmd := s.client.B().Subscribe().Channel(channelName).Build()

	err := s.client.Receive(ctx, cmd, func(msg valkey.PubSubMessage) {
		var event model.Event
		if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
			s.logger.Warn("event_decode_failed", "room_id", roomID, "err", err)
			return
		}

		eventCtx := ctx
		if len(event.Trace) > 0 {
			eventCtx = telemetry.ExtractContext(ctx, telemetry.MapCarrier(event.Trace))
		}
		handler(eventCtx, event)
	})
	if err != nil && ctx.Err() == nil {
		return cerrors.RedisError{Operation: "event_subscribe", Err: err}
	}
	return nil
}
