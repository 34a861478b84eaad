package valkeyx

import (
	"context"
	"testing"
	"time"

	"github.com/park285/study-arena-go/internal/common/testhelper"
)

func TestSetStringEXAndGetBytes(t *testing.T) {
	client, mr := testhelper.NewMiniredisClient(t)
	ctx := context.Background()

	if err := SetStringEX(ctx, client, "k1", "hello", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	raw, ok, err := GetBytes(ctx, client, "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || string(raw) != "hello" {
		t.Errorf("expected hello, got ok=%v raw=%q", ok, raw)
	}

	// TTL 만료 후에는 부재로 조회된다
	mr.FastForward(2 * time.Minute)
	_, ok, err = GetBytes(ctx, client, "k1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expired key must read as absent")
	}
}

func TestGetBytes_MissingKey(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)

	raw, ok, err := GetBytes(context.Background(), client, "no-such-key")
	if err != nil {
		t.Fatalf("missing key must not be an error, got %v", err)
	}
	if ok || raw != nil {
		t.Errorf("expected absent, got ok=%v raw=%q", ok, raw)
	}
}

func TestDeleteKeys(t *testing.T) {
	client, _ := testhelper.NewMiniredisClient(t)
	ctx := context.Background()

	for _, key := range []string{"d1", "d2"} {
		if err := SetStringEX(ctx, client, key, "v", time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	if err := DeleteKeys(ctx, client, "d1", "d2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	for _, key := range []string{"d1", "d2"} {
		_, ok, err := GetBytes(ctx, client, key)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Errorf("key %s must be gone", key)
		}
	}

	// 빈 키 목록은 no-op
	if err := DeleteKeys(ctx, client); err != nil {
		t.Errorf("empty delete must be no-op, got %v", err)
	}
}
