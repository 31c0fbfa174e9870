package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisPublisher(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, PaymentChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	pub := NewRedisPublisher(client)
	want := PaymentEvent{PaymentUUID: "p-1", Status: "INITIATED", OccurredAt: time.Now().UTC()}
	if err := pub.Publish(ctx, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}

	var got PaymentEvent
	if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PaymentUUID != want.PaymentUUID || got.Status != want.Status {
		t.Fatalf("unexpected event: %+v", got)
	}
}
