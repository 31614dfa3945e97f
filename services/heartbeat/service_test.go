package heartbeat

import (
	"context"
	"testing"
	"time"

	"ledserial-go/bus"
	"ledserial-go/errcode"
	"ledserial-go/types"
)

func TestHeartbeatReportsLatestState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(8)
	conn := b.NewConnection("test")
	conn.Publish(conn.NewMessage(topicLEDState, types.LEDState{Mode: types.ModeBrightness, Level: 40}, true))

	beats := make(chan types.LEDState, 8)
	s := &Service{Beat: func(st types.LEDState) {
		select {
		case beats <- st:
		default:
		}
	}}
	if err := s.Start(ctx, conn); err != nil {
		t.Fatal(err)
	}

	// Interval is whole seconds; one second is the shortest beat.
	conn.Publish(conn.NewMessage(topicConfigHeartbeat, types.HeartbeatConfig{Interval: 1}, true))

	select {
	case st := <-beats:
		if st.Mode != types.ModeBrightness || st.Level != 40 {
			t.Fatalf("beat = %+v", st)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no heartbeat")
	}
}

func TestHeartbeatPausedByZeroInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(8)
	conn := b.NewConnection("test")
	conn.Publish(conn.NewMessage(topicConfigHeartbeat, types.HeartbeatConfig{Interval: 0}, true))

	beats := make(chan types.LEDState, 1)
	s := &Service{Beat: func(st types.LEDState) { beats <- st }}
	if err := s.Start(ctx, conn); err != nil {
		t.Fatal(err)
	}

	select {
	case <-beats:
		t.Fatal("beat while paused")
	case <-time.After(1200 * time.Millisecond):
	}
}

func TestStartNeedsConnection(t *testing.T) {
	s := &Service{}
	if err := s.Start(context.Background(), nil); !errcode.Is(err, errcode.InvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}
