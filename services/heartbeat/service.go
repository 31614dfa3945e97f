package heartbeat

import (
	"context"
	"time"

	"ledserial-go/bus"
	"ledserial-go/errcode"
	"ledserial-go/types"
	"ledserial-go/x/logx"
)

var (
	topicConfigHeartbeat = bus.Topic{"config", "heartbeat"}
	topicLEDState        = bus.Topic{"led", "state"}
)

// Service logs the current actuation mode at the configured interval.
// An interval of zero pauses it.
type Service struct {
	// Beat, when set, replaces the log line. Used by tests.
	Beat func(types.LEDState)
}

func (s *Service) beat(st types.LEDState) {
	if s.Beat != nil {
		s.Beat(st)
		return
	}
	logx.Info("heartbeat", "mode", st.Mode.String(), "level", st.Level, "freq_hz", st.FreqHz)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	stateSub := conn.Subscribe(topicLEDState)
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(stateSub)

	tick := time.NewTicker(time.Hour)
	tick.Stop()
	defer tick.Stop()

	var last types.LEDState
	for {
		select {
		case <-ctx.Done():
			logx.Info("heartbeat service stopping")
			return
		case <-tick.C:
			s.beat(last)
		case msg := <-stateSub.Channel():
			if st, ok := msg.Payload.(types.LEDState); ok {
				last = st
			}
		case msg := <-cfgSub.Channel():
			hb, ok := msg.Payload.(types.HeartbeatConfig)
			if !ok {
				continue
			}
			if hb.Interval <= 0 {
				tick.Stop()
				logx.Info("heartbeat paused")
				continue
			}
			tick.Reset(time.Duration(hb.Interval) * time.Second)
			logx.Info("heartbeat interval set", "seconds", hb.Interval)
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if conn == nil {
		return errcode.New(errcode.InvalidArgument, "heartbeat_start", "nil bus connection")
	}
	go s.serviceLoop(ctx, conn)
	return nil
}
