package realtime

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"socialchat/internal/metrics"
)

// Dispatcher delivers events to the live connections of recipients.
// Delivery is fire-and-forget: offline users are skipped, and a connection
// that cannot accept a frame is evicted.
type Dispatcher struct {
	registry *Registry
	log      *zap.Logger
}

func NewDispatcher(registry *Registry, log *zap.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

// DeliverDirect sends to every connection of sender and receiver, so the
// sender's other sessions see the echo too.
func (d *Dispatcher) DeliverDirect(senderID, receiverID uint, ev Event) (int, error) {
	return d.deliver([]uint{senderID, receiverID}, ev)
}

// DeliverGroup sends to every connection of each distinct member.
func (d *Dispatcher) DeliverGroup(memberIDs []uint, ev Event) (int, error) {
	return d.deliver(memberIDs, ev)
}

func (d *Dispatcher) DeliverUser(userID uint, ev Event) (int, error) {
	return d.deliver([]uint{userID}, ev)
}

// deliver returns the number of connections the frame was enqueued on.
func (d *Dispatcher) deliver(userIDs []uint, ev Event) (int, error) {
	frame, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("encode %s event: %w", ev.Event, err)
	}

	seen := make(map[uint]struct{}, len(userIDs))
	delivered := 0
	for _, uid := range userIDs {
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}

		conns := d.registry.Connections(uid)
		if len(conns) == 0 {
			metrics.RecordDropped("offline")
			continue
		}
		for _, c := range conns {
			if c.Send(frame) {
				delivered++
				metrics.RecordDelivered(ev.Event)
				continue
			}
			metrics.RecordDropped("unavailable")
			d.log.Warn("[ws][deliver] evicting slow or closed connection",
				zap.String("conn_id", c.ID()), zap.Uint("user_id", uid))
			d.registry.Remove(c)
			c.Close()
		}
	}
	return delivered, nil
}
