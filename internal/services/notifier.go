package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventNotifier pushes reservation lifecycle events to the admin websocket
// feed and the Redis event channel. Both sinks are best-effort; a dropped
// event never fails the booking operation that produced it.
type EventNotifier struct {
	hub   *Hub
	redis *redis.Client
	log   *zap.Logger
}

func NewEventNotifier(hub *Hub, rdb *redis.Client, log *zap.Logger) *EventNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventNotifier{hub: hub, redis: rdb, log: log}
}

func (n *EventNotifier) BookingUpdated(action string, b *models.Booking) {
	n.send("booking", action, b.ID, string(b.Status), map[string]interface{}{
		"scheduleId": b.ScheduleID,
		"passengers": b.Passengers,
	})
}

func (n *EventNotifier) HotelBookingUpdated(action string, hb *models.HotelBooking) {
	n.send("hotel_booking", action, hb.ID, string(hb.Status), map[string]interface{}{
		"hotelId": hb.HotelID,
		"guests":  hb.Guests,
	})
}

func (n *EventNotifier) send(kind, action string, id uint, status string, data map[string]interface{}) {
	if n.hub != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"kind":      kind,
			"action":    action,
			"bookingId": id,
			"status":    status,
			"data":      data,
		})
		if err == nil {
			n.hub.BroadcastToRole(string(models.UserRoleAdmin), payload)
		}
	}

	if n.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := PublishBookingUpdate(ctx, n.redis, kind+":"+action, id, status, data); err != nil {
			n.log.Warn("failed to publish booking event", zap.Error(err))
		}
	}
}
