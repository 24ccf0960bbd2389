package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/utils/logger"
	"github.com/redis/go-redis/v9"
)

const roomChannelPrefix = "room:"

// RedisBroadcaster implements game.Broadcaster over Redis pub/sub:
// events are published to room:<code> and every instance subscribed to
// room:* relays them to its own sockets. Redis channel order is the
// delivery order for all instances. Without a Redis client it degrades
// to local-only delivery.
type RedisBroadcaster struct {
	client *redis.Client
	hub    *Hub
}

func NewRedisBroadcaster(ctx context.Context, client *redis.Client, hub *Hub) *RedisBroadcaster {
	b := &RedisBroadcaster{client: client, hub: hub}
	if client != nil {
		go b.relay(ctx)
	}
	return b
}

func (b *RedisBroadcaster) Publish(room string, ev game.Event) {
	if b.client == nil {
		b.hub.Deliver(room, ev)
		return
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		logger.Errorf("[Broadcast] marshal %s failed: %v", ev.Type, err)
		return
	}
	if err := b.client.Publish(context.Background(), roomChannelPrefix+room, raw).Err(); err != nil {
		// The backbone is down; deliver locally so live play continues.
		logger.Errorf("[Broadcast] publish to room %s failed, delivering locally: %v", room, err)
		b.hub.Deliver(room, ev)
	}
}

// relay pipes backbone events to this instance's sockets. Local
// delivery also goes through here so every instance sees the same
// order.
func (b *RedisBroadcaster) relay(ctx context.Context) {
	pubsub := b.client.PSubscribe(ctx, roomChannelPrefix+"*")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		room := strings.TrimPrefix(msg.Channel, roomChannelPrefix)
		var ev game.Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logger.Errorf("[Broadcast] bad event on %s: %v", msg.Channel, err)
			continue
		}
		b.hub.Deliver(room, ev)
	}
}
