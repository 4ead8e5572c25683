package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisChannel carries hub events between the gateway and terminal clients
// sharing one Redis.
const RedisChannel = "saferplace:events"

// relayedTypes are the events worth showing on another process's shell.
// Session changes stay local: each process owns its session.
var relayedTypes = map[string]bool{
	EventAssessment: true,
	EventBanner:     true,
	EventEmergency:  true,
	EventChat:       true,
}

// RedisRelay forwards local hub events to Redis and, when receiving,
// injects other processes' events into the local hub.
type RedisRelay struct {
	hub    *Hub
	client *redis.Client
	origin string
	log    *logrus.Entry
}

func NewRedisRelay(hub *Hub, client *redis.Client, log *logrus.Entry) *RedisRelay {
	return &RedisRelay{hub: hub, client: client, origin: uuid.NewString(), log: log}
}

// Publish forwards local events until the returned func is called. The
// func drains queued events before returning. Events that came from Redis
// are never sent back.
func (r *RedisRelay) Publish(ctx context.Context) func() {
	events, unsubscribe := r.hub.Tap(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range events {
			if evt.Origin != "" || !relayedTypes[evt.Type] {
				continue
			}
			evt.Origin = r.origin
			data, err := json.Marshal(evt)
			if err != nil {
				r.log.WithError(err).Warn("could not encode event for relay")
				continue
			}
			if err := r.client.Publish(ctx, RedisChannel, data).Err(); err != nil {
				r.log.WithError(err).Debug("event relay publish failed")
			}
		}
	}()
	return func() {
		unsubscribe()
		<-done
	}
}

// Receive delivers remote events into the hub until ctx is done,
// resubscribing with backoff when the connection drops.
func (r *RedisRelay) Receive(ctx context.Context) {
	backoff := time.Second
	for ctx.Err() == nil {
		if err := r.receiveOnce(ctx); err != nil && ctx.Err() == nil {
			r.log.WithError(err).WithField("retry_in", backoff.String()).Warn("event relay subscriber error")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
			continue
		}
		backoff = time.Second
	}
}

func (r *RedisRelay) receiveOnce(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, RedisChannel)
	defer pubsub.Close()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}

		var evt remoteEvent
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			r.log.WithError(err).Debug("dropping malformed relayed event")
			continue
		}
		if evt.Origin == "" || evt.Origin == r.origin || !relayedTypes[evt.Type] {
			continue
		}
		r.hub.Deliver(Event{Type: evt.Type, Data: evt.Data, Timestamp: evt.Timestamp, Origin: evt.Origin})
	}
}
