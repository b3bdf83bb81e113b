package mq

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const eventChannel = "trip-events"

// Index is the payload published for every domain mutation.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}

// Emitter publishes domain events to Redis pub/sub. A nil emitter or nil
// connection drops events silently, which keeps tests free of Redis.
type Emitter struct {
	conn *redis.Client
}

func NewEmitter(conn *redis.Client) *Emitter {
	return &Emitter{conn: conn}
}

func (e *Emitter) Emit(ctx context.Context, eventName string, content Index) {
	if e == nil || e.conn == nil {
		return
	}
	content.Method = eventName
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] marshal %s: %v", eventName, err)
		return
	}
	if err := e.conn.Publish(ctx, eventChannel, data).Err(); err != nil {
		log.Printf("[Emit] publish %s: %v", eventName, err)
	}
}

// StartWorker drains the event channel and logs each event. It blocks until
// the subscription dies, so run it on its own goroutine.
func (e *Emitter) StartWorker(ctx context.Context) {
	if e == nil || e.conn == nil {
		return
	}
	sub := e.conn.Subscribe(ctx, eventChannel)
	defer sub.Close()

	log.Println("[EventWorker] listening on", eventChannel)
	for msg := range sub.Channel() {
		var event Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[EventWorker] parse event: %v", err)
			continue
		}
		log.Printf("[EventWorker] %s %s %s", event.Method, event.EntityType, event.EntityId)
	}
}
