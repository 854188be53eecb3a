package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OutboxLimit caps how many sent messages are remembered.
const OutboxLimit = 500

const outboxKey = "sms:sent"

// SentMessage is one dispatch attempt kept for the dashboard.
type SentMessage struct {
	Phone   string    `json:"phone"`
	Message string    `json:"message"`
	Status  string    `json:"status"`
	Gateway string    `json:"gateway"`
	SID     string    `json:"sid,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// Outbox records sent messages, newest first.
type Outbox interface {
	Record(ctx context.Context, m SentMessage) error
	Recent(ctx context.Context, limit int) ([]SentMessage, error)
}

// RedisOutbox keeps the log in a capped Redis list shared by every replica.
type RedisOutbox struct {
	rdb *redis.Client
}

func NewRedisOutbox(rdb *redis.Client) *RedisOutbox {
	return &RedisOutbox{rdb: rdb}
}

func (o *RedisOutbox) Record(ctx context.Context, m SentMessage) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	pipe := o.rdb.TxPipeline()
	pipe.LPush(ctx, outboxKey, payload)
	pipe.LTrim(ctx, outboxKey, 0, OutboxLimit-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (o *RedisOutbox) Recent(ctx context.Context, limit int) ([]SentMessage, error) {
	if limit <= 0 || limit > OutboxLimit {
		limit = OutboxLimit
	}
	raw, err := o.rdb.LRange(ctx, outboxKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]SentMessage, 0, len(raw))
	for _, item := range raw {
		var m SentMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode outbox entry: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// MemoryOutbox is the per-process outbox used when Redis is not configured.
type MemoryOutbox struct {
	mu    sync.Mutex
	items []SentMessage
}

func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{}
}

func (o *MemoryOutbox) Record(_ context.Context, m SentMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append(o.items, m)
	if len(o.items) > OutboxLimit {
		o.items = o.items[len(o.items)-OutboxLimit:]
	}
	return nil
}

func (o *MemoryOutbox) Recent(_ context.Context, limit int) ([]SentMessage, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if limit <= 0 || limit > len(o.items) {
		limit = len(o.items)
	}
	out := make([]SentMessage, 0, limit)
	for i := len(o.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, o.items[i])
	}
	return out, nil
}
