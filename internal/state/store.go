// Package state keeps the last submission the bot has seen.
package state

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	apperrors "homework-status-bot/internal/common/errors"
	"homework-status-bot/internal/homework"
)

// Store holds the previously seen submission. Load returns nil when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) (homework.Submission, error)
	Save(ctx context.Context, s homework.Submission) error
}

// MemoryStore lives as long as the process. It is only used from the poll
// loop goroutine and is not safe for concurrent use.
type MemoryStore struct {
	last homework.Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (homework.Submission, error) {
	return m.last, nil
}

func (m *MemoryStore) Save(_ context.Context, s homework.Submission) error {
	m.last = s
	return nil
}

// RedisStore keeps the submission as JSON under a single key so it survives restarts.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (homework.Submission, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStateStoreFailedError("load", err)
	}

	var s homework.Submission
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, apperrors.NewStateStoreFailedError("decode", err)
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s homework.Submission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return apperrors.NewStateStoreFailedError("encode", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return apperrors.NewStateStoreFailedError("save", err)
	}
	return nil
}
