package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-gita-bot/internal/domain/model"
)

// VerseCache stores verse payloads as JSON under verse:<chapter>:<verse>.
type VerseCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewVerseCache(client RedisClient, ttl time.Duration) *VerseCache {
	return &VerseCache{client: client, ttl: ttl}
}

func verseKey(ref model.VerseRef) string {
	return fmt.Sprintf("verse:%d:%d", ref.Chapter, ref.Verse)
}

// Get returns (nil, false, nil) on a miss.
func (c *VerseCache) Get(ctx context.Context, ref model.VerseRef) (*model.Verse, bool, error) {
	data, err := c.client.Get(ctx, verseKey(ref))
	if errors.Is(err, ErrMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var v model.Verse
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, false, err
	}
	return &v, true, nil
}

func (c *VerseCache) Set(ctx context.Context, ref model.VerseRef, v *model.Verse) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, verseKey(ref), data, c.ttl)
}
