package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"quizforge-backend/internal/models"
)

// CorpusCache keeps the text of every question handed out, per topic, so new
// batches can be deduplicated against earlier ones.
type CorpusCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCorpusCache(client *redis.Client) *CorpusCache {
	return &CorpusCache{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

func (c *CorpusCache) key(topic string) string {
	return fmt.Sprintf("corpus:topic:%s", strings.ToLower(strings.TrimSpace(topic)))
}

// KnownQuestions returns the stored texts for all topics, without repeats.
func (c *CorpusCache) KnownQuestions(ctx context.Context, topics []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, topic := range topics {
		members, err := c.client.SMembers(ctx, c.key(topic)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// AddQuestions records accepted questions under every requested topic and
// under the question's own topic label, which the model may have narrowed.
func (c *CorpusCache) AddQuestions(ctx context.Context, topics []string, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	pipe := c.client.TxPipeline()
	touched := make(map[string]bool)
	for _, q := range questions {
		text := q.Text()
		for _, key := range c.keysFor(topics, q.Topic) {
			pipe.SAdd(ctx, key, text)
			touched[key] = true
		}
	}
	for key := range touched {
		pipe.Expire(ctx, key, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *CorpusCache) keysFor(topics []string, own string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, topic := range append(append([]string(nil), topics...), own) {
		if strings.TrimSpace(topic) == "" {
			continue
		}
		key := c.key(topic)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
