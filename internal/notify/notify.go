// Package notify announces decided duels over Redis pub/sub so payout and
// leaderboard workers can settle them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"defight/internal/arena"
	"defight/internal/combat"
)

// ResultChannelPrefix is followed by the duel id.
const ResultChannelPrefix = "duel:result:"

// Result is the payload published for a decided duel.
type Result struct {
	DuelID string `json:"duel_id"`
	Owner  string `json:"owner"`
	Stake  uint64 `json:"stake"`
	// Winner is 0 for a draw, otherwise the winning warrior id.
	Winner    uint8  `json:"winner"`
	Rounds    int    `json:"rounds"`
	Health1   uint32 `json:"health_1"`
	Health2   uint32 `json:"health_2"`
	EndedAtNs uint64 `json:"ended_at_ns"`
}

// NewResult summarizes a decided duel record.
func NewResult(rec arena.Record) (Result, error) {
	winner, decided := rec.Duel.Result()
	if !decided {
		return Result{}, fmt.Errorf("duel %s is still %s", rec.ID, combat.Active)
	}
	return Result{
		DuelID:    rec.ID,
		Owner:     rec.Owner,
		Stake:     rec.Stake,
		Winner:    uint8(winner),
		Rounds:    len(rec.Rounds),
		Health1:   rec.Duel.Warrior1.Health,
		Health2:   rec.Duel.Warrior2.Health,
		EndedAtNs: rec.Duel.LastActionAt,
	}, nil
}

// Channel returns the pub/sub channel for duel id.
func Channel(id string) string {
	return ResultChannelPrefix + id
}

// RedisPublisher publishes results with PUBLISH.
type RedisPublisher struct {
	Client *redis.Client
}

// NewRedisPublisher connects to the Redis server at addr.
func NewRedisPublisher(ctx context.Context, addr string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisPublisher{Client: client}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, rec arena.Record) error {
	res, err := NewResult(rec)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if err := p.Client.Publish(ctx, Channel(rec.ID), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", Channel(rec.ID), err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.Client.Close()
}
