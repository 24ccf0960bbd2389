package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/utils/logger"
	"github.com/redis/go-redis/v9"
)

const resultQueueKey = "queue:game-results"

// ResultQueue pushes finished-game results onto the background job
// list consumed by the notification workers. Fire-and-forget: a lost
// push is logged, never retried here, and never blocks gameplay.
type ResultQueue struct {
	client *redis.Client
}

func NewResultQueue(client *redis.Client) *ResultQueue {
	return &ResultQueue{client: client}
}

type resultJob struct {
	SessionID string        `json:"sessionId"`
	Winners   []game.Winner `json:"winners"`
	PrizePool float64       `json:"prizePool"`
	QueuedAt  time.Time     `json:"queuedAt"`
}

func (q *ResultQueue) Enqueue(sessionID string, winners []game.Winner, prizePool float64) {
	if q.client == nil {
		logger.Debugf("[Queue] no redis, skipping result job for session %s", sessionID)
		return
	}
	raw, err := json.Marshal(resultJob{
		SessionID: sessionID,
		Winners:   winners,
		PrizePool: prizePool,
		QueuedAt:  time.Now(),
	})
	if err != nil {
		logger.Errorf("[Queue] marshal result job failed: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.client.LPush(ctx, resultQueueKey, raw).Err(); err != nil {
		logger.Errorf("[Queue] enqueue result for session %s failed: %v", sessionID, err)
	}
}
