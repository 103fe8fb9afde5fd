package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 15 * time.Second
	retryBatchSize    = 50
	retryBaseDelay    = 30 * time.Second
	retryMaxDelay     = 30 * time.Minute
)

// StartRetryCron moves due jobs from RetryQueueEmail back to QueueEmail every tick.
// It blocks until ctx is cancelled.
func StartRetryCron(ctx context.Context, rdb *redis.Client, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	log.Debug().Msg("retry_cron: started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("retry_cron: shutting down")
			return
		case now := <-ticker.C:
			n, err := MoveDueRetries(ctx, rdb, now)
			if err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("retry_cron: failed to move due jobs")
				continue
			}
			if n > 0 {
				log.Info().Int("count", n).Msg("retry_cron: jobs requeued")
			}
		}
	}
}

// moverVencidos requeues due members in one atomic step. LPUSH runs before
// ZREM so a failed push aborts the script with the job still scheduled.
// KEYS[1]=retry zset KEYS[2]=queue ARGV[1]=max score ARGV[2]=batch
var moverVencidos = redis.NewScript(`
local due = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1], "LIMIT", 0, ARGV[2])
for _, member in ipairs(due) do
	redis.call("LPUSH", KEYS[2], member)
	redis.call("ZREM", KEYS[1], member)
end
return #due
`)

// MoveDueRetries requeues up to retryBatchSize jobs whose retry time is not after now.
func MoveDueRetries(ctx context.Context, rdb *redis.Client, now time.Time) (int, error) {
	keys := []string{RetryQueueEmail, QueueEmail}
	n, err := moverVencidos.Run(ctx, rdb, keys, now.UnixMilli(), retryBatchSize).Int()
	if err != nil {
		return 0, fmt.Errorf("retry_cron: move due jobs: %w", err)
	}
	return n, nil
}

// computeRetryBackoff doubles the delay per attempt: 30s, 1m, 2m, 4m... capped at 30m.
func computeRetryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := retryBaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= retryMaxDelay {
			return retryMaxDelay
		}
	}
	return d
}
