package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix names the dead letter list of a queue: dlq:{queue}.
const DLQPrefix = "dlq:"

// DLQEntry is a job that will not be retried, kept for manual inspection.
// Requeueing one is LPUSHing its Job back onto Queue.
type DLQEntry struct {
	Job
	Queue    string    `json:"queue"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

func dlqKey(queue string) string { return DLQPrefix + queue }

// SendToDLQ records job as dead. It uses a non-cancellable context so a
// shutdown in progress does not lose the entry.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	data, err := json.Marshal(DLQEntry{Job: job, Queue: queue, Reason: reason, FailedAt: time.Now().UTC()})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: encode entry")
		return
	}
	if err := rdb.LPush(context.WithoutCancel(ctx), dlqKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("tipo", job.Type).Msg("dlq: push")
		return
	}
	log.Warn().Str("queue", queue).Str("tipo", job.Type).Int("intentos", job.Attempts).
		Str("motivo", reason).Msg("email job dead-lettered")
}

// DLQLength returns the number of dead jobs of queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}

// ListDLQ returns up to limit dead jobs of queue, newest first. Entries that
// cannot be decoded are skipped.
func ListDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int64) ([]DLQEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := rdb.LRange(ctx, dlqKey(queue), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("dlq: list %s: %w", queue, err)
	}
	out := make([]DLQEntry, 0, len(raw))
	for _, s := range raw {
		var e DLQEntry
		if json.Unmarshal([]byte(s), &e) != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
