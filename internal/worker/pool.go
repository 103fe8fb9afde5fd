package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"dragonya/internal/infra"
	"dragonya/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail      = "jobs:email"
	RetryQueueEmail = QueueEmail + ":retry"

	// MaxEmailAttempts is the number of deliveries tried before a job lands in the DLQ.
	MaxEmailAttempts = 5
)

// Job is the envelope stored in the Redis lists.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job; Attempts already counts this delivery. A non-nil
// error schedules a retry unless it was wrapped with Permanente.
type Handler interface {
	Process(ctx context.Context, job Job) error
}

type errPermanente struct{ err error }

func (e errPermanente) Error() string { return e.err.Error() }
func (e errPermanente) Unwrap() error { return e.err }

// Permanente marks err as not worth retrying.
func Permanente(err error) error { return errPermanente{err: err} }

// Dispatcher enqueues email jobs. It satisfies service.Notificador.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnviarConfirmacion queues the account confirmation email.
func (d *Dispatcher) EnviarConfirmacion(ctx context.Context, email, token string) error {
	return d.enqueue(ctx, TipoConfirmacion, EmailPayload{Email: email, Token: token})
}

// EnviarRecuperacion queues the password reset email; rol picks the frontend path.
func (d *Dispatcher) EnviarRecuperacion(ctx context.Context, email, token, rol string) error {
	return d.enqueue(ctx, TipoRecuperacion, EmailPayload{Email: email, Token: token, Rol: rol})
}

func (d *Dispatcher) enqueue(ctx context.Context, tipo string, payload EmailPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: tipo, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueEmail, encoded).Err()
}

// PoolConfig tunes the consumer goroutines.
type PoolConfig struct {
	Workers int
	// Block is the BRPOP timeout; the loop re-checks ctx between pops.
	Block time.Duration
	// RetryTick is how often due retries are moved back to the queue.
	RetryTick time.Duration
	Backoff   func(attempt int) time.Duration
}

// Pool consumes QueueEmail with a fixed number of goroutines.
type Pool struct {
	rdb     *redis.Client
	handler Handler
	cfg     PoolConfig
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewPool(rdb *redis.Client, handler Handler, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	if cfg.RetryTick <= 0 {
		cfg.RetryTick = retryTickInterval
	}
	if cfg.Backoff == nil {
		cfg.Backoff = computeRetryBackoff
	}
	return &Pool{rdb: rdb, handler: handler, cfg: cfg, now: time.Now}
}

// Start launches the workers and the retry cron. They stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		StartRetryCron(ctx, p.rdb, p.cfg.RetryTick)
	}()
	log.Info().Int("workers", p.cfg.Workers).Msg("worker pool started")
}

// Wait blocks until every goroutine started by Start has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
		result, err := p.rdb.BRPop(ctx, p.cfg.Block, QueueEmail).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Error().Err(err).Int("worker", id).Msg("brpop failed")
				// avoid a hot loop while redis is down
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[1])
	}
}

func (p *Pool) processJob(ctx context.Context, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		// kept as a JSON string; the raw text is not valid JSON
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, p.rdb, QueueEmail, Job{Type: "desconocido", Payload: quoted}, err.Error())
		return
	}
	job.Attempts++

	err := p.handler.Process(ctx, job)
	if err == nil {
		metrics.RecordEmail(job.Type, metrics.ResultadoOK)
		return
	}

	var perm errPermanente
	switch {
	case errors.As(err, &perm):
		metrics.RecordEmail(job.Type, metrics.ResultadoDLQ)
		SendToDLQ(ctx, p.rdb, QueueEmail, job, err.Error())
	case job.Attempts >= MaxEmailAttempts:
		metrics.RecordEmail(job.Type, metrics.ResultadoDLQ)
		SendToDLQ(ctx, p.rdb, QueueEmail, job, err.Error())
	default:
		resultado := metrics.ResultadoRetry
		if errors.Is(err, infra.ErrCircuitOpen) {
			resultado = metrics.ResultadoAbierto
		}
		metrics.RecordEmail(job.Type, resultado)
		p.scheduleRetry(ctx, job, err)
	}
}

func (p *Pool) scheduleRetry(ctx context.Context, job Job, cause error) {
	encoded, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal retry job")
		return
	}
	due := p.now().Add(p.cfg.Backoff(job.Attempts))
	z := redis.Z{Score: float64(due.UnixMilli()), Member: encoded}
	// a background context keeps the retry from being lost during shutdown
	if err := p.rdb.ZAdd(context.WithoutCancel(ctx), RetryQueueEmail, z).Err(); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("failed to schedule retry")
		return
	}
	log.Warn().
		Err(cause).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Time("next_retry_at", due).
		Msg("email job failed, retry scheduled")
}
