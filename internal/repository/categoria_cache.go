package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dragonya/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// CategoriasActivasKey caches the active category list shown to students.
	CategoriasActivasKey = "categorias:activas"
	// CategoriasGenKey is bumped on every invalidation.
	CategoriasGenKey   = "categorias:activas:gen"
	categoriasCacheTTL = 10 * time.Minute
)

// guardarSiVigente stores the list only if no invalidation happened since the
// generation was read. KEYS[1]=list KEYS[2]=gen ARGV[1]=gen ARGV[2]=list ARGV[3]=ttl ms
var guardarSiVigente = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// categoriaCache is a cache-aside decorator over CategoriaRepository.
// Only the active list is cached; every write invalidates it.
type categoriaCache struct {
	CategoriaRepository
	rdb *redis.Client
}

func NewCategoriaCache(inner CategoriaRepository, rdb *redis.Client) CategoriaRepository {
	return &categoriaCache{CategoriaRepository: inner, rdb: rdb}
}

func (r *categoriaCache) Listar(ctx context.Context, soloActivas bool) ([]model.Categoria, error) {
	if !soloActivas {
		return r.CategoriaRepository.Listar(ctx, false)
	}

	if cached, err := r.rdb.Get(ctx, CategoriasActivasKey).Bytes(); err == nil {
		var list []model.Categoria
		if jsonErr := json.Unmarshal(cached, &list); jsonErr == nil {
			return list, nil
		}
	}

	// the generation is read before the store so a write committed in between
	// keeps this snapshot out of the cache
	gen, genErr := r.rdb.Get(ctx, CategoriasGenKey).Result()
	if errors.Is(genErr, redis.Nil) {
		gen, genErr = "0", nil
	}

	list, err := r.CategoriaRepository.Listar(ctx, true)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return list, nil
	}
	if b, jsonErr := json.Marshal(list); jsonErr == nil {
		keys := []string{CategoriasActivasKey, CategoriasGenKey}
		err := guardarSiVigente.Run(context.WithoutCancel(ctx), r.rdb, keys, gen, b, categoriasCacheTTL.Milliseconds()).Err()
		if err != nil {
			log.Debug().Err(err).Msg("category cache not stored")
		}
	}
	return list, nil
}

func (r *categoriaCache) Crear(ctx context.Context, c *model.Categoria) error {
	if err := r.CategoriaRepository.Crear(ctx, c); err != nil {
		return err
	}
	r.invalidar(ctx)
	return nil
}

func (r *categoriaCache) Actualizar(ctx context.Context, c *model.Categoria) error {
	if err := r.CategoriaRepository.Actualizar(ctx, c); err != nil {
		return err
	}
	r.invalidar(ctx)
	return nil
}

func (r *categoriaCache) invalidar(ctx context.Context) {
	_, err := r.rdb.TxPipelined(context.WithoutCancel(ctx), func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, CategoriasGenKey)
		pipe.Del(ctx, CategoriasActivasKey)
		return nil
	})
	if err != nil {
		// a stale list expires with the TTL
		log.Warn().Err(err).Msg("failed to invalidate category cache")
	}
}
