package handler

import (
	"context"
	"net/http"
	"time"

	"dragonya/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	estadoConectado = "connected"
	estadoError     = "error"
)

// Health checks Postgres and Redis. It answers 503 when either is unreachable
// and never includes connection details in the body. The SMTP breaker state is
// informative only: queued emails survive an outage.
func Health(db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := comprobar(ctx, "postgres", func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
		redisStatus := comprobar(ctx, "redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})

		ok := dbStatus == estadoConectado && redisStatus == estadoConectado
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		body := gin.H{"ok": ok, "db": dbStatus, "redis": redisStatus}
		if smtpCB != nil {
			body["smtp"] = smtpCB.State().String()
		}
		c.JSON(status, body)
	}
}

func comprobar(ctx context.Context, nombre string, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		log.Warn().Err(err).Str("dependency", nombre).Msg("health check failed")
		return estadoError
	}
	return estadoConectado
}

// Root answers the plain-text liveness check.
func Root(c *gin.Context) {
	c.String(http.StatusOK, "Server ok")
}

// NoRoute answers unknown endpoints in plain text.
func NoRoute(c *gin.Context) {
	c.String(http.StatusNotFound, "Endpoint no encontrado - 404")
}
