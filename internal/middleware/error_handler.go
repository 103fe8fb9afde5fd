package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dragonya/internal/apierror"
	"dragonya/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

const msgErrorInterno = "Error interno del servidor"

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ErrorHandler answers for handlers that attached an error with c.Error and
// wrote nothing. *apierror.Error values keep their status and message; anything
// else is a generic 500 with the cause only in the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		cause := c.Errors.Last().Err
		var apiErr *apierror.Error
		if errors.As(cause, &apiErr) && apiErr.Kind != apierror.KindInternal {
			c.AbortWithStatusJSON(apiErr.Kind.Status(), apierror.New(apiErr.Msg))
			return
		}

		log.Error().Err(cause).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("route", c.FullPath()).
			Msg("request failed without a response")
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.InternalError{Error: msgErrorInterno})
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.InternalError{Error: msgErrorInterno})
			}
		}()
		c.Next()
	}
}

// Logger records one line and one metrics sample per request. 5xx responses
// log at error level and 4xx at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		inicio := time.Now()
		c.Next()

		latencia := time.Since(inicio)
		status := c.Writer.Status()
		ruta := c.FullPath()
		if ruta == "" {
			ruta = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, ruta, strconv.Itoa(status), latencia)

		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latencia).
			Msg("request")
	}
}
