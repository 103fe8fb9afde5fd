package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"dragonya/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// ventana tracks requests from one IP within the current window.
type ventana struct {
	count int
	fin   time.Time
}

// Limitador is a fixed-window, per-IP request limiter.
// Expired entries are purged opportunistically from the request path.
type Limitador struct {
	limite  int
	periodo time.Duration
	msg     string
	now     func() time.Time

	mu           sync.Mutex
	ips          map[string]*ventana
	proximaPurga time.Time
}

func NewLimitador(limite int, periodo time.Duration, msg string) *Limitador {
	return &Limitador{
		limite:  limite,
		periodo: periodo,
		msg:     msg,
		now:     time.Now,
		ips:     make(map[string]*ventana),
	}
}

// Permitir registers a hit for ip and reports whether it is within the limit,
// plus when the current window ends.
func (l *Limitador) Permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.proximaPurga) {
		l.purgar(now)
		l.proximaPurga = now.Add(purgeInterval)
	}

	v, ok := l.ips[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(l.periodo)}
		l.ips[ip] = v
	}
	v.count++
	return v.count <= l.limite, v.fin
}

func (l *Limitador) purgar(now time.Time) {
	purged := 0
	for ip, v := range l.ips {
		if now.After(v.fin) {
			delete(l.ips, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.ips)).Msg("rate limiter purged")
	}
}

// Middleware answers 429 once an IP exceeds the limit.
func (l *Limitador) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := l.Permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(l.segundosHasta(fin)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.msg))
			return
		}
		c.Next()
	}
}

// segundosHasta rounds the wait until fin up to whole seconds, at least one.
func (l *Limitador) segundosHasta(fin time.Time) int {
	secs := int(math.Ceil(fin.Sub(l.now()).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return NewLimitador(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").Middleware()
}

// RateLimiter returns a general-purpose limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return NewLimitador(limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.").Middleware()
}
