package middlewarectx

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/prorated-billing/internal/config"
	"github.com/magabrotheeeer/prorated-billing/internal/http/response"
)

// idleTTL - через сколько простоя лимитер пользователя удаляется.
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserLimiter ограничивает частоту запросов отдельно для каждого пользователя.
type UserLimiter struct {
	mu       sync.Mutex
	visitors map[int]*visitor
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

// NewUserLimiter создаёт лимитер с параметрами из конфига.
func NewUserLimiter(cfg config.RateLimit) *UserLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &UserLimiter{
		visitors: make(map[int]*visitor),
		rps:      rate.Limit(cfg.RPS),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow сообщает, можно ли пропустить запрос пользователя userID.
func (l *UserLimiter) Allow(userID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[userID]
	if !ok {
		l.cleanup(now)
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[userID] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *UserLimiter) cleanup(now time.Time) {
	for id, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, id)
		}
	}
}

// RateLimitMiddleware отвечает 429, если пользователь превысил лимит.
// Должен стоять после JWTMiddleware.
func RateLimitMiddleware(limiter *UserLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if !limiter.Allow(user.ID) {
				log.Warn("too many requests", slog.Int("user_id", user.ID))
				w.Header().Set("Retry-After", "1")
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
