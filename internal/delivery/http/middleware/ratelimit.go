package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/pkg/errors"
	"github.com/restaurant-roulette/internal/pkg/ratelimit"
	"github.com/restaurant-roulette/internal/pkg/utils"
)

// RateLimit - фиксированное окно на клиента. Ключ корзины: "<scope>:<client>",
// поэтому у разных endpoint'ов независимые лимиты.
func RateLimit(limiter *ratelimit.Limiter, scope string, maxRequests int, window time.Duration, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client := ratelimit.ClientKey(c.Get(fiber.HeaderXForwardedFor), c.Get("X-Real-IP"))

		// ошибка хранилища уже залогирована лимитером, запрос в этом случае пропускается
		decision, _ := limiter.Check(c.UserContext(), scope+":"+client, maxRequests, window)

		if !decision.Allowed {
			logger.Debug("Rate limit exceeded",
				zap.String("scope", scope),
				zap.String("client", client),
				zap.Int("retry_after", decision.RetryAfterSeconds))

			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(decision.RetryAfterSeconds))
			c.Set(fiber.HeaderCacheControl, "no-store")
			return utils.SendError(c, errors.ErrRateLimited)
		}

		return c.Next()
	}
}
