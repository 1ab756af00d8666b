package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/usecase/dto"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	healthCheckWait = 2 * time.Second
)

// HealthChecker - зависимость, умеющая проверить своё состояние (Redis, PostgreSQL)
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler отдаёт состояние сервиса и подключённых хранилищ
type HealthHandler struct {
	checkers map[string]HealthChecker
	logger   *zap.Logger
}

func NewHealthHandler(checkers map[string]HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		logger:   logger,
	}
}

// Check godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckWait)
	defer cancel()

	resp := dto.HealthResponse{Status: statusHealthy}
	if len(h.checkers) > 0 {
		resp.Services = make(map[string]string, len(h.checkers))
	}

	for name, checker := range h.checkers {
		if err := checker.Health(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("service", name), zap.Error(err))
			resp.Services[name] = err.Error()
			resp.Status = statusDegraded
			continue
		}
		resp.Services[name] = "ok"
	}

	if resp.Status != statusHealthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
