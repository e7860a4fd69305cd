package cron_feature

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type CronController struct {
	Service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{Service: service}
}

// ExecuteSweep godoc
// @Summary Run retention sweep
// @Description Manually trigger the retention sweep
// @Tags cron
// @Produce json
// @Success 200 {object} SweepLog
// @Failure 500 {object} map[string]interface{}
// @Router /api/cron/sweep [post]
func (c *CronController) ExecuteSweep(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log, err := c.Service.RunRetentionSweep(ctxt)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(log)
}

// GetSweepLogs godoc
// @Summary List retention sweep runs
// @Tags cron
// @Produce json
// @Param limit query int false "Max logs to return"
// @Success 200 {array} SweepLog
// @Failure 500 {object} map[string]interface{}
// @Router /api/cron/sweeps [get]
func (c *CronController) GetSweepLogs(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logs, err := c.Service.GetSweepLogs(ctxt, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(logs)
}
