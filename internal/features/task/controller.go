package task

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type TaskController struct {
	Service TaskService
}

func NewTaskController(service TaskService) *TaskController {
	return &TaskController{Service: service}
}

// CreateTask godoc
// @Summary Create an approval task
// @Description Create a pending approval work item
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body CreateTaskRequest true "Task"
// @Success 201 {object} Task
// @Failure 400 {object} map[string]interface{}
// @Router /api/tasks [post]
func (c *TaskController) CreateTask(ctx *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	task, err := c.Service.CreateTask(ctx.UserContext(), req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(task)
}

// GetTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} Task
// @Failure 404 {object} map[string]interface{}
// @Router /api/tasks/{id} [get]
func (c *TaskController) GetTask(ctx *fiber.Ctx) error {
	taskID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task id"})
	}

	task, err := c.Service.GetTask(ctx.UserContext(), taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(task)
}

// ListTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param module query string false "Module name"
// @Param status query string false "Task status" Enums(pending, approved, rejected)
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {array} Task
// @Failure 500 {object} map[string]interface{}
// @Router /api/tasks [get]
func (c *TaskController) ListTasks(ctx *fiber.Ctx) error {
	filter := map[string]interface{}{}
	if module := ctx.Query("module"); module != "" {
		filter["module"] = module
	}
	if status := ctx.Query("status"); status != "" {
		filter["status"] = status
	}

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}

	tasks, err := c.Service.ListTasks(ctx.UserContext(), filter, limit, (page-1)*limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(tasks)
}
